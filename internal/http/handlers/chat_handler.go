// README: Chat handler; routes messages by intent and drives verification.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"waypoint/internal/chat"
	"waypoint/internal/modules/tracking"
)

type ChatHandler struct {
	tracker  *tracking.Service
	fallback *chat.GeminiClassifier
	log      *slog.Logger
}

// NewChatHandler wires the conversational surface. fallback may be nil;
// classification is then keyword-only.
func NewChatHandler(tracker *tracking.Service, fallback *chat.GeminiClassifier, log *slog.Logger) *ChatHandler {
	return &ChatHandler{tracker: tracker, fallback: fallback, log: log}
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func (h *ChatHandler) Message(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.SessionID == "" || strings.TrimSpace(req.Message) == "" {
		writeError(c, http.StatusBadRequest, "session_id and message are required")
		return
	}

	reply := h.reply(c.Request.Context(), req.SessionID, req.Message)
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *ChatHandler) reply(ctx context.Context, sessionID, message string) string {
	cls := chat.Classify(message)
	if cls.Intent == chat.IntentUnknown && h.fallback != nil {
		if _, waiting := h.tracker.PendingVerification(sessionID); !waiting {
			parsed, err := h.fallback.ParseIntent(ctx, message)
			if err != nil {
				h.log.Warn("gemini fallback failed", "err", err)
			} else {
				cls = parsed
			}
		}
	}

	switch cls.Intent {
	case chat.IntentHelp:
		return chat.HelpMessage
	case chat.IntentTrackOrder:
		return h.track(ctx, sessionID, cls.OrderID)
	case chat.IntentDriverLocation:
		return h.driver(ctx, sessionID, cls.OrderID)
	case chat.IntentRouteStatus:
		return h.routeStatus(ctx, sessionID, cls.OrderID)
	default:
		return h.freeText(ctx, sessionID, message)
	}
}

// freeText handles messages with no recognized intent. When the session is
// mid-verification the text is the identifier; otherwise point at help.
func (h *ChatHandler) freeText(ctx context.Context, sessionID, message string) string {
	pending, ok := h.tracker.PendingVerification(sessionID)
	if !ok {
		return chat.HelpMessage
	}

	success, err := h.tracker.VerifyIdentity(ctx, sessionID, pending.OrderID, message)
	if err != nil {
		h.log.Warn("chat verification errored", "order_id", pending.OrderID, "err", err)
		return chat.RenderVerificationPrompt(pending.OrderID, false)
	}
	if !success {
		return chat.RenderVerificationPrompt(pending.OrderID, true)
	}
	return h.track(ctx, sessionID, pending.OrderID)
}

func (h *ChatHandler) track(ctx context.Context, sessionID string, orderID int64) string {
	if orderID == 0 {
		if pending, ok := h.tracker.PendingVerification(sessionID); ok {
			orderID = pending.OrderID
		} else {
			return "Which order? Tell me the order number."
		}
	}

	data, err := h.tracker.TrackingSnapshot(ctx, sessionID, orderID)
	if err != nil {
		return h.errorReply(orderID, err)
	}
	return chat.RenderTrackingMessage(data)
}

func (h *ChatHandler) driver(ctx context.Context, sessionID string, orderID int64) string {
	if orderID == 0 {
		if pending, ok := h.tracker.PendingVerification(sessionID); ok {
			orderID = pending.OrderID
		} else {
			return "Which order's driver? Tell me the order number."
		}
	}

	loc, err := h.tracker.DriverLocation(ctx, sessionID, orderID)
	if err != nil {
		return h.errorReply(orderID, err)
	}
	return fmt.Sprintf("%s is at %.5f, %.5f (updated %s).",
		loc.DriverName, loc.Latitude, loc.Longitude, loc.LastUpdated.Format("15:04"))
}

func (h *ChatHandler) routeStatus(ctx context.Context, sessionID string, orderID int64) string {
	if orderID == 0 {
		return "Tell me an order number and I'll look up its route."
	}
	data, err := h.tracker.TrackingSnapshot(ctx, sessionID, orderID)
	if err != nil {
		return h.errorReply(orderID, err)
	}
	return chat.RenderRouteProgress(data.Progress)
}

func (h *ChatHandler) errorReply(orderID int64, err error) string {
	var vr *tracking.VerificationRequiredError
	switch {
	case errors.As(err, &vr):
		return chat.RenderVerificationPrompt(orderID, vr.Attempted)
	case errors.Is(err, tracking.ErrOrderNotFound):
		return fmt.Sprintf("I couldn't find order #%d. Double-check the number?", orderID)
	case errors.Is(err, tracking.ErrNotOutForDelivery):
		return "That order isn't out for delivery yet, so there's no driver to show."
	case errors.Is(err, tracking.ErrNoDriver):
		return "I don't have a live position for that driver right now."
	default:
		return "Something went wrong on my end. Try again in a moment."
	}
}
