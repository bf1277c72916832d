// README: Tracking handlers for verification and live order status.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"waypoint/internal/modules/tracking"
)

type TrackingHandler struct {
	tracker *tracking.Service
}

func NewTrackingHandler(tracker *tracking.Service) *TrackingHandler {
	return &TrackingHandler{tracker: tracker}
}

// IssueSession hands the mobile app an opaque session id.
func (h *TrackingHandler) IssueSession(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"session_id": h.tracker.IssueSession()})
}

// CheckVerification reports whether the session already verified the order.
func (h *TrackingHandler) CheckVerification(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order_id": orderID,
		"verified": h.tracker.CheckVerification(sessionID(c), orderID),
	})
}

type verifyRequest struct {
	Identifier string `json:"identifier"`
}

// Verify runs the identity check for an order.
func (h *TrackingHandler) Verify(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	success, err := h.tracker.VerifyIdentity(c.Request.Context(), sessionID(c), orderID, req.Identifier)
	if err != nil {
		writeTrackingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": success})
}

// Track returns the live tracking snapshot for a verified order.
func (h *TrackingHandler) Track(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}
	data, err := h.tracker.TrackingSnapshot(c.Request.Context(), sessionID(c), orderID)
	if err != nil {
		writeTrackingError(c, err)
		return
	}

	resp := gin.H{
		"order_id":  data.Order.ID,
		"status":    data.Order.Status,
		"eta_label": data.Estimate.Label,
		"message":   data.Estimate.Message,
	}
	if data.Estimate.StopsAway != nil {
		resp["stops_away"] = *data.Estimate.StopsAway
		resp["eta_min_minutes"] = *data.Estimate.MinMinutes
		resp["eta_max_minutes"] = *data.Estimate.MaxMinutes
	}
	if p := data.Progress; p != nil {
		resp["route"] = gin.H{
			"label":            p.RouteLabel,
			"zone":             p.Zone,
			"total_stops":      p.TotalStops,
			"completed_stops":  p.CompletedStops,
			"current_stop":     p.CurrentStopSeq,
			"progress_percent": p.ProgressPercent,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// DriverLocation returns the live GPS entry for the order's driver.
func (h *TrackingHandler) DriverLocation(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}
	loc, err := h.tracker.DriverLocation(c.Request.Context(), sessionID(c), orderID)
	if err != nil {
		writeTrackingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"driver_name":  loc.DriverName,
		"latitude":     loc.Latitude,
		"longitude":    loc.Longitude,
		"heading":      loc.Heading,
		"speed":        loc.Speed,
		"last_updated": loc.LastUpdated,
		"is_active":    loc.IsActive,
	})
}

func orderIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}
