// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"waypoint/internal/modules/tracking"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Attempted bool   `json:"attempted,omitempty"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

// writeTrackingError maps facade outcomes to HTTP statuses. Expected
// conditions all have typed errors; anything else is a 500.
func writeTrackingError(c *gin.Context, err error) {
	var vr *tracking.VerificationRequiredError
	switch {
	case errors.As(err, &vr):
		c.JSON(http.StatusForbidden, errorResponse{
			Error:     vr.Error(),
			Code:      "verification_required",
			Attempted: vr.Attempted,
		})
	case errors.Is(err, tracking.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, tracking.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error(), Code: "order_not_found"})
	case errors.Is(err, tracking.ErrNotOutForDelivery):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error(), Code: "not_out_for_delivery"})
	case errors.Is(err, tracking.ErrNoDriver):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error(), Code: "no_driver"})
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// sessionID resolves the caller's session from header or query. The chat
// flow posts it in the body instead.
func sessionID(c *gin.Context) string {
	if v := c.GetHeader("X-Session-ID"); v != "" {
		return v
	}
	return c.Query("session_id")
}
