// README: Route progress handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"waypoint/internal/modules/tracking"
)

type RouteHandler struct {
	tracker *tracking.Service
}

func NewRouteHandler(tracker *tracking.Service) *RouteHandler {
	return &RouteHandler{tracker: tracker}
}

// Progress reports delivery progress for one route label. Carries no
// customer data, so no verification gate.
func (h *RouteHandler) Progress(c *gin.Context) {
	label := c.Param("label")
	p := h.tracker.RouteProgress(c.Request.Context(), label)
	if p == nil {
		writeError(c, http.StatusNotFound, "no active route with that label")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"label":            p.RouteLabel,
		"driver":           p.DriverName,
		"zone":             p.Zone,
		"total_stops":      p.TotalStops,
		"completed_stops":  p.CompletedStops,
		"current_stop":     p.CurrentStopSeq,
		"last_delivered":   p.LastDeliveredSeq,
		"progress_percent": p.ProgressPercent,
	})
}
