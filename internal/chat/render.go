// README: Chat reply rendering; pure functions of tracking data.
package chat

import (
	"fmt"
	"strings"

	"waypoint/internal/modules/orders"
	"waypoint/internal/modules/route"
	"waypoint/internal/modules/tracking"
)

// RenderTrackingMessage turns a tracking snapshot into the chat reply. Pure;
// all data assembly happens in the tracking facade.
func RenderTrackingMessage(data tracking.TrackingData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%d — %s\n", data.Order.ID, statusLine(data))
	b.WriteString(data.Estimate.Message)

	if p := data.Progress; p != nil && data.Order.Status == orders.StatusOutForDelivery {
		fmt.Fprintf(&b, "\nRoute progress: %d of %d stops done (%d%%).",
			p.CompletedStops, p.TotalStops, p.ProgressPercent)
	}
	return b.String()
}

// RenderVerificationPrompt asks the caller to prove ownership. The retry
// variant acknowledges the failed attempt without saying which field missed.
func RenderVerificationPrompt(orderID int64, attempted bool) string {
	if attempted {
		return fmt.Sprintf("That didn't match what we have on file for order #%d. Try the phone number, email, or name the order was placed under.", orderID)
	}
	return fmt.Sprintf("Before I can share details for order #%d, please confirm the phone number, email, or name on the order.", orderID)
}

// RenderRouteProgress summarizes a delivery run.
func RenderRouteProgress(p *route.Progress) string {
	if p == nil {
		return "I couldn't find an active route by that name."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Route %s (%s zone): %d of %d stops delivered, %d%% done.",
		p.RouteLabel, p.Zone, p.CompletedStops, p.TotalStops, p.ProgressPercent)
	if p.CompletedStops < p.TotalStops {
		fmt.Fprintf(&b, " The driver is on stop %d.", p.CurrentStopSeq)
	}
	return b.String()
}

const HelpMessage = "I can track your delivery. Tell me your order number, and once you confirm the phone, email, or name on the order I'll share live status, ETA, and the driver's position."

func statusLine(data tracking.TrackingData) string {
	switch data.Order.Status {
	case orders.StatusPlaced:
		return "received"
	case orders.StatusStarted:
		return "being packed"
	case orders.StatusCompleted:
		return "packed, awaiting dispatch"
	case orders.StatusOutForDelivery:
		return "out for delivery"
	case orders.StatusDelivered:
		return "delivered"
	case orders.StatusCancelled:
		return "cancelled"
	default:
		return strings.ToLower(string(data.Order.Status))
	}
}
