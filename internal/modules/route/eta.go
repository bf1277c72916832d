// README: Delivery-time estimation policy per order status.
package route

import (
	"fmt"

	"waypoint/internal/modules/orders"
)

const (
	avgMinutesPerStop = 12
	dispatchBufferMin = 15
	minOutForDelivery = 5
)

// Estimate is the delivery-time guess shown to a verified caller. StopsAway
// and minute fields are nil when no estimate is available for the status.
type Estimate struct {
	Label      string
	StopsAway  *int
	MinMinutes *int
	MaxMinutes *int
	Message    string
}

// EstimateETA combines order status, delivery sequence, and (when available)
// live route progress into an estimate. Pure apart from nothing: it reads
// only its inputs. The per-status policy is the observable contract the
// caller layers depend on.
func EstimateETA(o orders.Order, progress *Progress) Estimate {
	switch o.Status {
	case orders.StatusDelivered:
		return Estimate{
			Label:      "delivered",
			StopsAway:  intPtr(0),
			MinMinutes: intPtr(0),
			MaxMinutes: intPtr(0),
			Message:    "Your order has been delivered.",
		}
	case orders.StatusCancelled:
		return Estimate{
			Label:      "cancelled",
			StopsAway:  intPtr(0),
			MinMinutes: intPtr(0),
			MaxMinutes: intPtr(0),
			Message:    "This order was cancelled.",
		}
	case orders.StatusPlaced:
		return Estimate{
			Label:   "pending",
			Message: "Your order has been received and is waiting to be packed.",
		}
	case orders.StatusStarted:
		return Estimate{
			Label:   "packing",
			Message: "Your order is being packed. An ETA will be available once it is assigned to a driver.",
		}
	case orders.StatusCompleted:
		stops := stopsAway(o, progress)
		min := stops*avgMinutesPerStop + dispatchBufferMin
		max := min + dispatchBufferMin
		return Estimate{
			Label:      fmt.Sprintf("%d-%d min", min, max),
			StopsAway:  intPtr(stops),
			MinMinutes: intPtr(min),
			MaxMinutes: intPtr(max),
			Message:    fmt.Sprintf("Your order is packed and waiting for dispatch, about %d stops out. Estimated %d-%d minutes.", stops, min, max),
		}
	case orders.StatusOutForDelivery:
		stops := stopsAway(o, progress)
		min := stops * avgMinutesPerStop
		if min < minOutForDelivery {
			min = minOutForDelivery
		}
		max := min + dispatchBufferMin
		msg := fmt.Sprintf("Your order is out for delivery, %d stops away. Estimated %d-%d minutes.", stops, min, max)
		if stops == 0 {
			msg = "Your driver is arriving imminently!"
		}
		return Estimate{
			Label:      fmt.Sprintf("%d-%d min", min, max),
			StopsAway:  intPtr(stops),
			MinMinutes: intPtr(min),
			MaxMinutes: intPtr(max),
			Message:    msg,
		}
	default:
		return Estimate{
			Label:   "calculating",
			Message: "We're calculating your delivery estimate. Check back in a moment.",
		}
	}
}

// stopsAway prefers live route progress; without it the delivery sequence
// itself is the best available proxy.
func stopsAway(o orders.Order, progress *Progress) int {
	if progress == nil {
		return o.DeliverySeq
	}
	stops := o.DeliverySeq - progress.CompletedStops
	if stops < 0 {
		stops = 0
	}
	return stops
}

func intPtr(v int) *int { return &v }
