// README: Route progress derivation from the cached order set.
package route

import (
	"math"
	"sort"

	"waypoint/internal/modules/orders"
)

// Progress describes how far a delivery run has gotten. It is derived from
// the current cache snapshot on every request and never stored: upstream
// reassigns orders between routes, so a cached Progress would drift.
type Progress struct {
	RouteLabel       string
	DriverName       string
	Zone             string
	Stops            []orders.Order
	TotalStops       int
	CompletedStops   int
	CurrentStopSeq   int
	LastDeliveredSeq int
	ProgressPercent  int
}

// Compute filters the order set to the given route, sorts by delivery
// sequence, and derives the progress counters. Returns nil for an empty or
// unassigned label and for routes with no orders.
func Compute(all []orders.Order, label string) *Progress {
	label = orders.NormalizeRouteLabel(label)
	if label == "" {
		return nil
	}

	var stops []orders.Order
	for _, o := range all {
		if orders.NormalizeRouteLabel(o.RouteLabel) == label {
			stops = append(stops, o)
		}
	}
	if len(stops) == 0 {
		return nil
	}

	// Missing sequence defaults to 0 and sorts first.
	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].DeliverySeq < stops[j].DeliverySeq
	})

	delivered := 0
	for _, o := range stops {
		if o.Status == orders.StatusDelivered {
			delivered++
		}
	}

	// Current stop is the first in sequence order not yet delivered; when
	// everything is delivered the run is terminal and current equals the
	// stop count.
	current := len(stops)
	for _, o := range stops {
		if o.Status != orders.StatusDelivered {
			current = o.DeliverySeq
			break
		}
	}

	// Last delivered is the highest-sequence delivered stop. A sequence
	// proxy for where the driver physically is, not a timestamp one.
	lastDelivered := 0
	for i := len(stops) - 1; i >= 0; i-- {
		if stops[i].Status == orders.StatusDelivered {
			lastDelivered = stops[i].DeliverySeq
			break
		}
	}

	driver, zone := orders.ParseRouteLabel(label)
	return &Progress{
		RouteLabel:       label,
		DriverName:       driver,
		Zone:             zone,
		Stops:            stops,
		TotalStops:       len(stops),
		CompletedStops:   delivered,
		CurrentStopSeq:   current,
		LastDeliveredSeq: lastDelivered,
		ProgressPercent:  int(math.Round(float64(delivered) / float64(len(stops)) * 100)),
	}
}
