// README: Order snapshot model and route label handling.
package orders

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPlaced         Status = "PLACED"
	StatusStarted        Status = "STARTED"
	StatusCompleted      Status = "COMPLETED"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
)

// Order is a read-only snapshot of an upstream order record. The tracker
// never mutates upstream data, it only re-fetches it.
type Order struct {
	ID           int64
	Status       Status
	Phone        string
	Email        string
	FirstName    string
	LastName     string
	Address      string
	RouteLabel   string
	DeliverySeq  int
	StoreAddress string
	TotalCents   int64
	PlacedAt     time.Time
	UpdatedAt    time.Time
}

// FullName joins the customer name fields for display and identity checks.
func (o Order) FullName() string {
	return strings.TrimSpace(o.FirstName + " " + o.LastName)
}

// DriverLocation is one entry of the live driver GPS feed.
type DriverLocation struct {
	DriverName  string    `json:"driver_name"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Heading     float64   `json:"heading"`
	Speed       float64   `json:"speed"`
	LastUpdated time.Time `json:"last_updated"`
	IsActive    bool      `json:"is_active"`
}

// NormalizeRouteLabel strips the quoting artifacts the upstream system leaks
// into the route field. `""`, a bare empty string, and quote-wrapped labels
// are a known data-quality issue; the first two mean "no route assigned".
func NormalizeRouteLabel(label string) string {
	label = strings.TrimSpace(label)
	label = strings.Trim(label, `"`)
	return label
}

// ParseRouteLabel splits a label like "giga-north-1.19.26" into its display
// parts: first segment is the driver name, second the zone. The label stays
// an opaque grouping key everywhere else.
func ParseRouteLabel(label string) (driver, zone string) {
	parts := strings.Split(NormalizeRouteLabel(label), "-")
	if len(parts) > 0 {
		driver = parts[0]
	}
	if len(parts) > 1 {
		zone = parts[1]
	}
	return driver, zone
}
