// README: HTTP client for the upstream order and driver APIs.
package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	windowDaysBack    = 60
	windowDaysForward = 7
)

// Client fetches order and driver data from the upstream dispatch API. All
// calls carry a bounded timeout via the injected http.Client; a hung upstream
// must fail by timeout rather than stall cache readers.
type Client struct {
	baseURL string
	token   string
	storeID string
	http    *http.Client
}

func NewClient(baseURL, token, storeID string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		storeID: storeID,
		http:    &http.Client{Timeout: timeout},
	}
}

// orderRecord mirrors the upstream wire shape. Route labels arrive with
// inconsistent quoting and are normalized at decode time.
type orderRecord struct {
	ID           int64   `json:"id"`
	Status       string  `json:"status"`
	Phone        string  `json:"phone"`
	Email        string  `json:"email"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Address      string  `json:"address"`
	Route        string  `json:"route"`
	DeliverySeq  int     `json:"delivery_sequence"`
	StoreAddress string  `json:"store_address"`
	Total        float64 `json:"total"`
	PlacedAt     string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type ordersResponse struct {
	Items []orderRecord `json:"items"`
}

type driversResponse struct {
	Drivers []DriverLocation `json:"drivers"`
}

// FetchOrders pulls the wide order window (60 days back, 7 days forward).
func (c *Client) FetchOrders(ctx context.Context) ([]Order, error) {
	now := time.Now()
	q := url.Values{}
	q.Set("store_id", c.storeID)
	q.Set("start_date", now.AddDate(0, 0, -windowDaysBack).Format("2006-01-02"))
	q.Set("end_date", now.AddDate(0, 0, windowDaysForward).Format("2006-01-02"))

	var resp ordersResponse
	if err := c.get(ctx, "/api/orders?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return toOrders(resp.Items), nil
}

// FetchTodaysOrders pulls today's orders, which carry fresher status and
// route assignments than the wide window.
func (c *Client) FetchTodaysOrders(ctx context.Context) ([]Order, error) {
	var resp ordersResponse
	if err := c.get(ctx, "/api/orders/today", &resp); err != nil {
		return nil, err
	}
	return toOrders(resp.Items), nil
}

// FetchDriverLocations pulls the live GPS feed.
func (c *Client) FetchDriverLocations(ctx context.Context) ([]DriverLocation, error) {
	var resp driversResponse
	if err := c.get(ctx, "/api/drivers/locations", &resp); err != nil {
		return nil, err
	}
	return resp.Drivers, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building upstream request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream call %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream call %s: status %d", path, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding upstream response %s: %w", path, err)
	}
	return nil
}

func toOrders(records []orderRecord) []Order {
	out := make([]Order, 0, len(records))
	for _, r := range records {
		out = append(out, Order{
			ID:           r.ID,
			Status:       Status(r.Status),
			Phone:        r.Phone,
			Email:        r.Email,
			FirstName:    r.FirstName,
			LastName:     r.LastName,
			Address:      r.Address,
			RouteLabel:   NormalizeRouteLabel(r.Route),
			DeliverySeq:  r.DeliverySeq,
			StoreAddress: r.StoreAddress,
			TotalCents:   int64(r.Total * 100),
			PlacedAt:     parseUpstreamTime(r.PlacedAt),
			UpdatedAt:    parseUpstreamTime(r.UpdatedAt),
		})
	}
	return out
}

func parseUpstreamTime(v string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
