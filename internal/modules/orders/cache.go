// README: Time-bounded order cache shielding the upstream API from request storms.
package orders

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	WideTTL  = 30 * time.Second
	TodayTTL = 10 * time.Second
)

// Fetcher is the upstream surface the cache refreshes from.
type Fetcher interface {
	FetchOrders(ctx context.Context) ([]Order, error)
	FetchTodaysOrders(ctx context.Context) ([]Order, error)
	FetchDriverLocations(ctx context.Context) ([]DriverLocation, error)
}

type snapshot struct {
	orders    []Order
	fetchedAt time.Time
}

// Cache serves two independent TTL-bounded order snapshots: a wide window
// that is the system of record, and a "today" set with fresher status. A
// stale snapshot is still served when a refresh fails; live tracking
// tolerates staleness better than downtime.
//
// The mutex only guards snapshot swaps and reads. Fetches run outside it, so
// readers keep getting the stale snapshot during a refresh-in-flight. Two
// concurrent misses may both fetch; last write wins with an intact snapshot.
type Cache struct {
	fetcher  Fetcher
	log      *slog.Logger
	wideTTL  time.Duration
	todayTTL time.Duration
	now      func() time.Time

	mu      sync.Mutex
	wide    *snapshot
	today   *snapshot
	drivers []DriverLocation
}

func NewCache(fetcher Fetcher, log *slog.Logger) *Cache {
	return &Cache{
		fetcher:  fetcher,
		log:      log,
		wideTTL:  WideTTL,
		todayTTL: TodayTTL,
		now:      time.Now,
	}
}

// Orders returns the wide-window order set, refreshing it when the snapshot
// is older than its TTL. Never returns an error: a failed refresh serves the
// previous snapshot, or an empty set if none exists yet.
func (c *Cache) Orders(ctx context.Context) []Order {
	if snap := c.fresh(&c.wide, c.wideTTL); snap != nil {
		return snap.orders
	}
	fetched, err := c.fetcher.FetchOrders(ctx)
	if err != nil {
		return c.stale(&c.wide, "orders", err)
	}
	return c.swap(&c.wide, fetched)
}

// TodaysOrders returns today's order set under its shorter TTL.
func (c *Cache) TodaysOrders(ctx context.Context) []Order {
	if snap := c.fresh(&c.today, c.todayTTL); snap != nil {
		return snap.orders
	}
	fetched, err := c.fetcher.FetchTodaysOrders(ctx)
	if err != nil {
		return c.stale(&c.today, "todays_orders", err)
	}
	return c.swap(&c.today, fetched)
}

// DriverLocations always fetches; the GPS feed is cheap and must reflect
// live positions. The last good feed is kept only as the failure fallback.
func (c *Cache) DriverLocations(ctx context.Context) []DriverLocation {
	fetched, err := c.fetcher.FetchDriverLocations(ctx)
	if err != nil {
		c.log.Warn("driver feed fetch failed, serving last known", "err", err)
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.drivers == nil {
			return []DriverLocation{}
		}
		return c.drivers
	}
	c.mu.Lock()
	c.drivers = fetched
	c.mu.Unlock()
	return fetched
}

// FindOrder scans the wide window for a numeric order id.
func (c *Cache) FindOrder(ctx context.Context, id int64) (Order, bool) {
	for _, o := range c.Orders(ctx) {
		if o.ID == id {
			return o, true
		}
	}
	return Order{}, false
}

// OrderWithLiveStatus prefers today's snapshot for an order, because it
// reflects route and packing assignments made in the last few hours, then
// falls back to the wide window for anything older.
func (c *Cache) OrderWithLiveStatus(ctx context.Context, id int64) (Order, bool) {
	for _, o := range c.TodaysOrders(ctx) {
		if o.ID == id {
			return o, true
		}
	}
	return c.FindOrder(ctx, id)
}

func (c *Cache) fresh(slot **snapshot, ttl time.Duration) *snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := *slot
	if snap != nil && c.now().Sub(snap.fetchedAt) < ttl {
		return snap
	}
	return nil
}

func (c *Cache) swap(slot **snapshot, orders []Order) []Order {
	snap := &snapshot{orders: orders, fetchedAt: c.now()}
	c.mu.Lock()
	*slot = snap
	c.mu.Unlock()
	return orders
}

func (c *Cache) stale(slot **snapshot, name string, err error) []Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := *slot
	if snap == nil {
		c.log.Warn("upstream fetch failed with no prior snapshot", "feed", name, "err", err)
		return []Order{}
	}
	c.log.Warn("upstream fetch failed, serving stale snapshot",
		"feed", name,
		"age", c.now().Sub(snap.fetchedAt).String(),
		"err", err,
	)
	return snap.orders
}
