package connectors

import (
	"sync"
	"time"

	"github.com/ancientnerds/relica/internal/core/domain"
)

// DefaultQueryTTL is how long a connector serves a cached query result
// before going upstream again. Kept short because providers update
// rarely but rate limits bite quickly.
const DefaultQueryTTL = 15 * time.Minute

// queryEntry is one cached result list with its insertion time.
type queryEntry struct {
	items      []domain.ContentItem
	insertedAt time.Time
}

// QueryCache is the per-connector short-TTL cache keyed by normalised
// query plus disambiguating context. Stale entries are retained so a
// rate-limited connector can fall back to its last known value.
type QueryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]queryEntry
	now     func() time.Time
}

// NewQueryCache creates a query cache. A non-positive ttl selects the
// default.
func NewQueryCache(ttl time.Duration) *QueryCache {
	if ttl <= 0 {
		ttl = DefaultQueryTTL
	}
	return &QueryCache{
		ttl:     ttl,
		entries: make(map[string]queryEntry),
		now:     time.Now,
	}
}

// SetClock overrides the time source. Useful for testing expiry.
func (c *QueryCache) SetClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// Get returns the cached items if the entry is still fresh.
func (c *QueryCache) Get(key string) ([]domain.ContentItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.insertedAt) >= c.ttl {
		return nil, false
	}
	return e.items, true
}

// GetStale returns the cached items regardless of age. Used as the
// fallback when the provider rate-limits a refresh.
func (c *QueryCache) GetStale(key string) ([]domain.ContentItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.items, true
}

// Set inserts or overwrites the entry for key.
func (c *QueryCache) Set(key string, items []domain.ContentItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = queryEntry{items: items, insertedAt: c.now()}
}
