// Package memo implements the short-lived in-process memo cache for
// aggregated query responses.
//
// Entries expire a fixed TTL after insertion, measured from insertion
// rather than last access. The cache holds at most a fixed number of
// entries; inserting beyond capacity evicts the single oldest-inserted
// entry. Access never refreshes an entry's position - this is a
// deliberate simplification of LRU and part of the cache's contract.
package memo

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/ancientnerds/relica/internal/core/domain"
	"github.com/ancientnerds/relica/internal/core/ports/driven"
)

const (
	// DefaultTTL is how long an entry is served after insertion.
	DefaultTTL = 5 * time.Minute

	// DefaultCapacity is the maximum number of stored entries.
	DefaultCapacity = 100
)

// Ensure Cache implements the interface.
var _ driven.MemoCache = (*Cache)(nil)

// entry is a stored response with its insertion timestamp.
type entry struct {
	resp       domain.ContentSearchResponse
	insertedAt time.Time
}

// Cache is a TTL memo cache with insertion-order eviction.
type Cache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	entries  map[string]*entry
	order    []string // insertion order, oldest first
	now      func() time.Time
}

// Option configures the cache.
type Option func(*Cache)

// WithTTL overrides the default TTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCapacity overrides the default capacity.
func WithCapacity(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithClock overrides the time source. Useful for testing expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a memo cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		ttl:      DefaultTTL,
		capacity: DefaultCapacity,
		entries:  make(map[string]*entry),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key builds the deterministic cache key for an endpoint and its
// parameters. json.Marshal emits map keys in sorted order, so
// identical requests from different call sites produce the same key
// regardless of how the params map was assembled.
func Key(endpoint string, params map[string]any) string {
	if len(params) == 0 {
		return endpoint
	}
	b, err := json.Marshal(params)
	if err != nil {
		// Params are plain strings and numbers; marshalling cannot
		// realistically fail, but fall back to the endpoint alone.
		return endpoint
	}
	return endpoint + string(b)
}

// Get returns a copy of the cached response marked Cached=true, or
// nil and false on miss or expiry. Expired entries are not deleted.
func (c *Cache) Get(key string) (*domain.ContentSearchResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.insertedAt) >= c.ttl {
		return nil, false
	}

	resp := e.resp
	resp.Cached = true
	return &resp, true
}

// Set inserts or overwrites the entry for key. Overwriting an existing
// key keeps its original insertion position. After an insertion pushes
// the cache over capacity, the oldest-inserted entry is evicted.
func (c *Cache) Set(key string, resp *domain.ContentSearchResponse) {
	if resp == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.resp = *resp
		e.insertedAt = c.now()
		return
	}

	c.entries[key] = &entry{resp: *resp, insertedAt: c.now()}
	c.order = append(c.order, key)

	if len(c.entries) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
