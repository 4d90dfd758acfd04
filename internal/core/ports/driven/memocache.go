package driven

import "github.com/ancientnerds/relica/internal/core/domain"

// MemoCache is the short-lived in-process memo cache for aggregated
// query responses. Entries expire a fixed TTL after insertion (not
// last access) and the cache holds a fixed number of entries, evicting
// the single oldest-inserted entry when full. Access does not refresh
// an entry's position.
type MemoCache interface {
	// Get returns a copy of the cached response marked Cached=true,
	// or nil and false on miss or expiry. Expired entries are treated
	// as misses but are not eagerly deleted.
	Get(key string) (*domain.ContentSearchResponse, bool)

	// Set inserts or overwrites the entry for key. Overwriting keeps
	// the key's original insertion position.
	Set(key string, resp *domain.ContentSearchResponse)

	// Len reports the number of stored entries, expired or not.
	Len() int
}
