package driven

import "context"

// Blob cache namespaces. One namespace per durable cache.
const (
	// NamespaceHero holds hero images keyed by URL.
	NamespaceHero = "hero"

	// NamespaceDatasets holds dataset manifests and auxiliary files.
	NamespaceDatasets = "datasets"
)

// BlobStore is a durable key-to-binary cache with LRU-style eviction.
// Keys are scoped by namespace so independent caches never collide.
// Implementations persist across restarts.
type BlobStore interface {
	// Get returns the blob for key, updating its last-access time.
	// Returns domain.ErrNotFound when the key is absent.
	Get(ctx context.Context, namespace, key string) ([]byte, error)

	// Put stores the blob, then evicts least-recently-accessed entries
	// while the namespace exceeds its byte budget.
	Put(ctx context.Context, namespace, key string, data []byte) error

	// Delete removes the blob. Deleting an absent key is not an error.
	Delete(ctx context.Context, namespace, key string) error

	// Keys lists all keys in the namespace.
	Keys(ctx context.Context, namespace string) ([]string, error)
}
