package driven

import (
	"context"

	"github.com/ancientnerds/relica/internal/core/domain"
)

// Provider is a legacy direct provider client (historical map search,
// 3D model catalogue, encyclopaedic summaries). Each implementation is
// independently offline-aware and cached.
//
// Search never propagates provider-side failures: rate limiting falls
// back to the last cached value for the query, and any other provider
// error degrades to an empty result with a logged warning. The only
// error returned is context cancellation.
type Provider interface {
	// Name returns the provider identifier (e.g. "oldmaps").
	Name() string

	// Tier returns the tier number whose fetch this provider joins.
	Tier() int

	// Search fetches content items for a free-text query. The query is
	// normalised internally before being sent upstream.
	Search(ctx context.Context, query string, opts ProviderOptions) ([]domain.ContentItem, error)
}

// ProviderOptions carries disambiguating context for a provider search.
type ProviderOptions struct {
	// Country biases results and participates in per-provider cache keys.
	Country string

	// Limit caps the number of items returned. Zero means the
	// provider's default.
	Limit int
}
