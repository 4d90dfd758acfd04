package driven

import (
	"context"

	"github.com/ancientnerds/relica/internal/core/domain"
)

// Gateway is the typed client for the unified backend aggregation
// endpoint. Every operation is offline-aware: when offline it returns
// an empty, well-formed response immediately without touching the
// network or the memo cache.
type Gateway interface {
	// Search performs a free-text aggregation search.
	Search(ctx context.Context, req domain.SearchRequest) (*domain.ContentSearchResponse, error)

	// ByLocation aggregates content near a coordinate.
	ByLocation(ctx context.Context, req domain.LocationRequest) (*domain.ContentSearchResponse, error)

	// BySite aggregates content for a named site.
	BySite(ctx context.Context, req domain.SiteRequest) (*domain.ContentSearchResponse, error)

	// BySiteTier is BySite with the tier's fixed content types and
	// timeout injected, under a tier-qualified cache key so tiers
	// never collide in the memo cache.
	BySiteTier(ctx context.Context, req domain.SiteRequest, tier domain.Tier) (*domain.ContentSearchResponse, error)

	// ByEmpire aggregates content for a historical polity.
	ByEmpire(ctx context.Context, req domain.EmpireRequest) (*domain.ContentSearchResponse, error)

	// ByEmpireTier is ByEmpire with tier injection, mirroring BySiteTier.
	ByEmpireTier(ctx context.Context, req domain.EmpireRequest, tier domain.Tier) (*domain.ContentSearchResponse, error)

	// Sources lists the providers known to the backend.
	Sources(ctx context.Context) ([]string, error)

	// Types lists the content types known to the backend.
	Types(ctx context.Context) ([]domain.ContentType, error)
}
