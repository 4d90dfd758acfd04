package driving

import (
	"context"

	"github.com/ancientnerds/relica/internal/core/domain"
)

// FetchState is the orchestrator lifecycle state for the current entity.
type FetchState string

const (
	// StateIdle means no entity is selected.
	StateIdle FetchState = "idle"

	// StateTierFetching means at least one tier is requested but
	// not yet resolved.
	StateTierFetching FetchState = "fetching"

	// StateSettled means every issued tier has resolved.
	StateSettled FetchState = "settled"
)

// AggregateSnapshot is a point-in-time view of the orchestrator's
// results for the current entity.
type AggregateSnapshot struct {
	// Identity is the entity the snapshot belongs to, nil when idle.
	Identity *domain.EntityIdentity

	// State is the lifecycle state.
	State FetchState

	// Grouped partitions all merged items into the eight fixed tabs.
	Grouped domain.GroupedGallery

	// Hero is the representative item, nil when none qualifies.
	Hero *domain.UnifiedGalleryItem

	// Loading maps tier number to "requested but not yet resolved",
	// independent of whether the eventual result is empty.
	Loading map[int]bool
}

// Aggregator sequences tiered fetches for one entity view, guarding
// against duplicate fetches, deduplicating overlapping results and
// selecting the hero item.
type Aggregator interface {
	// Select switches the subject entity. Tier 1 is issued
	// immediately; the staggered tiers follow on their fixed delays
	// measured from selection. In-flight results for a previous
	// identity stop contributing on arrival. Each identity triggers
	// at most one fetch per tier for its lifetime in the view.
	Select(ctx context.Context, identity domain.EntityIdentity)

	// RequestTier issues an on-demand tier (texts) for the current
	// entity, subject to the same re-fetch guard.
	RequestTier(ctx context.Context, tierNumber int) error

	// Snapshot returns the current aggregate view.
	Snapshot() AggregateSnapshot

	// OnUpdate registers a callback invoked after every merge and
	// returns its unsubscribe function.
	OnUpdate(fn func()) (unsubscribe func())

	// Wait blocks until the current entity settles or ctx is done.
	Wait(ctx context.Context) error
}
