package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ancientnerds/relica/internal/core/domain"
	"github.com/ancientnerds/relica/internal/core/ports/driven"
	"github.com/ancientnerds/relica/internal/core/ports/driving"
	"github.com/ancientnerds/relica/internal/logger"
)

// boundaryPrefetchTier is the tier whose resolution also triggers the
// bulk boundary-dataset prefetch for polities.
const boundaryPrefetchTier = 3

// heroCacheTimeout bounds the background download of a hero image.
const heroCacheTimeout = 30 * time.Second

// Orchestrator sequences the tiered content fetches for one selected
// entity. Tier 1 is issued immediately on selection and the staggered
// tiers follow on fixed delays measured from selection, so tiers can
// overlap in flight. Results are deduplicated, partitioned into the
// fixed display tabs and merged incrementally as each tier resolves.
//
// Every fetch carries the selection token current when it was issued.
// Selecting a different entity rotates the token, so results still in
// flight for the previous entity are discarded on arrival instead of
// contaminating the new view.
type Orchestrator struct {
	gateway   driven.Gateway
	offline   driving.OfflineController
	providers []driven.Provider
	blobs     driven.BlobStore
	datasets  *DatasetService

	// manifestURL derives the boundary manifest URL for a polity ID.
	manifestURL func(empireID string) string

	mu          sync.Mutex
	identity    *domain.EntityIdentity
	token       uuid.UUID
	state       driving.FetchState
	grouped     domain.GroupedGallery
	hero        *domain.UnifiedGalleryItem
	loading     map[int]bool
	lastFetched map[int]string
	seen        map[domain.GalleryTab]map[string]bool
	outstanding int
	settled     chan struct{}
	settledDone bool
	timers      []*time.Timer
	listeners   []orchListener
	nextID      int
}

type orchListener struct {
	id int
	fn func()
}

var _ driving.Aggregator = (*Orchestrator)(nil)

// OrchestratorOption configures optional orchestrator behaviour.
type OrchestratorOption func(*Orchestrator)

// WithProviders attaches direct provider clients. Each provider joins
// the fetch of the tier it reports.
func WithProviders(providers ...driven.Provider) OrchestratorOption {
	return func(o *Orchestrator) {
		o.providers = append(o.providers, providers...)
	}
}

// WithHeroCache enables background caching of hero image bytes into
// the durable blob store.
func WithHeroCache(blobs driven.BlobStore) OrchestratorOption {
	return func(o *Orchestrator) {
		o.blobs = blobs
	}
}

// WithBoundaryPrefetch enables the bulk boundary-dataset prefetch for
// polities. manifestURL maps a polity ID to its manifest location.
func WithBoundaryPrefetch(datasets *DatasetService, manifestURL func(empireID string) string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.datasets = datasets
		o.manifestURL = manifestURL
	}
}

// NewOrchestrator creates an orchestrator in the idle state.
func NewOrchestrator(gateway driven.Gateway, offline driving.OfflineController, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		gateway:     gateway,
		offline:     offline,
		state:       driving.StateIdle,
		grouped:     GroupByTab(nil),
		loading:     make(map[int]bool),
		lastFetched: make(map[int]string),
		seen:        make(map[domain.GalleryTab]map[string]bool),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Select switches the subject entity and schedules the automatic
// tiers. Reselecting the identity already current is a no-op: the
// re-fetch guard suppresses duplicate scheduling and in-flight fetches
// keep contributing under their existing token.
func (o *Orchestrator) Select(ctx context.Context, identity domain.EntityIdentity) {
	o.mu.Lock()
	if o.identity != nil && o.identity.Key() == identity.Key() {
		o.mu.Unlock()
		logger.Debug("Entity %s already selected", identity.Key())
		return
	}

	o.stopTimersLocked()
	o.closeSettledLocked() // release waiters of the previous entity

	o.identity = &identity
	o.token = uuid.New()
	o.grouped = GroupByTab(nil)
	o.hero = nil
	o.loading = make(map[int]bool)
	o.seen = make(map[domain.GalleryTab]map[string]bool)
	o.outstanding = 0
	o.settled = make(chan struct{})
	o.settledDone = false

	logger.Info("Selected %s %q", identity.Kind, identity.Name)

	for _, tier := range domain.Tiers {
		if tier.OnDemand {
			continue
		}
		if o.lastFetched[tier.Number] == identity.Key() {
			continue
		}
		o.scheduleLocked(ctx, o.token, identity, tier)
	}

	if o.outstanding == 0 {
		o.state = driving.StateSettled
		o.closeSettledLocked()
	}
	o.mu.Unlock()
}

// RequestTier issues an on-demand tier for the current entity. The
// re-fetch guard applies: a tier already issued for this identity is
// a no-op.
func (o *Orchestrator) RequestTier(ctx context.Context, tierNumber int) error {
	tier := domain.TierByNumber(tierNumber)
	if tier == nil {
		return fmt.Errorf("%w: no tier %d", domain.ErrInvalidInput, tierNumber)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.identity == nil {
		return domain.ErrNoEntity
	}
	identity := *o.identity
	if o.lastFetched[tierNumber] == identity.Key() {
		return nil
	}

	if o.settledDone {
		o.settled = make(chan struct{})
		o.settledDone = false
	}
	o.scheduleLocked(ctx, o.token, identity, *tier)
	return nil
}

// Snapshot returns a copy of the current aggregate view.
func (o *Orchestrator) Snapshot() driving.AggregateSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	grouped := make(domain.GroupedGallery, len(o.grouped))
	for tab, items := range o.grouped {
		grouped[tab] = append([]domain.UnifiedGalleryItem{}, items...)
	}
	loading := make(map[int]bool, len(o.loading))
	for tier, pending := range o.loading {
		loading[tier] = pending
	}

	var hero *domain.UnifiedGalleryItem
	if o.hero != nil {
		h := *o.hero
		hero = &h
	}
	var identity *domain.EntityIdentity
	if o.identity != nil {
		id := *o.identity
		identity = &id
	}

	return driving.AggregateSnapshot{
		Identity: identity,
		State:    o.state,
		Grouped:  grouped,
		Hero:     hero,
		Loading:  loading,
	}
}

// OnUpdate registers a callback invoked after every merge. The
// returned function unsubscribes it.
func (o *Orchestrator) OnUpdate(fn func()) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextID++
	id := o.nextID
	o.listeners = append(o.listeners, orchListener{id: id, fn: fn})

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		for i, l := range o.listeners {
			if l.id == id {
				o.listeners = append(o.listeners[:i], o.listeners[i+1:]...)
				return
			}
		}
	}
}

// Wait blocks until every issued tier for the current entity has
// resolved, or ctx is done. Returns immediately when idle.
func (o *Orchestrator) Wait(ctx context.Context) error {
	o.mu.Lock()
	ch := o.settled
	o.mu.Unlock()

	if ch == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ch:
		return nil
	}
}

// scheduleLocked records the tier as issued for this identity, marks
// it loading and starts the fetch, delayed when the tier staggers.
// Callers hold o.mu.
func (o *Orchestrator) scheduleLocked(ctx context.Context, token uuid.UUID, identity domain.EntityIdentity, tier domain.Tier) {
	o.lastFetched[tier.Number] = identity.Key()
	o.loading[tier.Number] = true
	o.outstanding++
	o.state = driving.StateTierFetching

	if tier.Delay == 0 {
		go o.fetchTier(ctx, token, identity, tier)
		return
	}
	t := time.AfterFunc(tier.Delay, func() {
		o.fetchTier(ctx, token, identity, tier)
	})
	o.timers = append(o.timers, t)
}

// fetchTier runs one tier fetch: the unified backend aggregation plus
// any direct providers joining this tier. Failures degrade to fewer
// items, never to an error surfaced to the view.
func (o *Orchestrator) fetchTier(ctx context.Context, token uuid.UUID, identity domain.EntityIdentity, tier domain.Tier) {
	tctx, cancel := context.WithTimeout(ctx, tier.Timeout)
	defer cancel()

	logger.Debug("Fetching tier %d (%s) for %s", tier.Number, tier.Label, identity.Key())

	var resp *domain.ContentSearchResponse
	var err error
	if identity.IsEmpire() {
		resp, err = o.gateway.ByEmpireTier(tctx, domain.EmpireRequest{EmpireID: identity.EmpireID}, tier)
	} else {
		resp, err = o.gateway.BySiteTier(tctx, domain.SiteRequest{
			Name:     identity.Name,
			Location: identity.Location,
			Lat:      identity.Lat,
			Lon:      identity.Lon,
		}, tier)
	}
	if err != nil || resp == nil {
		if err != nil {
			logger.Warn("Tier %d aggregation failed for %q: %v", tier.Number, identity.Name, err)
		}
		resp = domain.EmptyResponse()
	}

	priority := make([]domain.UnifiedGalleryItem, 0, len(resp.Items))
	for _, item := range resp.Items {
		priority = append(priority, ToUnifiedItem(item))
	}

	var extra []domain.UnifiedGalleryItem
	for _, provider := range o.providers {
		if provider.Tier() != tier.Number {
			continue
		}
		items, perr := provider.Search(tctx, identity.Name, driven.ProviderOptions{Country: identity.Location})
		if perr != nil {
			logger.Warn("Provider %s skipped for %q: %v", provider.Name(), identity.Name, perr)
			continue
		}
		for _, item := range items {
			extra = append(extra, ToUnifiedItem(item))
		}
	}

	o.merge(token, tier, Dedupe(priority, extra))

	if tier.Number == boundaryPrefetchTier && identity.IsEmpire() && o.datasets != nil && o.manifestURL != nil {
		if derr := o.datasets.Ensure(ctx, identity.EmpireID, o.manifestURL(identity.EmpireID)); derr != nil {
			logger.Warn("Boundary dataset prefetch for %s: %v", identity.EmpireID, derr)
		}
	}
}

// merge folds one tier's items into the grouped view. Results issued
// under a superseded token are discarded whole. Item IDs stay unique
// within each tab.
func (o *Orchestrator) merge(token uuid.UUID, tier domain.Tier, items []domain.UnifiedGalleryItem) {
	o.mu.Lock()
	if token != o.token {
		o.mu.Unlock()
		logger.Debug("Discarding stale tier %d results", tier.Number)
		return
	}

	for _, item := range items {
		tab := TabFor(item.Original.ContentType)
		ids := o.seen[tab]
		if ids == nil {
			ids = make(map[string]bool)
			o.seen[tab] = ids
		}
		if item.ID != "" {
			if ids[item.ID] {
				continue
			}
			ids[item.ID] = true
		}
		o.grouped[tab] = append(o.grouped[tab], item)
	}

	previous := o.hero
	o.hero = SelectHero(o.grouped)

	o.loading[tier.Number] = false
	o.outstanding--
	settledNow := o.outstanding == 0
	if settledNow {
		o.state = driving.StateSettled
	}

	hero := o.hero
	notify := make([]func(), 0, len(o.listeners))
	for _, l := range o.listeners {
		notify = append(notify, l.fn)
	}
	o.mu.Unlock()

	if hero != nil && (previous == nil || previous.ID != hero.ID) {
		go o.cacheHero(*hero)
	}
	for _, fn := range notify {
		fn()
	}

	// Waiters unblock only after listeners observed the final merge.
	if settledNow {
		o.mu.Lock()
		if token == o.token {
			o.closeSettledLocked()
		}
		o.mu.Unlock()
	}
}

// cacheHero downloads the hero image bytes into the durable blob
// store so the entity keeps a representative image offline. Best
// effort: failures only cost the offline copy.
func (o *Orchestrator) cacheHero(hero domain.UnifiedGalleryItem) {
	if o.blobs == nil {
		return
	}
	url := hero.Full
	if url == "" {
		url = hero.Thumb
	}
	if url == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), heroCacheTimeout)
	defer cancel()

	if _, err := o.blobs.Get(ctx, driven.NamespaceHero, url); err == nil {
		return
	}
	data, err := o.offline.Retrieve(ctx, url)
	if err != nil {
		logger.Debug("Hero image %s not cached: %v", url, err)
		return
	}
	if err := o.blobs.Put(ctx, driven.NamespaceHero, url, data); err != nil {
		logger.Warn("Failed to cache hero image %s: %v", url, err)
	}
}

// stopTimersLocked cancels pending staggered fetches. Callers hold o.mu.
func (o *Orchestrator) stopTimersLocked() {
	for _, t := range o.timers {
		t.Stop()
	}
	o.timers = o.timers[:0]
}

// closeSettledLocked releases Wait callers once. Callers hold o.mu.
func (o *Orchestrator) closeSettledLocked() {
	if o.settled != nil && !o.settledDone {
		close(o.settled)
		o.settledDone = true
	}
}
