package services

import (
	"context"
	"sort"
	"sync"

	"github.com/ancientnerds/relica/internal/core/domain"
	"github.com/ancientnerds/relica/internal/core/ports/driven"
)

// memBlobs is an in-memory driven.BlobStore for service tests.
type memBlobs struct {
	mu   sync.Mutex
	data map[string]map[string][]byte
}

var _ driven.BlobStore = (*memBlobs)(nil)

func newMemBlobs() *memBlobs {
	return &memBlobs{data: make(map[string]map[string][]byte)}
}

func (m *memBlobs) Get(_ context.Context, namespace, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if data, ok := m.data[namespace][key]; ok {
		return data, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memBlobs) Put(_ context.Context, namespace, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[namespace] == nil {
		m.data[namespace] = make(map[string][]byte)
	}
	m.data[namespace][key] = data
	return nil
}

func (m *memBlobs) Delete(_ context.Context, namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[namespace], key)
	return nil
}

func (m *memBlobs) Keys(_ context.Context, namespace string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data[namespace]))
	for key := range m.data[namespace] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// memDatasets is an in-memory driven.DatasetStore for service tests.
type memDatasets struct {
	mu       sync.Mutex
	files    map[string]map[string][]byte
	complete map[string]bool
}

var _ driven.DatasetStore = (*memDatasets)(nil)

func newMemDatasets() *memDatasets {
	return &memDatasets{
		files:    make(map[string]map[string][]byte),
		complete: make(map[string]bool),
	}
}

func (m *memDatasets) PutFile(_ context.Context, datasetID, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files[datasetID] == nil {
		m.files[datasetID] = make(map[string][]byte)
	}
	m.files[datasetID][name] = data
	return nil
}

func (m *memDatasets) GetFile(_ context.Context, datasetID, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if data, ok := m.files[datasetID][name]; ok {
		return data, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memDatasets) HasFile(_ context.Context, datasetID, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[datasetID][name]
	return ok, nil
}

func (m *memDatasets) Files(_ context.Context, datasetID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files[datasetID]))
	for name := range m.files[datasetID] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *memDatasets) MarkComplete(_ context.Context, datasetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.complete[datasetID] = true
	return nil
}

func (m *memDatasets) IsComplete(_ context.Context, datasetID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.complete[datasetID], nil
}

func (m *memDatasets) CompletedIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.complete))
	for id, done := range m.complete {
		if done {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memDatasets) Delete(_ context.Context, datasetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, datasetID)
	delete(m.complete, datasetID)
	return nil
}

// stubRetriever is a canned driving.OfflineController whose Retrieve
// serves from a fixed URL map, counting calls.
type stubRetriever struct {
	mu      sync.Mutex
	offline bool
	bytes   map[string][]byte
	calls   map[string]int
}

func newStubRetriever(bytes map[string][]byte) *stubRetriever {
	if bytes == nil {
		bytes = map[string][]byte{}
	}
	return &stubRetriever{bytes: bytes, calls: map[string]int{}}
}

func (s *stubRetriever) IsOffline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offline
}

func (s *stubRetriever) SetOffline(offline bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offline = offline
}

func (s *stubRetriever) ConnectivityLost() { s.SetOffline(true) }

func (s *stubRetriever) OnModeChange(func(offline bool)) func() { return func() {} }

func (s *stubRetriever) Retrieve(_ context.Context, url string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[url]++
	if data, ok := s.bytes[url]; ok {
		return data, nil
	}
	return nil, &domain.NotCachedError{URL: url}
}

func (s *stubRetriever) callCount(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[url]
}

// fakeGateway records tier calls and answers them via a settable
// handler. The non-tier operations return empty results.
type fakeGateway struct {
	mu        sync.Mutex
	tierCalls map[int]int
	handler   func(name string, tier domain.Tier) *domain.ContentSearchResponse
}

var _ driven.Gateway = (*fakeGateway)(nil)

func newFakeGateway(handler func(name string, tier domain.Tier) *domain.ContentSearchResponse) *fakeGateway {
	return &fakeGateway{tierCalls: map[int]int{}, handler: handler}
}

func (g *fakeGateway) record(tier int) {
	g.mu.Lock()
	g.tierCalls[tier]++
	g.mu.Unlock()
}

func (g *fakeGateway) calls(tier int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tierCalls[tier]
}

func (g *fakeGateway) respond(name string, tier domain.Tier) (*domain.ContentSearchResponse, error) {
	if g.handler != nil {
		if resp := g.handler(name, tier); resp != nil {
			return resp, nil
		}
	}
	return domain.EmptyResponse(), nil
}

func (g *fakeGateway) Search(context.Context, domain.SearchRequest) (*domain.ContentSearchResponse, error) {
	return domain.EmptyResponse(), nil
}

func (g *fakeGateway) ByLocation(context.Context, domain.LocationRequest) (*domain.ContentSearchResponse, error) {
	return domain.EmptyResponse(), nil
}

func (g *fakeGateway) BySite(context.Context, domain.SiteRequest) (*domain.ContentSearchResponse, error) {
	return domain.EmptyResponse(), nil
}

func (g *fakeGateway) BySiteTier(_ context.Context, req domain.SiteRequest, tier domain.Tier) (*domain.ContentSearchResponse, error) {
	g.record(tier.Number)
	return g.respond(req.Name, tier)
}

func (g *fakeGateway) ByEmpire(context.Context, domain.EmpireRequest) (*domain.ContentSearchResponse, error) {
	return domain.EmptyResponse(), nil
}

func (g *fakeGateway) ByEmpireTier(_ context.Context, req domain.EmpireRequest, tier domain.Tier) (*domain.ContentSearchResponse, error) {
	g.record(tier.Number)
	return g.respond(req.EmpireID, tier)
}

func (g *fakeGateway) Sources(context.Context) ([]string, error) { return []string{}, nil }

func (g *fakeGateway) Types(context.Context) ([]domain.ContentType, error) {
	return domain.AllContentTypes, nil
}

// fakeProvider serves a fixed item list for its tier.
type fakeProvider struct {
	mu       sync.Mutex
	name     string
	tier     int
	items    []domain.ContentItem
	searches int
}

var _ driven.Provider = (*fakeProvider)(nil)

func (p *fakeProvider) Name() string { return p.name }
func (p *fakeProvider) Tier() int    { return p.tier }

func (p *fakeProvider) Search(context.Context, string, driven.ProviderOptions) ([]domain.ContentItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.searches++
	return p.items, nil
}

func (p *fakeProvider) searchCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.searches
}
