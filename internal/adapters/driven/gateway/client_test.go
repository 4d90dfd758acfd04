package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ancientnerds/relica/internal/adapters/driven/cache/memo"
	"github.com/ancientnerds/relica/internal/core/domain"
)

// stubOffline is a minimal offline controller for client tests.
type stubOffline struct {
	offline bool
}

func (s *stubOffline) IsOffline() bool                                { return s.offline }
func (s *stubOffline) SetOffline(offline bool)                        { s.offline = offline }
func (s *stubOffline) ConnectivityLost()                              { s.offline = true }
func (s *stubOffline) OnModeChange(func(bool)) func()                 { return func() {} }
func (s *stubOffline) Retrieve(context.Context, string) ([]byte, error) {
	return nil, domain.ErrNotCached
}

func testResponse(items ...domain.ContentItem) domain.ContentSearchResponse {
	return domain.ContentSearchResponse{
		Items:           items,
		TotalCount:      len(items),
		SourcesSearched: []string{"encyclo", "museum-api"},
		SourcesFailed:   []string{},
		ItemsBySource:   map[string]int{"encyclo": len(items)},
		SearchTimeMs:    42,
	}
}

func TestBySiteTier_SecondCallServedFromMemo(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/content/by-site", r.URL.Path)
		assert.Equal(t, "Ephesus", r.URL.Query().Get("name"))
		assert.ElementsMatch(t, []string{"photo", "video", "audio"}, r.URL.Query()["contentTypes"])
		_ = json.NewEncoder(w).Encode(testResponse(domain.ContentItem{
			ID: "p1", Source: "encyclo", ContentType: domain.ContentPhoto, Title: "Library of Celsus",
		}))
	}))
	defer srv.Close()

	c := New(srv.URL, memo.New(), &stubOffline{})
	req := domain.SiteRequest{Name: "Ephesus", Lat: 37.94, Lon: 27.34}
	tier := domain.Tiers[0]

	first, err := c.BySiteTier(context.Background(), req, tier)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	require.Len(t, first.Items, 1)

	second, err := c.BySiteTier(context.Background(), req, tier)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Items, second.Items)
	assert.Equal(t, first.TotalCount, second.TotalCount)
	assert.Equal(t, int64(1), hits.Load(), "second call must not hit the network")
}

func TestBySiteTier_TiersDoNotCollideInCache(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(testResponse())
	}))
	defer srv.Close()

	c := New(srv.URL, memo.New(), &stubOffline{})
	req := domain.SiteRequest{Name: "Ephesus", Lat: 37.94, Lon: 27.34}

	_, err := c.BySiteTier(context.Background(), req, domain.Tiers[0])
	require.NoError(t, err)
	_, err = c.BySiteTier(context.Background(), req, domain.Tiers[2])
	require.NoError(t, err)

	assert.Equal(t, int64(2), hits.Load(), "different tiers must use distinct cache keys")
}

func TestAggregate_OfflineReturnsEmptyWithoutNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("offline client must not touch the network")
	}))
	defer srv.Close()

	c := New(srv.URL, memo.New(), &stubOffline{offline: true})

	resp, err := c.Search(context.Background(), domain.SearchRequest{Query: "ziggurat"})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.NotNil(t, resp.SourcesFailed)
	assert.NotNil(t, resp.ItemsBySource)
	assert.Zero(t, resp.TotalCount)
}

func TestAggregate_PartialFailureIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := testResponse(domain.ContentItem{ID: "m1", ContentType: domain.ContentMap})
		resp.SourcesFailed = []string{"museum-api"}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := New(srv.URL, memo.New(), &stubOffline{})

	resp, err := c.ByEmpire(context.Background(), domain.EmpireRequest{EmpireID: "achaemenid"})
	require.NoError(t, err)
	assert.Equal(t, []string{"museum-api"}, resp.SourcesFailed)
	assert.Len(t, resp.Items, 1)
}

func TestAggregate_BackendErrorDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, memo.New(), &stubOffline{})

	resp, err := c.BySite(context.Background(), domain.SiteRequest{Name: "Ur"})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestByLocation_RepeatsArrayParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/content/by-location", r.URL.Path)
		assert.Equal(t, "37.94", r.URL.Query().Get("lat"))
		assert.Equal(t, []string{"map", "artifact"}, r.URL.Query()["contentTypes"])
		_ = json.NewEncoder(w).Encode(testResponse())
	}))
	defer srv.Close()

	c := New(srv.URL, memo.New(), &stubOffline{})

	_, err := c.ByLocation(context.Background(), domain.LocationRequest{
		Lat: 37.94, Lon: 27.34, RadiusKm: 25,
		ContentTypes: []domain.ContentType{domain.ContentMap, domain.ContentArtifact},
	})
	require.NoError(t, err)
}
