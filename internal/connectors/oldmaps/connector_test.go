package oldmaps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ancientnerds/relica/internal/connectors"
	"github.com/ancientnerds/relica/internal/core/domain"
	"github.com/ancientnerds/relica/internal/core/ports/driven"
)

type stubOffline struct {
	offline bool
}

func (s *stubOffline) IsOffline() bool                                  { return s.offline }
func (s *stubOffline) SetOffline(offline bool)                          { s.offline = offline }
func (s *stubOffline) ConnectivityLost()                                { s.offline = true }
func (s *stubOffline) OnModeChange(func(bool)) func()                   { return func() {} }
func (s *stubOffline) Retrieve(context.Context, string) ([]byte, error) { return nil, domain.ErrNotCached }

const sampleBody = `{"maps":[{
	"id": 712,
	"title": "Plan of Carnuntum",
	"display_name": "Plan of Carnuntum and surroundings, 1911",
	"year": 1911,
	"author": "K. Tragau",
	"institution": "Austrian National Library",
	"thumb_url": "https://img.example/712_s.jpg",
	"image_mid_url": "https://img.example/712_m.jpg",
	"image_url": "https://img.example/712_l.jpg",
	"detail_url": "https://maps.example/712"
}]}`

func TestSearch_MapsRecordToContentItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Carnuntum", r.URL.Query().Get("q"), "query must be normalised")
		assert.Equal(t, "Austria", r.URL.Query().Get("country"))
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	c := New(srv.URL, &stubOffline{})

	items, err := c.Search(context.Background(), "Carnuntum, Austria", driven.ProviderOptions{Country: "Austria"})
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "oldmaps-712", item.ID)
	assert.Equal(t, domain.ContentMap, item.ContentType)
	assert.Equal(t, "Plan of Carnuntum", item.Title)
	assert.Equal(t, "https://img.example/712_s.jpg", item.ThumbnailURL)
	assert.Equal(t, "https://img.example/712_l.jpg", item.MediaURL, "largest size tier wins")
	assert.Equal(t, "1911", item.Date)
	assert.Equal(t, "Austrian National Library", item.Museum)
}

func TestSearch_OfflineShortCircuits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("offline connector must not touch the network")
	}))
	defer srv.Close()

	c := New(srv.URL, &stubOffline{offline: true})

	items, err := c.Search(context.Background(), "Carnuntum", driven.ProviderOptions{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSearch_SecondCallServedFromCache(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	c := New(srv.URL, &stubOffline{})

	_, err := c.Search(context.Background(), "Carnuntum", driven.ProviderOptions{})
	require.NoError(t, err)
	_, err = c.Search(context.Background(), "Carnuntum", driven.ProviderOptions{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), hits.Load())
}

func TestSearch_RateLimitFallsBackToLastCachedValue(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			_, _ = w.Write([]byte(sampleBody))
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, &stubOffline{})
	now := time.Now()
	c.cache.SetClock(func() time.Time { return now })

	first, err := c.Search(context.Background(), "Carnuntum", driven.ProviderOptions{})
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Expire the fresh window so the second call goes upstream and is
	// rate limited; it must serve the stale entry, not an error.
	now = now.Add(connectors.DefaultQueryTTL + time.Minute)

	second, err := c.Search(context.Background(), "Carnuntum", driven.ProviderOptions{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(2), hits.Load())
}

func TestSearch_ProviderErrorDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, &stubOffline{})

	items, err := c.Search(context.Background(), "Carnuntum", driven.ProviderOptions{})
	require.NoError(t, err, "provider errors are never propagated")
	assert.Empty(t, items)
}
