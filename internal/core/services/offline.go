package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/ancientnerds/relica/internal/core/domain"
	"github.com/ancientnerds/relica/internal/core/ports/driven"
	"github.com/ancientnerds/relica/internal/core/ports/driving"
	"github.com/ancientnerds/relica/internal/logger"
)

// Ensure OfflineService implements the interface.
var _ driving.OfflineController = (*OfflineService)(nil)

// listenerEntry pairs a listener with its registration token.
type listenerEntry struct {
	id int
	fn func(offline bool)
}

// OfflineService is the single process-wide offline mode controller.
//
// Transitioning to offline happens automatically on the connectivity
// loss signal; transitioning back online never does. Connectivity loss
// is authoritative, restoration is advisory.
type OfflineService struct {
	mu         sync.Mutex
	offline    bool
	listeners  []listenerEntry
	nextListID int

	blobs      driven.BlobStore
	namespaces []string
	http       *http.Client
}

// NewOfflineService creates the offline controller. initialOffline
// comes from the connectivity signal at startup. The blob store backs
// the durable cache set consulted by Retrieve; namespaces lists the
// caches to consult, in order.
func NewOfflineService(initialOffline bool, blobs driven.BlobStore, namespaces []string) *OfflineService {
	if len(namespaces) == 0 {
		namespaces = []string{driven.NamespaceHero, driven.NamespaceDatasets}
	}
	return &OfflineService{
		offline:    initialOffline,
		blobs:      blobs,
		namespaces: namespaces,
		http:       &http.Client{},
	}
}

// SetHTTPClient overrides the live-fetch client. Useful for testing.
func (s *OfflineService) SetHTTPClient(h *http.Client) {
	if h != nil {
		s.http = h
	}
}

// IsOffline returns the current mode.
func (s *OfflineService) IsOffline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offline
}

// SetOffline sets the mode. A no-op without notification when the
// mode is unchanged. On change, listeners run synchronously in
// registration order.
func (s *OfflineService) SetOffline(offline bool) {
	s.mu.Lock()
	if s.offline == offline {
		s.mu.Unlock()
		return
	}
	s.offline = offline
	listeners := make([]listenerEntry, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	logger.Info("Offline mode changed: offline=%t", offline)
	for _, l := range listeners {
		l.fn(offline)
	}
}

// ConnectivityLost is the involuntary connectivity-loss signal.
func (s *OfflineService) ConnectivityLost() {
	logger.Warn("Connectivity lost, forcing offline mode")
	s.SetOffline(true)
}

// OnModeChange registers a listener and returns its unsubscribe
// function. Unsubscribing is idempotent.
func (s *OfflineService) OnModeChange(fn func(offline bool)) func() {
	s.mu.Lock()
	id := s.nextListID
	s.nextListID++
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Retrieve returns the bytes for url, checking the durable cache set
// first for latency even when online. A hit returns immediately
// regardless of mode. On a miss: offline fails with NotCachedError,
// online performs a live fetch and returns the body without caching
// it - caching is the caller's responsibility, per source.
func (s *OfflineService) Retrieve(ctx context.Context, url string) ([]byte, error) {
	for _, ns := range s.namespaces {
		if data, err := s.blobs.Get(ctx, ns, url); err == nil {
			logger.Debug("Retrieve cache hit (%s): %s", ns, url)
			return data, nil
		}
	}

	if s.IsOffline() {
		return nil, &domain.NotCachedError{URL: url}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("retrieving %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned %d", domain.ErrProvider, url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return data, nil
}
