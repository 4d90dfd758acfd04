package driving

import "context"

// OfflineController tracks the process-wide online/offline state and
// exposes cache-first retrieval.
//
// The transitions are deliberately asymmetric: connectivity loss is
// authoritative and forces the state offline, while restoration is
// advisory only (the user may still want to conserve bandwidth), so
// going back online is never automatic.
type OfflineController interface {
	// IsOffline returns the current mode.
	IsOffline() bool

	// SetOffline sets the mode. Idempotent: no-op and no notification
	// when unchanged. On change, registered listeners are notified
	// synchronously in registration order.
	SetOffline(offline bool)

	// ConnectivityLost is the involuntary connectivity-loss signal.
	// It forces the state offline.
	ConnectivityLost()

	// OnModeChange registers a listener and returns its unsubscribe
	// function. No ordering guarantee is promised to listeners.
	OnModeChange(fn func(offline bool)) (unsubscribe func())

	// Retrieve returns the bytes for url. The durable cache set is
	// always checked first, even when online, and a hit returns
	// immediately regardless of mode. On a miss: offline fails with a
	// *domain.NotCachedError, online performs a live network fetch
	// and returns its body without caching it here - caching is the
	// caller's responsibility, per source.
	Retrieve(ctx context.Context, url string) ([]byte, error)
}
