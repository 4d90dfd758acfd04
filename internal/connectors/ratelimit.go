package connectors

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds rate limiting configuration for a provider.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultRateLimits provides conservative defaults per provider.
// These sit well below the published limits to avoid hitting quotas.
var DefaultRateLimits = map[string]RateLimitConfig{
	"oldmaps":    {RequestsPerSecond: 1.0, BurstSize: 2}, // Small community API
	"modelhaven": {RequestsPerSecond: 2.0, BurstSize: 4},
	"encyclo":    {RequestsPerSecond: 5.0, BurstSize: 10}, // Generous public API
}

// RateLimiter provides proactive rate limiting for provider requests.
// It uses a token bucket with a backoff window set from 429 responses.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a rate limiter for the named provider,
// falling back to a conservative default for unknown names.
func NewRateLimiter(provider string) *RateLimiter {
	cfg, ok := DefaultRateLimits[provider]
	if !ok {
		cfg = RateLimitConfig{RequestsPerSecond: 1.0, BurstSize: 2}
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Wait blocks until a request can be made without exceeding the rate
// limit. It also respects any backoff period from a prior 429.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimit records a 429 and sets the backoff window from the
// Retry-After header when present, else 60 seconds.
func (r *RateLimiter) RecordRateLimit(resp *http.Response) {
	seconds := 60
	if resp != nil {
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if val, err := strconv.Atoi(retryAfter); err == nil && val > 0 {
				seconds = val
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryAt = time.Now().Add(time.Duration(seconds) * time.Second)
}
