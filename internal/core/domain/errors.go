package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown content type or provider.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNotCached indicates an offline retrieval found no cached value.
	// Surfaced to the caller as an explicit failure, never silently
	// swallowed, because it changes the UI affordance.
	ErrNotCached = errors.New("not cached")

	// ErrRateLimited indicates a provider rate limit was exceeded.
	// Adapters handle this locally and fall back to cached values.
	ErrRateLimited = errors.New("rate limited")

	// ErrProvider indicates a non-2xx or malformed provider response.
	// Adapters convert this to an empty result plus a logged warning.
	ErrProvider = errors.New("provider error")

	// ErrNoEntity indicates the orchestrator has no selected entity.
	ErrNoEntity = errors.New("no entity selected")
)

// NotCachedError reports an offline retrieval miss for a specific URL.
type NotCachedError struct {
	// URL is the uncached resource.
	URL string
}

// Error implements the error interface.
func (e *NotCachedError) Error() string {
	return fmt.Sprintf("not cached: %s", e.URL)
}

// Unwrap allows errors.Is(err, ErrNotCached).
func (e *NotCachedError) Unwrap() error {
	return ErrNotCached
}

// RateLimitError reports provider-side rate limiting with reset details.
type RateLimitError struct {
	// Provider is the rate-limited provider name.
	Provider string

	// ResetAt is when the limit resets, if the provider said.
	ResetAt time.Time
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.ResetAt.IsZero() {
		return fmt.Sprintf("%s: rate limited", e.Provider)
	}
	return fmt.Sprintf("%s: rate limited until %s", e.Provider, e.ResetAt.Format(time.RFC3339))
}

// Unwrap allows errors.Is(err, ErrRateLimited).
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}
