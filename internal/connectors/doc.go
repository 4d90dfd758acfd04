// Package connectors provides implementations of the Provider interface
// for the legacy direct content providers (historical map search, 3D
// model catalogue, encyclopaedic summaries). Each connector normalises
// its query, keeps its own short-TTL cache keyed by the normalised
// query, and rate-limits itself against the upstream API.
//
// Connectors never propagate provider-side failures: rate limiting
// falls back to the last cached value, anything else degrades to an
// empty result with a logged warning.
package connectors
