// Package domain defines the core business entities for Relica.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - EntityIdentity: A site or historical polity being explored
//   - ContentItem: A single piece of media from one provider
//   - UnifiedGalleryItem: The item shape consumed by every display tab
//   - Tier: A priority group of content types fetched together
//   - ContentSearchResponse: The aggregated multi-source result
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
