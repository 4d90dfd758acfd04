// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Gateway: Typed client for the unified backend aggregation endpoint
//   - MemoCache: Short-lived memo cache for aggregated responses
//   - BlobStore: Durable key-value blob cache (hero images)
//   - DatasetStore: Durable multi-file dataset cache (boundary files)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Provider: Legacy direct provider clients (maps, 3D models,
//     encyclopaedic summaries). Each missing provider simply contributes
//     no items.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
