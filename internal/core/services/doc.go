// Package services implements the core business logic for Relica.
//
// Services implement the driving ports and depend only on domain
// types and driven ports. The three services are:
//
//   - OfflineService: process-wide online/offline state with
//     cache-first retrieval
//   - Orchestrator: per-entity tiered fetch orchestration
//   - DatasetService: resumable bulk dataset downloads
//
// The gallery functions (grouping, hero selection, deduplication) are
// pure and stateless; they live here because every consumer of the
// orchestrator shares them.
package services
