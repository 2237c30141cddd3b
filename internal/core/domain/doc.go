// Package domain defines the core business entities for specmcp.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Section: An addressable, embeddable unit of a specification document
//   - SpecSource: A specification document to ingest
//   - Settings: Runtime configuration for stores, backends and sources
//   - StoreStats: Metadata about the current vector store generation
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
