// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentSource: Fetches and parses specification documents
//   - DocumentNode: Minimal tree-walking view of a parsed document
//   - EmbeddingBackend: One embedding model reached over the network
//   - GenerationBackend: One text generation model reached over the network
//   - SectionStore: Vector store for sections (SQLite, Qdrant, memory)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - KeywordIndex: Full-text index over sections. Without it keyword search is disabled.
//   - ProgressReporter: Ingestion progress output.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
