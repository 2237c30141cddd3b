// Package sqlite provides the default section store, backed by a local SQLite
// database.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The generations table is managed through versioned migrations stored in the
// migrations/ directory. The sections table of a collection is not migrated:
// every upsert drops and recreates it inside the same transaction that rewrites
// the collection's generation row, so readers see either the previous batch or
// the new one.
//
// Vectors are stored as little-endian float32 BLOBs and searched with an exact
// cosine scan.
//
// # Data Location
//
// By default, the database is stored at ~/.specmcp/data/specs.db
package sqlite
