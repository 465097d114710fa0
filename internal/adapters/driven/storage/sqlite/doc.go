// Package sqlite provides the persistent vector collection.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Several named collections share one
// database file:
//
//   - collections: one row per collection, holding its embedding dimension
//   - records: chunk text, chunk metadata and a little-endian float32 embedding
//
// # Search
//
// Queries scan the (optionally category-filtered) rows of a collection and
// rank them by exact cosine distance. There is no approximate index.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.kbase/data/vectors.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. The store relies on SQLite
// locking in WAL mode.
package sqlite
