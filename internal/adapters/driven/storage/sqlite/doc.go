// Package sqlite provides the SQLite-backed implementation of the
// DocumentStore port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Documents and their
// chunks live in two tables; chunk embeddings are stored as little-endian
// float32 blobs and similarity queries are answered by a brute-force scan
// in process, which is fast enough for the corpus sizes a single
// installation holds.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.askcsv/data/documents.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
