// Package sqlite provides the SQLite-backed bundle catalog.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. A Store owns one database connection and hands out the
// catalog store through CatalogStore.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; only .up.sql files are applied.
//
// Name lists (reserved files, other files, and so on) are stored as JSON arrays.
//
// # Data Location
//
// By default, the database is stored at ~/.normabundle/data/catalog.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
