// Package sqlite provides a durable vector index backed by SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Documents are stored per named
// collection together with their embeddings; queries are answered by an
// exact scan of the collection, which is fast enough for knowledge bases of
// a few thousand records.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory and embedded at compile time.
//
// # Embedding Function
//
// Each collection records the model name and vector size it was built
// with. Writing to or querying a collection with a different embedding
// service fails with domain.ErrEmbeddingMismatch; rebuild the collection
// to switch models.
//
// # Data Location
//
// By default, the database is stored at ~/.vedika/index.db
//
// # Thread Safety
//
// Queries may run concurrently. Writes and rebuilds take an exclusive lock,
// and SQLite runs in WAL mode.
package sqlite
