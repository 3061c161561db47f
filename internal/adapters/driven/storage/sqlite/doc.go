// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - DocumentStore: Document and chunk persistence
//   - MessageStore: Conversation history persistence
//   - SearchEngine: FTS5 full-text search over chunk content
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. The chunks_fts virtual table is written inside the
// same transactions as the chunks table, so the searchable set always
// matches the stored chunks.
//
// # Data Location
//
// By default, the database is stored at ~/.docchat/data/docchat.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
