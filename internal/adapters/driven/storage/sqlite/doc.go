// Package sqlite provides SQLite-backed implementations of the driven
// storage ports.
//
// A single Store owns the database handle and hands out per-concern
// wrapper types (ContentStore, DocumentStore, EmbeddingStore, AuditStore).
// The database is opened in WAL mode with a busy timeout; the verifier
// path opens it read-only so it can run next to a writer.
//
// Schema changes are applied through embedded *.up.sql migrations on open.
package sqlite
