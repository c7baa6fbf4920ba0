package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDatabaseNotFound indicates the database file does not exist.
	// Batch commands map this to the system-error exit code.
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrBusy indicates the database was locked by another writer.
	// Writes wrapped in a RetryPolicy are retried on this error.
	ErrBusy = errors.New("database busy")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// The embedding linker cannot run without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	// Linked embeddings are then stored locally only.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
