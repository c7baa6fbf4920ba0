package domain

import "time"

// Embedding is a vector representation of one content row under one model.
// At most one embedding may exist per (ContentID, Model) pair.
type Embedding struct {
	// ID is the unique identifier for the embedding row.
	ID string

	// ContentID links to the owning Content row.
	ContentID string

	// Model is the embedding model that produced the vector.
	Model string

	// Dim is the vector dimensionality.
	Dim int

	// Vector is the embedding itself.
	Vector []float32

	// CreatedAt is when the embedding was stored.
	CreatedAt time.Time
}
