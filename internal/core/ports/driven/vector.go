package driven

import "context"

// VectorIndex mirrors stored embeddings for similarity search.
// Point IDs are content IDs; the content subsystem only guarantees they
// are stable, it never queries the index for search itself.
type VectorIndex interface {
	// Add inserts or replaces the vector for the given content ID.
	Add(ctx context.Context, contentID string, vector []float32, payload map[string]string) error

	// Delete removes a vector from the index.
	Delete(ctx context.Context, contentID string) error

	// Search finds the k nearest neighbours to the query vector.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ContentID is the matched content row.
	ContentID string

	// Score is the similarity score.
	Score float64

	// Payload carries the metadata stored with the point.
	Payload map[string]string
}
