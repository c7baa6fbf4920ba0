package driven

import (
	"context"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
)

// EmbeddingStore persists embedding rows.
// The (content_id, model) pair is unique; duplicate writes are no-ops.
type EmbeddingStore interface {
	// Save stores an embedding unless one already exists for its
	// (content_id, model) pair. Returns false when the pair was
	// already present.
	Save(ctx context.Context, emb *domain.Embedding) (bool, error)

	// Get retrieves the embedding for a content row under one model.
	Get(ctx context.Context, contentID, model string) (*domain.Embedding, error)

	// DeleteByContent removes all embeddings owned by a content row.
	// Cascade is enforced here because SQLite foreign keys are not
	// relied upon for it.
	DeleteByContent(ctx context.Context, contentID string) error
}
