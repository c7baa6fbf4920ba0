package driven

import (
	"context"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
)

// ContentStore persists canonical content rows.
// Backed by SQLite; the (source_type, source_id) business key is enforced
// by a unique constraint, never by read-then-write races.
type ContentStore interface {
	// Upsert inserts or updates a row keyed on the business key.
	// On conflict the title, body, hash, readiness and updated_at change;
	// the ID stays stable. Repeated calls are idempotent.
	Upsert(ctx context.Context, rec *domain.Content) error

	// InsertIfAbsent inserts a row unless its business key already
	// exists. Returns false when the row was already present; a lost
	// race against a concurrent writer is not an error.
	InsertIfAbsent(ctx context.Context, rec *domain.Content) (bool, error)

	// Get retrieves a content row by ID.
	Get(ctx context.Context, id string) (*domain.Content, error)

	// Search returns rows matching the query. Never errors on empty or
	// malformed query text; an empty query returns a bounded page of
	// all content.
	Search(ctx context.Context, q domain.ContentQuery) ([]domain.Content, error)

	// ListMissingSHA256 returns up to limit rows without a content hash,
	// optionally restricted to one source type.
	ListMissingSHA256(ctx context.Context, sourceType domain.SourceType, limit int) ([]domain.Content, error)

	// CountMissingSHA256 counts rows without a content hash.
	CountMissingSHA256(ctx context.Context, sourceType domain.SourceType) (int, error)

	// SetSHA256 fills the content hash of one row.
	SetSHA256(ctx context.Context, id, sha256 string) error

	// ListReadyWithoutEmbedding returns up to limit rows flagged ready
	// that lack an embedding for the given model.
	ListReadyWithoutEmbedding(ctx context.Context, model string, limit int) ([]domain.Content, error)

	// CountReadyWithoutEmbedding counts ready rows lacking an embedding
	// for the given model.
	CountReadyWithoutEmbedding(ctx context.Context, model string) (int, error)
}
