package driven

import (
	"context"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
)

// DocumentStore persists source document chunks.
// Ingestion adapters write chunks; the Chain Builder reads them to repair
// gaps in the content table.
type DocumentStore interface {
	// SaveChunk stores or updates a document chunk.
	SaveChunk(ctx context.Context, chunk *domain.DocumentChunk) error

	// GetChunk retrieves a chunk by ID.
	GetChunk(ctx context.Context, chunkID string) (*domain.DocumentChunk, error)

	// ListUnlinked returns up to limit hashed chunks that have no
	// content row matching their (sha256, chunk_index) pair, optionally
	// restricted to one source type.
	ListUnlinked(ctx context.Context, sourceType domain.SourceType, limit int) ([]domain.DocumentChunk, error)

	// CountUnlinked counts hashed chunks with no matching content row.
	CountUnlinked(ctx context.Context, sourceType domain.SourceType) (int, error)

	// FindHashForContent looks up a document hash for a content row
	// missing one. A chunk whose ID equals the content's source ID wins;
	// otherwise any hashed chunk with the same chunk index is used.
	// Returns empty string when no pairing exists.
	FindHashForContent(ctx context.Context, sourceID string, chunkIndex int) (string, error)
}
