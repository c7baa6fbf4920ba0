package driving

import (
	"context"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
)

// ContentService manages canonical content records.
type ContentService interface {
	// Upsert creates or updates the content row for the given business
	// key and returns its deterministic ID. Repeated calls with the
	// same (sourceType, externalID) never create duplicate rows.
	Upsert(ctx context.Context, sourceType domain.SourceType, externalID, title, body string, metadata map[string]any) (string, error)

	// Get returns the content row with the given ID, or nil when
	// absent. A miss is not an error.
	Get(ctx context.Context, id string) (*domain.Content, error)

	// Search returns content matching the query. Empty queries return
	// a bounded page of all content rather than an error.
	Search(ctx context.Context, q domain.ContentQuery) ([]domain.Content, error)
}
