package services

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
	"github.com/custodia-labs/casechain-cli/internal/core/ports/driven"
	"github.com/custodia-labs/casechain-cli/internal/core/ports/driving"
)

// Ensure ContentService implements the interface.
var _ driving.ContentService = (*ContentService)(nil)

// DefaultSearchLimit bounds search results when the caller gives no limit.
const DefaultSearchLimit = 50

// ContentService manages canonical content records.
type ContentService struct {
	contentStore driven.ContentStore
	retry        domain.RetryPolicy
}

// NewContentService creates a new content service.
func NewContentService(contentStore driven.ContentStore, retry domain.RetryPolicy) *ContentService {
	return &ContentService{
		contentStore: contentStore,
		retry:        retry,
	}
}

// Upsert creates or updates the content row for the given business key.
// The ID is derived from the key, so repeated calls return the same ID
// and never create duplicate rows; the latest title and body win.
func (s *ContentService) Upsert(
	ctx context.Context,
	sourceType domain.SourceType,
	externalID, title, body string,
	metadata map[string]any,
) (string, error) {
	if sourceType == "" || externalID == "" {
		return "", domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	rec := &domain.Content{
		ID:                ContentID(string(sourceType), externalID),
		SourceType:        sourceType,
		SourceID:          externalID,
		SHA256:            BodyHash(body),
		Title:             title,
		Body:              body,
		ReadyForEmbedding: body != "",
		Metadata:          metadata,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err := withRetry(ctx, s.retry, func() error {
		return s.contentStore.Upsert(ctx, rec)
	})
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// Get returns the content row with the given ID, or nil when absent.
func (s *ContentService) Get(ctx context.Context, id string) (*domain.Content, error) {
	rec, err := s.contentStore.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Search returns content matching the query. Empty or odd query text is
// not an error; an empty query returns a bounded page of all content.
func (s *ContentService) Search(ctx context.Context, q domain.ContentQuery) ([]domain.Content, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultSearchLimit
	}
	return s.contentStore.Search(ctx, q)
}
