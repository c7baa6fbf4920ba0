package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
	"github.com/custodia-labs/casechain-cli/internal/core/ports/driven"
	"github.com/custodia-labs/casechain-cli/internal/core/ports/driving"
	"github.com/custodia-labs/casechain-cli/internal/logger"
)

// Ensure EmbedLinker implements the interface.
var _ driving.EmbedService = (*EmbedLinker)(nil)

// DefaultEmbedLimit bounds one linker pass when no limit is given.
const DefaultEmbedLimit = 100

// EmbedLinker associates ready content rows with embeddings. The stored
// embeddings table is the source of truth; the vector index is a mirror
// keyed by content ID and failures to update it are non-fatal.
type EmbedLinker struct {
	contentStore driven.ContentStore
	embStore     driven.EmbeddingStore
	embedder     driven.EmbeddingService
	index        driven.VectorIndex
	limiter      *rate.Limiter
	retry        domain.RetryPolicy
}

// NewEmbedLinker creates a new embedding linker.
// embedder may not be nil at Link time; index and limiter may be nil.
func NewEmbedLinker(
	contentStore driven.ContentStore,
	embStore driven.EmbeddingStore,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	limiter *rate.Limiter,
	retry domain.RetryPolicy,
) *EmbedLinker {
	return &EmbedLinker{
		contentStore: contentStore,
		embStore:     embStore,
		embedder:     embedder,
		index:        index,
		limiter:      limiter,
		retry:        retry,
	}
}

// Link embeds up to opts.Limit ready rows lacking an embedding.
func (s *EmbedLinker) Link(ctx context.Context, opts domain.EmbedOptions) (*domain.EmbedReport, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	model := opts.Model
	if model == "" {
		model = s.embedder.ModelName()
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultEmbedLimit
	}

	report := &domain.EmbedReport{Model: model, Limit: limit}

	logger.Section("Embedding Link")
	logger.Debug("model=%q limit=%d", model, limit)

	rows, err := s.contentStore.ListReadyWithoutEmbedding(ctx, model, limit)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		row := &rows[i]

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		vector, err := s.embedder.Embed(ctx, row.Body)
		if err != nil {
			report.Failed++
			logger.Warn("embedding content %s failed: %v", row.ID, err)
			continue
		}

		emb := &domain.Embedding{
			ID:        uuid.New().String(),
			ContentID: row.ID,
			Model:     model,
			Dim:       len(vector),
			Vector:    vector,
			CreatedAt: time.Now().UTC(),
		}

		var created bool
		err = withRetry(ctx, s.retry, func() error {
			var opErr error
			created, opErr = s.embStore.Save(ctx, emb)
			return opErr
		})
		if err != nil {
			return nil, err
		}
		if !created {
			report.AlreadyPresent++
			logger.Debug("embedding for content %s already present", row.ID)
			continue
		}
		report.Linked++

		if s.index != nil {
			payload := map[string]string{
				"source_type": string(row.SourceType),
				"source_id":   row.SourceID,
			}
			if err := s.index.Add(ctx, row.ID, vector, payload); err != nil {
				// The stored row is authoritative; the mirror is
				// best-effort and a failed add is not retried. Rebuild
				// the collection from the embeddings table to recover.
				logger.Warn("vector index add for content %s failed: %v", row.ID, err)
			}
		}
	}

	remaining, err := s.contentStore.CountReadyWithoutEmbedding(ctx, model)
	if err != nil {
		return nil, err
	}
	report.Remaining = remaining

	logger.Info("embed pass done: %d linked, %d failed, %d remaining",
		report.Linked, report.Failed, report.Remaining)
	return report, nil
}
