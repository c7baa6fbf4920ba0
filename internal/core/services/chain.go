package services

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
	"github.com/custodia-labs/casechain-cli/internal/core/ports/driven"
	"github.com/custodia-labs/casechain-cli/internal/core/ports/driving"
	"github.com/custodia-labs/casechain-cli/internal/logger"
)

// Ensure ChainBuilder implements the interface.
var _ driving.ChainService = (*ChainBuilder)(nil)

// DefaultBackfillLimit bounds one repair pass when no limit is given.
const DefaultBackfillLimit = 500

// ChainBuilder repairs gaps between document chunks and content rows.
// Each pass is idempotent and commutative: re-running from any starting
// order converges to the same end state, and a converged database yields
// a pass with zero changes.
type ChainBuilder struct {
	contentStore driven.ContentStore
	docStore     driven.DocumentStore
	retry        domain.RetryPolicy
}

// NewChainBuilder creates a new chain builder.
func NewChainBuilder(
	contentStore driven.ContentStore,
	docStore driven.DocumentStore,
	retry domain.RetryPolicy,
) *ChainBuilder {
	return &ChainBuilder{
		contentStore: contentStore,
		docStore:     docStore,
		retry:        retry,
	}
}

// Backfill runs one bounded repair pass.
func (b *ChainBuilder) Backfill(ctx context.Context, opts domain.BackfillOptions) (*domain.BackfillReport, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultBackfillLimit
	}

	report := &domain.BackfillReport{
		SourceType: opts.SourceType,
		Limit:      limit,
		DryRun:     opts.DryRun,
	}

	logger.Section("Chain Backfill")
	logger.Debug("source_type=%q limit=%d dry_run=%v", opts.SourceType, limit, opts.DryRun)

	if err := b.fillMissingHashes(ctx, opts, limit, report); err != nil {
		return nil, err
	}
	if err := b.createMissingContent(ctx, opts, limit, report); err != nil {
		return nil, err
	}

	missing, err := b.contentStore.CountMissingSHA256(ctx, opts.SourceType)
	if err != nil {
		return nil, err
	}
	unlinked, err := b.docStore.CountUnlinked(ctx, opts.SourceType)
	if err != nil {
		return nil, err
	}
	report.RemainingGaps = missing + unlinked

	logger.Info("backfill pass done: %d changed, %d unresolved, %d gaps remain",
		report.Changed(), report.Unresolved, report.RemainingGaps)
	return report, nil
}

// fillMissingHashes gives every content row missing a hash some stable
// value: a real document hash when a pairing exists, otherwise a hash
// synthesized from the row's own body and chunk index.
func (b *ChainBuilder) fillMissingHashes(
	ctx context.Context,
	opts domain.BackfillOptions,
	limit int,
	report *domain.BackfillReport,
) error {
	rows, err := b.contentStore.ListMissingSHA256(ctx, opts.SourceType, limit)
	if err != nil {
		return err
	}

	for i := range rows {
		row := &rows[i]

		hash, err := b.docStore.FindHashForContent(ctx, row.SourceID, row.ChunkIndex)
		if err != nil {
			return err
		}

		synthesized := hash == ""
		if synthesized {
			hash = SynthesizedHash(row.Body, row.ChunkIndex)
		}

		if !opts.DryRun {
			err := withRetry(ctx, b.retry, func() error {
				return b.contentStore.SetSHA256(ctx, row.ID, hash)
			})
			if err != nil {
				return err
			}
		}

		if synthesized {
			report.HashesSynthesized++
			logger.Debug("synthesized hash for content %s (chunk %d)", row.ID, row.ChunkIndex)
		} else {
			report.HashesPaired++
			logger.Debug("paired content %s with document hash %s", row.ID, hash)
		}
	}
	return nil
}

// createMissingContent synthesizes a content row for every hashed chunk
// lacking one. Chunks without extracted text are a defect surfaced to the
// operator, not auto-healed.
func (b *ChainBuilder) createMissingContent(
	ctx context.Context,
	opts domain.BackfillOptions,
	limit int,
	report *domain.BackfillReport,
) error {
	chunks, err := b.docStore.ListUnlinked(ctx, opts.SourceType, limit)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for i := range chunks {
		chunk := &chunks[i]

		if strings.TrimSpace(chunk.TextContent) == "" {
			report.Unresolved++
			logger.Warn("chunk %s has no extracted text, cannot backfill", chunk.ChunkID)
			continue
		}

		if opts.DryRun {
			report.ContentCreated++
			continue
		}

		rec := &domain.Content{
			ID:                ContentID(string(chunk.SourceType), chunk.ChunkID),
			SourceType:        chunk.SourceType,
			SourceID:          chunk.ChunkID,
			SHA256:            chunk.SHA256,
			ChunkIndex:        chunk.ChunkIndex,
			Title:             chunk.FileName,
			Body:              chunk.TextContent,
			ReadyForEmbedding: true,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		var created bool
		err := withRetry(ctx, b.retry, func() error {
			var opErr error
			created, opErr = b.contentStore.InsertIfAbsent(ctx, rec)
			return opErr
		})
		if err != nil {
			return err
		}

		if created {
			report.ContentCreated++
		} else {
			// Race won by another writer, or an earlier pass.
			report.AlreadyPresent++
			logger.Debug("content for chunk %s already present", chunk.ChunkID)
		}
	}
	return nil
}
