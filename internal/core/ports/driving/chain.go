package driving

import (
	"context"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
)

// ChainService repairs the document -> content chain.
type ChainService interface {
	// Backfill runs one bounded, idempotent repair pass: missing content
	// hashes are paired or synthesized, and hashed document chunks
	// without a content row gain one. Data-quality findings are counts
	// in the report; only infrastructure failures return an error.
	Backfill(ctx context.Context, opts domain.BackfillOptions) (*domain.BackfillReport, error)
}

// IntegrityService audits the document -> content -> embedding chain.
type IntegrityService interface {
	// Verify performs the read-only chain audit and returns the counts
	// with the derived pass/warn/fail status.
	Verify(ctx context.Context) (*domain.VerifyReport, error)
}

// EmbedService links ready content rows to embeddings.
type EmbedService interface {
	// Link embeds up to the configured limit of ready rows lacking an
	// embedding for the model, storing each vector and mirroring it
	// into the vector index when one is configured.
	Link(ctx context.Context, opts domain.EmbedOptions) (*domain.EmbedReport, error)
}
