package driven

import (
	"context"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
)

// AuditStore computes chain-integrity counts.
// Implementations perform pure reads and may safely run against a
// database another process is writing to.
type AuditStore interface {
	// ChainCounts returns the per-check counts for the given embedding
	// model. Counts reflect one consistent read of the database.
	ChainCounts(ctx context.Context, model string) (*domain.VerifyCounts, error)
}
