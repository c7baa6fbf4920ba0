package services

import (
	"context"
	"time"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
	"github.com/custodia-labs/casechain-cli/internal/core/ports/driven"
	"github.com/custodia-labs/casechain-cli/internal/core/ports/driving"
	"github.com/custodia-labs/casechain-cli/internal/logger"
)

// Ensure IntegrityVerifier implements the interface.
var _ driving.IntegrityService = (*IntegrityVerifier)(nil)

// IntegrityVerifier performs the read-only chain audit. It never writes
// and never repairs; findings are counts with a derived status.
type IntegrityVerifier struct {
	audit  driven.AuditStore
	dbPath string
	model  string
}

// NewIntegrityVerifier creates a new integrity verifier.
// dbPath and model only label the report; the audit store decides what
// is actually read.
func NewIntegrityVerifier(audit driven.AuditStore, dbPath, model string) *IntegrityVerifier {
	return &IntegrityVerifier{
		audit:  audit,
		dbPath: dbPath,
		model:  model,
	}
}

// Verify runs every chain check and derives the overall status.
func (v *IntegrityVerifier) Verify(ctx context.Context) (*domain.VerifyReport, error) {
	logger.Section("Chain Verification")

	counts, err := v.audit.ChainCounts(ctx, v.model)
	if err != nil {
		return nil, err
	}

	report := &domain.VerifyReport{
		DatabasePath: v.dbPath,
		Model:        v.model,
		CheckedAt:    time.Now().UTC(),
		Counts:       *counts,
		Status:       counts.Status(),
	}

	logger.Info("verification status: %s", report.Status)
	return report, nil
}
