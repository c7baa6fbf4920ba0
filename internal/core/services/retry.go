package services

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
	"github.com/custodia-labs/casechain-cli/internal/logger"
)

// withRetry runs op, retrying on domain.ErrBusy according to the policy.
// Only lock contention is retried; every other error returns immediately.
func withRetry(ctx context.Context, policy domain.RetryPolicy, op func() error) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op()
		if err == nil || !errors.Is(err, domain.ErrBusy) {
			return err
		}
		if attempt == attempts {
			break
		}

		logger.Debug("database busy, retrying (attempt %d/%d)", attempt, attempts)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(policy.Backoff * time.Duration(attempt)):
		}
	}
	return err
}
