package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
)

func TestWithRetry_SucceedsAfterBusy(t *testing.T) {
	policy := domain.RetryPolicy{Attempts: 3, Backoff: time.Millisecond}

	calls := 0
	err := withRetry(context.Background(), policy, func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("%w: table locked", domain.ErrBusy)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_NonBusyErrorReturnsImmediately(t *testing.T) {
	policy := domain.RetryPolicy{Attempts: 3, Backoff: time.Millisecond}
	boom := errors.New("boom")

	calls := 0
	err := withRetry(context.Background(), policy, func() error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	policy := domain.RetryPolicy{Attempts: 2, Backoff: time.Millisecond}

	calls := 0
	err := withRetry(context.Background(), policy, func() error {
		calls++
		return domain.ErrBusy
	})

	assert.ErrorIs(t, err, domain.ErrBusy)
	assert.Equal(t, 2, calls)
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	policy := domain.RetryPolicy{Attempts: 5, Backoff: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, policy, func() error {
		return domain.ErrBusy
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithRetry_ZeroAttemptsStillRunsOnce(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), domain.RetryPolicy{}, func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
