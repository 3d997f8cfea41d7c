package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestIsTransientError(t *testing.T) {
	assert.False(t, isTransientError(nil))
	assert.True(t, isTransientError(errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")))
	assert.True(t, isTransientError(errors.New("FATAL: the database system is starting up (SQLSTATE 57P03)")))
	assert.False(t, isTransientError(errors.New(`duplicate key value violates unique constraint "customers_email_key"`)))
}

func TestWithRetry(t *testing.T) {
	retryBaseDelay = time.Millisecond
	t.Cleanup(func() { retryBaseDelay = time.Second })
	ctx := context.Background()
	log := zap.NewNop()

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := withRetry(ctx, 3, "op", log, func() error {
			calls++
			if calls < 3 {
				return errors.New("connection reset by peer")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		permanent := errors.New("password authentication failed")
		err := withRetry(ctx, 3, "op", log, func() error {
			calls++
			return permanent
		})
		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := withRetry(ctx, 2, "op", log, func() error {
			calls++
			return errors.New("i/o timeout")
		})
		assert.ErrorContains(t, err, "after 2 attempts")
		assert.Equal(t, 2, calls)
	})

	t.Run("honors cancellation", func(t *testing.T) {
		retryBaseDelay = time.Hour
		defer func() { retryBaseDelay = time.Millisecond }()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := withRetry(cctx, 3, "op", log, func() error {
			return errors.New("broken pipe")
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
