package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// retryBaseDelay is doubled on every attempt.
var retryBaseDelay = time.Second

func withRetry(ctx context.Context, maxAttempts int, label string, log *zap.Logger, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isTransientError(lastErr) {
			return lastErr
		}
		if attempt < maxAttempts {
			backoff := retryBaseDelay << attempt
			log.Warn("Transient error, retrying",
				zap.String("operation", label),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", maxAttempts),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

func isTransientError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection refused",
		"connection reset",
		"connection timed out",
		"broken pipe",
		"unexpected eof",
		"i/o timeout",
		"server closed the connection unexpectedly",
		"could not connect to server",
		"the database system is starting up",
		"too many connections",
	}
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func connectWithRetry(ctx context.Context, connStr string, retries int, log *zap.Logger) (*pgx.Conn, error) {
	var conn *pgx.Conn
	err := withRetry(ctx, retries, "connect", log, func() error {
		var err error
		conn, err = pgx.Connect(ctx, connStr)
		return err
	})
	return conn, err
}
