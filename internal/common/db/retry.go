package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/sethvargo/go-retry"

	"github.com/AlibekovAA/blog-api/internal/common/logger"
)

type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

var DefaultRetryConfig = RetryConfig{
	MaxAttempts:  3,
	InitialDelay: 100 * time.Millisecond,
	MaxDelay:     2 * time.Second,
}

// IsRetryableError reports connection failures, serialization failures,
// deadlocks and lock timeouts.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "08000", "08003", "08006", "08001", "08004", "08007", "08P01":
			return true
		case "40001", "40P01":
			return true
		case "55P03":
			return true
		}
	}

	return false
}

func RetryWithBackoff(ctx context.Context, log *logger.Logger, config RetryConfig, operation func(context.Context) error) error {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}

	backoff := retry.NewExponential(config.InitialDelay)
	backoff = retry.WithCappedDuration(config.MaxDelay, backoff)
	backoff = retry.WithMaxRetries(uint64(config.MaxAttempts-1), backoff)

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := operation(ctx)
		if err == nil {
			if attempt > 1 && log != nil {
				log.Infof("database operation succeeded after %d attempts", attempt)
			}
			return nil
		}
		if !IsRetryableError(err) {
			return err
		}
		if log != nil {
			log.Warnf("database operation failed (attempt %d/%d): %v", attempt, config.MaxAttempts, err)
		}
		return retry.RetryableError(err)
	})
}
