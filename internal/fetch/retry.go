package fetch

import (
	"context"
	"errors"
	"time"

	"github.com/credlens/credlens/internal/utils"
	"go.uber.org/zap"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 2 * time.Second
)

// RetryConfig bounds the retry loop shared by all verifiers.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max-attempts"`
	BaseDelay   time.Duration `mapstructure:"base-delay"`
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = defaultBaseDelay
	}
	return c
}

// Retry runs op up to cfg.MaxAttempts times. Only transient failures
// (timeouts, transport errors) are retried; definitive HTTP rejections and
// parse failures return immediately. The delay before attempt n is
// BaseDelay*n, so it grows with every attempt. The sleep is context-aware
// and never blocks sibling verifications.
func Retry(ctx context.Context, cfg RetryConfig, logger *zap.Logger, op func(context.Context) error) error {
	cfg = cfg.withDefaults()

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := cfg.BaseDelay * time.Duration(attempt)
			logger.Debug("retrying after transient failure",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			if err := utils.WaitFor(ctx, delay); err != nil {
				return lastErr
			}
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		var fetchErr *Error
		if !errors.As(err, &fetchErr) || !fetchErr.Retryable() {
			return err
		}
	}

	return lastErr
}
