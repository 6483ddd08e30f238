package llm

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog/log"
)

// RetryConfig configures retry behavior for provider calls. Rate-limit and
// transient server errors are the intended targets.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts. 0 disables retry.
	MaxRetries int
	// BaseBackoff is the initial backoff duration.
	BaseBackoff time.Duration
	// MaxBackoff caps the exponential backoff.
	MaxBackoff time.Duration
	// MaxJitter is the maximum random jitter added to each backoff.
	MaxJitter time.Duration
}

// DefaultRetryConfig returns a retry configuration suitable for rate-limit
// errors on completion endpoints.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:  3,
		BaseBackoff: 1 * time.Second,
		MaxBackoff:  30 * time.Second,
		MaxJitter:   500 * time.Millisecond,
	}
}

// withRetry runs fn, retrying up to cfg.MaxRetries times when retryable
// reports the error as transient. Context cancellation aborts the wait.
func withRetry(ctx context.Context, cfg RetryConfig, retryable func(error) bool, fn func(context.Context) (string, error)) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := backoffFor(cfg, attempt)
			log.Debug().Int("attempt", attempt).Dur("backoff", backoff).Msg("llm: retrying completion")

			select {
			case <-ctx.Done():
				return "", fmt.Errorf("llm: retry wait: %w", ctx.Err())
			case <-time.After(backoff):
			}
		}

		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !retryable(err) || ctx.Err() != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("llm: retries exhausted: %w", lastErr)
}

// backoffFor computes exponential backoff with jitter for the given attempt.
func backoffFor(cfg RetryConfig, attempt int) time.Duration {
	backoff := cfg.BaseBackoff << (attempt - 1)
	if backoff > cfg.MaxBackoff || backoff <= 0 {
		backoff = cfg.MaxBackoff
	}

	if cfg.MaxJitter > 0 {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(cfg.MaxJitter)))
		if err == nil {
			backoff += time.Duration(n.Int64())
		}
	}

	return backoff
}
