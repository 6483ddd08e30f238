package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(maxRetries int) RetryConfig {
	return RetryConfig{
		MaxRetries:  maxRetries,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  5 * time.Millisecond,
		MaxJitter:   time.Millisecond,
	}
}

func neverRetry(error) bool { return false }

func TestWithRetry(t *testing.T) {
	t.Parallel()

	t.Run("first attempt succeeds", func(t *testing.T) {
		t.Parallel()

		calls := 0
		out, err := withRetry(context.Background(), fastRetry(3), neverRetry, func(_ context.Context) (string, error) {
			calls++
			return "ok", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "ok", out)
		assert.Equal(t, 1, calls)
	})

	t.Run("transient errors retry until success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		out, err := withRetry(context.Background(), fastRetry(3),
			func(error) bool { return true },
			func(_ context.Context) (string, error) {
				calls++
				if calls < 3 {
					return "", errors.New("429 too many requests")
				}
				return "ok", nil
			})

		require.NoError(t, err)
		assert.Equal(t, "ok", out)
		assert.Equal(t, 3, calls)
	})

	t.Run("non-retryable error returns immediately", func(t *testing.T) {
		t.Parallel()

		calls := 0
		boom := errors.New("401 unauthorized")
		_, err := withRetry(context.Background(), fastRetry(3),
			func(error) bool { return false },
			func(_ context.Context) (string, error) {
				calls++
				return "", boom
			})

		require.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries exhaust", func(t *testing.T) {
		t.Parallel()

		calls := 0
		boom := errors.New("503 unavailable")
		_, err := withRetry(context.Background(), fastRetry(2),
			func(error) bool { return true },
			func(_ context.Context) (string, error) {
				calls++
				return "", boom
			})

		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "retries exhausted")
		assert.Equal(t, 3, calls)
	})

	t.Run("zero max retries disables retry", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := withRetry(context.Background(), RetryConfig{},
			func(error) bool { return true },
			func(_ context.Context) (string, error) {
				calls++
				return "", errors.New("429")
			})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context aborts the wait", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cfg := RetryConfig{MaxRetries: 3, BaseBackoff: time.Hour, MaxBackoff: time.Hour}

		calls := 0
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		_, err := withRetry(ctx, cfg,
			func(error) bool { return true },
			func(_ context.Context) (string, error) {
				calls++
				return "", errors.New("503")
			})

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestBackoffFor(t *testing.T) {
	t.Parallel()

	cfg := RetryConfig{BaseBackoff: time.Second, MaxBackoff: 4 * time.Second}

	assert.Equal(t, time.Second, backoffFor(cfg, 1))
	assert.Equal(t, 2*time.Second, backoffFor(cfg, 2))
	assert.Equal(t, 4*time.Second, backoffFor(cfg, 3))
	// Capped beyond the max.
	assert.Equal(t, 4*time.Second, backoffFor(cfg, 4))
	assert.Equal(t, 4*time.Second, backoffFor(cfg, 10))
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("openai", func(t *testing.T) {
		t.Parallel()
		c, err := New("openai", Options{APIKey: "k", Model: "llama-3.3-70b-versatile"})
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("anthropic", func(t *testing.T) {
		t.Parallel()
		c, err := New("anthropic", Options{APIKey: "k", Model: "claude-sonnet-4-20250514"})
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()
		_, err := New("bard", Options{APIKey: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown provider")
	})
}
