package ai

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

const (
	// DefaultMaxAttempts is the number of calls made before giving up.
	DefaultMaxAttempts = 5
	// DefaultBaseDelay is the wait before the first retry, excluding jitter.
	DefaultBaseDelay = time.Second
	// MaxBackoffDelay caps the exponential part of a delay; jitter is added on top.
	MaxBackoffDelay = time.Minute
)

// RetryConfig configures exponential backoff retry behavior.
type RetryConfig struct {
	MaxAttempts int           // total calls including the first (default 5)
	BaseDelay   time.Duration // first backoff delay (default 1s)

	// Classify decides whether an error is retried. Defaults to IsTransientOverload.
	Classify func(err error) bool
	// Jitter returns the random offset added to each delay. Defaults to U(0,1s).
	Jitter func() time.Duration
	// Sleep waits for d or until ctx is done. Defaults to a timer select.
	Sleep func(ctx context.Context, d time.Duration) error

	OnRetry func(attempt int, delay time.Duration)
}

func (cfg RetryConfig) withDefaults() RetryConfig {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}
	if cfg.BaseDelay > MaxBackoffDelay {
		cfg.BaseDelay = MaxBackoffDelay
	}
	if cfg.Classify == nil {
		cfg.Classify = IsTransientOverload
	}
	if cfg.Jitter == nil {
		cfg.Jitter = UniformJitter
	}
	if cfg.Sleep == nil {
		cfg.Sleep = SleepContext
	}
	return cfg
}

// UniformJitter returns a duration drawn uniformly from [0, 1s).
func UniformJitter() time.Duration {
	return time.Duration(rand.Float64() * float64(time.Second))
}

// SleepContext blocks for d, returning early with ctx.Err() if ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryWithBackoff calls fn until it succeeds, fails with a non-transient
// error, or MaxAttempts transient failures have been seen.
// Delays: BaseDelay, BaseDelay*2, BaseDelay*4, ... capped at MaxBackoffDelay,
// each plus jitter.
//
// The returned int is the number of calls made to fn. Non-transient errors
// come back as *FatalRequestError (configuration errors pass through as-is)
// and exhaustion as *RetriesExhaustedError.
func RetryWithBackoff(ctx context.Context, cfg RetryConfig, fn func() error) (int, error) {
	cfg = cfg.withDefaults()

	delay := cfg.BaseDelay
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil {
			return attempt + 1, nil
		}

		if !cfg.Classify(err) {
			var cfgErr *ConfigurationError
			if errors.As(err, &cfgErr) {
				return attempt + 1, err
			}
			return attempt + 1, &FatalRequestError{Err: err}
		}

		if attempt >= cfg.MaxAttempts-1 {
			return attempt + 1, &RetriesExhaustedError{
				Attempts: attempt + 1,
				Last:     &TransientOverloadError{Err: err},
			}
		}

		wait := delay + cfg.Jitter()
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, wait)
		}
		if err := cfg.Sleep(ctx, wait); err != nil {
			return attempt + 1, err
		}

		delay = nextDelay(delay)
	}
}

// nextDelay doubles d without exceeding MaxBackoffDelay.
func nextDelay(d time.Duration) time.Duration {
	if d > MaxBackoffDelay/2 {
		return MaxBackoffDelay
	}
	return d * 2
}
