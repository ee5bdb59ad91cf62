package resilience

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// RetryConfig holds retry configuration
type RetryConfig struct {
	MaxAttempts         int           `mapstructure:"max_attempts"`
	InitialInterval     time.Duration `mapstructure:"initial_interval"`
	MaxInterval         time.Duration `mapstructure:"max_interval"`
	Multiplier          float64       `mapstructure:"multiplier"`
	RandomizationFactor float64       `mapstructure:"randomization_factor"`

	// RetryIf decides whether an error is worth another attempt. Nil retries
	// everything except an open circuit and context errors.
	RetryIf func(error) bool `mapstructure:"-"`
}

// DefaultRetryConfig returns default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:         3,
		InitialInterval:     100 * time.Millisecond,
		MaxInterval:         5 * time.Second,
		Multiplier:          2.0,
		RandomizationFactor: 0.5,
	}
}

func (c RetryConfig) retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if c.RetryIf != nil {
		return c.RetryIf(err)
	}
	return !errors.Is(err, ErrCircuitOpen) && !errors.Is(err, ErrTooManyRequests)
}

// Retry calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. It returns the last error.
func Retry(ctx context.Context, config RetryConfig, fn func(context.Context) error) error {
	_, err := RetryWithResult(ctx, config, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// RetryWithResult is Retry for functions that return a value
func RetryWithResult[T any](ctx context.Context, config RetryConfig, fn func(context.Context) (T, error)) (T, error) {
	var (
		result T
		err    error
	)
	attempts := config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	interval := config.InitialInterval

	for attempt := 1; attempt <= attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}

		result, err = fn(ctx)
		if err == nil || !config.retryable(err) || attempt == attempts {
			return result, err
		}

		timer := time.NewTimer(jitter(interval, config.RandomizationFactor))
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, ctx.Err()
		case <-timer.C:
		}

		interval = time.Duration(float64(interval) * config.Multiplier)
		if config.MaxInterval > 0 && interval > config.MaxInterval {
			interval = config.MaxInterval
		}
	}
	return result, err
}

// jitter spreads d uniformly over [d*(1-f), d*(1+f)]
func jitter(d time.Duration, f float64) time.Duration {
	if f <= 0 || d <= 0 {
		return d
	}
	delta := f * float64(d)
	return time.Duration(float64(d) - delta + rand.Float64()*2*delta)
}
