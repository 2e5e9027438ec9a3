// Package resilience provides the retry and timeout primitives underneath
// the task executor.
package resilience

import (
	"context"
	"time"

	"github.com/BatAIInc/bat-ai-core/pkg/errors"
)

// RetryConfig controls retry behavior with a fixed inter-attempt delay.
// There is no backoff growth: attempt N+1 starts exactly Delay after
// attempt N failed.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts (must be >= 1).
	MaxAttempts int

	// Delay is the fixed pause between attempts.
	Delay time.Duration

	// IsRecoverable determines if an error should be retried.
	// If nil, all errors are considered recoverable.
	IsRecoverable func(error) bool

	// OnRetry is invoked before each retry with the upcoming attempt
	// number (2-based) and the error that triggered it.
	OnRetry func(attempt int, err error)
}

// DefaultRetryConfig returns a sensible default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		Delay:         time.Second,
		IsRecoverable: isRecoverableDefault,
	}
}

// WithMaxAttempts returns a new config with MaxAttempts set.
func (rc RetryConfig) WithMaxAttempts(max int) RetryConfig {
	rc.MaxAttempts = max
	return rc
}

// WithDelay returns a new config with Delay set.
func (rc RetryConfig) WithDelay(d time.Duration) RetryConfig {
	rc.Delay = d
	return rc
}

// WithIsRecoverable returns a new config with IsRecoverable set.
func (rc RetryConfig) WithIsRecoverable(fn func(error) bool) RetryConfig {
	rc.IsRecoverable = fn
	return rc
}

// Do executes fn up to MaxAttempts times, returning nil on the first
// success. The terminal error wraps the last cause with the total number
// of attempts made.
func (rc RetryConfig) Do(ctx context.Context, fn func(attempt int) error) error {
	if rc.MaxAttempts < 1 {
		rc.MaxAttempts = 1
	}
	if rc.IsRecoverable == nil {
		rc.IsRecoverable = isRecoverableDefault
	}

	var lastErr error
	for attempt := 1; attempt <= rc.MaxAttempts; attempt++ {
		if attempt > 1 {
			if rc.OnRetry != nil {
				rc.OnRetry(attempt, lastErr)
			}
			select {
			case <-ctx.Done():
				return errors.New(errors.CodeInternal, "context canceled during retry delay", ctx.Err()).
					WithContext("attempt", attempt).
					WithContext("max_attempts", rc.MaxAttempts).
					WithRecoverable(false)
			case <-time.After(rc.Delay):
			}
		}

		err := fn(attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		if !rc.IsRecoverable(err) {
			return err
		}
	}

	return errors.New(errors.CodeRetryExhausted, "all attempts failed", lastErr).
		WithContext("attempts", rc.MaxAttempts).
		WithRecoverable(false)
}

// DoWithResult executes fn with retry logic, returning both result and error.
func (rc RetryConfig) DoWithResult(ctx context.Context, fn func(attempt int) (string, error)) (string, error) {
	var result string
	err := rc.Do(ctx, func(attempt int) error {
		var fnErr error
		result, fnErr = fn(attempt)
		return fnErr
	})
	return result, err
}

// isRecoverableDefault considers errors recoverable based on type.
func isRecoverableDefault(err error) bool {
	if err == nil {
		return false
	}
	if be, ok := err.(*errors.BatError); ok {
		return be.Recoverable
	}
	// Untyped errors default to recoverable; callers override with their
	// own IsRecoverable for finer control.
	return true
}
