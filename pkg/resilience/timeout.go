package resilience

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/BatAIInc/bat-ai-core/pkg/errors"
)

// WithTimeoutResult executes fn with a deadline boundary, returning both
// result and error. Returns a TIMEOUT error if the deadline elapses first.
//
// The deadline is propagated through the child context so implementations
// that honor cancellation stop consuming resources. An fn that ignores its
// context keeps running in a background goroutine after the timeout; only
// the wait is abandoned.
func WithTimeoutResult(ctx context.Context, d time.Duration, fn func(ctx context.Context) (string, error)) (string, error) {
	if d == 0 {
		return fn(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		value string
		err   error
	}

	done := make(chan result, 1)
	go func() {
		value, err := fn(ctx)
		done <- result{value, err}
	}()

	select {
	case <-ctx.Done():
		// Parent cancellation is not a deadline; surface it as a
		// non-recoverable error so the retry loop stops immediately.
		if stderrors.Is(ctx.Err(), context.Canceled) {
			return "", canceledError(ctx.Err())
		}
		return "", timeoutError(ctx.Err(), d)
	case res := <-done:
		// An fn that propagates its context error races the deadline
		// branch above; report both outcomes as the same TIMEOUT.
		if res.err != nil && stderrors.Is(res.err, context.DeadlineExceeded) {
			return "", timeoutError(res.err, d)
		}
		return res.value, res.err
	}
}

func canceledError(cause error) error {
	return errors.New(errors.CodeInternal, "operation canceled", cause).
		WithRecoverable(false)
}

func timeoutError(cause error, d time.Duration) error {
	return errors.New(errors.CodeTimeout, "operation exceeded timeout", cause).
		WithContext("timeout", d.String()).
		WithRecoverable(true)
}

// WithTimeout executes fn with a deadline boundary, discarding the result.
func WithTimeout(ctx context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	_, err := WithTimeoutResult(ctx, d, func(ctx context.Context) (string, error) {
		return "", fn(ctx)
	})
	return err
}
