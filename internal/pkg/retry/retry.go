// Package retry runs an operation a bounded number of times. It is used only
// where a failure is genuinely transient and re-checkable.
package retry

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/KirkDiggler/skywar-api/internal/errors"
)

// Policy bounds a retry loop
type Policy struct {
	// Attempts is the total number of calls, including the first
	Attempts int
	// Delay is the pause between attempts
	Delay time.Duration
}

// Validate ensures the policy terminates
func (p Policy) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("Attempts", p.Attempts, 1, 100, vb)
	if p.Delay < 0 {
		vb.Field("Delay", "must not be negative")
	}
	return vb.Build()
}

type permanent struct {
	err error
}

func (p *permanent) Error() string { return p.err.Error() }
func (p *permanent) Unwrap() error { return p.err }

// Permanent marks an error that must not be retried
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanent{err: err}
}

// Do calls fn until it succeeds, returns a Permanent error, the context ends,
// or the attempts run out. The last error is returned on exhaustion.
func Do(ctx context.Context, p Policy, name string, fn func(ctx context.Context, attempt int) error) error {
	if err := p.Validate(); err != nil {
		return errors.Wrap(err, "invalid retry policy")
	}

	var lastErr error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		lastErr = fn(ctx, attempt)
		if lastErr == nil {
			return nil
		}

		var perm *permanent
		if stderrors.As(lastErr, &perm) {
			return perm.err
		}

		if attempt == p.Attempts {
			break
		}

		slog.Debug("Retrying operation",
			"operation", name,
			"attempt", attempt,
			"max_attempts", p.Attempts,
			"error", lastErr)

		if err := sleep(ctx, p.Delay); err != nil {
			return errors.Wrapf(err, "%s interrupted after %d attempts", name, attempt)
		}
	}

	return lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
