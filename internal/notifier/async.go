package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/errors"
	"github.com/KirkDiggler/skywar-api/internal/pkg/retry"
)

const defaultAsyncTimeout = 30 * time.Second

// AsyncConfig configures a fire-and-forget notifier
type AsyncConfig struct {
	Next Notifier
	// Timeout bounds one delivery including retries
	Timeout time.Duration
	// Retry is applied to each delivery
	Retry retry.Policy
}

// Validate ensures all required dependencies are provided
func (c *AsyncConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Next == nil {
		vb.RequiredField("Next")
	}
	if c.Timeout < 0 {
		vb.Field("Timeout", "must not be negative")
	}

	return vb.Build()
}

// Async delivers summaries on background goroutines so a slow or failing
// collaborator never holds up the game
type Async struct {
	next    Notifier
	timeout time.Duration
	policy  retry.Policy
	wg      sync.WaitGroup
}

// NewAsync wraps a notifier
func NewAsync(cfg *AsyncConfig) (*Async, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	a := &Async{
		next:    cfg.Next,
		timeout: cfg.Timeout,
		policy:  cfg.Retry,
	}
	if a.timeout == 0 {
		a.timeout = defaultAsyncTimeout
	}
	if a.policy.Attempts == 0 {
		a.policy = retry.Policy{Attempts: 3, Delay: time.Second}
	}
	return a, nil
}

// OnRoomEnded schedules delivery and returns immediately
func (a *Async) OnRoomEnded(ctx context.Context, summary *entities.RoomSummary) error {
	if summary == nil {
		return errors.InvalidArgument("summary cannot be nil")
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		// the request that ended the room may finish first
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()

		err := retry.Do(ctx, a.policy, "notify room ended", func(ctx context.Context, _ int) error {
			return a.next.OnRoomEnded(ctx, summary)
		})
		if err != nil {
			slog.Error("Failed to deliver room summary",
				"room_id", summary.RoomID,
				"error", err)
		}
	}()

	return nil
}

// Wait blocks until in-flight deliveries finish or ctx ends
func (a *Async) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
