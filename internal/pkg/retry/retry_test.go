package retry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/skywar-api/internal/errors"
	"github.com/KirkDiggler/skywar-api/internal/pkg/retry"
)

func TestDoStopsOnSuccess(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), retry.Policy{Attempts: 3}, "test", func(_ context.Context, attempt int) error {
		calls++
		if attempt < 2 {
			return errors.Unavailable("not yet")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoReturnsLastErrorWhenExhausted(t *testing.T) {
	var attempts []int
	err := retry.Do(context.Background(), retry.Policy{Attempts: 3, Delay: time.Millisecond}, "test",
		func(_ context.Context, attempt int) error {
			attempts = append(attempts, attempt)
			return errors.Unavailablef("attempt %d", attempt)
		})

	require.Error(t, err)
	assert.Equal(t, []int{1, 2, 3}, attempts)
	assert.Equal(t, "attempt 3", errors.GetMessage(err))
}

func TestDoPermanentStopsImmediately(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), retry.Policy{Attempts: 5}, "test", func(context.Context, int) error {
		calls++
		return retry.Permanent(errors.NotFound("gone"))
	})

	assert.Equal(t, 1, calls)
	assert.True(t, errors.IsNotFound(err))
}

func TestDoHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retry.Do(ctx, retry.Policy{Attempts: 5, Delay: time.Hour}, "test", func(context.Context, int) error {
		calls++
		cancel()
		return errors.Unavailable("busy")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestPolicyValidate(t *testing.T) {
	assert.Error(t, retry.Policy{Attempts: 0}.Validate())
	assert.Error(t, retry.Policy{Attempts: 1, Delay: -time.Second}.Validate())
	assert.NoError(t, retry.Policy{Attempts: 3, Delay: time.Second}.Validate())
}
