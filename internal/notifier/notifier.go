// Package notifier hands finished-room summaries to the collaborators that
// award achievements and rewards. Delivery is at-least-once; receivers must
// be idempotent per room.
package notifier

//go:generate mockgen -destination=mock/mock_notifier.go -package=notifiermock github.com/KirkDiggler/skywar-api/internal/notifier Notifier

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/errors"
)

// Notifier receives a room summary once the room has ended
type Notifier interface {
	OnRoomEnded(ctx context.Context, summary *entities.RoomSummary) error
}

// Func adapts a function to Notifier
type Func func(ctx context.Context, summary *entities.RoomSummary) error

// OnRoomEnded calls f
func (f Func) OnRoomEnded(ctx context.Context, summary *entities.RoomSummary) error {
	return f(ctx, summary)
}

type multi []Notifier

// Multi fans a summary out to every notifier and joins their errors
func Multi(notifiers ...Notifier) Notifier {
	return multi(notifiers)
}

func (m multi) OnRoomEnded(ctx context.Context, summary *entities.RoomSummary) error {
	var errs []error
	for _, n := range m {
		if err := n.OnRoomEnded(ctx, summary); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type logNotifier struct{}

// Log writes summaries to the default logger
func Log() Notifier {
	return logNotifier{}
}

func (logNotifier) OnRoomEnded(_ context.Context, summary *entities.RoomSummary) error {
	slog.Info("Room ended",
		"room_id", summary.RoomID,
		"mode", summary.Mode,
		"end_reason", summary.EndReason,
		"winner", summary.Winner,
		"loser", summary.Loser,
		"attack_count", summary.AttackCount,
		"duration", summary.Duration)
	return nil
}
