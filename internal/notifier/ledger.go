package notifier

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/errors"
	"github.com/KirkDiggler/skywar-api/internal/repositories/outcomes"
)

// LedgerConfig configures the outcome ledger notifier
type LedgerConfig struct {
	Repository outcomes.Repository
}

// Validate ensures all required dependencies are provided
func (c *LedgerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}

	return vb.Build()
}

type ledger struct {
	repo outcomes.Repository
}

// NewLedger records summaries and their achievements in the outcome ledger
func NewLedger(cfg *LedgerConfig) (Notifier, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &ledger{repo: cfg.Repository}, nil
}

func (l *ledger) OnRoomEnded(ctx context.Context, summary *entities.RoomSummary) error {
	out, err := l.repo.Record(ctx, outcomes.RecordInput{
		Summary:      summary,
		Achievements: outcomes.Derive(summary),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to record outcome for room %s", summary.RoomID)
	}

	slog.Debug("Room outcome recorded",
		"room_id", summary.RoomID,
		"inserted", out.Inserted,
		"awarded", out.Awarded)
	return nil
}
