package outcomes

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/errors"
)

const defaultListLimit = 50

const insertOutcomeSQL = `
INSERT INTO room_outcomes (
    room_id, code, mode, difficulty, end_reason, winner_id, loser_id,
    attack_count, started_at, ended_at, duration_ms, summary
) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10, $11, $12)
ON CONFLICT (room_id) DO NOTHING`

const insertAchievementSQL = `
INSERT INTO player_achievements (room_id, achievement_id, player_id, amount, awarded_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (room_id, achievement_id, player_id) DO NOTHING`

const selectOutcomeSQL = `SELECT summary FROM room_outcomes WHERE room_id = $1`

const selectAchievementsSQL = `
SELECT room_id, achievement_id, player_id, amount, awarded_at
FROM player_achievements
WHERE player_id = $1
ORDER BY awarded_at DESC, room_id, achievement_id
LIMIT $2`

// Config holds the configuration for the Postgres repository
type Config struct {
	Pool *pgxpool.Pool
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Pool == nil {
		vb.RequiredField("Pool")
	}

	return vb.Build()
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a ledger backed by Postgres
func NewPostgresRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &postgresRepository{pool: cfg.Pool}, nil
}

// Ensure postgresRepository implements Repository
var _ Repository = (*postgresRepository)(nil)

func (r *postgresRepository) Record(ctx context.Context, input RecordInput) (*RecordOutput, error) {
	s := input.Summary
	if s == nil {
		return nil, errors.InvalidArgument("summary cannot be nil")
	}
	if s.RoomID == "" {
		return nil, errors.InvalidArgument("summary room ID cannot be empty")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal summary")
	}

	var startedAt *time.Time
	if !s.StartedAt.IsZero() {
		startedAt = &s.StartedAt
	}

	out := &RecordOutput{}
	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, insertOutcomeSQL,
			s.RoomID, s.Code, string(s.Mode), int(s.Difficulty), string(s.EndReason),
			s.Winner, s.Loser, s.AttackCount, startedAt, s.EndedAt,
			s.Duration.Milliseconds(), data)
		if err != nil {
			return errors.Wrapf(err, "failed to insert outcome for room %s", s.RoomID)
		}
		out.Inserted = tag.RowsAffected() == 1

		for _, a := range input.Achievements {
			if a.RoomID != s.RoomID {
				return errors.InvalidArgumentf("achievement %s belongs to room %s, not %s",
					a.AchievementID, a.RoomID, s.RoomID)
			}
			tag, err := tx.Exec(ctx, insertAchievementSQL,
				a.RoomID, a.AchievementID, a.PlayerID, a.Amount, a.AwardedAt)
			if err != nil {
				return errors.Wrapf(err, "failed to insert achievement %s", a.AchievementID)
			}
			out.Awarded += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *postgresRepository) GetOutcome(ctx context.Context, input GetOutcomeInput) (*GetOutcomeOutput, error) {
	if input.RoomID == "" {
		return nil, errors.InvalidArgument("room ID cannot be empty")
	}

	var data []byte
	err := r.pool.QueryRow(ctx, selectOutcomeSQL, input.RoomID).Scan(&data)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NotFoundf("no outcome recorded for room %s", input.RoomID)
		}
		return nil, errors.Wrapf(err, "failed to read outcome for room %s", input.RoomID)
	}

	var summary entities.RoomSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal outcome for room %s", input.RoomID)
	}

	return &GetOutcomeOutput{Summary: &summary}, nil
}

func (r *postgresRepository) ListAchievements(ctx context.Context, input ListAchievementsInput) (*ListAchievementsOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID cannot be empty")
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := r.pool.Query(ctx, selectAchievementsSQL, input.PlayerID, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list achievements for %s", input.PlayerID)
	}

	achievements, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Achievement, error) {
		var a Achievement
		err := row.Scan(&a.RoomID, &a.AchievementID, &a.PlayerID, &a.Amount, &a.AwardedAt)
		return a, err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan achievements for %s", input.PlayerID)
	}

	return &ListAchievementsOutput{Achievements: achievements}, nil
}
