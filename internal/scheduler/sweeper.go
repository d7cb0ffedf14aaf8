// Package scheduler drives the time-based room transitions no player
// triggers: timed-out turns, PVP rooms left waiting for an opponent and
// invite rooms nobody joined.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/errors"
	"github.com/KirkDiggler/skywar-api/internal/orchestrators/battle"
	"github.com/KirkDiggler/skywar-api/internal/orchestrators/matchmaking"
	"github.com/KirkDiggler/skywar-api/internal/pkg/clock"
	"github.com/KirkDiggler/skywar-api/internal/repositories/rooms"
)

const (
	// DefaultInterval is the pause between sweeps
	DefaultInterval = 5 * time.Second
	// DefaultBackfillAfter is how long a PVP room waits for a human
	DefaultBackfillAfter = 20 * time.Second
	// DefaultInviteExpiry is how long an invite room holds its code
	DefaultInviteExpiry = 30 * time.Minute

	defaultConcurrency = 8
)

// Config holds the sweeper dependencies
type Config struct {
	RoomRepo    rooms.Repository
	Battle      battle.Service
	Matchmaking matchmaking.Service
	Clock       clock.Clock

	Interval      time.Duration
	TurnTimeout   time.Duration
	BackfillAfter time.Duration
	InviteExpiry  time.Duration
	// Concurrency bounds rooms handled at once
	Concurrency int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.RoomRepo == nil {
		vb.RequiredField("RoomRepo")
	}
	if c.Battle == nil {
		vb.RequiredField("Battle")
	}
	if c.Matchmaking == nil {
		vb.RequiredField("Matchmaking")
	}
	if c.Interval < 0 || c.TurnTimeout < 0 || c.BackfillAfter < 0 || c.InviteExpiry < 0 {
		vb.Field("Durations", "must not be negative")
	}
	if c.Concurrency < 0 {
		vb.Field("Concurrency", "must not be negative")
	}

	return vb.Build()
}

// SweepResult counts what one pass did
type SweepResult struct {
	Forced     int
	Skipped    int
	Backfilled int
	Closed     int
	Expired    int
	Failed     int
}

// Sweeper finds overdue rooms and hands them to the orchestrators
type Sweeper struct {
	roomRepo    rooms.Repository
	battle      battle.Service
	matchmaking matchmaking.Service
	clock       clock.Clock

	interval      time.Duration
	turnTimeout   time.Duration
	backfillAfter time.Duration
	inviteExpiry  time.Duration
	concurrency   int
}

// New creates a sweeper
func New(cfg *Config) (*Sweeper, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	s := &Sweeper{
		roomRepo:      cfg.RoomRepo,
		battle:        cfg.Battle,
		matchmaking:   cfg.Matchmaking,
		clock:         cfg.Clock,
		interval:      cfg.Interval,
		turnTimeout:   cfg.TurnTimeout,
		backfillAfter: cfg.BackfillAfter,
		inviteExpiry:  cfg.InviteExpiry,
		concurrency:   cfg.Concurrency,
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.interval == 0 {
		s.interval = DefaultInterval
	}
	if s.turnTimeout == 0 {
		s.turnTimeout = battle.DefaultTurnTimeout
	}
	if s.backfillAfter == 0 {
		s.backfillAfter = DefaultBackfillAfter
	}
	if s.inviteExpiry == 0 {
		s.inviteExpiry = DefaultInviteExpiry
	}
	if s.concurrency == 0 {
		s.concurrency = defaultConcurrency
	}

	return s, nil
}

// Run sweeps on every tick until ctx ends
func (s *Sweeper) Run(ctx context.Context) error {
	slog.Info("Sweeper started",
		"interval", s.interval,
		"turn_timeout", s.turnTimeout,
		"backfill_after", s.backfillAfter,
		"invite_expiry", s.inviteExpiry)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Sweeper stopped")
			return nil
		case <-ticker.C:
			result, err := s.Sweep(ctx)
			if err != nil {
				slog.Error("Sweep failed", "error", err)
				continue
			}
			if result.Forced+result.Backfilled+result.Closed+result.Expired+result.Failed > 0 {
				slog.Info("Sweep finished",
					"forced", result.Forced,
					"skipped", result.Skipped,
					"backfilled", result.Backfilled,
					"closed", result.Closed,
					"expired", result.Expired,
					"failed", result.Failed)
			}
		}
	}
}

// Sweep makes one pass over PLAYING and WAITING rooms. Failures on
// single rooms are counted and logged; only listing failures are returned.
func (s *Sweeper) Sweep(ctx context.Context) (*SweepResult, error) {
	now := s.clock.Now()

	playing, err := s.roomRepo.ListByStatus(ctx, rooms.ListByStatusInput{Status: entities.StatusPlaying})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list playing rooms")
	}
	waiting, err := s.roomRepo.ListByStatus(ctx, rooms.ListByStatusInput{
		Status: entities.StatusWaiting,
		Mode:   entities.ModePVP,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list waiting rooms")
	}
	invites, err := s.roomRepo.ListByStatus(ctx, rooms.ListByStatusInput{
		Status: entities.StatusWaiting,
		Mode:   entities.ModeFriendInvite,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list invite rooms")
	}

	var (
		mu     sync.Mutex
		result SweepResult
	)
	record := func(f func(r *SweepResult)) {
		mu.Lock()
		defer mu.Unlock()
		f(&result)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.concurrency)

	for _, room := range playing.Rooms {
		if now.Sub(room.LastMoveAt) < s.turnTimeout {
			continue
		}
		observed := room.AttackCount
		eg.Go(func() error {
			out, err := s.battle.ForceTimeoutAttack(ctx, &battle.ForceTimeoutAttackInput{
				RoomID:              room.ID,
				ObservedAttackCount: &observed,
			})
			if err != nil {
				slog.Error("Timeout move failed", "room_id", room.ID, "error", err)
				record(func(r *SweepResult) { r.Failed++ })
				return nil
			}
			if out.Applied {
				record(func(r *SweepResult) { r.Forced++ })
			} else {
				record(func(r *SweepResult) { r.Skipped++ })
			}
			return nil
		})
	}

	for _, room := range waiting.Rooms {
		if now.Sub(room.CreatedAt) < s.backfillAfter {
			continue
		}
		eg.Go(func() error {
			out, err := s.matchmaking.BackfillAIOpponent(ctx, &matchmaking.BackfillAIOpponentInput{RoomID: room.ID})
			if err != nil {
				slog.Error("Backfill failed", "room_id", room.ID, "error", err)
				record(func(r *SweepResult) { r.Failed++ })
				return nil
			}
			switch {
			case out.Filled:
				record(func(r *SweepResult) { r.Backfilled++ })
			case out.Ended:
				record(func(r *SweepResult) { r.Closed++ })
			default:
				record(func(r *SweepResult) { r.Skipped++ })
			}
			return nil
		})
	}

	for _, room := range invites.Rooms {
		if now.Sub(room.CreatedAt) < s.inviteExpiry {
			continue
		}
		eg.Go(func() error {
			out, err := s.battle.CancelRoom(ctx, &battle.CancelRoomInput{
				RoomID:   room.ID,
				Reason:   entities.EndReasonExpired,
				IfStatus: entities.StatusWaiting,
			})
			if err != nil {
				slog.Error("Invite expiry failed", "room_id", room.ID, "error", err)
				record(func(r *SweepResult) { r.Failed++ })
				return nil
			}
			if out.Cancelled {
				record(func(r *SweepResult) { r.Expired++ })
			} else {
				record(func(r *SweepResult) { r.Skipped++ })
			}
			return nil
		})
	}

	// room failures are recorded, never returned
	_ = eg.Wait()

	return &result, nil
}
