// Package battle runs the room state machine: turn order, attack resolution,
// timeout-forced moves, AI replies and room endings. Every room mutation is
// one conditional update through the room repository.
package battle

//go:generate mockgen -destination=mock/mock_service.go -package=battlemock github.com/KirkDiggler/skywar-api/internal/orchestrators/battle Service

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/skywar-api/internal/engine"
	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/errors"
	"github.com/KirkDiggler/skywar-api/internal/notifier"
	"github.com/KirkDiggler/skywar-api/internal/pkg/clock"
	"github.com/KirkDiggler/skywar-api/internal/pkg/random"
	"github.com/KirkDiggler/skywar-api/internal/repositories/inventory"
	"github.com/KirkDiggler/skywar-api/internal/repositories/rooms"
)

const (
	// DefaultTurnTimeout is how long a player may hold the turn
	DefaultTurnTimeout = 30 * time.Second

	// DefaultAIMoveDelayMin and DefaultAIMoveDelayMax bound the pause before
	// an AI opponent replies in a PVP room
	DefaultAIMoveDelayMin = 2 * time.Second
	DefaultAIMoveDelayMax = 6 * time.Second

	aiMoveTimeout = 10 * time.Second
)

// Service defines the interface for battle room operations
type Service interface {
	// SubmitAttack resolves the actor's attack on the opponent's board
	SubmitAttack(ctx context.Context, input *SubmitAttackInput) (*SubmitAttackOutput, error)

	// ForceTimeoutAttack plays a random move for a player whose turn timed out.
	// A room that moved on is a no-op, not an error.
	ForceTimeoutAttack(ctx context.Context, input *ForceTimeoutAttackInput) (*ForceTimeoutAttackOutput, error)

	// GetRoom returns the room as the caller may see it
	GetRoom(ctx context.Context, input *GetRoomInput) (*GetRoomOutput, error)

	// CancelRoom ends a room that has not ended yet
	CancelRoom(ctx context.Context, input *CancelRoomInput) (*CancelRoomOutput, error)
}

// ScheduleFunc runs task once after delay
type ScheduleFunc func(delay time.Duration, task func())

// Config holds the dependencies for the battle orchestrator
type Config struct {
	RoomRepo      rooms.Repository
	InventoryRepo inventory.Repository
	Engine        engine.Engine
	Notifier      notifier.Notifier
	Random        random.Source
	Clock         clock.Clock

	TurnTimeout    time.Duration
	AIMoveDelayMin time.Duration
	AIMoveDelayMax time.Duration

	// Schedule defers PVP AI replies; defaults to time.AfterFunc
	Schedule ScheduleFunc
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.RoomRepo == nil {
		vb.RequiredField("RoomRepo")
	}
	if c.InventoryRepo == nil {
		vb.RequiredField("InventoryRepo")
	}
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.Notifier == nil {
		vb.RequiredField("Notifier")
	}
	if c.Random == nil {
		vb.RequiredField("Random")
	}
	if c.TurnTimeout < 0 {
		vb.Field("TurnTimeout", "must not be negative")
	}
	if c.AIMoveDelayMin < 0 || c.AIMoveDelayMax < 0 {
		vb.Field("AIMoveDelay", "must not be negative")
	}
	if c.AIMoveDelayMax < c.AIMoveDelayMin {
		vb.Field("AIMoveDelayMax", "must not be below AIMoveDelayMin")
	}

	return vb.Build()
}

type orchestrator struct {
	roomRepo      rooms.Repository
	inventoryRepo inventory.Repository
	engine        engine.Engine
	notifier      notifier.Notifier
	random        random.Source
	clock         clock.Clock

	turnTimeout time.Duration
	aiDelayMin  time.Duration
	aiDelayMax  time.Duration
	schedule    ScheduleFunc
}

// NewOrchestrator creates a new battle orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &orchestrator{
		roomRepo:      cfg.RoomRepo,
		inventoryRepo: cfg.InventoryRepo,
		engine:        cfg.Engine,
		notifier:      cfg.Notifier,
		random:        cfg.Random,
		clock:         cfg.Clock,
		turnTimeout:   cfg.TurnTimeout,
		aiDelayMin:    cfg.AIMoveDelayMin,
		aiDelayMax:    cfg.AIMoveDelayMax,
		schedule:      cfg.Schedule,
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.turnTimeout == 0 {
		o.turnTimeout = DefaultTurnTimeout
	}
	if o.aiDelayMin == 0 && o.aiDelayMax == 0 {
		o.aiDelayMin, o.aiDelayMax = DefaultAIMoveDelayMin, DefaultAIMoveDelayMax
	}
	if o.schedule == nil {
		o.schedule = func(delay time.Duration, task func()) {
			time.AfterFunc(delay, task)
		}
	}

	return o, nil
}

func (o *orchestrator) SubmitAttack(ctx context.Context, input *SubmitAttackInput) (*SubmitAttackOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("roomID", input.RoomID, vb)
	errors.ValidateRequired("playerID", input.PlayerID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	result, err := o.attack(ctx, attackPlan{
		roomID: input.RoomID,
		actor:  input.PlayerID,
		cells:  input.Cells,
	})
	if err != nil {
		return nil, err
	}

	return &SubmitAttackOutput{
		Result: result,
		AIMove: o.followUp(ctx, result),
	}, nil
}

func (o *orchestrator) ForceTimeoutAttack(ctx context.Context, input *ForceTimeoutAttackInput) (*ForceTimeoutAttackOutput, error) {
	if input == nil || input.RoomID == "" {
		return nil, errors.InvalidArgument("room ID is required")
	}

	result, err := o.attack(ctx, attackPlan{
		roomID:         input.RoomID,
		serverChosen:   true,
		observed:       input.ObservedAttackCount,
		requireTimeout: true,
	})
	if err != nil {
		if reason := skipReason(err); reason != "" {
			slog.Debug("Timeout move skipped",
				"room_id", input.RoomID,
				"reason", reason)
			return &ForceTimeoutAttackOutput{Reason: string(reason)}, nil
		}
		return nil, err
	}
	result.Forced = true

	slog.Info("Timeout move applied",
		"room_id", input.RoomID,
		"attacker", result.Attacker,
		"cells", result.Cells)

	return &ForceTimeoutAttackOutput{
		Applied: true,
		Result:  result,
		AIMove:  o.followUp(ctx, result),
	}, nil
}

// skipReason maps the failures that mean "the room moved on" to a reason
func skipReason(err error) errors.Reason {
	switch reason := errors.GetReason(err); reason {
	case errors.ReasonRoomNotFound,
		errors.ReasonRoomNotPlaying,
		errors.ReasonTurnChanged,
		errors.ReasonTurnNotExpired:
		return reason
	}
	return ""
}

func (o *orchestrator) GetRoom(ctx context.Context, input *GetRoomInput) (*GetRoomOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("roomID", input.RoomID, vb)
	errors.ValidateRequired("playerID", input.PlayerID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	got, err := o.roomRepo.Get(ctx, rooms.GetInput{ID: input.RoomID})
	if err != nil {
		return nil, err
	}

	heads := make(map[string]int, len(got.Room.Players))
	for _, p := range got.Room.Players {
		heads[p.ID] = engine.CountHeadsHit(p.Board)
	}

	return &GetRoomOutput{
		Room:     got.Room.ViewFor(input.PlayerID),
		HeadsHit: heads,
	}, nil
}

func (o *orchestrator) CancelRoom(ctx context.Context, input *CancelRoomInput) (*CancelRoomOutput, error) {
	if input == nil || input.RoomID == "" {
		return nil, errors.InvalidArgument("room ID is required")
	}

	reason := input.Reason
	if reason == "" {
		reason = entities.EndReasonCancelled
	}
	switch reason {
	case entities.EndReasonCancelled, entities.EndReasonSuperseded, entities.EndReasonExpired:
	default:
		return nil, errors.InvalidArgumentf("%s is not a cancellation reason", reason)
	}

	now := o.clock.Now()
	out, err := o.roomRepo.Update(ctx, rooms.UpdateInput{
		ID: input.RoomID,
		Mutate: func(room *entities.Room) error {
			if input.IfStatus != "" && room.Status != input.IfStatus {
				return nil
			}
			room.End(reason, "", now)
			return nil
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to cancel room %s", input.RoomID)
	}

	if out.Changed {
		slog.Info("Room cancelled",
			"room_id", input.RoomID,
			"reason", reason,
			"previous_status", out.Previous.Status)
		if out.Previous.Status == entities.StatusPlaying {
			o.notify(ctx, out.Room)
		}
	}

	return &CancelRoomOutput{
		Room:      out.Room,
		Cancelled: out.Changed,
	}, nil
}

// followUp plays or schedules the AI's reply when the turn passed to an AI
func (o *orchestrator) followUp(ctx context.Context, result *AttackResult) *AttackResult {
	room := result.Room
	if result.Ended {
		return nil
	}
	next, ok := room.Player(room.CurrentPlayer)
	if !ok || !next.IsAI() {
		return nil
	}

	if room.Mode == entities.ModeAI {
		move, err := o.playAI(ctx, room.ID, next.ID, room.AttackCount)
		if err != nil {
			// the sweeper forces the move once the turn times out
			slog.Warn("AI reply failed",
				"room_id", room.ID,
				"ai_id", next.ID,
				"error", err)
			return nil
		}
		return move
	}

	o.scheduleAI(room.ID, next.ID, room.AttackCount)
	return nil
}

func (o *orchestrator) playAI(ctx context.Context, roomID, aiID string, attackCount int) (*AttackResult, error) {
	return o.attack(ctx, attackPlan{
		roomID:       roomID,
		actor:        aiID,
		serverChosen: true,
		observed:     &attackCount,
	})
}

func (o *orchestrator) scheduleAI(roomID, aiID string, attackCount int) {
	delay := o.aiDelay()

	slog.Debug("AI reply scheduled",
		"room_id", roomID,
		"ai_id", aiID,
		"delay", delay)

	o.schedule(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), aiMoveTimeout)
		defer cancel()

		if _, err := o.playAI(ctx, roomID, aiID, attackCount); err != nil {
			if errors.IsFailedPrecondition(err) || errors.IsNotFound(err) {
				slog.Debug("Scheduled AI reply skipped", "room_id", roomID, "error", err)
				return
			}
			slog.Error("Scheduled AI reply failed",
				"room_id", roomID,
				"ai_id", aiID,
				"error", err)
		}
	})
}

func (o *orchestrator) aiDelay() time.Duration {
	ms, err := random.Between(o.random, int(o.aiDelayMin.Milliseconds()), int(o.aiDelayMax.Milliseconds()))
	if err != nil {
		return o.aiDelayMin
	}
	return time.Duration(ms) * time.Millisecond
}

func (o *orchestrator) notify(ctx context.Context, room *entities.Room) {
	summary := BuildSummary(room)

	slog.Info("Room ended",
		"room_id", room.ID,
		"end_reason", room.EndReason,
		"winner", room.Winner,
		"attack_count", room.AttackCount)

	if err := o.notifier.OnRoomEnded(ctx, summary); err != nil {
		slog.Error("Failed to hand off room summary",
			"room_id", room.ID,
			"error", err)
	}
}
