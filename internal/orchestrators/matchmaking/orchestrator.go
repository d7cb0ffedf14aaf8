// Package matchmaking seats players in rooms: open PVP matching, instant
// rooms against the AI, invite codes, and AI backfill for rooms left waiting.
package matchmaking

//go:generate mockgen -destination=mock/mock_service.go -package=matchmakingmock github.com/KirkDiggler/skywar-api/internal/orchestrators/matchmaking Service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/errors"
	"github.com/KirkDiggler/skywar-api/internal/formation"
	"github.com/KirkDiggler/skywar-api/internal/orchestrators/battle"
	"github.com/KirkDiggler/skywar-api/internal/pkg/clock"
	"github.com/KirkDiggler/skywar-api/internal/pkg/idgen"
	"github.com/KirkDiggler/skywar-api/internal/pkg/random"
	"github.com/KirkDiggler/skywar-api/internal/pkg/retry"
	"github.com/KirkDiggler/skywar-api/internal/repositories/inventory"
	"github.com/KirkDiggler/skywar-api/internal/repositories/rooms"
)

const (
	// DefaultCodeAttempts bounds join code draws per room
	DefaultCodeAttempts = 10

	// DefaultBackfillAttempts and DefaultBackfillDelay bound the AI search
	DefaultBackfillAttempts = 3
	DefaultBackfillDelay    = time.Second
)

// Service defines the interface for matchmaking operations
type Service interface {
	// SubmitFormation enters a player into a room of the requested mode
	SubmitFormation(ctx context.Context, input *SubmitFormationInput) (*SubmitFormationOutput, error)

	// JoinByCode takes the open seat of an invite room. Retrying a join
	// that already succeeded returns the same room.
	JoinByCode(ctx context.Context, input *JoinByCodeInput) (*JoinByCodeOutput, error)

	// BackfillAIOpponent seats a free AI in a waiting room, or closes the
	// room with no_ai_available once the bounded search gives up
	BackfillAIOpponent(ctx context.Context, input *BackfillAIOpponentInput) (*BackfillAIOpponentOutput, error)

	// RandomFormation draws a valid layout
	RandomFormation(ctx context.Context, input *RandomFormationInput) (*RandomFormationOutput, error)
}

// Config holds the dependencies for the matchmaking orchestrator
type Config struct {
	RoomRepo      rooms.Repository
	InventoryRepo inventory.Repository
	Catalog       formation.Catalog
	// Battle ends rooms a new AI submission supersedes
	Battle        battle.Service
	IDGenerator   idgen.Generator
	CodeGenerator idgen.Generator
	Random        random.Source
	Clock         clock.Clock

	// AIRoster lists the identities that play as AI opponents
	AIRoster     []string
	CodeAttempts int
	Backfill     retry.Policy
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
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Battle == nil {
		vb.RequiredField("Battle")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.CodeGenerator == nil {
		vb.RequiredField("CodeGenerator")
	}
	if c.Random == nil {
		vb.RequiredField("Random")
	}
	if len(c.AIRoster) == 0 {
		vb.RequiredField("AIRoster")
	}
	if c.CodeAttempts < 0 {
		vb.Field("CodeAttempts", "must not be negative")
	}
	if c.Backfill.Attempts != 0 {
		if err := c.Backfill.Validate(); err != nil {
			vb.Field("Backfill", err.Error())
		}
	}

	return vb.Build()
}

type orchestrator struct {
	roomRepo      rooms.Repository
	inventoryRepo inventory.Repository
	catalog       formation.Catalog
	battle        battle.Service
	idGen         idgen.Generator
	codeGen       idgen.Generator
	random        random.Source
	clock         clock.Clock

	aiRoster     []string
	codeAttempts int
	backfill     retry.Policy

	backfills singleflight.Group
}

// NewOrchestrator creates a new matchmaking orchestrator with the provided dependencies
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
		catalog:       cfg.Catalog,
		battle:        cfg.Battle,
		idGen:         cfg.IDGenerator,
		codeGen:       cfg.CodeGenerator,
		random:        cfg.Random,
		clock:         cfg.Clock,
		aiRoster:      append([]string(nil), cfg.AIRoster...),
		codeAttempts:  cfg.CodeAttempts,
		backfill:      cfg.Backfill,
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.codeAttempts == 0 {
		o.codeAttempts = DefaultCodeAttempts
	}
	if o.backfill.Attempts == 0 {
		o.backfill = retry.Policy{Attempts: DefaultBackfillAttempts, Delay: DefaultBackfillDelay}
	}

	return o, nil
}

func (o *orchestrator) SubmitFormation(ctx context.Context, input *SubmitFormationInput) (*SubmitFormationOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("playerID", input.PlayerID, vb)
	if !input.Mode.Valid() {
		vb.Fieldf("mode", "unknown mode %q", input.Mode)
	}
	if input.Mode == entities.ModeAI {
		errors.ValidateRange("difficulty", int(input.Difficulty),
			int(entities.DifficultyEasy), int(entities.DifficultyHard), vb)
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	player, err := o.newPlayer(ctx, input.PlayerID, input.Formation)
	if err != nil {
		return nil, err
	}

	switch input.Mode {
	case entities.ModePVP:
		return o.matchPVP(ctx, player)
	case entities.ModeAI:
		return o.startAI(ctx, player, input.Difficulty)
	default:
		room, err := o.createRoom(ctx, o.newRoom(entities.ModeFriendInvite, player))
		if err != nil {
			return nil, err
		}
		slog.Info("Invite room created", "room_id", room.ID, "code", room.Code, "player_id", player.ID)
		return &SubmitFormationOutput{Room: room}, nil
	}
}

// newPlayer resolves a formation and copies the player's item loadout
func (o *orchestrator) newPlayer(ctx context.Context, playerID string, f entities.Formation) (entities.Player, error) {
	groupID, err := o.catalog.ResolveFormation(f)
	if err != nil {
		return entities.Player{}, err
	}

	loadout, err := o.inventoryRepo.Loadout(ctx, inventory.LoadoutInput{PlayerID: playerID})
	if err != nil {
		return entities.Player{}, errors.Wrapf(err, "failed to load items for %s", playerID)
	}

	return entities.Player{
		ID:               playerID,
		Role:             entities.RoleFirst,
		Kind:             entities.KindHuman,
		FormationGroupID: groupID,
		Board:            entities.NewBoard(),
		Items:            entities.NewItems(loadout.Items),
		JoinedAt:         o.clock.Now(),
	}, nil
}

func (o *orchestrator) newRoom(mode entities.Mode, first entities.Player) *entities.Room {
	now := o.clock.Now()
	return &entities.Room{
		ID:         o.idGen.Generate(),
		Mode:       mode,
		Status:     entities.StatusWaiting,
		Players:    []entities.Player{first},
		CreatedAt:  now,
		LastMoveAt: now,
	}
}

// start moves a full room to PLAYING with the first seat to move
func start(room *entities.Room, now time.Time) {
	room.Status = entities.StatusPlaying
	if first, ok := room.PlayerByRole(entities.RoleFirst); ok {
		room.CurrentPlayer = first.ID
	}
	room.StartedAt = now
	room.LastMoveAt = now
}

func needsOpponent(room *entities.Room) bool {
	return room.Status == entities.StatusWaiting && len(room.Players) < 2
}

// createRoom stores a room under a freshly drawn join code, redrawing on collision
func (o *orchestrator) createRoom(ctx context.Context, room *entities.Room) (*entities.Room, error) {
	for attempt := 1; attempt <= o.codeAttempts; attempt++ {
		room.Code = o.codeGen.Generate()

		out, err := o.roomRepo.Create(ctx, rooms.CreateInput{Room: room})
		if err == nil {
			return out.Room, nil
		}
		if !errors.IsAlreadyExists(err) {
			return nil, errors.Wrapf(err, "failed to create room %s", room.ID)
		}

		slog.Debug("Room code collision",
			"room_id", room.ID,
			"code", room.Code,
			"attempt", attempt)
	}

	return nil, errors.CodeExhausted(o.codeAttempts)
}

func (o *orchestrator) matchPVP(ctx context.Context, player entities.Player) (*SubmitFormationOutput, error) {
	listed, err := o.roomRepo.ListByStatus(ctx, rooms.ListByStatusInput{
		Status: entities.StatusWaiting,
		Mode:   entities.ModePVP,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list waiting rooms")
	}

	// a resubmission while still waiting keeps the existing seat
	for _, candidate := range listed.Rooms {
		if candidate.HasPlayer(player.ID) {
			return &SubmitFormationOutput{Room: candidate}, nil
		}
	}

	for _, candidate := range listed.Rooms {
		if !needsOpponent(candidate) {
			continue
		}

		room, err := o.seat(ctx, candidate.ID, player)
		if err == nil {
			slog.Info("Player joined PVP room",
				"room_id", room.ID,
				"player_id", player.ID,
				"current_player", room.CurrentPlayer)
			return &SubmitFormationOutput{Room: room, Joined: true}, nil
		}
		if errors.HasReason(err, errors.ReasonRoomFull) || errors.IsNotFound(err) {
			// another joiner won this room
			slog.Debug("Lost PVP seat race", "room_id", candidate.ID, "player_id", player.ID)
			continue
		}
		return nil, err
	}

	room, err := o.createRoom(ctx, o.newRoom(entities.ModePVP, player))
	if err != nil {
		return nil, err
	}
	slog.Info("PVP room waiting", "room_id", room.ID, "player_id", player.ID)
	return &SubmitFormationOutput{Room: room}, nil
}

// seat puts a player in the second seat of a waiting room and starts play
func (o *orchestrator) seat(ctx context.Context, roomID string, player entities.Player) (*entities.Room, error) {
	now := o.clock.Now()
	out, err := o.roomRepo.Update(ctx, rooms.UpdateInput{
		ID: roomID,
		Mutate: func(room *entities.Room) error {
			if !needsOpponent(room) || room.HasPlayer(player.ID) {
				return errors.RoomFull(room.ID)
			}
			joined := player
			joined.Role = entities.RoleSecond
			joined.JoinedAt = now
			room.Players = append(room.Players, joined)
			start(room, now)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return out.Room, nil
}

func (o *orchestrator) startAI(ctx context.Context, player entities.Player, difficulty entities.Difficulty) (*SubmitFormationOutput, error) {
	superseded, err := o.supersedeAIRooms(ctx, player.ID)
	if err != nil {
		return nil, err
	}

	aiID, err := random.Pick(o.random, o.aiRoster)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pick an AI opponent")
	}
	groupID, err := o.catalog.RandomGroupID(o.random)
	if err != nil {
		return nil, err
	}

	room := o.newRoom(entities.ModeAI, player)
	room.Difficulty = difficulty
	room.Players = append(room.Players, entities.Player{
		ID:               aiID,
		Role:             entities.RoleSecond,
		Kind:             entities.KindAI,
		FormationGroupID: groupID,
		Board:            entities.NewBoard(),
		JoinedAt:         room.CreatedAt,
	})
	start(room, room.CreatedAt)

	created, err := o.createRoom(ctx, room)
	if err != nil {
		return nil, err
	}

	slog.Info("AI room started",
		"room_id", created.ID,
		"player_id", player.ID,
		"ai_id", aiID,
		"difficulty", difficulty)

	return &SubmitFormationOutput{Room: created, Superseded: superseded}, nil
}

// supersedeAIRooms ends the player's unfinished AI rooms; one live AI room per player
func (o *orchestrator) supersedeAIRooms(ctx context.Context, playerID string) ([]string, error) {
	listed, err := o.roomRepo.ListActiveByPlayer(ctx, rooms.ListActiveByPlayerInput{PlayerID: playerID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list rooms for %s", playerID)
	}

	var ended []string
	for _, room := range listed.Rooms {
		if room.Mode != entities.ModeAI {
			continue
		}
		out, err := o.battle.CancelRoom(ctx, &battle.CancelRoomInput{
			RoomID: room.ID,
			Reason: entities.EndReasonSuperseded,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to end previous AI room %s", room.ID)
		}
		if out.Cancelled {
			ended = append(ended, room.ID)
		}
	}
	return ended, nil
}

func (o *orchestrator) JoinByCode(ctx context.Context, input *JoinByCodeInput) (*JoinByCodeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("playerID", input.PlayerID, vb)
	errors.ValidateRequired("code", input.Code, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	player, err := o.newPlayer(ctx, input.PlayerID, input.Formation)
	if err != nil {
		return nil, err
	}

	got, err := o.roomRepo.GetByCode(ctx, rooms.GetByCodeInput{Code: input.Code})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.RoomExpired(input.Code)
		}
		return nil, err
	}
	if got.Room.Mode == entities.ModeAI {
		return nil, errors.RoomFull(got.Room.ID)
	}

	now := o.clock.Now()
	out, err := o.roomRepo.Update(ctx, rooms.UpdateInput{
		ID: got.Room.ID,
		Mutate: func(room *entities.Room) error {
			switch room.Status {
			case entities.StatusWaiting:
				if room.HasPlayer(player.ID) {
					return errors.InvalidArgument("cannot join a room you created")
				}
				if !needsOpponent(room) {
					return errors.RoomFull(room.ID)
				}
				joined := player
				joined.Role = entities.RoleSecond
				joined.JoinedAt = now
				room.Players = append(room.Players, joined)
				start(room, now)
				return nil
			case entities.StatusPlaying:
				if second, ok := room.PlayerByRole(entities.RoleSecond); ok && second.ID == player.ID {
					// retried join; leave the room as it is
					return nil
				}
				return errors.RoomFull(room.ID)
			default:
				return errors.RoomExpired(input.Code)
			}
		},
	})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.RoomExpired(input.Code)
		}
		return nil, err
	}

	if out.Changed {
		slog.Info("Player joined invite room",
			"room_id", out.Room.ID,
			"player_id", player.ID)
	}

	return &JoinByCodeOutput{
		Room:     out.Room,
		Replayed: !out.Changed,
	}, nil
}

func (o *orchestrator) BackfillAIOpponent(ctx context.Context, input *BackfillAIOpponentInput) (*BackfillAIOpponentOutput, error) {
	if input == nil || input.RoomID == "" {
		return nil, errors.InvalidArgument("room ID is required")
	}

	v, err, shared := o.backfills.Do(input.RoomID, func() (interface{}, error) {
		return o.backfillRoom(ctx, input.RoomID)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.Debug("Backfill shared with a concurrent call", "room_id", input.RoomID)
	}

	return v.(*BackfillAIOpponentOutput), nil
}

func (o *orchestrator) backfillRoom(ctx context.Context, roomID string) (*BackfillAIOpponentOutput, error) {
	got, err := o.roomRepo.Get(ctx, rooms.GetInput{ID: roomID})
	if err != nil {
		return nil, err
	}
	if !needsOpponent(got.Room) {
		return &BackfillAIOpponentOutput{Room: got.Room}, nil
	}

	var (
		seated   *entities.Room
		aiID     string
		attempts int
	)
	err = retry.Do(ctx, o.backfill, "backfill ai opponent", func(ctx context.Context, attempt int) error {
		attempts = attempt

		free, err := o.freeAI(ctx)
		if err != nil {
			return err
		}
		if len(free) == 0 {
			return errors.NoAIAvailable(roomID)
		}

		pick, err := random.Pick(o.random, free)
		if err != nil {
			return retry.Permanent(err)
		}

		room, err := o.seatAI(ctx, roomID, pick)
		if err != nil {
			if errors.HasReason(err, errors.ReasonRoomFull) || errors.IsNotFound(err) {
				return retry.Permanent(err)
			}
			if errors.HasReason(err, errors.ReasonPlayerBusy) {
				// another room took this AI after the busy check
				slog.Debug("AI seated elsewhere", "room_id", roomID, "ai_id", pick)
			}
			return err
		}

		seated, aiID = room, pick
		return nil
	})
	if err == nil {
		slog.Info("AI opponent seated",
			"room_id", roomID,
			"ai_id", aiID,
			"attempts", attempts)
		return &BackfillAIOpponentOutput{
			Room:       seated,
			Filled:     true,
			AIPlayerID: aiID,
			Attempts:   attempts,
		}, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	// the room may have been filled by a human while we searched
	now := o.clock.Now()
	out, uerr := o.roomRepo.Update(ctx, rooms.UpdateInput{
		ID: roomID,
		Mutate: func(room *entities.Room) error {
			if needsOpponent(room) {
				room.End(entities.EndReasonNoAIAvailable, "", now)
			}
			return nil
		},
	})
	if uerr != nil {
		return nil, errors.Wrapf(uerr, "failed to re-check room %s after backfill", roomID)
	}

	if out.Changed {
		slog.Warn("No AI opponent available, room closed",
			"room_id", roomID,
			"attempts", attempts,
			"last_error", err)
	}

	return &BackfillAIOpponentOutput{
		Room:     out.Room,
		Ended:    out.Changed,
		Attempts: attempts,
	}, nil
}

// freeAI lists roster identities not seated in any WAITING or PLAYING room
func (o *orchestrator) freeAI(ctx context.Context) ([]string, error) {
	busy := make([]bool, len(o.aiRoster))

	eg, ctx := errgroup.WithContext(ctx)
	for i, id := range o.aiRoster {
		eg.Go(func() error {
			listed, err := o.roomRepo.ListActiveByPlayer(ctx, rooms.ListActiveByPlayerInput{PlayerID: id})
			if err != nil {
				return errors.Wrapf(err, "failed to check AI %s", id)
			}
			busy[i] = len(listed.Rooms) > 0
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var free []string
	for i, id := range o.aiRoster {
		if !busy[i] {
			free = append(free, id)
		}
	}
	return free, nil
}

func (o *orchestrator) seatAI(ctx context.Context, roomID, aiID string) (*entities.Room, error) {
	groupID, err := o.catalog.RandomGroupID(o.random)
	if err != nil {
		return nil, err
	}

	now := o.clock.Now()
	out, err := o.roomRepo.Update(ctx, rooms.UpdateInput{
		ID:        roomID,
		Exclusive: []string{aiID},
		Mutate: func(room *entities.Room) error {
			if !needsOpponent(room) {
				return errors.RoomFull(room.ID)
			}
			room.Players = append(room.Players, entities.Player{
				ID:               aiID,
				Role:             entities.RoleSecond,
				Kind:             entities.KindAI,
				FormationGroupID: groupID,
				Board:            entities.NewBoard(),
				JoinedAt:         now,
			})
			start(room, now)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return out.Room, nil
}

func (o *orchestrator) RandomFormation(_ context.Context, _ *RandomFormationInput) (*RandomFormationOutput, error) {
	groupID, err := o.catalog.RandomGroupID(o.random)
	if err != nil {
		return nil, err
	}

	group, err := o.catalog.HeadAndBody(groupID)
	if err != nil {
		return nil, err
	}

	f, err := o.catalog.Formation(groupID)
	if err != nil {
		return nil, err
	}

	return &RandomFormationOutput{
		GroupID:   groupID,
		Group:     group,
		Formation: f,
	}, nil
}
