// Package v1alpha1 handles the battle room gRPC service
package v1alpha1

import (
	"context"

	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/errors"
	"github.com/KirkDiggler/skywar-api/internal/orchestrators/battle"
	"github.com/KirkDiggler/skywar-api/internal/orchestrators/matchmaking"
)

// HandlerConfig holds dependencies for the battle handler
type HandlerConfig struct {
	BattleService      battle.Service
	MatchmakingService matchmaking.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.BattleService == nil {
		vb.RequiredField("BattleService")
	}
	if c.MatchmakingService == nil {
		vb.RequiredField("MatchmakingService")
	}

	return vb.Build()
}

// Handler implements BattleServiceServer
type Handler struct {
	battleService      battle.Service
	matchmakingService matchmaking.Service
}

var _ BattleServiceServer = (*Handler)(nil)

// NewHandler creates a new battle handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		battleService:      cfg.BattleService,
		matchmakingService: cfg.MatchmakingService,
	}, nil
}

// SubmitFormation enters matchmaking
func (h *Handler) SubmitFormation(
	ctx context.Context,
	req *SubmitFormationRequest,
) (*SubmitFormationResponse, error) {
	if req.Identity == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("identity is required"))
	}

	out, err := h.matchmakingService.SubmitFormation(ctx, &matchmaking.SubmitFormationInput{
		PlayerID:   req.Identity,
		Formation:  req.Formation,
		Mode:       req.Mode,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &SubmitFormationResponse{
		Room:       out.Room.ViewFor(req.Identity),
		Joined:     out.Joined,
		Superseded: out.Superseded,
	}, nil
}

// JoinByCode joins an invite room
func (h *Handler) JoinByCode(
	ctx context.Context,
	req *JoinByCodeRequest,
) (*JoinByCodeResponse, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("identity", req.Identity, vb)
	errors.ValidateRequired("code", req.Code, vb)
	if err := vb.Build(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.matchmakingService.JoinByCode(ctx, &matchmaking.JoinByCodeInput{
		PlayerID:  req.Identity,
		Code:      req.Code,
		Formation: req.Formation,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &JoinByCodeResponse{
		Room:     out.Room.ViewFor(req.Identity),
		Replayed: out.Replayed,
	}, nil
}

// SubmitAttack attacks the opponent's board
func (h *Handler) SubmitAttack(
	ctx context.Context,
	req *SubmitAttackRequest,
) (*SubmitAttackResponse, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("identity", req.Identity, vb)
	errors.ValidateRequired("room_id", req.RoomID, vb)
	if len(req.Cells) == 0 {
		vb.RequiredField("cells")
	}
	if err := vb.Build(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.battleService.SubmitAttack(ctx, &battle.SubmitAttackInput{
		PlayerID: req.Identity,
		RoomID:   req.RoomID,
		Cells:    req.Cells,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	// the AI reply, when there is one, carries the latest room
	latest := out.Result.Room
	if out.AIMove != nil {
		latest = out.AIMove.Room
	}

	return &SubmitAttackResponse{
		Room:   latest.ViewFor(req.Identity),
		Result: convertAttackResult(out.Result),
		AIMove: convertAttackResult(out.AIMove),
	}, nil
}

// ForceTimeoutAttack plays a timed-out turn
func (h *Handler) ForceTimeoutAttack(
	ctx context.Context,
	req *ForceTimeoutAttackRequest,
) (*ForceTimeoutAttackResponse, error) {
	if req.RoomID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("room_id is required"))
	}

	out, err := h.battleService.ForceTimeoutAttack(ctx, &battle.ForceTimeoutAttackInput{
		RoomID:              req.RoomID,
		ObservedAttackCount: req.ObservedAttackCount,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &ForceTimeoutAttackResponse{
		Applied: out.Applied,
		Reason:  out.Reason,
		Result:  convertAttackResult(out.Result),
		AIMove:  convertAttackResult(out.AIMove),
	}, nil
}

// BackfillAIOpponent seats an AI in a waiting room
func (h *Handler) BackfillAIOpponent(
	ctx context.Context,
	req *BackfillAIOpponentRequest,
) (*BackfillAIOpponentResponse, error) {
	if req.RoomID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("room_id is required"))
	}

	out, err := h.matchmakingService.BackfillAIOpponent(ctx, &matchmaking.BackfillAIOpponentInput{
		RoomID: req.RoomID,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &BackfillAIOpponentResponse{
		Filled:     out.Filled,
		Ended:      out.Ended,
		AIPlayerID: out.AIPlayerID,
		Attempts:   out.Attempts,
	}, nil
}

// GetRoom returns the room as the caller may see it
func (h *Handler) GetRoom(
	ctx context.Context,
	req *GetRoomRequest,
) (*GetRoomResponse, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("identity", req.Identity, vb)
	errors.ValidateRequired("room_id", req.RoomID, vb)
	if err := vb.Build(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.battleService.GetRoom(ctx, &battle.GetRoomInput{
		RoomID:   req.RoomID,
		PlayerID: req.Identity,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &GetRoomResponse{
		Room:     out.Room,
		HeadsHit: out.HeadsHit,
	}, nil
}

// CancelRoom ends a room administratively
func (h *Handler) CancelRoom(
	ctx context.Context,
	req *CancelRoomRequest,
) (*CancelRoomResponse, error) {
	if req.RoomID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("room_id is required"))
	}

	out, err := h.battleService.CancelRoom(ctx, &battle.CancelRoomInput{
		RoomID: req.RoomID,
		Reason: req.Reason,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &CancelRoomResponse{
		Cancelled: out.Cancelled,
		Status:    out.Room.Status,
		EndReason: out.Room.EndReason,
	}, nil
}

// RandomFormation draws a layout the caller can submit
func (h *Handler) RandomFormation(
	ctx context.Context,
	_ *RandomFormationRequest,
) (*RandomFormationResponse, error) {
	out, err := h.matchmakingService.RandomFormation(ctx, &matchmaking.RandomFormationInput{})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &RandomFormationResponse{
		GroupID:   out.GroupID,
		Group:     out.Group,
		Formation: out.Formation,
	}, nil
}

// convertAttackResult keeps the revealed cell states and drops the
// classification, which would expose a dodged head
func convertAttackResult(result *battle.AttackResult) *AttackResult {
	if result == nil {
		return nil
	}

	cells := make([]CellResult, 0, len(result.Outcomes))
	for _, outcome := range result.Outcomes {
		cells = append(cells, CellResult{
			Cell:  outcome.Cell,
			State: outcome.State,
		})
	}

	var events []entities.Event
	if len(result.Events) > 0 {
		events = append(events, result.Events...)
	}

	return &AttackResult{
		Attacker:   result.Attacker,
		Defender:   result.Defender,
		Cells:      cells,
		ShieldUsed: result.ShieldUsed,
		DoubleShot: result.DoubleShot,
		Events:     events,
		HeadsHit:   result.HeadsHit,
		Ended:      result.Ended,
		Winner:     result.Winner,
		Forced:     result.Forced,
	}
}
