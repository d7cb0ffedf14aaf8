package v1alpha1

import (
	"github.com/KirkDiggler/skywar-api/internal/entities"
)

// SubmitFormationRequest enters matchmaking with a formation
type SubmitFormationRequest struct {
	Identity   string              `json:"identity"`
	Formation  entities.Formation  `json:"formation"`
	Mode       entities.Mode       `json:"mode"`
	Difficulty entities.Difficulty `json:"difficulty,omitempty"`
}

// SubmitFormationResponse returns the caller's room
type SubmitFormationResponse struct {
	Room       *entities.Room `json:"room"`
	Joined     bool           `json:"joined"`
	Superseded []string       `json:"superseded,omitempty"`
}

// JoinByCodeRequest takes the open seat of an invite room
type JoinByCodeRequest struct {
	Identity  string             `json:"identity"`
	Code      string             `json:"code"`
	Formation entities.Formation `json:"formation"`
}

// JoinByCodeResponse returns the joined room
type JoinByCodeResponse struct {
	Room     *entities.Room `json:"room"`
	Replayed bool           `json:"replayed"`
}

// SubmitAttackRequest calls one or two cells on the opponent's board
type SubmitAttackRequest struct {
	Identity string `json:"identity"`
	RoomID   string `json:"room_id"`
	Cells    []int  `json:"cells"`
}

// CellResult is the revealed state of one attacked cell
type CellResult struct {
	Cell  int                `json:"cell"`
	State entities.CellState `json:"state"`
}

// AttackResult is one committed move
type AttackResult struct {
	Attacker   string           `json:"attacker"`
	Defender   string           `json:"defender"`
	Cells      []CellResult     `json:"cells"`
	ShieldUsed entities.ItemID  `json:"shield_used,omitempty"`
	DoubleShot bool             `json:"double_shot,omitempty"`
	Events     []entities.Event `json:"events,omitempty"`
	HeadsHit   int              `json:"heads_hit"`
	Ended      bool             `json:"ended"`
	Winner     string           `json:"winner,omitempty"`
	Forced     bool             `json:"forced,omitempty"`
}

// SubmitAttackResponse returns the move and, in AI rooms, the reply
type SubmitAttackResponse struct {
	Room   *entities.Room `json:"room"`
	Result *AttackResult  `json:"result"`
	AIMove *AttackResult  `json:"ai_move,omitempty"`
}

// ForceTimeoutAttackRequest plays a timed-out turn
type ForceTimeoutAttackRequest struct {
	RoomID              string `json:"room_id"`
	ObservedAttackCount *int   `json:"observed_attack_count,omitempty"`
}

// ForceTimeoutAttackResponse reports whether a move was played
type ForceTimeoutAttackResponse struct {
	Applied bool          `json:"applied"`
	Reason  string        `json:"reason,omitempty"`
	Result  *AttackResult `json:"result,omitempty"`
	AIMove  *AttackResult `json:"ai_move,omitempty"`
}

// BackfillAIOpponentRequest seats an AI in a waiting room
type BackfillAIOpponentRequest struct {
	RoomID string `json:"room_id"`
}

// BackfillAIOpponentResponse reports the backfill outcome
type BackfillAIOpponentResponse struct {
	Filled     bool   `json:"filled"`
	Ended      bool   `json:"ended"`
	AIPlayerID string `json:"ai_player_id,omitempty"`
	Attempts   int    `json:"attempts"`
}

// GetRoomRequest views a room
type GetRoomRequest struct {
	Identity string `json:"identity"`
	RoomID   string `json:"room_id"`
}

// GetRoomResponse carries the room as the caller may see it
type GetRoomResponse struct {
	Room     *entities.Room `json:"room"`
	HeadsHit map[string]int `json:"heads_hit"`
}

// CancelRoomRequest ends a room administratively
type CancelRoomRequest struct {
	RoomID string             `json:"room_id"`
	Reason entities.EndReason `json:"reason,omitempty"`
}

// CancelRoomResponse reports whether the room was ended by this call
type CancelRoomResponse struct {
	Cancelled bool               `json:"cancelled"`
	Status    entities.Status    `json:"status"`
	EndReason entities.EndReason `json:"end_reason,omitempty"`
}

// RandomFormationRequest asks for a random layout
type RandomFormationRequest struct{}

// RandomFormationResponse carries a layout ready to submit
type RandomFormationResponse struct {
	GroupID   int                      `json:"group_id"`
	Group     *entities.FormationGroup `json:"group"`
	Formation entities.Formation       `json:"formation"`
}
