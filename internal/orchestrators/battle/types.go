package battle

import (
	"github.com/KirkDiggler/skywar-api/internal/engine"
	"github.com/KirkDiggler/skywar-api/internal/entities"
)

// AttackResult describes one committed attack
type AttackResult struct {
	// Room is the committed room document, unmasked
	Room     *entities.Room
	Attacker string
	Defender string
	Cells    []int
	Outcomes []engine.CellOutcome
	// ShieldUsed is the defender item that absorbed the attack, if any
	ShieldUsed entities.ItemID
	DoubleShot bool
	Events     []entities.Event
	// HeadsHit is the defender's destroyed head count after the attack
	HeadsHit int
	Ended    bool
	Winner   string
	// Forced is set for moves the server chose on the attacker's behalf
	Forced bool
}

// SubmitAttackInput defines the request for attacking
type SubmitAttackInput struct {
	PlayerID string
	RoomID   string
	Cells    []int
}

// SubmitAttackOutput defines the response for attacking
type SubmitAttackOutput struct {
	Result *AttackResult
	// AIMove is the opponent's immediate reply in AI rooms
	AIMove *AttackResult
}

// ForceTimeoutAttackInput defines the request for a timeout-forced move
type ForceTimeoutAttackInput struct {
	RoomID string
	// ObservedAttackCount pins the turn the caller saw time out. Nil skips the check.
	ObservedAttackCount *int
}

// ForceTimeoutAttackOutput defines the response for a timeout-forced move
type ForceTimeoutAttackOutput struct {
	// Applied is false when the room moved on; this is not an error
	Applied bool
	// Reason says why nothing was applied
	Reason string
	Result *AttackResult
	AIMove *AttackResult
}

// GetRoomInput defines the request for viewing a room
type GetRoomInput struct {
	RoomID   string
	PlayerID string
}

// GetRoomOutput defines the response for viewing a room
type GetRoomOutput struct {
	// Room is masked for the viewer
	Room *entities.Room
	// HeadsHit counts destroyed heads per player board
	HeadsHit map[string]int
}

// CancelRoomInput defines the request for ending a room administratively
type CancelRoomInput struct {
	RoomID string
	// Reason defaults to cancelled
	Reason entities.EndReason
	// IfStatus, when set, leaves a room in any other status untouched
	IfStatus entities.Status
}

// CancelRoomOutput defines the response for ending a room administratively
type CancelRoomOutput struct {
	Room *entities.Room
	// Cancelled is false if the room had already ended
	Cancelled bool
}
