package matchmaking

import (
	"github.com/KirkDiggler/skywar-api/internal/entities"
)

// SubmitFormationInput defines the request for entering matchmaking
type SubmitFormationInput struct {
	PlayerID  string
	Formation entities.Formation
	Mode      entities.Mode
	// Difficulty is required for AI rooms and ignored otherwise
	Difficulty entities.Difficulty
}

// SubmitFormationOutput defines the response for entering matchmaking
type SubmitFormationOutput struct {
	Room *entities.Room
	// Joined is true when the player took the open seat of a waiting room
	Joined bool
	// Superseded lists the caller's AI rooms that this submission ended
	Superseded []string
}

// JoinByCodeInput defines the request for joining an invite
type JoinByCodeInput struct {
	PlayerID  string
	Code      string
	Formation entities.Formation
}

// JoinByCodeOutput defines the response for joining an invite
type JoinByCodeOutput struct {
	Room *entities.Room
	// Replayed is true when the player already held the seat
	Replayed bool
}

// BackfillAIOpponentInput defines the request for seating an AI opponent
type BackfillAIOpponentInput struct {
	RoomID string
}

// BackfillAIOpponentOutput defines the response for seating an AI opponent
type BackfillAIOpponentOutput struct {
	Room *entities.Room
	// Filled is true when an AI took the seat
	Filled bool
	// Ended is true when no AI was found and the room was closed
	Ended bool
	// AIPlayerID is the seated AI identity
	AIPlayerID string
	Attempts   int
}

// RandomFormationInput defines the request for a random layout
type RandomFormationInput struct{}

// RandomFormationOutput defines the response for a random layout
type RandomFormationOutput struct {
	GroupID   int
	Group     *entities.FormationGroup
	Formation entities.Formation
}
