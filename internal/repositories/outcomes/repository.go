// Package outcomes is the ledger of finished rooms and the achievements they
// award. Writes are idempotent per (room, achievement, player) so an
// at-least-once notifier can replay a summary safely.
package outcomes

import (
	"context"
	"time"

	"github.com/KirkDiggler/skywar-api/internal/entities"
)

// Repository records room outcomes
type Repository interface {
	// Record stores a summary and its achievements. Replaying the same room
	// inserts nothing and reports Inserted=false.
	Record(ctx context.Context, input RecordInput) (*RecordOutput, error)

	// GetOutcome returns the stored summary of a room
	// Returns errors.NotFound if the room was never recorded
	GetOutcome(ctx context.Context, input GetOutcomeInput) (*GetOutcomeOutput, error)

	// ListAchievements lists a player's awards, newest first
	ListAchievements(ctx context.Context, input ListAchievementsInput) (*ListAchievementsOutput, error)
}

// Achievement is one award earned in one room
type Achievement struct {
	RoomID        string    `json:"room_id"`
	AchievementID string    `json:"achievement_id"`
	PlayerID      string    `json:"player_id"`
	Amount        int       `json:"amount"`
	AwardedAt     time.Time `json:"awarded_at"`
}

// RecordInput defines the input for recording an outcome
type RecordInput struct {
	Summary      *entities.RoomSummary
	Achievements []Achievement
}

// RecordOutput defines the output for recording an outcome
type RecordOutput struct {
	// Inserted is false when the room had already been recorded
	Inserted bool
	// Awarded counts achievement rows that were new
	Awarded int
}

// GetOutcomeInput defines the input for reading an outcome
type GetOutcomeInput struct {
	RoomID string
}

// GetOutcomeOutput defines the output for reading an outcome
type GetOutcomeOutput struct {
	Summary *entities.RoomSummary
}

// ListAchievementsInput defines the input for listing awards
type ListAchievementsInput struct {
	PlayerID string
	Limit    int
}

// ListAchievementsOutput defines the output for listing awards
type ListAchievementsOutput struct {
	Achievements []Achievement
}
