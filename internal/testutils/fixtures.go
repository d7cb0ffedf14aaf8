package testutils

import (
	"time"

	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/formation"
)

// Formation groups used across tests
const (
	// GroupNosesUp holds three upward aircraft with heads on cells 7, 51 and 58
	GroupNosesUp = 55027
	// GroupFirst is the lowest group id
	GroupFirst = 0
)

// Heads of GroupNosesUp
var NosesUpHeads = []int{7, 51, 58}

// TestTime is a fixed instant for deterministic fixtures
var TestTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// FormationOf returns the submittable shapes for a group id and panics if the
// group does not exist
func FormationOf(groupID int) entities.Formation {
	f, err := formation.New().Formation(groupID)
	if err != nil {
		panic(err)
	}
	return f
}

// NewPlayer creates an in-room player with an empty board
func NewPlayer(id string, role entities.Role, kind entities.PlayerKind, groupID int, items ...entities.ItemID) entities.Player {
	return entities.Player{
		ID:               id,
		Role:             role,
		Kind:             kind,
		FormationGroupID: groupID,
		Board:            entities.NewBoard(),
		Items:            entities.NewItems(items),
		JoinedAt:         TestTime,
	}
}

// NewWaitingRoom creates a WAITING room with a single first player
func NewWaitingRoom(id, code string, mode entities.Mode, first entities.Player) *entities.Room {
	return &entities.Room{
		ID:         id,
		Code:       code,
		Mode:       mode,
		Status:     entities.StatusWaiting,
		Players:    []entities.Player{first},
		CreatedAt:  TestTime,
		LastMoveAt: TestTime,
	}
}

// NewPlayingRoom creates a PLAYING room where first moves next
func NewPlayingRoom(id, code string, mode entities.Mode, first, second entities.Player) *entities.Room {
	return &entities.Room{
		ID:            id,
		Code:          code,
		Mode:          mode,
		Status:        entities.StatusPlaying,
		Players:       []entities.Player{first, second},
		CurrentPlayer: first.ID,
		CreatedAt:     TestTime,
		StartedAt:     TestTime,
		LastMoveAt:    TestTime,
	}
}
