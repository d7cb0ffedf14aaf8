// Package rooms defines the interface for battle room persistence
package rooms

import (
	"context"

	"github.com/KirkDiggler/skywar-api/internal/entities"
)

// Repository stores room documents. Every mutation of an existing room goes
// through Update, which applies the caller's mutation atomically against the
// freshly read document.
type Repository interface {
	// Create stores a new room and reserves its join code
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if the code is held by another active room
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a room by ID
	// Returns errors.NotFound (reason room_not_found) if the room doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// GetByCode retrieves the active room holding a join code
	// Returns errors.NotFound if no active room holds the code
	GetByCode(ctx context.Context, input GetByCodeInput) (*GetByCodeOutput, error)

	// Update reads the room, applies Mutate and writes the result in one
	// optimistic transaction. A Mutate error aborts without writing and is
	// returned unchanged. A mutation that changes nothing writes nothing.
	// Returns errors.Aborted if the room stayed contended for every attempt
	// Returns errors.FailedPrecondition (reason player_busy) if an Exclusive
	// player already sits in another active room
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// ListByStatus lists active rooms in a status, oldest first
	// Returns errors.InvalidArgument for the ended status, which is not indexed
	ListByStatus(ctx context.Context, input ListByStatusInput) (*ListByStatusOutput, error)

	// ListActiveByPlayer lists the WAITING and PLAYING rooms a player sits in
	ListActiveByPlayer(ctx context.Context, input ListActiveByPlayerInput) (*ListActiveByPlayerOutput, error)
}

// MutateFunc changes a room in place. It must re-check every precondition
// against the room it is given.
type MutateFunc func(room *entities.Room) error

// CreateInput defines the input for creating a room
type CreateInput struct {
	Room *entities.Room
}

// CreateOutput defines the output for creating a room
type CreateOutput struct {
	Room *entities.Room
}

// GetInput defines the input for getting a room
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a room
type GetOutput struct {
	Room *entities.Room
}

// GetByCodeInput defines the input for getting a room by join code
type GetByCodeInput struct {
	Code string
}

// GetByCodeOutput defines the output for getting a room by join code
type GetByCodeOutput struct {
	Room *entities.Room
}

// UpdateInput defines the input for updating a room
type UpdateInput struct {
	ID     string
	Mutate MutateFunc
	// Exclusive lists players who may hold no other active room once the
	// update commits. Their room indexes join the watched keys.
	Exclusive []string
}

// UpdateOutput defines the output for updating a room
type UpdateOutput struct {
	// Room is the committed document
	Room *entities.Room
	// Previous is the document Mutate was applied to
	Previous *entities.Room
	// Changed is false when Mutate left the room as it was
	Changed bool
}

// ListByStatusInput defines the input for listing rooms by status
type ListByStatusInput struct {
	Status entities.Status
	// Mode filters to one mode; empty lists every mode
	Mode entities.Mode
}

// ListByStatusOutput defines the output for listing rooms by status
type ListByStatusOutput struct {
	Rooms []*entities.Room
}

// ListActiveByPlayerInput defines the input for listing a player's rooms
type ListActiveByPlayerInput struct {
	PlayerID string
}

// ListActiveByPlayerOutput defines the output for listing a player's rooms
type ListActiveByPlayerOutput struct {
	Rooms []*entities.Room
}
