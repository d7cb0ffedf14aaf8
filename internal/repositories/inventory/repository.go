// Package inventory adapts the external item-balance store keyed by
// (identity, item id). Rooms copy a player's loadout on entry and spend
// balances as items are used in play.
package inventory

import (
	"context"

	"github.com/KirkDiggler/skywar-api/internal/entities"
)

// Repository reads and spends item balances
type Repository interface {
	// Loadout lists the items a player holds at least one of
	// Returns errors.InvalidArgument for an empty player ID
	Loadout(ctx context.Context, input LoadoutInput) (*LoadoutOutput, error)

	// Consume spends one unit of an item atomically
	// Returns errors.FailedPrecondition (reason item_required) at a zero balance
	Consume(ctx context.Context, input ConsumeInput) (*ConsumeOutput, error)

	// Grant adds units of an item
	Grant(ctx context.Context, input GrantInput) (*GrantOutput, error)
}

// LoadoutInput defines the input for reading a loadout
type LoadoutInput struct {
	PlayerID string
}

// LoadoutOutput defines the output for reading a loadout
type LoadoutOutput struct {
	Items    []entities.ItemID
	Balances map[entities.ItemID]int64
}

// ConsumeInput defines the input for spending an item
type ConsumeInput struct {
	PlayerID string
	ItemID   entities.ItemID
}

// ConsumeOutput defines the output for spending an item
type ConsumeOutput struct {
	Remaining int64
}

// GrantInput defines the input for granting items
type GrantInput struct {
	PlayerID string
	ItemID   entities.ItemID
	Count    int64
}

// GrantOutput defines the output for granting items
type GrantOutput struct {
	Balance int64
}
