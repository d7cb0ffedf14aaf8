package entities

import (
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// Role is a player's seat; the first seat moves first
type Role string

// Seats
const (
	RoleFirst  Role = "first"
	RoleSecond Role = "second"
)

// PlayerKind separates humans from server-driven AI opponents
type PlayerKind string

// Player kinds
const (
	KindHuman PlayerKind = "human"
	KindAI    PlayerKind = "ai"
)

// ItemID names a consumable battle item
type ItemID string

// Battle items
const (
	// ItemFirstHitShield dodges the defender's first hit of the match
	ItemFirstHitShield ItemID = "first_hit_shield"
	// ItemStandingShield dodges any one hit
	ItemStandingShield ItemID = "standing_shield"
	// ItemDoubleShot lets the attacker call two cells in one turn
	ItemDoubleShot ItemID = "double_shot"
)

// Valid reports whether id is a known item
func (id ItemID) Valid() bool {
	switch id {
	case ItemFirstHitShield, ItemStandingShield, ItemDoubleShot:
		return true
	}
	return false
}

// ItemStatus tracks in-room consumption
type ItemStatus string

// Item statuses
const (
	ItemAvailable ItemStatus = "available"
	ItemUsed      ItemStatus = "used"
)

// Item is one consumable carried into a room
type Item struct {
	ID     ItemID     `json:"id"`
	Status ItemStatus `json:"status"`
}

// Player is a seated participant. It satisfies the rpg-toolkit core.Entity
// contract; the engine takes attackers as entities.
type Player struct {
	ID               string     `json:"id"`
	Role             Role       `json:"role"`
	Kind             PlayerKind `json:"kind"`
	FormationGroupID int        `json:"formation_group_id"`
	Board            Board      `json:"board"`
	Items            []Item     `json:"items,omitempty"`
	JoinedAt         time.Time  `json:"joined_at"`
}

// Compile-time check that a seated player can attack
var _ core.Entity = (*Player)(nil)

// GetID returns the player identity
func (p *Player) GetID() string {
	return p.ID
}

// GetType returns the player kind
func (p *Player) GetType() string {
	return string(p.Kind)
}

// IsAI reports whether the server drives this player
func (p *Player) IsAI() bool {
	return p.Kind == KindAI
}

// HasItem reports whether the item is carried and still available
func (p *Player) HasItem(id ItemID) bool {
	for _, item := range p.Items {
		if item.ID == id && item.Status == ItemAvailable {
			return true
		}
	}
	return false
}

// UseItem marks the item used. It returns false if it was not available.
func (p *Player) UseItem(id ItemID) bool {
	for i := range p.Items {
		if p.Items[i].ID == id && p.Items[i].Status == ItemAvailable {
			p.Items[i].Status = ItemUsed
			return true
		}
	}
	return false
}

// UsedItems lists items consumed in this room
func (p *Player) UsedItems() []ItemID {
	var used []ItemID
	for _, item := range p.Items {
		if item.Status == ItemUsed {
			used = append(used, item.ID)
		}
	}
	return used
}

// Clone returns a deep copy
func (p Player) Clone() Player {
	out := p
	out.Board = p.Board.Clone()
	if p.Items != nil {
		out.Items = append([]Item(nil), p.Items...)
	}
	return out
}

// NewItems builds an available item list, ignoring unknown and duplicate ids
func NewItems(ids []ItemID) []Item {
	seen := make(map[ItemID]bool, len(ids))
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		if !id.Valid() || seen[id] {
			continue
		}
		seen[id] = true
		items = append(items, Item{ID: id, Status: ItemAvailable})
	}
	return items
}
