// Package entities provides the core battle room data structures shared by
// the engine, repositories and orchestrators.
package entities

import (
	"time"
)

// Mode selects how a room is matched
type Mode string

// Room modes
const (
	ModeAI           Mode = "ai"
	ModePVP          Mode = "pvp"
	ModeFriendInvite Mode = "friend_invite"
)

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	switch m {
	case ModeAI, ModePVP, ModeFriendInvite:
		return true
	}
	return false
}

// Modes lists every room mode
func Modes() []Mode {
	return []Mode{ModeAI, ModePVP, ModeFriendInvite}
}

// Status is the room lifecycle state. ENDED is terminal.
type Status string

// Room statuses
const (
	StatusWaiting Status = "waiting"
	StatusPlaying Status = "playing"
	StatusEnded   Status = "ended"
)

// Active reports whether the status still holds its players and room code
func (s Status) Active() bool {
	return s == StatusWaiting || s == StatusPlaying
}

// EndReason records why a room reached ENDED
type EndReason string

// End reasons
const (
	EndReasonWin           EndReason = "win"
	EndReasonNoAIAvailable EndReason = "no_ai_available"
	EndReasonSuperseded    EndReason = "superseded"
	EndReasonCancelled     EndReason = "cancelled"
	EndReasonExpired       EndReason = "expired"
)

// Difficulty applies to AI rooms only
type Difficulty int

// AI difficulties
const (
	DifficultyNone   Difficulty = 0
	DifficultyEasy   Difficulty = 1
	DifficultyNormal Difficulty = 2
	DifficultyHard   Difficulty = 3
)

// EventType identifies a bonus event
type EventType string

// Bonus events
const (
	EventHeadDodge  EventType = "head_dodge"
	EventOneHitKill EventType = "one_hit_kill"
)

// Event is an append-only bonus record on the room
type Event struct {
	Type       EventType `json:"type"`
	Attacker   string    `json:"attacker"`
	Defender   string    `json:"defender"`
	Cell       int       `json:"cell"`
	PlaneIndex int       `json:"plane_index"`
	At         time.Time `json:"at"`
}

// Room is a single match and the unit of transactional mutation
type Room struct {
	ID            string     `json:"id"`
	Code          string     `json:"code"`
	Mode          Mode       `json:"mode"`
	Status        Status     `json:"status"`
	Difficulty    Difficulty `json:"difficulty,omitempty"`
	Players       []Player   `json:"players"`
	CurrentPlayer string     `json:"current_player,omitempty"`
	Winner        string     `json:"winner,omitempty"`
	EndReason     EndReason  `json:"end_reason,omitempty"`
	AttackCount   int        `json:"attack_count"`
	Events        []Event    `json:"events,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	StartedAt     time.Time  `json:"started_at,omitempty"`
	LastMoveAt    time.Time  `json:"last_move_at"`
	EndedAt       time.Time  `json:"ended_at,omitempty"`

	// Version increases by one on every committed write
	Version int64 `json:"version"`
}

// Player returns the in-room player with the given identity
func (r *Room) Player(id string) (*Player, bool) {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i], true
		}
	}
	return nil, false
}

// Opponent returns the other player of a two-player room
func (r *Room) Opponent(id string) (*Player, bool) {
	if len(r.Players) != 2 {
		return nil, false
	}
	for i := range r.Players {
		if r.Players[i].ID != id {
			return &r.Players[i], true
		}
	}
	return nil, false
}

// PlayerByRole returns the player holding a seat
func (r *Room) PlayerByRole(role Role) (*Player, bool) {
	for i := range r.Players {
		if r.Players[i].Role == role {
			return &r.Players[i], true
		}
	}
	return nil, false
}

// HasPlayer reports whether id is seated in the room
func (r *Room) HasPlayer(id string) bool {
	_, ok := r.Player(id)
	return ok
}

// PlayerIDs lists seated identities in seat order
func (r *Room) PlayerIDs() []string {
	ids := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		ids = append(ids, p.ID)
	}
	return ids
}

// End moves the room to ENDED. Calling it on an ended room is a no-op.
func (r *Room) End(reason EndReason, winner string, at time.Time) {
	if r.Status == StatusEnded {
		return
	}
	r.Status = StatusEnded
	r.EndReason = reason
	r.Winner = winner
	r.EndedAt = at
}

// HiddenGroup replaces a formation group id the viewer may not see
const HiddenGroup = -1

// ViewFor returns a copy of the room as one identity may see it. Until the
// room ends, every formation and item list but the viewer's own is hidden.
// Boards only ever hold revealed states and stay as they are.
func (r *Room) ViewFor(viewer string) *Room {
	out := r.Clone()
	if out.Status == StatusEnded {
		return out
	}
	for i := range out.Players {
		if out.Players[i].ID == viewer {
			continue
		}
		out.Players[i].FormationGroupID = HiddenGroup
		out.Players[i].Items = nil
	}
	return out
}

// Clone returns a deep copy
func (r *Room) Clone() *Room {
	out := *r
	out.Players = make([]Player, len(r.Players))
	for i := range r.Players {
		out.Players[i] = r.Players[i].Clone()
	}
	if r.Events != nil {
		out.Events = append([]Event(nil), r.Events...)
	}
	return &out
}
