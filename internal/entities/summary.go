package entities

import "time"

// PlayerStats are the final per-player figures of a finished room
type PlayerStats struct {
	PlayerID       string     `json:"player_id"`
	Kind           PlayerKind `json:"kind"`
	Role           Role       `json:"role"`
	Won            bool       `json:"won"`
	HeadsDestroyed int        `json:"heads_destroyed"`
	CellsHit       int        `json:"cells_hit"`
	CellsMissed    int        `json:"cells_missed"`
	ItemsUsed      []ItemID   `json:"items_used,omitempty"`
	HeadDodges     int        `json:"head_dodges"`
	OneHitKills    int        `json:"one_hit_kills"`
}

// RoomSummary is handed to outcome collaborators once a room ends
type RoomSummary struct {
	RoomID      string        `json:"room_id"`
	Code        string        `json:"code"`
	Mode        Mode          `json:"mode"`
	Difficulty  Difficulty    `json:"difficulty,omitempty"`
	EndReason   EndReason     `json:"end_reason"`
	Winner      string        `json:"winner,omitempty"`
	Loser       string        `json:"loser,omitempty"`
	AttackCount int           `json:"attack_count"`
	StartedAt   time.Time     `json:"started_at"`
	EndedAt     time.Time     `json:"ended_at"`
	Duration    time.Duration `json:"duration"`
	Players     []PlayerStats `json:"players"`
	Events      []Event       `json:"events,omitempty"`
}

// Stats returns the figures for one player
func (s *RoomSummary) Stats(playerID string) (PlayerStats, bool) {
	for _, p := range s.Players {
		if p.PlayerID == playerID {
			return p, true
		}
	}
	return PlayerStats{}, false
}
