package battle

import (
	"github.com/KirkDiggler/skywar-api/internal/engine"
	"github.com/KirkDiggler/skywar-api/internal/entities"
)

// BuildSummary computes the final figures of an ended room
func BuildSummary(room *entities.Room) *entities.RoomSummary {
	summary := &entities.RoomSummary{
		RoomID:      room.ID,
		Code:        room.Code,
		Mode:        room.Mode,
		Difficulty:  room.Difficulty,
		EndReason:   room.EndReason,
		Winner:      room.Winner,
		AttackCount: room.AttackCount,
		StartedAt:   room.StartedAt,
		EndedAt:     room.EndedAt,
		Players:     make([]entities.PlayerStats, 0, len(room.Players)),
	}
	if len(room.Events) > 0 {
		summary.Events = append([]entities.Event(nil), room.Events...)
	}
	if !room.StartedAt.IsZero() && room.EndedAt.After(room.StartedAt) {
		summary.Duration = room.EndedAt.Sub(room.StartedAt)
	}
	if room.Winner != "" {
		if loser, ok := room.Opponent(room.Winner); ok {
			summary.Loser = loser.ID
		}
	}

	for _, p := range room.Players {
		stats := entities.PlayerStats{
			PlayerID:  p.ID,
			Kind:      p.Kind,
			Role:      p.Role,
			Won:       room.Winner != "" && room.Winner == p.ID,
			ItemsUsed: p.UsedItems(),
		}

		// a player's shots land on the opponent's board
		if opponent, ok := room.Opponent(p.ID); ok {
			stats.HeadsDestroyed = engine.CountHeadsHit(opponent.Board)
			stats.CellsHit = opponent.Board.Count(entities.CellHeadHit, entities.CellBodyHit)
			stats.CellsMissed = opponent.Board.Count(entities.CellMiss)
		}

		for _, e := range room.Events {
			switch {
			case e.Type == entities.EventHeadDodge && e.Defender == p.ID:
				stats.HeadDodges++
			case e.Type == entities.EventOneHitKill && e.Attacker == p.ID:
				stats.OneHitKills++
			}
		}

		summary.Players = append(summary.Players, stats)
	}

	return summary
}
