package outcomes

import (
	"github.com/KirkDiggler/skywar-api/internal/entities"
)

// Achievement ids
const (
	AchievementMatchPlayed     = "match_played"
	AchievementMatchWon        = "match_won"
	AchievementFlawlessVictory = "flawless_victory"
	AchievementHeadDodge       = "head_dodge"
	AchievementOneHitKill      = "one_hit_kill"
	AchievementAIDefeated      = "ai_defeated"
)

// Derive lists the achievements a summary awards to its human players.
// Rooms that never started award nothing.
func Derive(summary *entities.RoomSummary) []Achievement {
	if summary == nil || summary.StartedAt.IsZero() {
		return nil
	}

	var out []Achievement
	award := func(playerID, id string, amount int) {
		if amount <= 0 {
			return
		}
		out = append(out, Achievement{
			RoomID:        summary.RoomID,
			AchievementID: id,
			PlayerID:      playerID,
			Amount:        amount,
			AwardedAt:     summary.EndedAt,
		})
	}

	for _, p := range summary.Players {
		if p.Kind != entities.KindHuman {
			continue
		}

		award(p.PlayerID, AchievementMatchPlayed, 1)
		award(p.PlayerID, AchievementHeadDodge, p.HeadDodges)
		award(p.PlayerID, AchievementOneHitKill, p.OneHitKills)

		if !p.Won {
			continue
		}
		award(p.PlayerID, AchievementMatchWon, 1)
		if summary.Mode == entities.ModeAI {
			award(p.PlayerID, AchievementAIDefeated, int(summary.Difficulty))
		}
		if loser, ok := summary.Stats(summary.Loser); ok && loser.HeadsDestroyed == 0 {
			award(p.PlayerID, AchievementFlawlessVictory, 1)
		}
	}

	return out
}
