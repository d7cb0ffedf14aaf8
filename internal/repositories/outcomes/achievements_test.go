package outcomes_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/repositories/outcomes"
)

func ids(achievements []outcomes.Achievement, playerID string) map[string]int {
	out := make(map[string]int)
	for _, a := range achievements {
		if a.PlayerID == playerID {
			out[a.AchievementID] = a.Amount
		}
	}
	return out
}

func TestDerive(t *testing.T) {
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ended := started.Add(5 * time.Minute)

	t.Run("pvp win", func(t *testing.T) {
		summary := &entities.RoomSummary{
			RoomID:    "room_1",
			Mode:      entities.ModePVP,
			EndReason: entities.EndReasonWin,
			Winner:    "alice",
			Loser:     "bob",
			StartedAt: started,
			EndedAt:   ended,
			Players: []entities.PlayerStats{
				{PlayerID: "alice", Kind: entities.KindHuman, Won: true, HeadsDestroyed: 3, OneHitKills: 2},
				{PlayerID: "bob", Kind: entities.KindHuman, HeadsDestroyed: 1, HeadDodges: 1},
			},
		}

		got := outcomes.Derive(summary)
		assert.Equal(t, map[string]int{
			outcomes.AchievementMatchPlayed: 1,
			outcomes.AchievementMatchWon:    1,
			outcomes.AchievementOneHitKill:  2,
		}, ids(got, "alice"))
		assert.Equal(t, map[string]int{
			outcomes.AchievementMatchPlayed: 1,
			outcomes.AchievementHeadDodge:   1,
		}, ids(got, "bob"))

		for _, a := range got {
			assert.Equal(t, "room_1", a.RoomID)
			assert.Equal(t, ended, a.AwardedAt)
		}
	})

	t.Run("flawless win over ai", func(t *testing.T) {
		summary := &entities.RoomSummary{
			RoomID:     "room_2",
			Mode:       entities.ModeAI,
			Difficulty: entities.DifficultyHard,
			Winner:     "alice",
			Loser:      "ai_7",
			StartedAt:  started,
			EndedAt:    ended,
			Players: []entities.PlayerStats{
				{PlayerID: "alice", Kind: entities.KindHuman, Won: true, HeadsDestroyed: 3},
				{PlayerID: "ai_7", Kind: entities.KindAI},
			},
		}

		got := outcomes.Derive(summary)
		alice := ids(got, "alice")
		assert.Equal(t, 1, alice[outcomes.AchievementFlawlessVictory])
		assert.Equal(t, 3, alice[outcomes.AchievementAIDefeated])
		assert.Empty(t, ids(got, "ai_7"), "ai players earn nothing")
	})

	t.Run("room that never started", func(t *testing.T) {
		summary := &entities.RoomSummary{
			RoomID:    "room_3",
			Mode:      entities.ModePVP,
			EndReason: entities.EndReasonNoAIAvailable,
			EndedAt:   ended,
			Players:   []entities.PlayerStats{{PlayerID: "alice", Kind: entities.KindHuman}},
		}
		assert.Empty(t, outcomes.Derive(summary))
		assert.Empty(t, outcomes.Derive(nil))
	})
}
