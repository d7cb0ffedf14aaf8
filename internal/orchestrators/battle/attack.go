package battle

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/skywar-api/internal/engine"
	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/errors"
	"github.com/KirkDiggler/skywar-api/internal/pkg/random"
	"github.com/KirkDiggler/skywar-api/internal/repositories/inventory"
	"github.com/KirkDiggler/skywar-api/internal/repositories/rooms"
)

// attackPlan says who attacks and what. An empty actor means whoever holds
// the turn. Server-chosen moves target one random EMPTY defender cell.
type attackPlan struct {
	roomID         string
	actor          string
	cells          []int
	serverChosen   bool
	observed       *int
	requireTimeout bool
}

// spend is an item balance to take from the inventory once the room commits
type spend struct {
	playerID string
	itemID   entities.ItemID
}

func (o *orchestrator) attack(ctx context.Context, plan attackPlan) (*AttackResult, error) {
	var (
		result *AttackResult
		spent  []spend
	)

	now := o.clock.Now()
	out, err := o.roomRepo.Update(ctx, rooms.UpdateInput{
		ID: plan.roomID,
		Mutate: func(room *entities.Room) error {
			// a retried transaction starts over
			result, spent = nil, nil

			r, s, err := o.apply(room, plan, now)
			if err != nil {
				return err
			}
			result, spent = r, s
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	result.Room = out.Room

	slog.Debug("Attack resolved",
		"room_id", plan.roomID,
		"attacker", result.Attacker,
		"cells", result.Cells,
		"shield", result.ShieldUsed,
		"heads_hit", result.HeadsHit)

	o.spendItems(ctx, spent)
	if result.Ended {
		o.notify(ctx, out.Room)
	}

	return result, nil
}

// apply runs one attack against the freshly read room. Checks run in the
// order callers can act on: room, turn, cells, items.
func (o *orchestrator) apply(room *entities.Room, plan attackPlan, now time.Time) (*AttackResult, []spend, error) {
	if room.Status != entities.StatusPlaying {
		return nil, nil, errors.RoomNotPlaying(room.ID, string(room.Status))
	}
	if plan.observed != nil && *plan.observed != room.AttackCount {
		return nil, nil, errors.TurnChanged(room.ID, *plan.observed, room.AttackCount)
	}

	actor := plan.actor
	if actor == "" {
		actor = room.CurrentPlayer
	}
	attacker, ok := room.Player(actor)
	if !ok {
		return nil, nil, errors.NotInRoom(room.ID, actor)
	}
	if room.CurrentPlayer != actor {
		return nil, nil, errors.NotYourTurn(room.ID, actor)
	}
	if plan.requireTimeout && now.Sub(room.LastMoveAt) < o.turnTimeout {
		return nil, nil, errors.TurnNotExpired(room.ID)
	}

	defender, ok := room.Opponent(actor)
	if !ok {
		return nil, nil, errors.Internalf("room %s has no opponent for %s", room.ID, actor)
	}

	cells := plan.cells
	if plan.serverChosen {
		cell, err := random.Pick(o.random, defender.Board.EmptyCells())
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to pick a target on %s's board", defender.ID)
		}
		cells = []int{cell}
	}

	if err := engine.ValidateCells(cells); err != nil {
		return nil, nil, err
	}
	if room.Mode == entities.ModeAI && len(cells) > 1 {
		return nil, nil, errors.InvalidArgument("rooms against the AI take one target cell").
			WithReason(errors.ReasonInvalidCells)
	}
	for _, cell := range cells {
		if defender.Board.State(cell).Terminal() {
			return nil, nil, errors.AlreadyAttacked(cell)
		}
	}

	doubleShot := len(cells) == 2
	if doubleShot && !attacker.UseItem(entities.ItemDoubleShot) {
		return nil, nil, errors.ItemRequired(string(entities.ItemDoubleShot))
	}

	resolved, err := o.engine.ResolveAttack(&engine.ResolveAttackInput{
		Attacker: attacker,
		Defender: defender,
		Cells:    cells,
		At:       now,
	})
	if err != nil {
		return nil, nil, err
	}

	defender.Board = resolved.Board
	if resolved.Dodged() {
		defender.UseItem(resolved.ShieldUsed)
	}
	room.Events = append(room.Events, resolved.Events...)
	room.AttackCount++
	room.LastMoveAt = now

	result := &AttackResult{
		Attacker:   actor,
		Defender:   defender.ID,
		Cells:      cells,
		Outcomes:   resolved.Outcomes,
		ShieldUsed: resolved.ShieldUsed,
		DoubleShot: doubleShot,
		Events:     resolved.Events,
		HeadsHit:   resolved.HeadsHit,
	}

	if resolved.HeadsHit >= entities.HeadsToWin {
		room.End(entities.EndReasonWin, actor, now)
		result.Ended = true
		result.Winner = actor
	} else {
		room.CurrentPlayer = defender.ID
	}

	var spent []spend
	if doubleShot && !attacker.IsAI() {
		spent = append(spent, spend{playerID: attacker.ID, itemID: entities.ItemDoubleShot})
	}
	if resolved.Dodged() && !defender.IsAI() {
		spent = append(spent, spend{playerID: defender.ID, itemID: resolved.ShieldUsed})
	}

	return result, spent, nil
}

// spendItems charges the inventory for items used in a committed attack.
// The room already records the use, so a failure here is only logged.
func (o *orchestrator) spendItems(ctx context.Context, spent []spend) {
	for _, sp := range spent {
		_, err := o.inventoryRepo.Consume(ctx, inventory.ConsumeInput{
			PlayerID: sp.playerID,
			ItemID:   sp.itemID,
		})
		if err != nil {
			slog.Warn("Failed to charge item",
				"player_id", sp.playerID,
				"item_id", sp.itemID,
				"error", err)
		}
	}
}
