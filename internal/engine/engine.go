// Package engine resolves attacks against a hidden formation: cell
// classification, the cell transition rules, and defensive item effects.
// Everything here is pure; callers persist the returned board.
package engine

import (
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/errors"
	"github.com/KirkDiggler/skywar-api/internal/formation"
)

// Engine resolves one attack request against a defender
type Engine interface {
	ResolveAttack(input *ResolveAttackInput) (*ResolveAttackOutput, error)
}

// ResolveAttackInput describes one incoming attack. Defender is read, never written.
type ResolveAttackInput struct {
	Attacker core.Entity
	Defender *entities.Player
	Cells    []int
	At       time.Time
}

// CellOutcome is the resolution of one target cell
type CellOutcome struct {
	Cell  int                `json:"cell"`
	Class Classification     `json:"class"`
	State entities.CellState `json:"state"`
}

// ResolveAttackOutput carries the defender's new board and side effects
type ResolveAttackOutput struct {
	Board    entities.Board
	Outcomes []CellOutcome
	// ShieldUsed is the defender item consumed by a dodge, or empty
	ShieldUsed entities.ItemID
	Events     []entities.Event
	HeadsHit   int
}

// Dodged reports whether a shield absorbed the attack
func (o *ResolveAttackOutput) Dodged() bool {
	return o.ShieldUsed != ""
}

// Config holds the engine dependencies
type Config struct {
	Catalog formation.Catalog
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}

	return vb.Build()
}

type engine struct {
	catalog formation.Catalog
}

// New creates an engine
func New(cfg *Config) (Engine, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &engine{catalog: cfg.Catalog}, nil
}

func (e *engine) ResolveAttack(input *ResolveAttackInput) (*ResolveAttackOutput, error) {
	if input == nil || input.Defender == nil {
		return nil, errors.InvalidArgument("defender is required")
	}
	if input.Attacker == nil || input.Attacker.GetID() == "" {
		return nil, errors.InvalidArgument("attacker is required")
	}
	if err := ValidateCells(input.Cells); err != nil {
		return nil, err
	}

	defender := input.Defender
	board := defender.Board
	for _, cell := range input.Cells {
		if board.State(cell).Terminal() {
			return nil, errors.AlreadyAttacked(cell)
		}
	}

	group, err := e.catalog.HeadAndBody(defender.FormationGroupID)
	if err != nil {
		return nil, errors.Wrapf(err, "defender %s has no formation", defender.ID)
	}

	targets := make([]Target, len(input.Cells))
	for i, cell := range input.Cells {
		targets[i] = Classify(group, cell)
	}

	shield := chooseShield(defender, targets)
	if shield != "" {
		return e.dodge(input, targets, shield)
	}
	return e.strike(input, group, targets)
}

// chooseShield picks the defender item that absorbs this request, if any.
// The whole request is dodged together. A request touching a cell already
// dodged is never dodged again.
func chooseShield(defender *entities.Player, targets []Target) entities.ItemID {
	anyHit := false
	for _, t := range targets {
		if defender.Board.State(t.Cell) == entities.CellDodged {
			return ""
		}
		if t.Hit() {
			anyHit = true
		}
	}
	if !anyHit {
		return ""
	}

	if !hasBeenHit(defender.Board) && defender.HasItem(entities.ItemFirstHitShield) {
		return entities.ItemFirstHitShield
	}
	if defender.HasItem(entities.ItemStandingShield) {
		return entities.ItemStandingShield
	}
	return ""
}

func (e *engine) dodge(input *ResolveAttackInput, targets []Target, shield entities.ItemID) (*ResolveAttackOutput, error) {
	board := input.Defender.Board.Clone()
	out := &ResolveAttackOutput{ShieldUsed: shield}

	for _, t := range targets {
		// cells that would have missed stay untouched
		state := board.State(t.Cell)
		if t.Hit() {
			var err error
			state, err = applyDodge(board, t.Cell)
			if err != nil {
				return nil, err
			}
			board[t.Cell-1] = state
		}
		out.Outcomes = append(out.Outcomes, CellOutcome{Cell: t.Cell, Class: t.Class, State: state})

		if t.Class == Head {
			out.Events = append(out.Events, entities.Event{
				Type:       entities.EventHeadDodge,
				Attacker:   input.Attacker.GetID(),
				Defender:   input.Defender.GetID(),
				Cell:       t.Cell,
				PlaneIndex: t.PlaneIndex,
				At:         input.At,
			})
		}
	}

	out.Board = board
	out.HeadsHit = CountHeadsHit(board)
	return out, nil
}

func (e *engine) strike(input *ResolveAttackInput, group *entities.FormationGroup, targets []Target) (*ResolveAttackOutput, error) {
	board := input.Defender.Board.Clone()
	out := &ResolveAttackOutput{}

	for _, t := range targets {
		state, err := ApplyRaw(board, t.Cell, t.Class)
		if err != nil {
			return nil, err
		}
		board[t.Cell-1] = state
		out.Outcomes = append(out.Outcomes, CellOutcome{Cell: t.Cell, Class: t.Class, State: state})
	}

	// one-hit kills are judged after the whole volley lands
	for _, t := range targets {
		if t.Class != Head || !untouched(board, group.Planes[t.PlaneIndex].Body) {
			continue
		}
		out.Events = append(out.Events, entities.Event{
			Type:       entities.EventOneHitKill,
			Attacker:   input.Attacker.GetID(),
			Defender:   input.Defender.GetID(),
			Cell:       t.Cell,
			PlaneIndex: t.PlaneIndex,
			At:         input.At,
		})
	}

	out.Board = board
	out.HeadsHit = CountHeadsHit(board)
	return out, nil
}

func untouched(board entities.Board, cells []int) bool {
	for _, c := range cells {
		if board.State(c) != entities.CellEmpty {
			return false
		}
	}
	return true
}

// ValidateCells checks a target list is one or two distinct on-board cells
func ValidateCells(cells []int) error {
	if len(cells) == 0 || len(cells) > 2 {
		return errors.InvalidArgumentf("an attack targets 1 or 2 cells, got %d", len(cells)).
			WithReason(errors.ReasonInvalidCells)
	}
	seen := make(map[int]bool, len(cells))
	for _, cell := range cells {
		if !entities.ValidCell(cell) {
			return errors.InvalidArgumentf("cell %d is off the board", cell).
				WithReason(errors.ReasonInvalidCells)
		}
		if seen[cell] {
			return errors.InvalidArgumentf("cell %d is targeted twice", cell).
				WithReason(errors.ReasonInvalidCells)
		}
		seen[cell] = true
	}
	return nil
}
