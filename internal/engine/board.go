package engine

import (
	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/errors"
)

// Classification is what a cell holds on the defender's hidden formation
type Classification int

// Classifications
const (
	EmptySpace Classification = iota
	Head
	Body
)

// String returns the classification name
func (c Classification) String() string {
	switch c {
	case Head:
		return "head"
	case Body:
		return "body"
	default:
		return "empty"
	}
}

// Target is a classified cell. PlaneIndex is -1 for empty space.
type Target struct {
	Cell       int
	Class      Classification
	PlaneIndex int
}

// Hit reports whether the cell belongs to an aircraft
func (t Target) Hit() bool {
	return t.Class != EmptySpace
}

// Classify locates a cell in a formation group
func Classify(group *entities.FormationGroup, cell int) Target {
	for i, p := range group.Planes {
		if p.Head == cell {
			return Target{Cell: cell, Class: Head, PlaneIndex: i}
		}
		for _, b := range p.Body {
			if b == cell {
				return Target{Cell: cell, Class: Body, PlaneIndex: i}
			}
		}
	}
	return Target{Cell: cell, Class: EmptySpace, PlaneIndex: -1}
}

// ApplyRaw returns the state a cell moves to when struck without any shield.
// Terminal cells fail with AlreadyAttacked.
func ApplyRaw(board entities.Board, cell int, class Classification) (entities.CellState, error) {
	current := board.State(cell)
	if current.Terminal() {
		return current, errors.AlreadyAttacked(cell)
	}

	switch class {
	case Head:
		return entities.CellHeadHit, nil
	case Body:
		return entities.CellBodyHit, nil
	}

	if current == entities.CellDodged {
		// only aircraft cells are ever dodged
		return current, errors.Internalf("dodged cell %d classified as empty space", cell)
	}
	return entities.CellMiss, nil
}

// applyDodge returns the state of a cell absorbed by a shield
func applyDodge(board entities.Board, cell int) (entities.CellState, error) {
	current := board.State(cell)
	if current != entities.CellEmpty {
		return current, errors.Internalf("cell %d cannot be dodged from state %d", cell, current)
	}
	return entities.CellDodged, nil
}

// CountHeadsHit counts destroyed heads; three ends the match
func CountHeadsHit(board entities.Board) int {
	return board.Count(entities.CellHeadHit)
}

// hasBeenHit reports whether any aircraft cell on the board has been hit
func hasBeenHit(board entities.Board) bool {
	return board.Count(entities.CellHeadHit, entities.CellBodyHit) > 0
}
