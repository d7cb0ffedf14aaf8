package entities

// Board geometry
const (
	BoardSize  = 12
	CellCount  = BoardSize * BoardSize
	HeadsToWin = 3
)

// CellState is the state of one board cell. Values match the stored
// document format.
type CellState int

// Cell states
const (
	CellEmpty   CellState = 0
	CellHeadHit CellState = 1
	CellBodyHit CellState = 2
	CellMiss    CellState = 3
	CellDodged  CellState = 9
)

// Terminal reports whether the cell can never change again
func (s CellState) Terminal() bool {
	return s == CellHeadHit || s == CellBodyHit || s == CellMiss
}

// Board holds the 144 cell states of one player's grid, index 0 being cell 1
type Board []CellState

// NewBoard returns an all-empty board
func NewBoard() Board {
	return make(Board, CellCount)
}

// ValidCell reports whether cell is on the board
func ValidCell(cell int) bool {
	return cell >= 1 && cell <= CellCount
}

// State returns the state of a 1-based cell
func (b Board) State(cell int) CellState {
	return b[cell-1]
}

// Count returns how many cells are in any of the given states
func (b Board) Count(states ...CellState) int {
	n := 0
	for _, s := range b {
		for _, want := range states {
			if s == want {
				n++
				break
			}
		}
	}
	return n
}

// EmptyCells lists the 1-based cells still EMPTY
func (b Board) EmptyCells() []int {
	cells := make([]int, 0, len(b))
	for i, s := range b {
		if s == CellEmpty {
			cells = append(cells, i+1)
		}
	}
	return cells
}

// Clone returns a copy
func (b Board) Clone() Board {
	return append(Board(nil), b...)
}
