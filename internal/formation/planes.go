package formation

import (
	"github.com/KirkDiggler/skywar-api/internal/entities"
)

// offset is a (row, column) displacement from the head cell
type offset struct {
	row, col int
}

// noseUp lists the ten cells of an aircraft pointing up, head first:
// wings across the next row, the fuselage below, then the tail.
var noseUp = [entities.CellsPerPlane]offset{
	{0, 0},
	{1, -2}, {1, -1}, {1, 0}, {1, 1}, {1, 2},
	{2, 0},
	{3, -1}, {3, 0}, {3, 1},
}

func rotate(o offset, d entities.Direction) offset {
	switch d {
	case entities.DirectionRight:
		return offset{row: o.col, col: -o.row}
	case entities.DirectionDown:
		return offset{row: -o.row, col: -o.col}
	case entities.DirectionLeft:
		return offset{row: -o.col, col: o.row}
	default:
		return o
	}
}

// cellMask is a 144-bit set of board cells
type cellMask [3]uint64

func (m *cellMask) set(cell int) {
	i := cell - 1
	m[i/64] |= 1 << (uint(i) % 64)
}

func (m cellMask) overlaps(o cellMask) bool {
	return m[0]&o[0] != 0 || m[1]&o[1] != 0 || m[2]&o[2] != 0
}

func (m cellMask) union(o cellMask) cellMask {
	return cellMask{m[0] | o[0], m[1] | o[1], m[2] | o[2]}
}

type plane struct {
	id        int
	direction entities.Direction
	head      int
	body      []int
	mask      cellMask
}

func (p plane) layout() entities.PlaneLayout {
	return entities.PlaneLayout{
		PlaneID:   p.id,
		Direction: p.direction,
		Head:      p.head,
		Body:      append([]int(nil), p.body...),
	}
}

func cellAt(row, col int) (int, bool) {
	if row < 0 || row >= entities.BoardSize || col < 0 || col >= entities.BoardSize {
		return 0, false
	}
	return row*entities.BoardSize + col + 1, true
}

// place returns the aircraft with its head at (row, col), if it fits the board
func place(d entities.Direction, row, col int) (plane, bool) {
	p := plane{direction: d, body: make([]int, 0, entities.CellsPerPlane-1)}
	for i, o := range noseUp {
		r := rotate(o, d)
		cell, ok := cellAt(row+r.row, col+r.col)
		if !ok {
			return plane{}, false
		}
		if i == 0 {
			p.head = cell
		} else {
			p.body = append(p.body, cell)
		}
		p.mask.set(cell)
	}
	return p, true
}

// enumeratePlanes lists every in-bounds placement. Ids start at 1 and follow
// direction, then head row, then head column.
func enumeratePlanes() []plane {
	var planes []plane
	for d := entities.DirectionUp; d <= entities.DirectionLeft; d++ {
		for row := 0; row < entities.BoardSize; row++ {
			for col := 0; col < entities.BoardSize; col++ {
				p, ok := place(d, row, col)
				if !ok {
					continue
				}
				p.id = len(planes) + 1
				planes = append(planes, p)
			}
		}
	}
	return planes
}

// Shape builds the submitted form of the aircraft facing d with its head on
// the given cell. It returns false if the aircraft would leave the board.
func Shape(d entities.Direction, head int) (entities.PlaneShape, bool) {
	if !d.Valid() || !entities.ValidCell(head) {
		return entities.PlaneShape{}, false
	}
	p, ok := place(d, (head-1)/entities.BoardSize, (head-1)%entities.BoardSize)
	if !ok {
		return entities.PlaneShape{}, false
	}
	points := make([]entities.PlanePoint, 0, entities.CellsPerPlane)
	points = append(points, entities.PlanePoint{Cell: p.head, IsHead: true})
	for _, cell := range p.body {
		points = append(points, entities.PlanePoint{Cell: cell})
	}
	return entities.PlaneShape{Direction: d, Points: points}, true
}
