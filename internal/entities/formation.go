package entities

// Direction is the way an aircraft's nose points
type Direction int

// Directions
const (
	DirectionUp    Direction = 1
	DirectionRight Direction = 2
	DirectionDown  Direction = 3
	DirectionLeft  Direction = 4
)

// Valid reports whether d is one of the four directions
func (d Direction) Valid() bool {
	return d >= DirectionUp && d <= DirectionLeft
}

// PlanesPerFormation is the number of aircraft every player hides
const PlanesPerFormation = 3

// CellsPerPlane is the size of one aircraft shape
const CellsPerPlane = 10

// PlanePoint is one submitted cell of an aircraft
type PlanePoint struct {
	Cell   int  `json:"cell"`
	IsHead bool `json:"is_head"`
}

// PlaneShape is one aircraft as submitted by a client
type PlaneShape struct {
	Direction Direction    `json:"direction"`
	Points    []PlanePoint `json:"points"`
}

// Formation is a player's three submitted aircraft
type Formation struct {
	Planes []PlaneShape `json:"planes"`
}

// PlaneLayout is the canonical placement of one aircraft
type PlaneLayout struct {
	PlaneID   int       `json:"plane_id"`
	Direction Direction `json:"direction"`
	Head      int       `json:"head"`
	Body      []int     `json:"body"`
}

// FormationGroup is the read-only reference row for a group id
type FormationGroup struct {
	GroupID int            `json:"group_id"`
	Planes  [3]PlaneLayout `json:"planes"`
}
