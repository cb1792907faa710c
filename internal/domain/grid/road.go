package grid

import (
	"fmt"
	"strings"
)

// Direction is a unit step on the grid. Rows grow "up".
type Direction struct {
	DRow int
	DCol int
}

var (
	Up    = Direction{DRow: 1, DCol: 0}
	Down  = Direction{DRow: -1, DCol: 0}
	Left  = Direction{DRow: 0, DCol: -1}
	Right = Direction{DRow: 0, DCol: 1}
)

// DirectionFromLetter parses one of "u", "d", "l", "r" (any case)
func DirectionFromLetter(letter string) (Direction, error) {
	switch strings.ToLower(letter) {
	case "u":
		return Up, nil
	case "d":
		return Down, nil
	case "l":
		return Left, nil
	case "r":
		return Right, nil
	}
	return Direction{}, fmt.Errorf("invalid road direction '%s'", letter)
}

// DirectionFromDelta validates a (dRow, dCol) pair as one of the four unit vectors
func DirectionFromDelta(dRow, dCol int) (Direction, error) {
	d := Direction{DRow: dRow, DCol: dCol}
	switch d {
	case Up, Down, Left, Right:
		return d, nil
	}
	return Direction{}, fmt.Errorf("invalid road direction [%d, %d]", dRow, dCol)
}

// directionBetween infers the step that leads from a to the adjacent cell b
func directionBetween(a, b Coordinate) Direction {
	switch {
	case b.Row > a.Row:
		return Up
	case b.Row < a.Row:
		return Down
	case b.Col > a.Col:
		return Right
	default:
		return Left
	}
}

func (d Direction) Letter() string {
	switch d {
	case Up:
		return "u"
	case Down:
		return "d"
	case Left:
		return "l"
	case Right:
		return "r"
	}
	return "?"
}

// Road is a grid cell that goods travel along. A road without a direction is a junction.
type Road struct {
	coordinate Coordinate
	direction  *Direction
}

// NewRoad creates an undirected junction road
func NewRoad(c Coordinate) *Road {
	return &Road{coordinate: c}
}

// NewDirectedRoad creates a one-way road
func NewDirectedRoad(c Coordinate, d Direction) *Road {
	return &Road{coordinate: c, direction: &d}
}

func (r *Road) Coordinate() Coordinate {
	return r.coordinate
}

// Direction returns the fixed traversal direction, if any
func (r *Road) Direction() (Direction, bool) {
	if r.direction == nil {
		return Direction{}, false
	}
	return *r.direction, true
}

func (r *Road) String() string {
	if r.direction == nil {
		return fmt.Sprintf("road%s", r.coordinate)
	}
	return fmt.Sprintf("road%s->%s", r.coordinate, r.direction.Letter())
}
