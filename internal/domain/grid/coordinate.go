package grid

import (
	"fmt"
	"math"
)

// Coordinate is an immutable (row, column) cell address
type Coordinate struct {
	Row int
	Col int
}

func NewCoordinate(row, col int) Coordinate {
	return Coordinate{Row: row, Col: col}
}

// DistanceTo returns the Euclidean distance to other
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	dr := float64(c.Row - other.Row)
	dc := float64(c.Col - other.Col)
	return math.Sqrt(dr*dr + dc*dc)
}

// ManhattanTo returns the taxicab distance to other
func (c Coordinate) ManhattanTo(other Coordinate) int {
	return abs(c.Row-other.Row) + abs(c.Col-other.Col)
}

// Step returns the neighbouring coordinate in direction d
func (c Coordinate) Step(d Direction) Coordinate {
	return Coordinate{Row: c.Row + d.DRow, Col: c.Col + d.DCol}
}

// Neighbours returns the four orthogonal neighbours in search order:
// right, left, up (row+1), down (row-1)
func (c Coordinate) Neighbours() [4]Coordinate {
	return [4]Coordinate{
		{Row: c.Row, Col: c.Col + 1},
		{Row: c.Row, Col: c.Col - 1},
		{Row: c.Row + 1, Col: c.Col},
		{Row: c.Row - 1, Col: c.Col},
	}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
