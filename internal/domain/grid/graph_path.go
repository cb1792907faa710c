package grid

import "strings"

// GraphPath is an ordered route of coordinates with an accumulated cost.
// The first and last coordinates are the two connected buildings.
type GraphPath struct {
	coordinates []Coordinate
	cost        int
}

// NewGraphPath builds a path from an explicit coordinate list
func NewGraphPath(coordinates []Coordinate, cost int) *GraphPath {
	coords := make([]Coordinate, len(coordinates))
	copy(coords, coordinates)
	return &GraphPath{coordinates: coords, cost: cost}
}

// startPath is the zero-cost singleton path used to seed a search
func startPath(c Coordinate) *GraphPath {
	return &GraphPath{coordinates: []Coordinate{c}}
}

// Extend returns a copy of p with c appended at edgeCost
func (p *GraphPath) Extend(c Coordinate, edgeCost int) *GraphPath {
	coords := make([]Coordinate, len(p.coordinates), len(p.coordinates)+1)
	copy(coords, p.coordinates)
	return &GraphPath{coordinates: append(coords, c), cost: p.cost + edgeCost}
}

func (p *GraphPath) add(c Coordinate, edgeCost int) {
	p.coordinates = append(p.coordinates, c)
	p.cost += edgeCost
}

func (p *GraphPath) Cost() int {
	return p.cost
}

// Distance is the number of interior cells, excluding both endpoints
func (p *GraphPath) Distance() int {
	if d := len(p.coordinates) - 2; d > 0 {
		return d
	}
	return 0
}

// Turns counts direction changes along the path. Paths with distance <= 2 have none.
func (p *GraphPath) Turns() int {
	if p.Distance() <= 2 {
		return 0
	}
	turns := 0
	vertical := p.coordinates[0].Col == p.coordinates[1].Col
	for i := 2; i < len(p.coordinates); i++ {
		prev, cur := p.coordinates[i-1], p.coordinates[i]
		if vertical {
			if cur.Col != prev.Col {
				turns++
				vertical = false
			}
		} else if cur.Row != prev.Row {
			turns++
			vertical = true
		}
	}
	return turns
}

// Compare orders paths by cost, then by turn count. Distance is computed but never decides
// the order: equal-cost paths skip straight to the turn comparison.
func (p *GraphPath) Compare(other *GraphPath) int {
	if diff := p.cost - other.cost; diff != 0 {
		return diff
	}
	return p.Turns() - other.Turns()
}

func (p *GraphPath) Len() int {
	return len(p.coordinates)
}

// At returns the i-th coordinate
func (p *GraphPath) At(i int) Coordinate {
	return p.coordinates[i]
}

func (p *GraphPath) Coordinates() []Coordinate {
	out := make([]Coordinate, len(p.coordinates))
	copy(out, p.coordinates)
	return out
}

// Interior returns the cells strictly between the two endpoints
func (p *GraphPath) Interior() []Coordinate {
	if len(p.coordinates) <= 2 {
		return nil
	}
	out := make([]Coordinate, len(p.coordinates)-2)
	copy(out, p.coordinates[1:len(p.coordinates)-1])
	return out
}

func (p *GraphPath) First() (Coordinate, bool) {
	if len(p.coordinates) == 0 {
		return Coordinate{}, false
	}
	return p.coordinates[0], true
}

func (p *GraphPath) Last() (Coordinate, bool) {
	if len(p.coordinates) == 0 {
		return Coordinate{}, false
	}
	return p.coordinates[len(p.coordinates)-1], true
}

func (p *GraphPath) Second() (Coordinate, bool) {
	if len(p.coordinates) <= 1 {
		return Coordinate{}, false
	}
	return p.coordinates[1], true
}

func (p *GraphPath) SecondLast() (Coordinate, bool) {
	if len(p.coordinates) <= 1 {
		return Coordinate{}, false
	}
	return p.coordinates[len(p.coordinates)-2], true
}

func (p *GraphPath) String() string {
	parts := make([]string, len(p.coordinates))
	for i, c := range p.coordinates {
		parts[i] = c.String()
	}
	return strings.Join(parts, " -> ")
}
