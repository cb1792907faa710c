package grid

import (
	"fmt"
	"sort"
)

// Square is whatever occupies a coordinate: a building (held by name) or a road
type Square struct {
	building string
	road     *Road
}

// BuildingSquare returns a square occupied by the named building
func BuildingSquare(name string) Square {
	return Square{building: name}
}

// RoadSquare returns a square occupied by r
func RoadSquare(r *Road) Square {
	return Square{road: r}
}

func (s Square) IsBuilding() bool { return s.road == nil && s.building != "" }
func (s Square) IsRoad() bool     { return s.road != nil }

// Building returns the occupying building's name, or "" for roads
func (s Square) Building() string { return s.building }

// Road returns the occupying road, or nil for buildings
func (s Square) Road() *Road { return s.road }

// Grid maps coordinates to at most one Square and keeps roads in creation order
type Grid struct {
	squares map[Coordinate]Square
	roads   []*Road
}

func New() *Grid {
	return &Grid{squares: make(map[Coordinate]Square)}
}

// At returns the square occupying c
func (g *Grid) At(c Coordinate) (Square, bool) {
	s, ok := g.squares[c]
	return s, ok
}

func (g *Grid) Occupied(c Coordinate) bool {
	_, ok := g.squares[c]
	return ok
}

// PlaceBuilding occupies c with the named building
func (g *Grid) PlaceBuilding(name string, c Coordinate) error {
	if existing, ok := g.squares[c]; ok {
		return fmt.Errorf("coordinate %s already occupied by %s", c, describe(existing))
	}
	g.squares[c] = BuildingSquare(name)
	return nil
}

// RemoveBuilding frees c if it is occupied by a building
func (g *Grid) RemoveBuilding(c Coordinate) {
	if s, ok := g.squares[c]; ok && s.IsBuilding() {
		delete(g.squares, c)
	}
}

// AddRoad occupies the road's coordinate and appends it to the road list
func (g *Grid) AddRoad(r *Road) error {
	c := r.Coordinate()
	if existing, ok := g.squares[c]; ok {
		return fmt.Errorf("coordinate %s already occupied by %s", c, describe(existing))
	}
	g.squares[c] = RoadSquare(r)
	g.roads = append(g.roads, r)
	return nil
}

// RemoveRoad deletes the road at c from both the squares and the road list
func (g *Grid) RemoveRoad(c Coordinate) {
	s, ok := g.squares[c]
	if !ok || !s.IsRoad() {
		return
	}
	delete(g.squares, c)
	for i, r := range g.roads {
		if r == s.road {
			g.roads = append(g.roads[:i], g.roads[i+1:]...)
			break
		}
	}
}

// Roads returns the roads in creation order
func (g *Grid) Roads() []*Road {
	out := make([]*Road, len(g.roads))
	copy(out, g.roads)
	return out
}

// Coordinates returns every occupied coordinate sorted by row then column
func (g *Grid) Coordinates() []Coordinate {
	out := make([]Coordinate, 0, len(g.squares))
	for c := range g.squares {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Bounds returns the smallest and largest occupied row/column
func (g *Grid) Bounds() (min, max Coordinate, ok bool) {
	first := true
	for c := range g.squares {
		if first {
			min, max, first = c, c, false
			continue
		}
		if c.Row < min.Row {
			min.Row = c.Row
		}
		if c.Col < min.Col {
			min.Col = c.Col
		}
		if c.Row > max.Row {
			max.Row = c.Row
		}
		if c.Col > max.Col {
			max.Col = c.Col
		}
	}
	return min, max, !first
}

func describe(s Square) string {
	if s.IsRoad() {
		return "a road"
	}
	return fmt.Sprintf("building '%s'", s.building)
}
