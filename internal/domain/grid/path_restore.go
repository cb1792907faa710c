package grid

import (
	"fmt"

	"github.com/Travis-Britz/structures/stack"
)

// RestorePath rebuilds a route between two buildings from its saved endpoints.
// second and secondLast are the first and last interior cells; when second is not a road the
// buildings were adjacent and the path is just [from, to]. Otherwise the roads are walked
// depth-first from second to secondLast, honouring one-way directions.
func (g *Grid) RestorePath(from, second, secondLast, to Coordinate) (*GraphPath, error) {
	startSquare, ok := g.At(second)
	if !ok || !startSquare.IsRoad() {
		return NewGraphPath([]Coordinate{from, to}, 0), nil
	}
	if endSquare, ok := g.At(secondLast); !ok || !endSquare.IsRoad() {
		return nil, fmt.Errorf("failed to restore path %s -> %s: %s is not a road", from, to, secondLast)
	}

	parent := map[Coordinate]Coordinate{}
	visited := map[Coordinate]bool{second: true}
	frontier := &stack.Stack[Coordinate]{}
	found := false
	for current, more := second, true; more; current, more = frontier.Pop() {
		if current == secondLast {
			found = true
			break
		}
		for _, next := range g.roadSteps(current) {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = current
			frontier.Push(next)
		}
	}
	if !found {
		return nil, fmt.Errorf("failed to restore path %s -> %s: roads do not connect", from, to)
	}

	var interior []Coordinate
	for c := secondLast; c != second; c = parent[c] {
		interior = append(interior, c)
	}
	interior = append(interior, second)

	coords := make([]Coordinate, 0, len(interior)+2)
	coords = append(coords, from)
	for i := len(interior) - 1; i >= 0; i-- {
		coords = append(coords, interior[i])
	}
	coords = append(coords, to)
	return NewGraphPath(coords, len(interior)*roadCost), nil
}

// roadSteps lists road cells reachable in one move from the road at c
func (g *Grid) roadSteps(c Coordinate) []Coordinate {
	square, _ := g.At(c)
	candidates := c.Neighbours()
	var steps []Coordinate
	if dir, ok := square.Road().Direction(); ok {
		next := c.Step(dir)
		if s, ok := g.At(next); ok && s.IsRoad() {
			steps = append(steps, next)
		}
		return steps
	}
	// pushed in reverse so the first neighbour is explored first
	for i := len(candidates) - 1; i >= 0; i-- {
		if s, ok := g.At(candidates[i]); ok && s.IsRoad() {
			steps = append(steps, candidates[i])
		}
	}
	return steps
}
