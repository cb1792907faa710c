package grid

import (
	"container/heap"
	"fmt"

	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
)

// Endpoint names a building and where it sits on the grid
type Endpoint struct {
	Name       string
	Coordinate Coordinate
}

// Edge costs used by the search
const (
	roadCost  = 1
	emptyCost = 2
)

// Connector finds the cheapest route between two buildings and lays any missing road cells
type Connector struct {
	grid *Grid
}

func NewConnector(g *Grid) *Connector {
	return &Connector{grid: g}
}

// Connect searches from start to end. On success the interior cells that were empty become
// directed roads pointing along the route, and the route is returned.
func (c *Connector) Connect(start, end Endpoint) (*GraphPath, error) {
	path, err := c.search(start, end)
	if err != nil {
		return nil, err
	}
	if err := c.buildRoads(path); err != nil {
		return nil, err
	}
	return path, nil
}

func (c *Connector) search(start, end Endpoint) (*GraphPath, error) {
	queue := &pathQueue{}
	heap.Push(queue, startPath(start.Coordinate))
	visited := make(map[Coordinate]bool)

	for queue.Len() > 0 {
		path := heap.Pop(queue).(*GraphPath)
		current, _ := path.Last()
		square, occupied := c.grid.At(current)
		if visited[current] || (occupied && square.IsBuilding() && current != start.Coordinate) {
			continue
		}
		if current.DistanceTo(end.Coordinate) <= 1 {
			path.add(end.Coordinate, 0)
			return path, nil
		}
		visited[current] = true

		if occupied && square.IsRoad() {
			if dir, ok := square.Road().Direction(); ok {
				c.push(queue, path, current.Step(dir))
				continue
			}
		}
		for _, next := range current.Neighbours() {
			c.push(queue, path, next)
		}
	}
	return nil, shared.NewGraphError(start.Name, end.Name,
		fmt.Sprintf("cannot connect building '%s' to '%s'", start.Name, end.Name))
}

// push extends path onto next when next is empty (cost 2) or a road (cost 1)
func (c *Connector) push(queue *pathQueue, path *GraphPath, next Coordinate) {
	square, occupied := c.grid.At(next)
	switch {
	case !occupied:
		heap.Push(queue, path.Extend(next, emptyCost))
	case square.IsRoad():
		heap.Push(queue, path.Extend(next, roadCost))
	}
}

// buildRoads materialises unoccupied interior cells, walking back from the destination
func (c *Connector) buildRoads(path *GraphPath) error {
	for i := path.Len() - 2; i >= 1; i-- {
		cell := path.At(i)
		if c.grid.Occupied(cell) {
			continue
		}
		road := NewDirectedRoad(cell, directionBetween(cell, path.At(i+1)))
		if err := c.grid.AddRoad(road); err != nil {
			return err
		}
	}
	return nil
}

// pathQueue is a min-heap of paths ordered by GraphPath.Compare
type pathQueue []*GraphPath

func (q pathQueue) Len() int            { return len(q) }
func (q pathQueue) Less(i, j int) bool  { return q[i].Compare(q[j]) < 0 }
func (q pathQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x interface{}) { *q = append(*q, x.(*GraphPath)) }

func (q *pathQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}
