package simulation

import (
	"fmt"

	"github.com/Travis-Britz/structures/stack"

	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	"github.com/andrescamacho/factorysim-go/internal/domain/grid"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
)

// isDisposalLink reports whether a connection from source to dest carries waste rather than
// ingredients
func isDisposalLink(source, dest *facility.Building) bool {
	return source.Kind() == facility.KindFactory && dest.Kind() == facility.KindWasteDisposal
}

// connection returns the route of the existing edge from source to dest
func connection(source, dest *facility.Building) (*grid.GraphPath, bool) {
	if isDisposalLink(source, dest) {
		f, _ := source.Factory()
		for _, d := range f.Disposals() {
			if d.Name == dest.Name() {
				return d.Path, true
			}
		}
		return nil, false
	}
	return dest.SourcePath(source.Name())
}

// Connect routes a road from source to dest and records source as a supplier of dest, or
// dest as a waste disposal of source
func (s *Simulation) Connect(sourceName, destName string) (*grid.GraphPath, error) {
	source, err := s.Building(sourceName)
	if err != nil {
		return nil, err
	}
	dest, err := s.Building(destName)
	if err != nil {
		return nil, err
	}
	if source == dest {
		return nil, shared.NewGraphError(sourceName, destName,
			fmt.Sprintf("cannot connect '%s' to itself", sourceName))
	}
	if _, exists := connection(source, dest); exists {
		return nil, shared.NewGraphError(sourceName, destName,
			fmt.Sprintf("'%s' is already connected to '%s'", sourceName, destName))
	}

	from, _ := source.Coordinate()
	to, _ := dest.Coordinate()
	path, err := s.connector.Connect(
		grid.Endpoint{Name: sourceName, Coordinate: from},
		grid.Endpoint{Name: destName, Coordinate: to},
	)
	if err != nil {
		return nil, err
	}
	s.link(source, dest, path)
	return path, nil
}

// Link records an edge along an already known route, used when restoring a saved graph
func (s *Simulation) Link(sourceName, destName string, path *grid.GraphPath) error {
	source, err := s.Building(sourceName)
	if err != nil {
		return err
	}
	dest, err := s.Building(destName)
	if err != nil {
		return err
	}
	s.link(source, dest, path)
	return nil
}

func (s *Simulation) link(source, dest *facility.Building, path *grid.GraphPath) {
	if isDisposalLink(source, dest) {
		f, _ := source.Factory()
		f.AddDisposal(dest.Name(), path)
		return
	}
	dest.AddSource(source.Name(), path)
}

// Disconnect removes the edge from source to dest and reclaims the road squares no other
// route uses. It refuses while a delivery or request between the two is pending.
func (s *Simulation) Disconnect(sourceName, destName string) error {
	source, err := s.Building(sourceName)
	if err != nil {
		return err
	}
	dest, err := s.Building(destName)
	if err != nil {
		return err
	}
	path, ok := connection(source, dest)
	if !ok {
		return shared.NewGraphError(sourceName, destName,
			fmt.Sprintf("connection from '%s' to '%s' not found", sourceName, destName))
	}
	if source.HasTrafficFor(destName) {
		return shared.NewGraphError(sourceName, destName, "cannot disconnect due to deliveries on the path")
	}

	reclaim := map[grid.Coordinate]bool{}
	for _, c := range path.Interior() {
		square, ok := s.grid.At(c)
		if !ok || !square.IsRoad() {
			return shared.NewGraphError(sourceName, destName, fmt.Sprintf("non-road square %s on the path", c))
		}
		reclaim[c] = true
	}
	s.keepSharedRoads(reclaim, source, dest)

	if isDisposalLink(source, dest) {
		f, _ := source.Factory()
		f.RemoveDisposal(destName)
	} else if err := dest.RemoveSource(sourceName); err != nil {
		return err
	}
	for _, c := range path.Interior() {
		if reclaim[c] {
			s.grid.RemoveRoad(c)
		}
	}
	return nil
}

// keepSharedRoads drops from reclaim every square another route still runs over
func (s *Simulation) keepSharedRoads(reclaim map[grid.Coordinate]bool, source, dest *facility.Building) {
	drop := func(path *grid.GraphPath) {
		for _, c := range path.Coordinates() {
			delete(reclaim, c)
		}
	}
	for _, b := range s.Buildings() {
		if len(reclaim) == 0 {
			return
		}
		for _, link := range b.Sources() {
			if b == dest && link.Name == source.Name() {
				continue
			}
			drop(link.Path)
		}
		if f, ok := b.Factory(); ok {
			for _, d := range f.Disposals() {
				if b == source && d.Name == dest.Name() {
					continue
				}
				drop(d.Path)
			}
		}
	}
}

// TryRemoveBuilding removes the building when it has no pending work and otherwise marks it
// so it takes no new requests. removed reports which happened.
func (s *Simulation) TryRemoveBuilding(name string) (removed bool, err error) {
	b, err := s.Building(name)
	if err != nil {
		return false, err
	}
	if !b.ReadyForRemoval() {
		b.MarkForRemoval()
		return false, nil
	}
	if err := s.RemoveBuilding(name); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveBuilding disconnects every edge touching the building and deletes it
func (s *Simulation) RemoveBuilding(name string) error {
	b, err := s.Building(name)
	if err != nil {
		return err
	}
	for _, src := range b.SourceNames() {
		if err := s.Disconnect(src, name); err != nil {
			return err
		}
	}
	for _, other := range s.Buildings() {
		if other.HasSource(name) {
			if err := s.Disconnect(name, other.Name()); err != nil {
				return err
			}
		}
		if f, ok := other.Factory(); ok && b.Kind() == facility.KindWasteDisposal {
			for _, d := range f.Disposals() {
				if d.Name != name {
					continue
				}
				if err := s.Disconnect(other.Name(), name); err != nil {
					return err
				}
			}
		}
	}
	if f, ok := b.Factory(); ok {
		for _, d := range f.Disposals() {
			if err := s.Disconnect(name, d.Name); err != nil {
				return err
			}
		}
	}

	s.dronePorts = without(s.dronePorts, name)
	s.order = without(s.order, name)
	delete(s.buildings, name)
	if c, placed := b.Coordinate(); placed {
		s.grid.RemoveBuilding(c)
	}
	return nil
}

func without(names []string, name string) []string {
	out := names[:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

// Upstream lists every building that feeds name directly or through other buildings, in
// depth-first discovery order
func (s *Simulation) Upstream(name string) ([]string, error) {
	root, err := s.Building(name)
	if err != nil {
		return nil, err
	}
	var out []string
	seen := map[string]bool{name: true}
	frontier := &stack.Stack[*facility.Building]{}
	for current, more := root, true; more; current, more = frontier.Pop() {
		sources := current.SourceNames()
		for i := len(sources) - 1; i >= 0; i-- {
			src, ok := s.buildings[sources[i]]
			if !ok || seen[src.Name()] {
				continue
			}
			seen[src.Name()] = true
			frontier.Push(src)
		}
		if current != root {
			out = append(out, current.Name())
		}
	}
	return out, nil
}
