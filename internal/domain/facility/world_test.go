package facility_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	"github.com/andrescamacho/factorysim-go/internal/domain/grid"
	"github.com/andrescamacho/factorysim-go/internal/domain/production"
)

// testWorld is a minimal owner for buildings: it keeps insertion order and runs ticks the
// way the simulation does
type testWorld struct {
	order  []*facility.Building
	byName map[string]*facility.Building
	ports  []*facility.Building
	ids    *production.RequestIDs
	cycle  int
	events []facility.Event
	onEmit func(facility.Event)
}

func newTestWorld() *testWorld {
	return &testWorld{byName: map[string]*facility.Building{}, ids: production.NewRequestIDs()}
}

func (w *testWorld) Lookup(name string) (*facility.Building, bool) {
	b, ok := w.byName[name]
	return b, ok
}

func (w *testWorld) Cycle() int                         { return w.cycle }
func (w *testWorld) DronePorts() []*facility.Building   { return w.ports }
func (w *testWorld) RequestIDs() *production.RequestIDs { return w.ids }

func (w *testWorld) Emit(e facility.Event) {
	w.events = append(w.events, e)
	if w.onEmit != nil {
		w.onEmit(e)
	}
}

func (w *testWorld) add(b *facility.Building, row, col int) *facility.Building {
	b.Place(grid.NewCoordinate(row, col))
	w.order = append(w.order, b)
	w.byName[b.Name()] = b
	if b.Kind() == facility.KindDronePort {
		w.ports = append(w.ports, b)
	}
	return b
}

func (w *testWorld) tick(t *testing.T) {
	t.Helper()
	w.cycle++
	for _, b := range w.order {
		require.NoError(t, b.Step())
	}
	for _, b := range w.order {
		require.NoError(t, b.Deliver())
	}
}

func (w *testWorld) eventsOf(kind facility.EventKind) []facility.Event {
	var out []facility.Event
	for _, e := range w.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// connect links source to dest with a straight route along the row
func connect(source, dest *facility.Building) {
	from, _ := source.Coordinate()
	to, _ := dest.Coordinate()
	var cells []grid.Coordinate
	step := 1
	if to.Col < from.Col {
		step = -1
	}
	for c := from.Col; c != to.Col; c += step {
		cells = append(cells, grid.NewCoordinate(from.Row, c))
	}
	cells = append(cells, to)
	dest.AddSource(source.Name(), grid.NewGraphPath(cells, len(cells)-2))
}

func mustRecipe(t *testing.T, output string, latency int, ingredients ...production.Ingredient) *production.Recipe {
	t.Helper()
	r, err := production.NewRecipe(output, ingredients, latency)
	require.NoError(t, err)
	return r
}

func mustFactoryType(t *testing.T, name string, recipes ...*production.Recipe) *production.FactoryType {
	t.Helper()
	ft, err := production.NewFactoryType(name, recipes)
	require.NoError(t, err)
	return ft
}

func userRequest(w *testWorld, r *production.Recipe) *production.Request {
	return production.NewRequest(w.ids, r, "", true)
}
