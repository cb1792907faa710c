package simulation

import (
	"fmt"

	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	"github.com/andrescamacho/factorysim-go/internal/domain/grid"
	"github.com/andrescamacho/factorysim-go/internal/domain/policy"
	"github.com/andrescamacho/factorysim-go/internal/domain/production"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
)

// Options tunes a simulation. Zero values fall back to DefaultOptions.
type Options struct {
	DroneSpeed           int
	DroneRange           int
	DronePortLimit       int
	MaxFinishTicks       int
	PlacementSpacing     int
	DefaultRequestPolicy string
	DefaultSourcePolicy  string
}

func DefaultOptions() Options {
	return Options{
		DroneSpeed:           facility.DefaultDroneSpeed,
		DroneRange:           facility.DefaultDroneRange,
		DronePortLimit:       facility.DefaultDronePortLimit,
		MaxFinishTicks:       100000,
		PlacementSpacing:     4,
		DefaultRequestPolicy: policy.FifoPolicyName,
		DefaultSourcePolicy:  policy.QlenPolicyName,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.DroneSpeed <= 0 {
		o.DroneSpeed = d.DroneSpeed
	}
	if o.DroneRange <= 0 {
		o.DroneRange = d.DroneRange
	}
	if o.DronePortLimit <= 0 {
		o.DronePortLimit = d.DronePortLimit
	}
	if o.MaxFinishTicks <= 0 {
		o.MaxFinishTicks = d.MaxFinishTicks
	}
	if o.PlacementSpacing <= 0 {
		o.PlacementSpacing = d.PlacementSpacing
	}
	if o.DefaultRequestPolicy == "" {
		o.DefaultRequestPolicy = d.DefaultRequestPolicy
	}
	if o.DefaultSourcePolicy == "" {
		o.DefaultSourcePolicy = d.DefaultSourcePolicy
	}
	return o
}

// Simulation owns the production graph: every building, the grid its roads live on, the
// recipe catalog and the clock. Buildings refer to one another by name through it.
type Simulation struct {
	opts      Options
	catalog   *production.Catalog
	policies  *policy.Registry
	grid      *grid.Grid
	connector *grid.Connector
	placement *PlacementChecker
	placer    *autoPlacer

	buildings  map[string]*facility.Building
	order      []string
	dronePorts []string

	ids       *production.RequestIDs
	cycle     int
	verbosity int
	sinks     []facility.EventSink

	defaultRequest policy.RequestPolicy
	defaultSource  policy.SourcePolicy
}

// New creates an empty simulation over catalog
func New(catalog *production.Catalog, opts Options) (*Simulation, error) {
	opts = opts.withDefaults()
	g := grid.New()
	s := &Simulation{
		opts:      opts,
		catalog:   catalog,
		policies:  policy.NewRegistry(catalog),
		grid:      g,
		connector: grid.NewConnector(g),
		placement: NewPlacementChecker(NoCollisionRule{}),
		placer:    newAutoPlacer(opts.PlacementSpacing),
		buildings: make(map[string]*facility.Building),
		ids:       production.NewRequestIDs(),
	}
	var err error
	if s.defaultRequest, err = s.policies.RequestPolicy(opts.DefaultRequestPolicy); err != nil {
		return nil, err
	}
	if s.defaultSource, err = s.policies.SourcePolicy(opts.DefaultSourcePolicy); err != nil {
		return nil, err
	}
	return s, nil
}

// World implementation

func (s *Simulation) Lookup(name string) (*facility.Building, bool) {
	b, ok := s.buildings[name]
	return b, ok
}

func (s *Simulation) Cycle() int {
	return s.cycle
}

func (s *Simulation) DronePorts() []*facility.Building {
	out := make([]*facility.Building, 0, len(s.dronePorts))
	for _, name := range s.dronePorts {
		out = append(out, s.buildings[name])
	}
	return out
}

func (s *Simulation) RequestIDs() *production.RequestIDs {
	return s.ids
}

// Emit forwards e to every sink when the verbosity level lets it through
func (s *Simulation) Emit(e facility.Event) {
	if e.Level() > s.verbosity {
		return
	}
	for _, sink := range s.sinks {
		sink.Publish(e)
	}
}

var _ facility.World = (*Simulation)(nil)

// Accessors

func (s *Simulation) Options() Options {
	return s.opts
}

func (s *Simulation) Catalog() *production.Catalog {
	return s.catalog
}

func (s *Simulation) Policies() *policy.Registry {
	return s.policies
}

func (s *Simulation) Grid() *grid.Grid {
	return s.grid
}

// SetCycle sets the clock, used when restoring a saved simulation
func (s *Simulation) SetCycle(cycle int) {
	s.cycle = cycle
}

func (s *Simulation) Verbosity() int {
	return s.verbosity
}

func (s *Simulation) SetVerbosity(level int) error {
	if level < 0 {
		return shared.NewValidationError("verbosity", fmt.Sprintf("verbosity must not be negative, got %d", level))
	}
	s.verbosity = level
	return nil
}

// Subscribe adds a sink for simulation events
func (s *Simulation) Subscribe(sink facility.EventSink) {
	s.sinks = append(s.sinks, sink)
}

// Buildings returns every building in insertion order, which is also the tick order
func (s *Simulation) Buildings() []*facility.Building {
	out := make([]*facility.Building, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.buildings[name])
	}
	return out
}

func (s *Simulation) Building(name string) (*facility.Building, error) {
	b, ok := s.buildings[name]
	if !ok {
		return nil, shared.NewInvalidReferenceError("building", name)
	}
	return b, nil
}

// DefaultRequestPolicy is the policy new buildings start with
func (s *Simulation) DefaultRequestPolicy() policy.RequestPolicy {
	return s.defaultRequest
}

func (s *Simulation) DefaultSourcePolicy() policy.SourcePolicy {
	return s.defaultSource
}

// AddBuilding places b on the grid and registers it. An unplaced building is auto-placed
// first. Buildings still on default policies pick up the simulation defaults.
func (s *Simulation) AddBuilding(b *facility.Building) error {
	if _, exists := s.buildings[b.Name()]; exists {
		return shared.NewValidationError("name", fmt.Sprintf("building '%s' already exists", b.Name()))
	}
	if _, placed := b.Coordinate(); !placed {
		s.placer.place(b)
	}
	c, _ := b.Coordinate()
	if err := s.placement.Check(s.grid, c); err != nil {
		return err
	}
	if err := s.grid.PlaceBuilding(b.Name(), c); err != nil {
		return err
	}
	s.placer.observe(c)

	if b.UsingDefaultRequestPolicy() {
		b.SetRequestPolicy(s.defaultRequest, true)
	}
	if b.UsingDefaultSourcePolicy() {
		b.SetSourcePolicy(s.defaultSource, true)
	}
	s.buildings[b.Name()] = b
	s.order = append(s.order, b.Name())
	if b.Kind() == facility.KindDronePort {
		s.dronePorts = append(s.dronePorts, b.Name())
	}
	return nil
}

// AddBuildings adds bs in order. Coordinates of the placed ones are taken into account before
// any unplaced one is auto-placed.
func (s *Simulation) AddBuildings(bs ...*facility.Building) error {
	for _, b := range bs {
		if c, placed := b.Coordinate(); placed {
			s.placer.observe(c)
		}
	}
	for _, b := range bs {
		if err := s.AddBuilding(b); err != nil {
			return err
		}
	}
	return nil
}

// AddRoad lays a road square, used when restoring a saved grid
func (s *Simulation) AddRoad(r *grid.Road) error {
	return s.grid.AddRoad(r)
}

// Reset rewinds the clock and the request identities
func (s *Simulation) Reset() {
	s.cycle = 0
	s.ids.Reset()
}
