package facility

import (
	"fmt"

	"github.com/andrescamacho/factorysim-go/internal/domain/grid"
	"github.com/andrescamacho/factorysim-go/internal/domain/policy"
	"github.com/andrescamacho/factorysim-go/internal/domain/production"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
)

type Kind string

const (
	KindFactory       Kind = "factory"
	KindMine          Kind = "mine"
	KindStorage       Kind = "storage"
	KindWasteDisposal Kind = "waste disposal"
	KindDronePort     Kind = "drone port"
)

// behavior is the closed set of building variants. Every variant keeps its own payload and
// reaches the shared state through the *Building it is handed.
type behavior interface {
	kind() Kind
	recipes() []*production.Recipe
	mayProduce(product string) bool
	capableOf(b *Building, product string, visiting map[string]bool) error
	step(b *Building) error
	finished(b *Building) bool
	readyForRemoval(b *Building) bool
}

// SourceLink is an upstream connection and the route its deliveries travel
type SourceLink struct {
	Name string
	Path *grid.GraphPath
}

// Delivery is an in-flight ground delivery and the deliver passes left before it lands
type Delivery struct {
	Request   *production.Request
	Remaining int
}

// Building is a node of the production graph. Shared bookkeeping lives here; the variant
// payload decides how the building produces.
type Building struct {
	name       string
	coordinate grid.Coordinate
	placed     bool

	sources    []SourceLink
	requests   []*production.Request
	inventory  production.Inventory
	current    *production.Request
	timeLeft   int
	deliveries []*Delivery

	requestPolicy        policy.RequestPolicy
	sourcePolicy         policy.SourcePolicy
	defaultRequestPolicy bool
	defaultSourcePolicy  bool
	removeMark           bool

	world    World
	behavior behavior
}

func newBuilding(name string, world World, b behavior) *Building {
	return &Building{
		name:                 name,
		inventory:            production.NewInventory(),
		timeLeft:             -1,
		requestPolicy:        policy.FifoPolicy{},
		sourcePolicy:         policy.QlenPolicy{},
		defaultRequestPolicy: true,
		defaultSourcePolicy:  true,
		world:                world,
		behavior:             b,
	}
}

func (b *Building) Name() string {
	return b.name
}

func (b *Building) Kind() Kind {
	return b.behavior.kind()
}

func (b *Building) String() string {
	return b.name
}

// Coordinate returns the building location; ok is false until the building is placed
func (b *Building) Coordinate() (grid.Coordinate, bool) {
	return b.coordinate, b.placed
}

func (b *Building) Place(c grid.Coordinate) {
	b.coordinate = c
	b.placed = true
}

// Recipes lists what the building knows how to make, nil for drone ports
func (b *Building) Recipes() []*production.Recipe {
	return b.behavior.recipes()
}

// Recipe finds the recipe for output among the building's recipes
func (b *Building) Recipe(output string) (*production.Recipe, bool) {
	for _, r := range b.behavior.recipes() {
		if r.Output() == output {
			return r, true
		}
	}
	return nil, false
}

// MayProduce reports whether output is among the building's recipes, ignoring upstream supply
func (b *Building) MayProduce(output string) bool {
	return b.behavior.mayProduce(output)
}

// CapableOf returns nil when the building can currently take a request for product, otherwise
// a CapabilityError naming the reason
func (b *Building) CapableOf(product string) error {
	return b.capableOf(product, map[string]bool{})
}

func (b *Building) capableOf(product string, visiting map[string]bool) error {
	if visiting[b.name] {
		return shared.NewCapabilityError(b.name, product,
			fmt.Sprintf("supply loop through '%s' for '%s'", b.name, product))
	}
	visiting[b.name] = true
	defer delete(visiting, b.name)
	return b.behavior.capableOf(b, product, visiting)
}

// hasSourceFor reports whether any upstream source can supply ingredient. The last refusal
// from a source that lists the ingredient is returned when none can.
func (b *Building) hasSourceFor(ingredient string, visiting map[string]bool) error {
	var last error
	for _, link := range b.sources {
		src, ok := b.world.Lookup(link.Name)
		if !ok || !src.MayProduce(ingredient) {
			continue
		}
		err := src.capableOf(ingredient, visiting)
		if err == nil {
			return nil
		}
		last = err
	}
	if last == nil {
		return shared.NewCapabilityError(b.name, ingredient,
			fmt.Sprintf("no source for '%s' in %s '%s'", ingredient, b.Kind(), b.name))
	}
	return last
}

func (b *Building) beingRemoved(product string) error {
	if b.removeMark {
		return shared.NewCapabilityError(b.name, product, "being removed")
	}
	return nil
}

// Sources

func (b *Building) Sources() []SourceLink {
	out := make([]SourceLink, len(b.sources))
	copy(out, b.sources)
	return out
}

func (b *Building) SourceNames() []string {
	out := make([]string, 0, len(b.sources))
	for _, link := range b.sources {
		out = append(out, link.Name)
	}
	return out
}

// SourcePath returns the route deliveries from the named source travel
func (b *Building) SourcePath(name string) (*grid.GraphPath, bool) {
	for _, link := range b.sources {
		if link.Name == name {
			return link.Path, true
		}
	}
	return nil, false
}

func (b *Building) HasSource(name string) bool {
	_, ok := b.SourcePath(name)
	return ok
}

// AddSource appends an upstream connection, or replaces the route of an existing one
func (b *Building) AddSource(name string, path *grid.GraphPath) {
	for i, link := range b.sources {
		if link.Name == name {
			b.sources[i].Path = path
			return
		}
	}
	b.sources = append(b.sources, SourceLink{Name: name, Path: path})
}

func (b *Building) RemoveSource(name string) error {
	for i, link := range b.sources {
		if link.Name == name {
			b.sources = append(b.sources[:i], b.sources[i+1:]...)
			return nil
		}
	}
	return shared.NewGraphError(name, b.name, fmt.Sprintf("source '%s' not in '%s'", name, b.name))
}

// Suppliers resolves the declared sources, in declaration order
func (b *Building) Suppliers() []policy.Node {
	out := make([]policy.Node, 0, len(b.sources))
	for _, link := range b.sources {
		if src, ok := b.world.Lookup(link.Name); ok {
			out = append(out, src)
		}
	}
	return out
}

// pathTo is the route from b to the requester that asked for its output
func (b *Building) pathTo(requester string) (*grid.GraphPath, error) {
	if f, ok := b.behavior.(*Factory); ok {
		if path, ok := f.disposalPath(requester); ok {
			return path, nil
		}
	}
	target, ok := b.world.Lookup(requester)
	if !ok {
		return nil, shared.NewInvalidReferenceError("building", requester)
	}
	path, ok := target.SourcePath(b.name)
	if !ok {
		return nil, shared.NewGraphError(b.name, requester,
			fmt.Sprintf("no connection from '%s' to '%s'", b.name, requester))
	}
	return path, nil
}

// Queue and inventory

func (b *Building) Requests() []*production.Request {
	out := make([]*production.Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// QueueLength is the pending request count, less any stock a storage already holds
func (b *Building) QueueLength() int {
	n := len(b.requests)
	if s, ok := b.behavior.(*Storage); ok {
		n -= s.amount
	}
	return n
}

// SimpleLatency sums the latency of every queued request. The request in progress only
// counts its remaining time.
func (b *Building) SimpleLatency() int {
	total := 0
	for _, r := range b.requests {
		if r == b.current {
			total += b.timeLeft
		} else {
			total += r.Latency()
		}
	}
	if s, ok := b.behavior.(*Storage); ok {
		total -= s.amount * s.stores.Latency()
	}
	return total
}

func (b *Building) CurrentRequest() (*production.Request, int) {
	return b.current, b.timeLeft
}

func (b *Building) InventoryCount(item string) int {
	return b.inventory.Count(item)
}

func (b *Building) Inventory() production.Inventory {
	return b.inventory.Clone()
}

// StoredAmount is the buffered stock of a storage; ok is false for every other variant
func (b *Building) StoredAmount() (int, bool) {
	if s, ok := b.behavior.(*Storage); ok {
		return s.amount, true
	}
	return 0, false
}

// AddIngredient credits one unit of item
func (b *Building) AddIngredient(item string) error {
	if s, ok := b.behavior.(*Storage); ok {
		return s.receive(b, item)
	}
	b.inventory.Add(item, 1)
	return nil
}

// AddRequest enqueues r after checking the building can produce it. A factory also allocates
// one sub-request per ingredient unit to its sources.
func (b *Building) AddRequest(r *production.Request) error {
	if !r.IsWaste() {
		if err := b.CapableOf(r.Output()); err != nil {
			return err
		}
	}
	b.requests = append(b.requests, r)

	switch v := b.behavior.(type) {
	case *Factory:
		if err := v.allocate(b, r); err != nil {
			b.withdraw(r)
			return err
		}
	case *Storage:
		v.remain++
	}
	return nil
}

// EnqueueRequest appends r without any capability check
func (b *Building) EnqueueRequest(r *production.Request) {
	b.requests = append(b.requests, r)
}

// withdraw takes back a request placed by AddRequest, along with the sub-requests it placed
// upstream
func (b *Building) withdraw(r *production.Request) {
	if !b.dequeue(r) {
		return
	}
	switch v := b.behavior.(type) {
	case *Factory:
		for _, sub := range r.SubRequests() {
			for _, n := range b.Suppliers() {
				if src := n.(*Building); src.queued(sub) {
					src.withdraw(sub)
					break
				}
			}
		}
	case *Storage:
		v.remain--
	}
}

func (b *Building) queued(r *production.Request) bool {
	for _, q := range b.requests {
		if q == r {
			return true
		}
	}
	return false
}

func (b *Building) dequeue(r *production.Request) bool {
	for i, q := range b.requests {
		if q == r {
			b.requests = append(b.requests[:i], b.requests[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Building) Deliveries() []Delivery {
	out := make([]Delivery, 0, len(b.deliveries))
	for _, d := range b.deliveries {
		out = append(out, *d)
	}
	return out
}

// AddDelivery records r as in flight with remaining deliver passes left
func (b *Building) AddDelivery(r *production.Request, remaining int) error {
	for _, d := range b.deliveries {
		if d.Request == r {
			return fmt.Errorf("request %d already in deliveries", r.ID())
		}
	}
	b.deliveries = append(b.deliveries, &Delivery{Request: r, Remaining: remaining})
	return nil
}

// HasTrafficFor reports whether a delivery to, or a queued request from, requester is pending
func (b *Building) HasTrafficFor(requester string) bool {
	for _, d := range b.deliveries {
		if d.Request.Requester() == requester {
			return true
		}
	}
	for _, r := range b.requests {
		if r.Requester() == requester {
			return true
		}
	}
	return false
}

// RequestLocation is the square a ground delivery currently occupies on its route
func (b *Building) RequestLocation(r *production.Request) (grid.Coordinate, error) {
	for _, d := range b.deliveries {
		if d.Request != r {
			continue
		}
		path, err := b.pathTo(r.Requester())
		if err != nil {
			return grid.Coordinate{}, err
		}
		travelled := path.Distance() - d.Remaining
		if travelled < 0 {
			travelled = 0
		}
		return path.At(travelled), nil
	}
	return grid.Coordinate{}, fmt.Errorf("request %d not in delivery", r.ID())
}

// Policies

func (b *Building) RequestPolicy() policy.RequestPolicy {
	return b.requestPolicy
}

func (b *Building) SourcePolicy() policy.SourcePolicy {
	return b.sourcePolicy
}

func (b *Building) UsingDefaultRequestPolicy() bool {
	return b.defaultRequestPolicy
}

func (b *Building) UsingDefaultSourcePolicy() bool {
	return b.defaultSourcePolicy
}

// SetRequestPolicy installs p; isDefault records whether it came from a default assignment
func (b *Building) SetRequestPolicy(p policy.RequestPolicy, isDefault bool) {
	b.requestPolicy = p
	b.defaultRequestPolicy = isDefault
}

func (b *Building) SetSourcePolicy(p policy.SourcePolicy, isDefault bool) {
	b.sourcePolicy = p
	b.defaultSourcePolicy = isDefault
}

// Removal

func (b *Building) RemoveMark() bool {
	return b.removeMark
}

func (b *Building) MarkForRemoval() {
	b.removeMark = true
}

// Finished reports whether the building has no queued requests and nothing in flight
func (b *Building) Finished() bool {
	return b.behavior.finished(b)
}

// ReadyForRemoval reports whether the building can leave the graph now
func (b *Building) ReadyForRemoval() bool {
	return b.behavior.readyForRemoval(b)
}

func (b *Building) baseFinished() bool {
	return len(b.requests) == 0 && len(b.deliveries) == 0
}

// Restore hooks used when rebuilding a building from a snapshot

// RestoreProgress sets the request in progress and its remaining time
func (b *Building) RestoreProgress(current *production.Request, timeLeft int) {
	b.current = current
	b.timeLeft = timeLeft
}

func (b *Building) RestoreInventory(inv production.Inventory) {
	b.inventory = inv.Clone()
}

func (b *Building) RestoreRemoveMark(mark bool) {
	b.removeMark = mark
}
