package snapshot

import (
	"fmt"

	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	"github.com/andrescamacho/factorysim-go/internal/domain/grid"
	"github.com/andrescamacho/factorysim-go/internal/domain/production"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
	"github.com/andrescamacho/factorysim-go/internal/domain/simulation"
)

// Load parses data and restores the simulation it describes
func Load(data []byte, opts simulation.Options) (*simulation.Simulation, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Restore(doc, opts)
}

// Restore rebuilds a simulation from doc. A saved document restores roads and routes as they
// were; an initial configuration has its buildings auto-placed where needed and every source
// connected through the road builder.
func Restore(doc *Document, opts simulation.Options) (*simulation.Simulation, error) {
	catalog, err := restoreCatalog(doc)
	if err != nil {
		return nil, err
	}
	s, err := simulation.New(catalog, opts)
	if err != nil {
		return nil, err
	}
	r := &restorer{doc: doc, sim: s, catalog: catalog, requests: map[int]*production.Request{}}
	if doc.DefaultRequestPolicy != "" {
		if err := s.SetRequestPolicyDefault(doc.DefaultRequestPolicy); err != nil {
			return nil, err
		}
	}
	if doc.DefaultSourcePolicy != "" {
		if err := s.SetSourcePolicyDefault(doc.DefaultSourcePolicy); err != nil {
			return nil, err
		}
	}

	if !doc.Initial() {
		for _, rd := range doc.Roads {
			if err := r.road(rd); err != nil {
				return nil, err
			}
		}
	}
	if err := r.buildings(); err != nil {
		return nil, err
	}
	if err := r.links(); err != nil {
		return nil, err
	}
	if err := r.policies(); err != nil {
		return nil, err
	}
	if err := r.requestTable(); err != nil {
		return nil, err
	}
	if err := r.progress(); err != nil {
		return nil, err
	}
	s.SetCycle(doc.Cycle)
	return s, nil
}

func restoreCatalog(doc *Document) (*production.Catalog, error) {
	catalog := production.NewCatalog()
	for _, rd := range doc.Recipes {
		ings := make([]production.Ingredient, 0, len(rd.Ingredients))
		for _, ing := range rd.Ingredients {
			ings = append(ings, production.Ingredient{Name: ing.Name, Quantity: ing.Quantity})
		}
		waste := ""
		if rd.Waste != nil {
			waste = *rd.Waste
		}
		recipe, err := production.NewWasteRecipe(rd.Output, ings, rd.Latency, waste, rd.WasteAmount)
		if err != nil {
			return nil, fmt.Errorf("recipe '%s': %w", rd.Output, err)
		}
		if err := catalog.AddRecipe(recipe); err != nil {
			return nil, err
		}
	}
	for _, rd := range doc.Recipes {
		for _, ing := range rd.Ingredients {
			if _, ok := catalog.Recipe(ing.Name); !ok {
				return nil, shared.NewInvalidReferenceError("recipe", ing.Name)
			}
		}
	}
	for _, td := range doc.Types {
		recipes := make([]*production.Recipe, 0, len(td.Recipes))
		for _, name := range td.Recipes {
			recipe, ok := catalog.Recipe(name)
			if !ok {
				return nil, shared.NewInvalidReferenceError("recipe", name)
			}
			recipes = append(recipes, recipe)
		}
		ft, err := production.NewFactoryType(td.Name, recipes)
		if err != nil {
			return nil, err
		}
		if err := catalog.AddFactoryType(ft); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

type restorer struct {
	doc      *Document
	sim      *simulation.Simulation
	catalog  *production.Catalog
	requests map[int]*production.Request
}

func (r *restorer) road(rd RoadDoc) error {
	c, err := coordinate(rd.Coordinate)
	if err != nil {
		return fmt.Errorf("road: %w", err)
	}
	if rd.Direction == nil {
		return r.sim.AddRoad(grid.NewRoad(c))
	}
	if len(rd.Direction) != 2 {
		return fmt.Errorf("road %s: direction must be a pair", c)
	}
	d, err := grid.DirectionFromDelta(rd.Direction[0], rd.Direction[1])
	if err != nil {
		return err
	}
	return r.sim.AddRoad(grid.NewDirectedRoad(c, d))
}

func (r *restorer) buildings() error {
	built := make([]*facility.Building, 0, len(r.doc.Buildings))
	for _, bd := range r.doc.Buildings {
		b, err := r.building(bd)
		if err != nil {
			return fmt.Errorf("building '%s': %w", bd.Name, err)
		}
		if bd.Coordinate != nil {
			c, err := coordinate(bd.Coordinate)
			if err != nil {
				return fmt.Errorf("building '%s': %w", bd.Name, err)
			}
			b.Place(c)
		}
		if bd.Inventory != nil {
			b.RestoreInventory(production.Inventory(bd.Inventory).Clone())
		}
		b.RestoreRemoveMark(bd.RemoveMark)
		built = append(built, b)
	}
	return r.sim.AddBuildings(built...)
}

func (r *restorer) building(bd BuildingDoc) (*facility.Building, error) {
	opts := r.sim.Options()
	switch {
	case bd.Type != nil:
		ft, ok := r.catalog.FactoryType(*bd.Type)
		if !ok {
			return nil, shared.NewInvalidReferenceError("factory type", *bd.Type)
		}
		b := facility.NewFactory(bd.Name, ft, r.sim)
		f, _ := b.Factory()
		for _, w := range bd.Wastes {
			f.AddWaste(w.Item, w.Amount)
		}
		return b, nil
	case bd.Mine != nil:
		recipe, err := r.recipe(*bd.Mine)
		if err != nil {
			return nil, err
		}
		return facility.NewMine(bd.Name, recipe, r.sim), nil
	case bd.Stores != nil:
		recipe, err := r.recipe(*bd.Stores)
		if err != nil {
			return nil, err
		}
		if bd.Capacity == nil || bd.Priority == nil {
			return nil, fmt.Errorf("storage needs 'capacity' and 'priority'")
		}
		remain := valueOr(bd.Remain, *bd.Capacity)
		b := facility.RestoreStorage(bd.Name, recipe, *bd.Capacity, remain, valueOr(bd.Amount, 0), *bd.Priority, r.sim)
		if bd.Frequency != nil {
			st, _ := b.Storage()
			st.RestoreFrequency(*bd.Frequency)
		}
		return b, nil
	case bd.WasteTypes != nil:
		types := make([]*production.Recipe, 0, len(bd.WasteTypes))
		for _, name := range bd.WasteTypes {
			recipe, err := r.recipe(name)
			if err != nil {
				return nil, err
			}
			types = append(types, recipe)
		}
		if bd.Capacity == nil || bd.DisposeAmount == nil || bd.DisposeInterval == nil {
			return nil, fmt.Errorf("waste disposal needs 'capacity', 'disposeAmount' and 'disposeInterval'")
		}
		state := facility.DisposalState{
			Current:   valueOr(bd.CurrentAmount, 0),
			Predicted: valueOr(bd.PredictedAmount, 0),
			Interval:  valueOr(bd.Interval, 0),
		}
		return facility.RestoreWasteDisposal(bd.Name, *bd.Capacity, types, *bd.DisposeAmount, *bd.DisposeInterval, state, r.sim), nil
	default:
		return facility.NewDronePort(bd.Name, opts.DronePortLimit, opts.DroneRange, r.sim), nil
	}
}

func (r *restorer) recipe(name string) (*production.Recipe, error) {
	recipe, ok := r.catalog.Recipe(name)
	if !ok {
		return nil, shared.NewInvalidReferenceError("recipe", name)
	}
	return recipe, nil
}

// links restores sources and waste disposals. Saved routes are re-walked over the restored
// roads; an initial configuration is connected from scratch.
func (r *restorer) links() error {
	for _, bd := range r.doc.Buildings {
		for _, src := range bd.Sources {
			if err := r.link(src, src.Name, bd.Name); err != nil {
				return err
			}
		}
		for _, disposal := range bd.WasteDisposals {
			if err := r.link(disposal, bd.Name, disposal.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *restorer) link(sd SourceDoc, from, to string) error {
	if !sd.HasPath {
		_, err := r.sim.Connect(from, to)
		return err
	}
	source, err := r.sim.Building(from)
	if err != nil {
		return err
	}
	dest, err := r.sim.Building(to)
	if err != nil {
		return err
	}
	start, _ := source.Coordinate()
	end, _ := dest.Coordinate()
	path, err := r.sim.Grid().RestorePath(start,
		grid.NewCoordinate(sd.Second[0], sd.Second[1]),
		grid.NewCoordinate(sd.SecondLast[0], sd.SecondLast[1]), end)
	if err != nil {
		return fmt.Errorf("failed to create path from '%s' to '%s': %w", from, to, err)
	}
	return r.sim.Link(from, to, path)
}

func (r *restorer) policies() error {
	reg := r.sim.Policies()
	for _, bd := range r.doc.Buildings {
		b, err := r.sim.Building(bd.Name)
		if err != nil {
			return err
		}
		if bd.RequestPolicy != "" {
			p, err := reg.RequestPolicy(bd.RequestPolicy)
			if err != nil {
				return err
			}
			b.SetRequestPolicy(p, valueOr(bd.DefaultRequestPolicy, false))
		}
		if bd.SourcePolicy != "" {
			p, err := reg.SourcePolicy(bd.SourcePolicy)
			if err != nil {
				return err
			}
			b.SetSourcePolicy(p, valueOr(bd.DefaultSourcePolicy, false))
		}
	}
	return nil
}

// requestTable rebuilds every request, links sub-requests once all identities exist and
// restores the identity counter
func (r *restorer) requestTable() error {
	for _, rd := range r.doc.Requests {
		state := production.RequestState(rd.State)
		switch state {
		case production.RequestWaiting, production.RequestWorking, production.RequestReady:
		default:
			return fmt.Errorf("request %d: invalid state '%s'", rd.ID, rd.State)
		}
		if rd.Amount != nil {
			r.requests[rd.ID] = production.RestoreWasteRequest(rd.ID, rd.Requester, *rd.Amount, state)
			continue
		}
		recipe, err := r.recipe(rd.Recipe)
		if err != nil {
			return fmt.Errorf("request %d: %w", rd.ID, err)
		}
		r.requests[rd.ID] = production.RestoreRequest(rd.ID, recipe, rd.Requester, state, rd.IsUserRequest)
	}
	for _, rd := range r.doc.Requests {
		for _, id := range rd.SubRequests {
			sub, err := r.request(id)
			if err != nil {
				return err
			}
			r.requests[rd.ID].AddSubRequest(sub)
		}
	}
	// the counter never moves back, even with no request left alive
	next := r.doc.RequestID
	for id := range r.requests {
		if id >= next {
			next = id + 1
		}
	}
	r.sim.RequestIDs().Set(next)
	return nil
}

func (r *restorer) request(id int) (*production.Request, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, shared.NewInvalidReferenceError("request", fmt.Sprint(id))
	}
	return req, nil
}

// progress restores queues, work in progress, deliveries and drones
func (r *restorer) progress() error {
	for _, bd := range r.doc.Buildings {
		b, err := r.sim.Building(bd.Name)
		if err != nil {
			return err
		}
		for _, id := range bd.Requests {
			req, err := r.request(id)
			if err != nil {
				return err
			}
			b.EnqueueRequest(req)
		}
		if bd.CurrReq != nil {
			req, err := r.request(*bd.CurrReq)
			if err != nil {
				return err
			}
			b.RestoreProgress(req, valueOr(bd.Time, req.Latency()))
		}
		for _, dd := range bd.Deliveries {
			req, err := r.request(dd.RequestID)
			if err != nil {
				return err
			}
			if err := b.AddDelivery(req, dd.TimeLeft); err != nil {
				return err
			}
		}
		for _, dd := range bd.Drones {
			if err := r.drone(b, dd); err != nil {
				return fmt.Errorf("drone port '%s': %w", bd.Name, err)
			}
		}
	}
	return nil
}

func (r *restorer) drone(port *facility.Building, dd DroneDoc) error {
	if port.Kind() != facility.KindDronePort {
		return fmt.Errorf("'%s' has drones but is not a drone port", port.Name())
	}
	home, _ := port.Coordinate()
	speed := dd.Speed
	if speed <= 0 {
		speed = r.sim.Options().DroneSpeed
	}
	if !dd.InUse {
		return port.AttachDrone(facility.NewDrone(speed, home))
	}
	if dd.RequestID == nil {
		return fmt.Errorf("drone in use without a request")
	}
	req, err := r.request(*dd.RequestID)
	if err != nil {
		return err
	}
	source, err := coordinate(dd.Source)
	if err != nil {
		return err
	}
	requester, err := r.sim.Building(req.Requester())
	if err != nil {
		return err
	}
	destination, _ := requester.Coordinate()
	d, err := facility.RestoreDrone(speed, home, source, destination, req, dd.CurrTime)
	if err != nil {
		return err
	}
	return port.AttachDrone(d)
}

func coordinate(pair []int) (grid.Coordinate, error) {
	if len(pair) != 2 {
		return grid.Coordinate{}, fmt.Errorf("invalid coordinate %v: want [row, col]", pair)
	}
	return grid.NewCoordinate(pair[0], pair[1]), nil
}

func valueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
