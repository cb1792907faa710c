package snapshot

import (
	"sort"

	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	"github.com/andrescamacho/factorysim-go/internal/domain/grid"
	"github.com/andrescamacho/factorysim-go/internal/domain/production"
	"github.com/andrescamacho/factorysim-go/internal/domain/simulation"
)

// Encode captures the full state of s
func Encode(s *simulation.Simulation) *Document {
	doc := &Document{
		RequestID:            s.RequestIDs().Peek(),
		Cycle:                s.Cycle(),
		DefaultRequestPolicy: s.DefaultRequestPolicy().Name(),
		DefaultSourcePolicy:  s.DefaultSourcePolicy().Name(),
		Recipes:              []RecipeDoc{},
		Types:                []TypeDoc{},
		Buildings:            []BuildingDoc{},
		Roads:                []RoadDoc{},
	}
	for _, r := range s.Catalog().Recipes() {
		doc.Recipes = append(doc.Recipes, encodeRecipe(r))
	}
	for _, t := range s.Catalog().FactoryTypes() {
		td := TypeDoc{Name: t.Name(), Recipes: []string{}}
		for _, r := range t.Recipes() {
			td.Recipes = append(td.Recipes, r.Output())
		}
		doc.Types = append(doc.Types, td)
	}

	requests := &requestSet{byID: map[int]*production.Request{}}
	for _, b := range s.Buildings() {
		doc.Buildings = append(doc.Buildings, encodeBuilding(b, requests))
	}
	doc.Requests = requests.docs()

	for _, r := range s.Grid().Roads() {
		rd := RoadDoc{Coordinate: pair(r.Coordinate())}
		if d, ok := r.Direction(); ok {
			rd.Direction = []int{d.DRow, d.DCol}
		}
		doc.Roads = append(doc.Roads, rd)
	}
	return doc
}

func encodeRecipe(r *production.Recipe) RecipeDoc {
	rd := RecipeDoc{Output: r.Output(), Latency: r.Latency(), Ingredients: Ingredients{}}
	for _, ing := range r.Ingredients() {
		rd.Ingredients = append(rd.Ingredients, Ingredient{Name: ing.Name, Quantity: ing.Quantity})
	}
	if r.HasWaste() {
		waste := r.Waste()
		rd.Waste = &waste
		rd.WasteAmount = r.WasteAmount()
	}
	return rd
}

func encodeBuilding(b *facility.Building, requests *requestSet) BuildingDoc {
	bd := BuildingDoc{
		Name:          b.Name(),
		RemoveMark:    b.RemoveMark(),
		Inventory:     b.Inventory(),
		Requests:      []int{},
		RequestPolicy: b.RequestPolicy().Name(),
		SourcePolicy:  b.SourcePolicy().Name(),
	}
	defaultRequest, defaultSource := b.UsingDefaultRequestPolicy(), b.UsingDefaultSourcePolicy()
	bd.DefaultRequestPolicy = &defaultRequest
	bd.DefaultSourcePolicy = &defaultSource
	if c, placed := b.Coordinate(); placed {
		bd.Coordinate = pair(c)
	}
	// any building can be the destination of a connection
	bd.Sources = encodeSources(b.Sources())

	switch b.Kind() {
	case facility.KindFactory:
		f, _ := b.Factory()
		typeName := f.Type().Name()
		bd.Type = &typeName
		for _, w := range f.Wastes() {
			bd.Wastes = append(bd.Wastes, WasteDoc{Item: w.Item, Amount: w.Amount})
		}
		for _, d := range f.Disposals() {
			bd.WasteDisposals = append(bd.WasteDisposals, sourceDoc(d.Name, d.Path))
		}
	case facility.KindMine:
		m, _ := b.Mine()
		output := m.Recipe().Output()
		bd.Mine = &output
	case facility.KindStorage:
		st, _ := b.Storage()
		stores := st.Recipe().Output()
		capacity, priority, frequency := st.Capacity(), st.Priority(), st.Frequency()
		remain, amount := st.Remain(), st.Amount()
		bd.Stores, bd.Capacity, bd.Priority, bd.Frequency = &stores, &capacity, &priority, &frequency
		bd.Remain, bd.Amount = &remain, &amount
	case facility.KindWasteDisposal:
		wd, _ := b.WasteDisposal()
		state := wd.State()
		capacity, disposeAmount, disposeInterval := wd.Capacity(), wd.DisposeAmount(), wd.DisposeInterval()
		bd.Capacity, bd.DisposeAmount, bd.DisposeInterval = &capacity, &disposeAmount, &disposeInterval
		bd.Interval, bd.CurrentAmount, bd.PredictedAmount = &state.Interval, &state.Current, &state.Predicted
		bd.WasteTypes = []string{}
		for _, r := range wd.WasteTypes() {
			bd.WasteTypes = append(bd.WasteTypes, r.Output())
		}
	case facility.KindDronePort:
		p, _ := b.DronePort()
		bd.Drones = []DroneDoc{}
		for _, d := range p.Drones() {
			bd.Drones = append(bd.Drones, encodeDrone(d, requests))
		}
	}

	for _, r := range b.Requests() {
		bd.Requests = append(bd.Requests, r.ID())
		requests.add(r)
	}
	if current, timeLeft := b.CurrentRequest(); current != nil {
		id := current.ID()
		bd.CurrReq, bd.Time = &id, &timeLeft
		requests.add(current)
	}
	for _, d := range b.Deliveries() {
		dd := DeliveryDoc{RequestID: d.Request.ID(), TimeLeft: d.Remaining, Requester: d.Request.Requester()}
		if c, err := b.RequestLocation(d.Request); err == nil {
			dd.Coordinate = pair(c)
		}
		bd.Deliveries = append(bd.Deliveries, dd)
		requests.add(d.Request)
	}
	return bd
}

func encodeDrone(d *facility.Drone, requests *requestSet) DroneDoc {
	row, col := d.Position()
	dd := DroneDoc{
		InUse:      d.InUse(),
		Speed:      d.Speed(),
		Coordinate: []int{int(row), int(col)},
	}
	if d.InUse() {
		id := d.Request().ID()
		dd.RequestID = &id
		dd.Source = pair(d.Source())
		dd.CurrTime = d.Elapsed()
		requests.add(d.Request())
	}
	return dd
}

func encodeSources(links []facility.SourceLink) []SourceDoc {
	out := make([]SourceDoc, 0, len(links))
	for _, l := range links {
		out = append(out, sourceDoc(l.Name, l.Path))
	}
	return out
}

func sourceDoc(name string, path *grid.GraphPath) SourceDoc {
	second, ok := path.Second()
	secondLast, _ := path.SecondLast()
	return SourceDoc{
		Name:       name,
		Second:     [2]int{second.Row, second.Col},
		SecondLast: [2]int{secondLast.Row, secondLast.Col},
		HasPath:    ok,
	}
}

func pair(c grid.Coordinate) []int {
	return []int{c.Row, c.Col}
}

// requestSet collects every request reachable from the buildings, sub-requests included
type requestSet struct {
	byID map[int]*production.Request
}

func (rs *requestSet) add(r *production.Request) {
	if _, seen := rs.byID[r.ID()]; seen {
		return
	}
	rs.byID[r.ID()] = r
	for _, sub := range r.SubRequests() {
		rs.add(sub)
	}
}

func (rs *requestSet) docs() []RequestDoc {
	out := make([]RequestDoc, 0, len(rs.byID))
	for _, r := range rs.byID {
		rd := RequestDoc{
			ID:            r.ID(),
			Requester:     r.Requester(),
			State:         string(r.State()),
			IsUserRequest: r.IsUserRequest(),
		}
		if r.IsWaste() {
			amount := r.Amount()
			rd.Amount = &amount
		} else {
			rd.Recipe = r.Output()
		}
		for _, sub := range r.SubRequests() {
			rd.SubRequests = append(rd.SubRequests, sub.ID())
		}
		out = append(out, rd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
