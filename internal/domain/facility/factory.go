package facility

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/factorysim-go/internal/domain/grid"
	"github.com/andrescamacho/factorysim-go/internal/domain/policy"
	"github.com/andrescamacho/factorysim-go/internal/domain/production"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
)

// WasteStock is waste a factory holds until a disposal takes it
type WasteStock struct {
	Item   string
	Amount int
}

// DisposalLink is a factory's connection to a waste disposal
type DisposalLink struct {
	Name string
	Path *grid.GraphPath
}

// Factory produces any recipe of its factory type from ingredients its sources deliver
type Factory struct {
	factoryType *production.FactoryType
	wastes      []WasteStock
	disposals   []DisposalLink
}

func NewFactory(name string, factoryType *production.FactoryType, world World) *Building {
	return newBuilding(name, world, &Factory{factoryType: factoryType})
}

// Factory returns the factory payload of b
func (b *Building) Factory() (*Factory, bool) {
	f, ok := b.behavior.(*Factory)
	return f, ok
}

func (f *Factory) Type() *production.FactoryType {
	return f.factoryType
}

func (f *Factory) Wastes() []WasteStock {
	out := make([]WasteStock, len(f.wastes))
	copy(out, f.wastes)
	return out
}

func (f *Factory) Disposals() []DisposalLink {
	out := make([]DisposalLink, len(f.disposals))
	copy(out, f.disposals)
	return out
}

// AddWaste accumulates amount units of waste; an empty item or zero amount is ignored
func (f *Factory) AddWaste(item string, amount int) {
	if item == "" || amount == 0 {
		return
	}
	for i := range f.wastes {
		if f.wastes[i].Item == item {
			f.wastes[i].Amount += amount
			return
		}
	}
	f.wastes = append(f.wastes, WasteStock{Item: item, Amount: amount})
}

func (f *Factory) AddDisposal(name string, path *grid.GraphPath) {
	for i := range f.disposals {
		if f.disposals[i].Name == name {
			f.disposals[i].Path = path
			return
		}
	}
	f.disposals = append(f.disposals, DisposalLink{Name: name, Path: path})
}

func (f *Factory) RemoveDisposal(name string) bool {
	for i := range f.disposals {
		if f.disposals[i].Name == name {
			f.disposals = append(f.disposals[:i], f.disposals[i+1:]...)
			return true
		}
	}
	return false
}

func (f *Factory) disposalPath(name string) (*grid.GraphPath, bool) {
	for _, d := range f.disposals {
		if d.Name == name {
			return d.Path, true
		}
	}
	return nil, false
}

func (f *Factory) kind() Kind {
	return KindFactory
}

func (f *Factory) recipes() []*production.Recipe {
	return f.factoryType.Recipes()
}

func (f *Factory) mayProduce(product string) bool {
	_, ok := f.factoryType.Recipe(product)
	return ok
}

func (f *Factory) capableOf(b *Building, product string, visiting map[string]bool) error {
	if err := b.beingRemoved(product); err != nil {
		return err
	}
	if len(f.wastes) > 0 {
		return shared.NewCapabilityError(b.name, product,
			fmt.Sprintf("cannot produce '%s' because of waste: %s", product, f.wasteSummary()))
	}
	recipe, ok := f.factoryType.Recipe(product)
	if !ok {
		return shared.NewCapabilityError(b.name, product,
			fmt.Sprintf("factory '%s' cannot produce '%s'", b.name, product))
	}
	for _, ing := range recipe.Ingredients() {
		if err := b.hasSourceFor(ing.Name, visiting); err != nil {
			return err
		}
	}
	return nil
}

func (f *Factory) wasteSummary() string {
	parts := make([]string, 0, len(f.wastes))
	for _, w := range f.wastes {
		parts = append(parts, fmt.Sprintf("%s=%d", w.Item, w.Amount))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// step ships waste first; while any stays unrouted the factory does not produce
func (f *Factory) step(b *Building) error {
	if err := f.sendWaste(b); err != nil {
		return err
	}
	if len(f.wastes) > 0 {
		return nil
	}
	return b.runQueue()
}

func (f *Factory) sendWaste(b *Building) error {
	kept := f.wastes[:0]
	for _, w := range f.wastes {
		sent, err := f.sendToDisposal(b, w)
		if err != nil {
			return err
		}
		if !sent {
			kept = append(kept, w)
		}
	}
	f.wastes = kept
	return nil
}

func (f *Factory) sendToDisposal(b *Building, w WasteStock) (bool, error) {
	for _, link := range f.disposals {
		target, ok := b.world.Lookup(link.Name)
		if !ok {
			continue
		}
		disposal, ok := target.behavior.(*WasteDisposal)
		if !ok || !disposal.CanDispose(w.Item, w.Amount) {
			continue
		}
		r := production.NewWasteRequest(b.world.RequestIDs(), link.Name, w.Amount)
		target.EnqueueRequest(r)
		if err := b.AddDelivery(r, link.Path.Distance()); err != nil {
			return false, err
		}
		disposal.predicted += w.Amount
		return true, nil
	}
	return false, nil
}

// allocate places one sub-request per ingredient unit of parent with the source the
// factory's source policy picks
func (f *Factory) allocate(b *Building, parent *production.Request) error {
	index := 0
	for _, ing := range parent.Recipe().Ingredients() {
		for i := 0; i < ing.Quantity; i++ {
			metrics := map[string]int{}
			chosen := b.sourcePolicy.SelectSource(b.Suppliers(), ing.Name, metrics)
			if chosen == nil {
				return shared.NewCapabilityError(b.name, ing.Name,
					fmt.Sprintf("Can't find source building for %s", ing.Name))
			}
			source := chosen.(*Building)
			recipe, ok := source.Recipe(ing.Name)
			if !ok {
				return shared.NewCapabilityError(source.name, ing.Name,
					fmt.Sprintf("'%s' has no recipe for '%s'", source.name, ing.Name))
			}

			sub := production.NewRequest(b.world.RequestIDs(), recipe, b.name, false)
			b.emit(Event{
				Kind:        EventSourceSelection,
				Policy:      b.sourcePolicy.Name(),
				Item:        ing.Name,
				Output:      parent.Output(),
				Index:       index,
				Metrics:     orderedMetrics(b.sources, metrics),
				Counterpart: source.name,
			})
			b.emit(Event{Kind: EventIngredientAssignment, Item: ing.Name, Counterpart: source.name})

			if err := source.AddRequest(sub); err != nil {
				return err
			}
			parent.AddSubRequest(sub)
			index++
		}
	}
	return nil
}

// orderedMetrics lists the recorded metrics in source declaration order
func orderedMetrics(sources []SourceLink, metrics map[string]int) []Metric {
	out := make([]Metric, 0, len(metrics))
	for _, link := range sources {
		if v, ok := metrics[link.Name]; ok {
			out = append(out, Metric{Candidate: link.Name, Value: v})
		}
	}
	return out
}

func (f *Factory) finished(b *Building) bool {
	return b.baseFinished()
}

func (f *Factory) readyForRemoval(b *Building) bool {
	return b.baseFinished()
}

var _ policy.Node = (*Building)(nil)
