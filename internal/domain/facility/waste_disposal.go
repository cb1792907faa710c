package facility

import (
	"fmt"

	"github.com/andrescamacho/factorysim-go/internal/domain/production"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
)

// WasteDisposal accepts the waste of the recipes it lists and clears a fixed amount every
// disposeInterval ticks
type WasteDisposal struct {
	capacity        int
	current         int
	predicted       int
	wasteTypes      []*production.Recipe
	disposeAmount   int
	disposeInterval int
	interval        int
}

// DisposalState is the mutable part of a waste disposal
type DisposalState struct {
	Current   int
	Predicted int
	Interval  int
}

func NewWasteDisposal(name string, capacity int, wasteTypes []*production.Recipe, disposeAmount, disposeInterval int, world World) *Building {
	return RestoreWasteDisposal(name, capacity, wasteTypes, disposeAmount, disposeInterval, DisposalState{}, world)
}

func RestoreWasteDisposal(name string, capacity int, wasteTypes []*production.Recipe, disposeAmount, disposeInterval int, state DisposalState, world World) *Building {
	return newBuilding(name, world, &WasteDisposal{
		capacity:        capacity,
		current:         state.Current,
		predicted:       state.Predicted,
		wasteTypes:      wasteTypes,
		disposeAmount:   disposeAmount,
		disposeInterval: disposeInterval,
		interval:        state.Interval,
	})
}

func (b *Building) WasteDisposal() (*WasteDisposal, bool) {
	d, ok := b.behavior.(*WasteDisposal)
	return d, ok
}

func (d *WasteDisposal) Capacity() int        { return d.capacity }
func (d *WasteDisposal) DisposeAmount() int   { return d.disposeAmount }
func (d *WasteDisposal) DisposeInterval() int { return d.disposeInterval }

func (d *WasteDisposal) WasteTypes() []*production.Recipe {
	out := make([]*production.Recipe, len(d.wasteTypes))
	copy(out, d.wasteTypes)
	return out
}

func (d *WasteDisposal) State() DisposalState {
	return DisposalState{Current: d.current, Predicted: d.predicted, Interval: d.interval}
}

// CanDispose reports whether waste is an accepted kind and amount more still fits once
// everything already on its way arrives
func (d *WasteDisposal) CanDispose(waste string, amount int) bool {
	if d.predicted+amount > d.capacity {
		return false
	}
	return d.accepts(waste)
}

func (d *WasteDisposal) accepts(waste string) bool {
	for _, r := range d.wasteTypes {
		if r.Waste() == waste {
			return true
		}
	}
	return false
}

// receive credits an arrived waste shipment and drops it from the queue
func (d *WasteDisposal) receive(b *Building, r *production.Request) {
	d.current += r.Amount()
	b.dequeue(r)
}

func (d *WasteDisposal) kind() Kind {
	return KindWasteDisposal
}

func (d *WasteDisposal) recipes() []*production.Recipe {
	return d.wasteTypes
}

func (d *WasteDisposal) mayProduce(product string) bool {
	for _, r := range d.wasteTypes {
		if r.Output() == product {
			return true
		}
	}
	return false
}

func (d *WasteDisposal) capableOf(b *Building, product string, _ map[string]bool) error {
	if d.mayProduce(product) {
		return nil
	}
	return shared.NewCapabilityError(b.name, product,
		fmt.Sprintf("waste disposal '%s' cannot produce '%s'", b.name, product))
}

func (d *WasteDisposal) step(b *Building) error {
	if d.current == 0 {
		return nil
	}
	d.interval++
	if d.interval == d.disposeInterval {
		d.current = max(d.current-d.disposeAmount, 0)
		d.predicted = max(d.predicted-d.disposeAmount, 0)
		d.interval = 0
	}
	return nil
}

func (d *WasteDisposal) finished(b *Building) bool {
	return b.baseFinished()
}

func (d *WasteDisposal) readyForRemoval(b *Building) bool {
	return d.predicted == 0 && d.current == 0
}
