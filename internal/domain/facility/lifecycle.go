package facility

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/factorysim-go/internal/domain/production"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
)

// Step runs one production cycle
func (b *Building) Step() error {
	return b.behavior.step(b)
}

// Deliver advances every in-flight delivery by one pass. A delivery whose counter is already
// zero lands on this pass. A delivery that fails to land stays in flight, as do the ones after it.
func (b *Building) Deliver() error {
	if p, ok := b.behavior.(*DronePort); ok {
		return p.fly(b)
	}
	pending := make([]*Delivery, 0, len(b.deliveries))
	for i, d := range b.deliveries {
		if d.Remaining > 0 {
			d.Remaining--
			pending = append(pending, d)
			continue
		}
		if err := b.land(d.Request); err != nil {
			b.deliveries = append(pending, b.deliveries[i:]...)
			return err
		}
	}
	b.deliveries = pending
	return nil
}

func (b *Building) land(r *production.Request) error {
	requester, ok := b.world.Lookup(r.Requester())
	if !ok {
		return shared.NewInvalidReferenceError("building", r.Requester())
	}
	if r.IsWaste() {
		disposal, ok := requester.behavior.(*WasteDisposal)
		if !ok {
			return fmt.Errorf("invalid building type for requester '%s'", requester.name)
		}
		disposal.receive(requester, r)
		return nil
	}
	if err := requester.AddIngredient(r.Output()); err != nil {
		return err
	}
	b.emit(Event{Kind: EventOrderComplete, RequestID: r.ID(), Item: r.Output()})
	return nil
}

// runQueue is the shared production cycle: pick a request if idle, start it when its
// ingredients are on hand, then work it down
func (b *Building) runQueue() error {
	if b.Finished() {
		return nil
	}
	if b.current == nil {
		selected := b.selectRequest()
		if selected != nil && selected.IsReady(b.inventory) {
			if err := b.start(selected); err != nil {
				return err
			}
		}
	}
	if b.current != nil {
		return b.work()
	}
	return nil
}

func (b *Building) selectRequest() *production.Request {
	selected := b.requestPolicy.Select(b.requests, b.inventory)
	b.emit(Event{
		Kind:    EventRecipeSelection,
		Policy:  b.requestPolicy.Name(),
		Details: b.readinessReport(selected),
	})
	return selected
}

func (b *Building) readinessReport(selected *production.Request) []string {
	var lines []string
	selectedAt := -1
	for i, r := range b.requests {
		if r == selected {
			selectedAt = i
		}
		if r.IsReady(b.inventory) {
			lines = append(lines, fmt.Sprintf("    %d: is ready", i))
			continue
		}
		var lacking []string
		if recipe := r.Recipe(); recipe != nil {
			for _, m := range b.inventory.Missing(recipe.Ingredients()) {
				if m.Quantity > 1 {
					lacking = append(lacking, fmt.Sprintf("%dx %s", m.Quantity, m.Name))
				} else {
					lacking = append(lacking, m.Name)
				}
			}
		}
		lines = append(lines, fmt.Sprintf("    %d: is not ready, waiting on {%s}", i, strings.Join(lacking, ", ")))
	}
	if selectedAt >= 0 {
		lines = append(lines, fmt.Sprintf("    Selecting %d", selectedAt))
	}
	return lines
}

func (b *Building) start(r *production.Request) error {
	found := false
	for _, q := range b.requests {
		if q == r {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("request %d not in the queue of '%s'", r.ID(), b.name)
	}
	if err := r.Start(); err != nil {
		return err
	}
	b.current = r
	b.timeLeft = r.Latency()
	return nil
}

func (b *Building) work() error {
	b.timeLeft--
	if b.timeLeft > 0 {
		return nil
	}
	if err := b.current.Finish(); err != nil {
		return err
	}
	return b.finishRequest()
}

// finishRequest hands the finished output to a drone or the road, consumes the ingredients
// and clears the slot
func (b *Building) finishRequest() error {
	req := b.current
	if req.IsUserRequest() {
		b.emit(Event{Kind: EventOrderComplete, RequestID: req.ID(), Item: req.Output()})
	} else if err := b.ship(req); err != nil {
		return err
	}

	recipe := req.Recipe()
	for _, ing := range recipe.Ingredients() {
		b.inventory.Consume(ing.Name, ing.Quantity)
	}
	if f, ok := b.behavior.(*Factory); ok {
		f.AddWaste(recipe.Waste(), recipe.WasteAmount())
	}
	b.dequeue(req)
	b.current = nil
	b.timeLeft = -1
	return nil
}

// ship sends a finished non-user request toward its requester, by drone when a port has one
// free and in range, otherwise by road
func (b *Building) ship(req *production.Request) error {
	for _, port := range b.world.DronePorts() {
		p, ok := port.behavior.(*DronePort)
		if !ok {
			continue
		}
		used, err := p.useDrone(port, b, req)
		if err != nil {
			return err
		}
		if used {
			return nil
		}
	}

	path, err := b.pathTo(req.Requester())
	if err != nil {
		return err
	}
	if err := b.AddDelivery(req, path.Distance()); err != nil {
		return err
	}
	b.emit(Event{
		Kind:        EventIngredientDelivered,
		Item:        req.Output(),
		Counterpart: req.Requester(),
		Details:     b.requesterReadiness(req.Requester()),
	})
	return nil
}

// requesterReadiness lists the requester recipes its inventory already covers
func (b *Building) requesterReadiness(name string) []string {
	requester, ok := b.world.Lookup(name)
	if !ok {
		return nil
	}
	var lines []string
	for _, r := range requester.Recipes() {
		if requester.inventory.Covers(r.Ingredients()) {
			lines = append(lines, fmt.Sprintf("    %d: %s is ready", len(lines), r.Output()))
		}
	}
	return lines
}

func (b *Building) emit(e Event) {
	e.Cycle = b.world.Cycle()
	if e.Building == "" {
		e.Building = b.name
	}
	b.world.Emit(e)
}
