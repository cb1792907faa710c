package facility

import (
	"fmt"
	"math"

	"github.com/andrescamacho/factorysim-go/internal/domain/production"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
)

// NeverReplenish is the frequency of a storage that has no free slot or zero priority
const NeverReplenish = -1

// Storage buffers one item. It orders from its sources on a cadence that slows as it fills
// and hands stock to queued requests as it arrives.
type Storage struct {
	stores    *production.Recipe
	capacity  int
	priority  float64
	frequency int
	remain    int
	amount    int
}

func NewStorage(name string, stores *production.Recipe, capacity int, priority float64, world World) *Building {
	return RestoreStorage(name, stores, capacity, capacity, 0, priority, world)
}

// RestoreStorage rebuilds a storage with remain free slots and amount units buffered
func RestoreStorage(name string, stores *production.Recipe, capacity, remain, amount int, priority float64, world World) *Building {
	s := &Storage{
		stores:   stores,
		capacity: capacity,
		priority: priority,
		remain:   remain,
		amount:   amount,
	}
	s.updateFrequency()
	return newBuilding(name, world, s)
}

func (b *Building) Storage() (*Storage, bool) {
	s, ok := b.behavior.(*Storage)
	return s, ok
}

func (s *Storage) Recipe() *production.Recipe { return s.stores }
func (s *Storage) Capacity() int              { return s.capacity }
func (s *Storage) Priority() float64          { return s.priority }
func (s *Storage) Frequency() int             { return s.frequency }
func (s *Storage) Remain() int                { return s.remain }
func (s *Storage) Amount() int                { return s.amount }

// replenishFrequency is ceil(amount² / remain / priority), or NeverReplenish when remain or
// priority is zero. Zero means every tick.
func replenishFrequency(amount, remain int, priority float64) int {
	if remain == 0 || priority == 0 {
		return NeverReplenish
	}
	a := float64(amount)
	return int(math.Ceil(a * a / float64(remain) / priority))
}

// RestoreFrequency sets the cadence saved with the storage. The next step recomputes it.
func (s *Storage) RestoreFrequency(frequency int) {
	s.frequency = frequency
}

func (s *Storage) updateFrequency() {
	s.frequency = replenishFrequency(s.amount, s.remain, s.priority)
}

func (s *Storage) kind() Kind {
	return KindStorage
}

func (s *Storage) recipes() []*production.Recipe {
	return []*production.Recipe{s.stores}
}

func (s *Storage) mayProduce(product string) bool {
	return s.stores.Output() == product
}

func (s *Storage) capableOf(b *Building, product string, visiting map[string]bool) error {
	if err := b.beingRemoved(product); err != nil {
		return err
	}
	if !s.mayProduce(product) {
		return shared.NewCapabilityError(b.name, product,
			fmt.Sprintf("storage '%s' cannot provide '%s'", b.name, product))
	}
	return b.hasSourceFor(product, visiting)
}

func (s *Storage) step(b *Building) error {
	s.updateFrequency()
	if s.frequency >= 0 && (s.frequency == 0 || b.world.Cycle()%s.frequency == 0) {
		if err := s.replenish(b); err != nil {
			return err
		}
	}
	for !b.Finished() && s.amount > 0 && len(b.requests) > 0 {
		s.amount--
		r := b.requests[0]
		b.requests = b.requests[1:]
		// handing over stock takes no time
		if err := r.Start(); err != nil {
			return err
		}
		if err := r.Finish(); err != nil {
			return err
		}
		if r.IsUserRequest() {
			b.emit(Event{Kind: EventOrderComplete, RequestID: r.ID(), Item: r.Output()})
			continue
		}
		if err := b.ship(r); err != nil {
			return err
		}
	}
	return nil
}

// replenish orders one unit from the best source; no capable source means no order
func (s *Storage) replenish(b *Building) error {
	chosen := b.sourcePolicy.SelectSource(b.Suppliers(), s.stores.Output(), nil)
	if chosen == nil {
		return nil
	}
	r := production.NewRequest(b.world.RequestIDs(), s.stores, b.name, false)
	if err := chosen.(*Building).AddRequest(r); err != nil {
		return err
	}
	s.remain--
	return nil
}

func (s *Storage) receive(b *Building, item string) error {
	if item != s.stores.Output() {
		return shared.NewCapabilityError(b.name, item,
			fmt.Sprintf("adding invalid product '%s' to storage '%s'", item, b.name))
	}
	s.amount++
	return nil
}

func (s *Storage) finished(b *Building) bool {
	return b.baseFinished()
}

func (s *Storage) readyForRemoval(b *Building) bool {
	return b.baseFinished() && s.amount == 0 && s.remain == s.capacity
}
