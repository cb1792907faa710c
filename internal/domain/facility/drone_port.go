package facility

import (
	"fmt"

	"github.com/andrescamacho/factorysim-go/internal/domain/production"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
)

const (
	DefaultDronePortLimit = 10
	DefaultDroneRange     = 20
)

// DronePort keeps a pool of drones that carry deliveries whose source and destination are
// both within range of the port
type DronePort struct {
	limit      int
	droneRange int
	drones     []*Drone
}

func NewDronePort(name string, limit, droneRange int, world World) *Building {
	return newBuilding(name, world, &DronePort{limit: limit, droneRange: droneRange})
}

func (b *Building) DronePort() (*DronePort, bool) {
	p, ok := b.behavior.(*DronePort)
	return p, ok
}

func (p *DronePort) Limit() int { return p.limit }
func (p *DronePort) Range() int { return p.droneRange }

func (p *DronePort) Drones() []*Drone {
	out := make([]*Drone, len(p.drones))
	copy(out, p.drones)
	return out
}

// AddDrone stations a new drone at the port
func (b *Building) AddDrone(speed int) (*Drone, error) {
	p, ok := b.behavior.(*DronePort)
	if !ok {
		return nil, shared.NewCapabilityError(b.name, "drone", fmt.Sprintf("'%s' is not a drone port", b.name))
	}
	home, placed := b.Coordinate()
	if !placed {
		return nil, shared.NewValidationError("coordinate", fmt.Sprintf("drone port '%s' has no coordinate", b.name))
	}
	d := NewDrone(speed, home)
	if err := p.attach(b, d); err != nil {
		return nil, err
	}
	return d, nil
}

// AttachDrone stations an existing drone, typically one restored mid-flight
func (b *Building) AttachDrone(d *Drone) error {
	p, ok := b.behavior.(*DronePort)
	if !ok {
		return shared.NewCapabilityError(b.name, "drone", fmt.Sprintf("'%s' is not a drone port", b.name))
	}
	return p.attach(b, d)
}

func (p *DronePort) attach(b *Building, d *Drone) error {
	if len(p.drones) >= p.limit {
		return shared.NewResourceExhaustedError("drone port", fmt.Sprintf("Drone Port '%s' is full", b.name))
	}
	p.drones = append(p.drones, d)
	return nil
}

// Carrying lists the requests currently on board a drone
func (p *DronePort) Carrying() []*production.Request {
	var out []*production.Request
	for _, d := range p.drones {
		if d.InUse() {
			out = append(out, d.request)
		}
	}
	return out
}

// useDrone dispatches an idle drone for req when both ends are in range of the port
func (p *DronePort) useDrone(port, source *Building, req *production.Request) (bool, error) {
	requester, ok := source.world.Lookup(req.Requester())
	if !ok {
		return false, shared.NewInvalidReferenceError("building", req.Requester())
	}
	if !p.inRange(port, source) || !p.inRange(port, requester) {
		return false, nil
	}
	for _, d := range p.drones {
		if d.InUse() {
			continue
		}
		from, _ := source.Coordinate()
		to, _ := requester.Coordinate()
		if err := d.RequestDelivery(from, to, req); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (p *DronePort) inRange(port, b *Building) bool {
	home, ok := port.Coordinate()
	if !ok {
		return false
	}
	c, ok := b.Coordinate()
	if !ok {
		return false
	}
	return home.ManhattanTo(c) <= p.droneRange
}

func (p *DronePort) fly(port *Building) error {
	for _, d := range p.drones {
		if !d.InUse() {
			continue
		}
		err := d.Fly(func(r *production.Request) error {
			requester, ok := port.world.Lookup(r.Requester())
			if !ok {
				return shared.NewInvalidReferenceError("building", r.Requester())
			}
			return requester.AddIngredient(r.Output())
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *DronePort) kind() Kind {
	return KindDronePort
}

func (p *DronePort) recipes() []*production.Recipe {
	return nil
}

func (p *DronePort) mayProduce(string) bool {
	return false
}

func (p *DronePort) capableOf(b *Building, product string, _ map[string]bool) error {
	return shared.NewCapabilityError(b.name, product, fmt.Sprintf("drone port %s cannot produce anything", b.name))
}

func (p *DronePort) step(*Building) error {
	return nil
}

func (p *DronePort) finished(*Building) bool {
	return len(p.Carrying()) == 0
}

func (p *DronePort) readyForRemoval(*Building) bool {
	return len(p.Carrying()) == 0
}
