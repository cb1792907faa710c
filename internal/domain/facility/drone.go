package facility

import (
	"errors"
	"math"

	"github.com/andrescamacho/factorysim-go/internal/domain/grid"
	"github.com/andrescamacho/factorysim-go/internal/domain/production"
)

// DefaultDroneSpeed is how many cells a drone covers per tick
const DefaultDroneSpeed = 5

type DronePhase int

const (
	DroneIdle DronePhase = iota
	DroneToSource
	DroneToDestination
	DroneToHome
)

func (p DronePhase) String() string {
	switch p {
	case DroneToSource:
		return "to source"
	case DroneToDestination:
		return "to destination"
	case DroneToHome:
		return "to home"
	default:
		return "idle"
	}
}

var (
	ErrDroneInUse = errors.New("drone already in use")
	ErrDroneIdle  = errors.New("drone not in use")
)

// Drone ferries one finished request from its source to the requester, then returns home
type Drone struct {
	speed       int
	home        grid.Coordinate
	row, col    float64
	phase       DronePhase
	elapsed     int
	request     *production.Request
	source      grid.Coordinate
	destination grid.Coordinate
}

func NewDrone(speed int, home grid.Coordinate) *Drone {
	d := &Drone{speed: speed, home: home}
	d.reset()
	return d
}

func (d *Drone) Speed() int                    { return d.speed }
func (d *Drone) Home() grid.Coordinate         { return d.home }
func (d *Drone) InUse() bool                   { return d.phase != DroneIdle }
func (d *Drone) Phase() DronePhase             { return d.phase }
func (d *Drone) Elapsed() int                  { return d.elapsed }
func (d *Drone) Request() *production.Request { return d.request }
func (d *Drone) Source() grid.Coordinate       { return d.source }
func (d *Drone) Position() (float64, float64)  { return d.row, d.col }

// RequestDelivery sends the drone to pick up request at source for delivery at destination
func (d *Drone) RequestDelivery(source, destination grid.Coordinate, request *production.Request) error {
	if d.InUse() {
		return ErrDroneInUse
	}
	d.phase = DroneToSource
	d.request = request
	d.elapsed = 0
	d.source = source
	d.destination = destination
	return nil
}

// Fly advances the drone one tick. On reaching the destination it calls drop with the
// carried request.
func (d *Drone) Fly(drop func(*production.Request) error) error {
	if !d.InUse() {
		return ErrDroneIdle
	}
	d.elapsed++
	target := d.target()
	tr, tc := float64(target.Row), float64(target.Col)
	dist := math.Hypot(d.row-tr, d.col-tc)
	if dist > float64(d.speed) {
		step := float64(d.speed) / dist
		d.row += (tr - d.row) * step
		d.col += (tc - d.col) * step
		return nil
	}

	d.row, d.col = tr, tc
	switch d.phase {
	case DroneToSource:
		d.phase = DroneToDestination
	case DroneToDestination:
		if drop != nil {
			if err := drop(d.request); err != nil {
				return err
			}
		}
		d.phase = DroneToHome
	case DroneToHome:
		d.reset()
	}
	return nil
}

func (d *Drone) target() grid.Coordinate {
	switch d.phase {
	case DroneToSource:
		return d.source
	case DroneToDestination:
		return d.destination
	default:
		return d.home
	}
}

func (d *Drone) reset() {
	d.phase = DroneIdle
	d.elapsed = -1
	d.request = nil
	d.source = grid.Coordinate{}
	d.destination = grid.Coordinate{}
	d.row = float64(d.home.Row)
	d.col = float64(d.home.Col)
}

// RestoreDrone rebuilds a drone that was elapsed ticks into carrying request. The flight is
// replayed to recover its position; a drop already made during those ticks is not repeated.
func RestoreDrone(speed int, home, source, destination grid.Coordinate, request *production.Request, elapsed int) (*Drone, error) {
	d := NewDrone(speed, home)
	if err := d.RequestDelivery(source, destination, request); err != nil {
		return nil, err
	}
	for i := 0; i < elapsed && d.InUse(); i++ {
		if err := d.Fly(nil); err != nil {
			return nil, err
		}
	}
	return d, nil
}
