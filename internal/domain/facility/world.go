package facility

import "github.com/andrescamacho/factorysim-go/internal/domain/production"

// World is the view of the owning simulation a building needs while it steps. Buildings
// refer to each other by name and resolve those names here.
type World interface {
	Lookup(name string) (*Building, bool)
	Cycle() int
	DronePorts() []*Building
	RequestIDs() *production.RequestIDs
	Emit(event Event)
}
