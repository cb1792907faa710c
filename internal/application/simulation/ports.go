package simulation

import (
	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	domain "github.com/andrescamacho/factorysim-go/internal/domain/simulation"
)

// SnapshotCodec turns a simulation into its persisted document and back
type SnapshotCodec interface {
	Decode(data []byte, opts domain.Options) (*domain.Simulation, error)
	Encode(s *domain.Simulation) ([]byte, error)
}

// Observer is told about every event a session emits and about the simulation state after
// each command. Metrics collectors implement it.
type Observer interface {
	ObserveEvent(sessionID string, e facility.Event)
	ObserveSimulation(sessionID string, s *domain.Simulation)
}
