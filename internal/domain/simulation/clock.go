package simulation

import (
	"fmt"

	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
)

// Step advances one tick: every building steps, then every building delivers, both in
// insertion order
func (s *Simulation) Step() error {
	s.cycle++
	for _, b := range s.Buildings() {
		if err := b.Step(); err != nil {
			return fmt.Errorf("step of '%s' on cycle %d: %w", b.Name(), s.cycle, err)
		}
	}
	for _, b := range s.Buildings() {
		if err := b.Deliver(); err != nil {
			return fmt.Errorf("deliver of '%s' on cycle %d: %w", b.Name(), s.cycle, err)
		}
	}
	return nil
}

// StepN advances n ticks. n must be positive; nothing runs otherwise.
func (s *Simulation) StepN(n int) error {
	if n <= 0 {
		return shared.NewValidationError("steps", "step number should be larger than 0")
	}
	for i := 0; i < n; i++ {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Finished reports whether every building is finished
func (s *Simulation) Finished() bool {
	for _, b := range s.Buildings() {
		if !b.Finished() {
			return false
		}
	}
	return true
}

// Finish ticks until every building is finished and returns how many ticks it ran. It gives
// up after the configured tick budget.
func (s *Simulation) Finish() (int, error) {
	ticks := 0
	for !s.Finished() {
		if ticks >= s.opts.MaxFinishTicks {
			return ticks, shared.NewResourceExhaustedError("ticks",
				fmt.Sprintf("simulation did not finish within %d ticks", s.opts.MaxFinishTicks))
		}
		if err := s.Step(); err != nil {
			return ticks, err
		}
		ticks++
	}
	s.Emit(facility.Event{Kind: facility.EventSimulationComplete, Cycle: s.cycle})
	return ticks, nil
}
