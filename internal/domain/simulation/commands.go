package simulation

import (
	"fmt"

	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	"github.com/andrescamacho/factorysim-go/internal/domain/production"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
)

// Request enqueues a user request for output at the named building
func (s *Simulation) Request(buildingName, output string) (*production.Request, error) {
	target, err := s.Building(buildingName)
	if err != nil {
		return nil, err
	}
	recipe, ok := s.catalog.Recipe(output)
	if !ok {
		return nil, shared.NewInvalidReferenceError("output", output)
	}
	if err := target.CapableOf(output); err != nil {
		return nil, fmt.Errorf("request failed because: %w", err)
	}
	r := production.NewRequest(s.ids, recipe, "", true)
	if err := target.AddRequest(r); err != nil {
		return nil, fmt.Errorf("request failed because: %w", err)
	}
	return r, nil
}

// SetRequestPolicy sets the request policy of one building and takes it off the default
func (s *Simulation) SetRequestPolicy(buildingName, policyName string) error {
	target, err := s.Building(buildingName)
	if err != nil {
		return err
	}
	p, err := s.policies.RequestPolicy(policyName)
	if err != nil {
		return err
	}
	target.SetRequestPolicy(p, false)
	return nil
}

func (s *Simulation) SetSourcePolicy(buildingName, policyName string) error {
	target, err := s.Building(buildingName)
	if err != nil {
		return err
	}
	p, err := s.policies.SourcePolicy(policyName)
	if err != nil {
		return err
	}
	target.SetSourcePolicy(p, false)
	return nil
}

// SetRequestPolicyAll sets the request policy of every building
func (s *Simulation) SetRequestPolicyAll(policyName string) error {
	p, err := s.policies.RequestPolicy(policyName)
	if err != nil {
		return err
	}
	for _, b := range s.Buildings() {
		b.SetRequestPolicy(p, false)
	}
	return nil
}

func (s *Simulation) SetSourcePolicyAll(policyName string) error {
	p, err := s.policies.SourcePolicy(policyName)
	if err != nil {
		return err
	}
	for _, b := range s.Buildings() {
		b.SetSourcePolicy(p, false)
	}
	return nil
}

// SetRequestPolicyDefault changes the default request policy. Only buildings still on the
// default follow it, as do buildings created later.
func (s *Simulation) SetRequestPolicyDefault(policyName string) error {
	p, err := s.policies.RequestPolicy(policyName)
	if err != nil {
		return err
	}
	s.defaultRequest = p
	for _, b := range s.Buildings() {
		if b.UsingDefaultRequestPolicy() {
			b.SetRequestPolicy(p, true)
		}
	}
	return nil
}

func (s *Simulation) SetSourcePolicyDefault(policyName string) error {
	p, err := s.policies.SourcePolicy(policyName)
	if err != nil {
		return err
	}
	s.defaultSource = p
	for _, b := range s.Buildings() {
		if b.UsingDefaultSourcePolicy() {
			b.SetSourcePolicy(p, true)
		}
	}
	return nil
}

// AddDrone stations a new drone at the named drone port
func (s *Simulation) AddDrone(portName string) (*facility.Drone, error) {
	port, err := s.Building(portName)
	if err != nil {
		return nil, err
	}
	if port.Kind() != facility.KindDronePort {
		return nil, shared.NewInvalidReferenceError("drone port", portName)
	}
	return port.AddDrone(s.opts.DroneSpeed)
}
