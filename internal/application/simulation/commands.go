package simulation

import (
	"encoding/json"
	"fmt"

	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
	domain "github.com/andrescamacho/factorysim-go/internal/domain/simulation"
)

// Action is one command applied to a loaded simulation
type Action interface {
	apply(sim *domain.Simulation) (interface{}, error)
	mutates() bool
}

// SessionCommand is an Action addressed to a stored session
type SessionCommand interface {
	Action
	Session() string
}

// RequestCommand asks a building for one unit of output
type RequestCommand struct {
	SessionID string
	Building  string
	Output    string
}

func (c *RequestCommand) Session() string { return c.SessionID }
func (c *RequestCommand) mutates() bool   { return true }

func (c *RequestCommand) apply(sim *domain.Simulation) (interface{}, error) {
	r, err := sim.Request(c.Building, c.Output)
	if err != nil {
		return nil, err
	}
	return r.ID(), nil
}

type StepCommand struct {
	SessionID string
	Steps     int
}

func (c *StepCommand) Session() string { return c.SessionID }
func (c *StepCommand) mutates() bool   { return true }

func (c *StepCommand) apply(sim *domain.Simulation) (interface{}, error) {
	return nil, sim.StepN(c.Steps)
}

// FinishCommand runs the simulation until every building is done and answers with the tick count
type FinishCommand struct {
	SessionID string
}

func (c *FinishCommand) Session() string { return c.SessionID }
func (c *FinishCommand) mutates() bool   { return true }

func (c *FinishCommand) apply(sim *domain.Simulation) (interface{}, error) {
	return sim.Finish()
}

type SetVerbosityCommand struct {
	SessionID string
	Level     int
}

func (c *SetVerbosityCommand) Session() string { return c.SessionID }
func (c *SetVerbosityCommand) mutates() bool   { return true }

func (c *SetVerbosityCommand) apply(sim *domain.Simulation) (interface{}, error) {
	if c.Level > 2 {
		return nil, shared.NewValidationError("verbosity", fmt.Sprintf("verbosity must be between 0 and 2, got %d", c.Level))
	}
	return nil, sim.SetVerbosity(c.Level)
}

type PolicyKind string

const (
	RequestPolicyKind PolicyKind = "request"
	SourcePolicyKind  PolicyKind = "source"
)

type PolicyScope string

const (
	ScopeBuilding PolicyScope = "building"
	ScopeAll      PolicyScope = "all"
	ScopeDefault  PolicyScope = "default"
)

// SetPolicyCommand sets a request or source policy on one building, on every building, or as
// the default for buildings that have not chosen one
type SetPolicyCommand struct {
	SessionID string
	Kind      PolicyKind
	Policy    string
	Scope     PolicyScope
	Building  string
}

func (c *SetPolicyCommand) Session() string { return c.SessionID }
func (c *SetPolicyCommand) mutates() bool   { return true }

func (c *SetPolicyCommand) apply(sim *domain.Simulation) (interface{}, error) {
	switch c.Kind {
	case RequestPolicyKind:
		switch c.Scope {
		case ScopeAll:
			return nil, sim.SetRequestPolicyAll(c.Policy)
		case ScopeDefault:
			return nil, sim.SetRequestPolicyDefault(c.Policy)
		default:
			return nil, sim.SetRequestPolicy(c.Building, c.Policy)
		}
	case SourcePolicyKind:
		switch c.Scope {
		case ScopeAll:
			return nil, sim.SetSourcePolicyAll(c.Policy)
		case ScopeDefault:
			return nil, sim.SetSourcePolicyDefault(c.Policy)
		default:
			return nil, sim.SetSourcePolicy(c.Building, c.Policy)
		}
	}
	return nil, shared.NewValidationError("policy", fmt.Sprintf("unknown policy kind '%s'", c.Kind))
}

// ConnectCommand builds a route from Source to Destination and answers with its length
type ConnectCommand struct {
	SessionID   string
	Source      string
	Destination string
}

func (c *ConnectCommand) Session() string { return c.SessionID }
func (c *ConnectCommand) mutates() bool   { return true }

func (c *ConnectCommand) apply(sim *domain.Simulation) (interface{}, error) {
	path, err := sim.Connect(c.Source, c.Destination)
	if err != nil {
		return nil, err
	}
	return path.Distance(), nil
}

type DisconnectCommand struct {
	SessionID   string
	Source      string
	Destination string
}

func (c *DisconnectCommand) Session() string { return c.SessionID }
func (c *DisconnectCommand) mutates() bool   { return true }

func (c *DisconnectCommand) apply(sim *domain.Simulation) (interface{}, error) {
	return nil, sim.Disconnect(c.Source, c.Destination)
}

type AddDroneCommand struct {
	SessionID string
	Port      string
}

func (c *AddDroneCommand) Session() string { return c.SessionID }
func (c *AddDroneCommand) mutates() bool   { return true }

func (c *AddDroneCommand) apply(sim *domain.Simulation) (interface{}, error) {
	if _, err := sim.AddDrone(c.Port); err != nil {
		return nil, err
	}
	return nil, nil
}

// RemoveBuildingCommand removes a building now if it is idle, otherwise marks it for removal.
// The value is true when it was removed at once.
type RemoveBuildingCommand struct {
	SessionID string
	Building  string
}

func (c *RemoveBuildingCommand) Session() string { return c.SessionID }
func (c *RemoveBuildingCommand) mutates() bool   { return true }

func (c *RemoveBuildingCommand) apply(sim *domain.Simulation) (interface{}, error) {
	return sim.TryRemoveBuilding(c.Building)
}

// CreateBuildingCommand adds a building from a creation descriptor
type CreateBuildingCommand struct {
	SessionID  string
	Descriptor json.RawMessage
}

func (c *CreateBuildingCommand) Session() string { return c.SessionID }
func (c *CreateBuildingCommand) mutates() bool   { return true }

func (c *CreateBuildingCommand) apply(sim *domain.Simulation) (interface{}, error) {
	b, err := sim.CreateBuilding(c.Descriptor)
	if err != nil {
		return nil, err
	}
	return b.Name(), nil
}

// UpstreamQuery lists every building that feeds the named one, directly or not
type UpstreamQuery struct {
	SessionID string
	Building  string
}

func (c *UpstreamQuery) Session() string { return c.SessionID }
func (c *UpstreamQuery) mutates() bool   { return false }

func (c *UpstreamQuery) apply(sim *domain.Simulation) (interface{}, error) {
	return sim.Upstream(c.Building)
}
