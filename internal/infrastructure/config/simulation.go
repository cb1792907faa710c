package config

import (
	"github.com/andrescamacho/factorysim-go/internal/domain/simulation"
)

// SimulationConfig holds the knobs every new or restored simulation starts with
type SimulationConfig struct {
	DroneSpeed       int `mapstructure:"drone_speed" validate:"min=1"`
	DroneRange       int `mapstructure:"drone_range" validate:"min=1"`
	DronePortLimit   int `mapstructure:"drone_port_limit" validate:"min=1"`
	MaxFinishTicks   int `mapstructure:"max_finish_ticks" validate:"min=1"`
	PlacementSpacing int `mapstructure:"placement_spacing" validate:"min=1"`

	// Policies given to buildings the configuration leaves on default
	DefaultRequestPolicy string `mapstructure:"default_request_policy" validate:"required,request_policy"`
	DefaultSourcePolicy  string `mapstructure:"default_source_policy" validate:"required,source_policy"`
}

// Options converts the configuration to simulation options
func (c SimulationConfig) Options() simulation.Options {
	return simulation.Options{
		DroneSpeed:           c.DroneSpeed,
		DroneRange:           c.DroneRange,
		DronePortLimit:       c.DronePortLimit,
		MaxFinishTicks:       c.MaxFinishTicks,
		PlacementSpacing:     c.PlacementSpacing,
		DefaultRequestPolicy: c.DefaultRequestPolicy,
		DefaultSourcePolicy:  c.DefaultSourcePolicy,
	}
}
