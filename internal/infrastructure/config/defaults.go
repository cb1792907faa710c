package config

import (
	"time"

	"github.com/andrescamacho/factorysim-go/internal/domain/simulation"
)

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "factorysim.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "factorysim"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "factorysim"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Server defaults
	if cfg.Server.Address == "" {
		cfg.Server.Address = "localhost:8765"
	}
	if cfg.Server.PIDFile == "" {
		cfg.Server.PIDFile = "/tmp/factorysim-server.pid"
	}
	if cfg.Server.RateLimit.Requests == 0 {
		cfg.Server.RateLimit.Requests = 10
	}
	if cfg.Server.RateLimit.Burst == 0 {
		cfg.Server.RateLimit.Burst = 20
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 10 * time.Minute
	}
	if cfg.Server.EventLimit == 0 {
		cfg.Server.EventLimit = 200
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}

	// Simulation defaults
	d := simulation.DefaultOptions()
	if cfg.Simulation.DroneSpeed == 0 {
		cfg.Simulation.DroneSpeed = d.DroneSpeed
	}
	if cfg.Simulation.DroneRange == 0 {
		cfg.Simulation.DroneRange = d.DroneRange
	}
	if cfg.Simulation.DronePortLimit == 0 {
		cfg.Simulation.DronePortLimit = d.DronePortLimit
	}
	if cfg.Simulation.MaxFinishTicks == 0 {
		cfg.Simulation.MaxFinishTicks = d.MaxFinishTicks
	}
	if cfg.Simulation.PlacementSpacing == 0 {
		cfg.Simulation.PlacementSpacing = d.PlacementSpacing
	}
	if cfg.Simulation.DefaultRequestPolicy == "" {
		cfg.Simulation.DefaultRequestPolicy = d.DefaultRequestPolicy
	}
	if cfg.Simulation.DefaultSourcePolicy == "" {
		cfg.Simulation.DefaultSourcePolicy = d.DefaultSourcePolicy
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
