package config

import "time"

// ServerConfig holds the session server configuration
type ServerConfig struct {
	// Listen address for websocket sessions, /metrics and /healthz
	Address string `mapstructure:"address" validate:"required"`

	// PID file location
	PIDFile string `mapstructure:"pid_file"`

	// Per-connection message rate limit
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Connections silent for longer are closed
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`

	// Number of recent events returned with loadSession
	EventLimit int `mapstructure:"event_limit" validate:"min=1"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}

type RateLimitConfig struct {
	Requests float64 `mapstructure:"requests" validate:"gt=0"`
	Burst    int     `mapstructure:"burst" validate:"min=1"`
}
