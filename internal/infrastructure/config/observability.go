package config

// LoggingConfig selects where the server and CLI write their structured logs
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`

	FilePath      string `mapstructure:"file_path" validate:"required_if=Output file"`
	IncludeCaller bool   `mapstructure:"include_caller"`
}

// MetricsConfig exposes command and simulation metrics on the server's HTTP listener
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"omitempty,startswith=/"`
}
