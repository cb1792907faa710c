package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim-go/internal/infrastructure/config"
)

func TestLoadConfig_DefaultsFromEmptyFile(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "localhost:8765", cfg.Server.Address)
	assert.Equal(t, "fifo", cfg.Simulation.DefaultRequestPolicy)
	assert.Equal(t, "qlen", cfg.Simulation.DefaultSourcePolicy)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadConfig_FileAndEnvironment(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "simulation:\n  drone_speed: 7\n  default_source_policy: simplelat\nserver:\n  address: 0.0.0.0:9000\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("FS_SIMULATION_DRONE_SPEED", "9")

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Simulation.DroneSpeed)
	assert.Equal(t, "simplelat", cfg.Simulation.DefaultSourcePolicy)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Address)

	opts := cfg.Simulation.Options()
	assert.Equal(t, 9, opts.DroneSpeed)
}

func TestLoadConfig_RejectsUnknownPolicy(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  default_request_policy: nearest\n"), 0o644))

	// Act
	_, err := config.LoadConfig(path)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DefaultRequestPolicy")
}

func TestUserConfig_DefaultSession(t *testing.T) {
	// Arrange
	handler, err := config.NewUserConfigHandlerAt(t.TempDir())
	require.NoError(t, err)

	// Act
	empty, err := handler.Load()
	require.NoError(t, err)
	require.NoError(t, handler.SetDefaultSession("abc"))
	stored, err := handler.Load()
	require.NoError(t, err)
	require.NoError(t, handler.ClearDefaultSession())
	cleared, err := handler.Load()
	require.NoError(t, err)

	// Assert
	assert.Empty(t, empty.DefaultSession)
	assert.Equal(t, "abc", stored.DefaultSession)
	assert.Empty(t, cleared.DefaultSession)
}

func TestValidator_PolicyNamesIgnoreCase(t *testing.T) {
	// Arrange
	v := config.NewValidator()
	sim := config.SimulationConfig{
		DroneSpeed: 1, DroneRange: 1, DronePortLimit: 1, MaxFinishTicks: 1, PlacementSpacing: 1,
		DefaultRequestPolicy: "SJF",
		DefaultSourcePolicy:  "SimpleLat",
	}

	// Act
	okErr := v.Validate(sim)
	sim.DefaultSourcePolicy = "nearest"
	badErr := v.Validate(sim)

	// Assert
	assert.NoError(t, okErr)
	require.Error(t, badErr)
	assert.Contains(t, badErr.Error(), "unknown source policy 'nearest'")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	// Arrange
	pg := config.DatabaseConfig{Type: "postgres", Host: "db", Port: 5432, User: "sim", Password: "pw", Name: "fs", SSLMode: "disable"}
	withURL := config.DatabaseConfig{Type: "postgres", URL: "postgresql://sim@db/fs", Host: "ignored"}
	memory := config.DatabaseConfig{Type: "sqlite"}

	// Act & Assert
	assert.Equal(t, "host=db port=5432 user=sim password=pw dbname=fs sslmode=disable", pg.DSN())
	assert.Equal(t, "postgresql://sim@db/fs", withURL.DSN())
	assert.Equal(t, ":memory:", memory.DSN())
}
