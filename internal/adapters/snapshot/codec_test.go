package snapshot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim-go/internal/adapters/snapshot"
	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	"github.com/andrescamacho/factorysim-go/internal/domain/production"
	"github.com/andrescamacho/factorysim-go/internal/domain/simulation"
)

const minesConfig = `{
  "recipes": [{"output": "metal", "latency": 1, "ingredients": {}}],
  "types": [],
  "buildings": [
    {"name": "M", "mine": "metal", "coordinate": [0, 0]},
    {"name": "N", "mine": "metal", "coordinate": [0, 4]},
    {"name": "P", "coordinate": [4, 0]}
  ]
}`

// reload runs s through the same encode and decode a session command does
func reload(t *testing.T, s *simulation.Simulation) *simulation.Simulation {
	t.Helper()
	codec := snapshot.Codec{}
	data, err := codec.Encode(s)
	require.NoError(t, err)
	restored, err := codec.Decode(data, simulation.Options{})
	require.NoError(t, err)
	return restored
}

func decodeMines(t *testing.T) *simulation.Simulation {
	t.Helper()
	s, err := snapshot.Codec{}.Decode([]byte(minesConfig), simulation.Options{})
	require.NoError(t, err)
	return s
}

func TestCodec_RequestIDsKeepIncreasingAcrossReload(t *testing.T) {
	// Arrange
	s := decodeMines(t)
	first, err := s.Request("M", "metal")
	require.NoError(t, err)
	_, err = s.Finish()
	require.NoError(t, err)

	// Act
	restored := reload(t, s)
	second, err := restored.Request("M", "metal")
	require.NoError(t, err)

	// Assert
	assert.Greater(t, second.ID(), first.ID())
	assert.Equal(t, s.RequestIDs().Peek()+1, restored.RequestIDs().Peek())
}

func TestCodec_DefaultPoliciesSurviveReload(t *testing.T) {
	// Arrange
	s := decodeMines(t)
	require.NoError(t, s.SetRequestPolicyDefault("sjf"))
	require.NoError(t, s.SetSourcePolicyDefault("simplelat"))

	// Act
	restored := reload(t, s)
	added := facility.NewMine("Late", mustRecipe(t, restored, "metal"), restored)
	require.NoError(t, restored.AddBuilding(added))

	// Assert
	assert.Equal(t, "sjf", restored.DefaultRequestPolicy().Name())
	assert.Equal(t, "simplelat", restored.DefaultSourcePolicy().Name())
	assert.Equal(t, "sjf", added.RequestPolicy().Name())
	assert.Equal(t, "simplelat", added.SourcePolicy().Name())
}

func TestCodec_SourcesOfAnyBuildingKindSurviveReload(t *testing.T) {
	// Arrange
	s := decodeMines(t)
	_, err := s.Connect("M", "N")
	require.NoError(t, err)

	// Act
	restored := reload(t, s)

	// Assert
	n, err := restored.Building("N")
	require.NoError(t, err)
	assert.Equal(t, []string{"M"}, n.SourceNames())
	require.NoError(t, restored.Disconnect("M", "N"))
}

func TestCodec_IdleDronesSurviveReload(t *testing.T) {
	// Arrange
	s := decodeMines(t)
	_, err := s.AddDrone("P")
	require.NoError(t, err)

	// Act
	restored := reload(t, s)

	// Assert
	port, err := restored.Building("P")
	require.NoError(t, err)
	p, ok := port.DronePort()
	require.True(t, ok)
	assert.Len(t, p.Drones(), 1)
}

func mustRecipe(t *testing.T, s *simulation.Simulation, output string) *production.Recipe {
	t.Helper()
	recipe, ok := s.Catalog().Recipe(output)
	require.True(t, ok)
	return recipe
}
