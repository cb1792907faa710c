package simulation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	"github.com/andrescamacho/factorysim-go/internal/domain/grid"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
	"github.com/andrescamacho/factorysim-go/internal/domain/simulation"
)

func TestCreateBuilding_EveryKind(t *testing.T) {
	s := newSimulation(t, simulation.Options{})
	tests := []struct {
		name       string
		descriptor string
		kind       facility.Kind
		at         grid.Coordinate
	}{
		{
			name:       "storage",
			descriptor: `{"type":"storage","name":"S","info":{"stores":"metal","capacity":10,"priority":1.5,"coordinate":[2,3]}}`,
			kind:       facility.KindStorage,
			at:         grid.NewCoordinate(2, 3),
		},
		{
			name:       "mine",
			descriptor: `{"type":"mine","name":"M","info":{"mine":"metal","coordinate":[0,0]}}`,
			kind:       facility.KindMine,
			at:         grid.NewCoordinate(0, 0),
		},
		{
			name:       "factory",
			descriptor: `{"type":"factory","name":"F","info":{"type":"Hinge","coordinate":[5,5]}}`,
			kind:       facility.KindFactory,
			at:         grid.NewCoordinate(5, 5),
		},
		{
			name:       "drone port",
			descriptor: `{"type":"drone port","name":"P","info":{"coordinate":[7,1]}}`,
			kind:       facility.KindDronePort,
			at:         grid.NewCoordinate(7, 1),
		},
		{
			name:       "waste disposal",
			descriptor: `{"type":"waste disposal","name":"W","info":{"capacity":20,"disposeAmount":5,"disposeInterval":3,"wasteTypes":["metal"],"coordinate":[9,9]}}`,
			kind:       facility.KindWasteDisposal,
			at:         grid.NewCoordinate(9, 9),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := s.CreateBuilding([]byte(tt.descriptor))

			require.NoError(t, err)
			assert.Equal(t, tt.kind, b.Kind())
			c, placed := b.Coordinate()
			require.True(t, placed)
			assert.Equal(t, tt.at, c)
			found, err := s.Building(b.Name())
			require.NoError(t, err)
			assert.Same(t, b, found)
		})
	}

	storage, _ := s.Building("S")
	st, ok := storage.Storage()
	require.True(t, ok)
	assert.Equal(t, 10, st.Capacity())
	assert.Equal(t, 1.5, st.Priority())
	assert.Len(t, s.DronePorts(), 1)
}

func TestCreateBuilding_MalformedDescriptors(t *testing.T) {
	tests := []struct {
		name       string
		descriptor string
		message    string
	}{
		{"unknown type", `{"type":"farm","name":"X","info":{}}`, "Unknown building type: farm"},
		{"missing info", `{"type":"mine","name":"X"}`, "Missing required field(s) in 'info'"},
		{"missing field", `{"type":"storage","name":"X","info":{"stores":"metal","capacity":3,"coordinate":[1,1]}}`, "Missing required field(s) in 'info'"},
		{"short coordinate", `{"type":"mine","name":"X","info":{"mine":"metal","coordinate":[1]}}`, "'coordinate' must be an array of two integers"},
		{"text coordinate", `{"type":"mine","name":"X","info":{"mine":"metal","coordinate":["a","b"]}}`, "'coordinate' must be an array of two integers"},
		{"unknown stores", `{"type":"storage","name":"X","info":{"stores":"gold","capacity":3,"priority":1,"coordinate":[1,1]}}`, "invalid stores"},
		{"unknown mine", `{"type":"mine","name":"X","info":{"mine":"gold","coordinate":[1,1]}}`, "invalid mine"},
		{"unknown factory type", `{"type":"factory","name":"X","info":{"type":"Gear","coordinate":[1,1]}}`, "invalid factory type"},
		{"inline existing type", `{"type":"factory","name":"X","info":{"type":"Hinge","recipes":["hinge"],"coordinate":[1,1]}}`, "type already existed"},
		{"inline unknown recipe", `{"type":"factory","name":"X","info":{"type":"Gear","recipes":["gear"],"coordinate":[1,1]}}`, "recipe not exist"},
		{"unknown waste type", `{"type":"waste disposal","name":"X","info":{"capacity":1,"disposeAmount":1,"disposeInterval":1,"wasteTypes":["slag"]}}`, "recipe not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSimulation(t, simulation.Options{})

			_, err := s.CreateBuilding([]byte(tt.descriptor))

			var malformed *shared.MalformedDescriptorError
			require.True(t, errors.As(err, &malformed), "got %v", err)
			assert.Equal(t, tt.message, err.Error())
			assert.Empty(t, s.Buildings())
		})
	}
}

func TestCreateBuilding_InlineFactoryTypeIsRegistered(t *testing.T) {
	s := newSimulation(t, simulation.Options{})

	_, err := s.CreateBuilding([]byte(`{"type":"factory","name":"F","info":{"type":"Fitter","recipes":["hinge","door"],"coordinate":[0,0]}}`))
	require.NoError(t, err)

	ft, ok := s.Catalog().FactoryType("Fitter")
	require.True(t, ok)
	assert.Len(t, ft.Recipes(), 2)

	_, err = s.CreateBuilding([]byte(`{"type":"factory","name":"G","info":{"type":"Fitter","coordinate":[0,4]}}`))
	require.NoError(t, err)
}

func TestCreateBuilding_WasteDisposalWithoutCoordinateIsAutoPlaced(t *testing.T) {
	s := newSimulation(t, simulation.Options{})
	_, err := s.CreateBuilding([]byte(`{"type":"mine","name":"M","info":{"mine":"metal","coordinate":[2,6]}}`))
	require.NoError(t, err)

	b, err := s.CreateBuilding([]byte(`{"type":"waste disposal","name":"W","info":{"capacity":1,"disposeAmount":1,"disposeInterval":1,"wasteTypes":["metal"]}}`))

	require.NoError(t, err)
	c, _ := b.Coordinate()
	assert.Equal(t, grid.NewCoordinate(6, 10), c)
}

func TestCreateBuilding_PlacementCollision(t *testing.T) {
	s := newSimulation(t, simulation.Options{})
	_, err := s.CreateBuilding([]byte(`{"type":"mine","name":"M","info":{"mine":"metal","coordinate":[1,1]}}`))
	require.NoError(t, err)

	_, err = s.CreateBuilding([]byte(`{"type":"drone port","name":"P","info":{"coordinate":[1,1]}}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlaps another building")
	assert.Empty(t, s.DronePorts())
}
