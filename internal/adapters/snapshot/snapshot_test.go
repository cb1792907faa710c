package snapshot_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim-go/internal/adapters/snapshot"
	"github.com/andrescamacho/factorysim-go/internal/domain/grid"
	"github.com/andrescamacho/factorysim-go/internal/domain/simulation"
)

const initialConfig = `{
  "recipes": [
    {"output": "metal", "latency": 1, "ingredients": {}},
    {"output": "wood", "latency": 2, "ingredients": {}},
    {"output": "slag", "latency": 1, "ingredients": {}},
    {"output": "door", "latency": 3, "ingredients": {"wood": 1, "metal": 2}, "waste": "slag", "wasteAmount": 1}
  ],
  "types": [{"name": "Door", "recipes": ["door"]}],
  "buildings": [
    {"name": "M", "mine": "metal", "coordinate": [0, 0]},
    {"name": "W", "mine": "wood"},
    {"name": "D", "type": "Door", "sources": ["M", "W"], "coordinate": [0, 6]},
    {"name": "S", "stores": "door", "capacity": 2, "priority": 1, "sources": ["D"], "coordinate": [3, 6]},
    {"name": "X", "wasteTypes": ["slag"], "capacity": 10, "disposeAmount": 2, "disposeInterval": 3, "coordinate": [0, 9]},
    {"name": "P", "coordinate": [2, 2]}
  ]
}`

func loadInitial(t *testing.T) *simulation.Simulation {
	t.Helper()
	s, err := snapshot.Load([]byte(initialConfig), simulation.Options{})
	require.NoError(t, err)
	return s
}

func TestLoad_InitialConfigurationConnectsAndPlaces(t *testing.T) {
	s := loadInitial(t)

	require.Len(t, s.Buildings(), 6)
	wood, err := s.Building("W")
	require.NoError(t, err)
	c, placed := wood.Coordinate()
	require.True(t, placed)
	assert.Equal(t, grid.NewCoordinate(7, 13), c, "auto-placed past the furthest placed building")

	door, err := s.Building("D")
	require.NoError(t, err)
	assert.Equal(t, []string{"M", "W"}, door.SourceNames())
	storage, err := s.Building("S")
	require.NoError(t, err)
	assert.True(t, storage.HasSource("D"))
	assert.NotEmpty(t, s.Grid().Roads())
	assert.Len(t, s.DronePorts(), 1)
	assert.Equal(t, 0, s.Cycle())

	recipe, ok := s.Catalog().Recipe("door")
	require.True(t, ok)
	require.Len(t, recipe.Ingredients(), 2)
	assert.Equal(t, "wood", recipe.Ingredients()[0].Name, "ingredient order follows the document")
	assert.Equal(t, "slag", recipe.Waste())
}

func TestEncode_RoundTripMidRun(t *testing.T) {
	// Arrange
	s := loadInitial(t)
	_, err := s.Connect("D", "X")
	require.NoError(t, err)
	_, err = s.AddDrone("P")
	require.NoError(t, err)
	require.NoError(t, s.SetSourcePolicy("D", "recursivelat"))
	_, err = s.Request("D", "door")
	require.NoError(t, err)
	require.NoError(t, s.StepN(3))

	// Act
	data, err := snapshot.Marshal(snapshot.Encode(s))
	require.NoError(t, err)
	restored, err := snapshot.Load(data, simulation.Options{})
	require.NoError(t, err)

	// Assert
	again, err := snapshot.Marshal(snapshot.Encode(restored))
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))

	original, err := s.Finish()
	require.NoError(t, err)
	replayed, err := restored.Finish()
	require.NoError(t, err)
	assert.Equal(t, original, replayed)
	assert.Equal(t, s.Cycle(), restored.Cycle())
}

func TestEncode_DocumentShape(t *testing.T) {
	s := loadInitial(t)
	_, err := s.Request("D", "door")
	require.NoError(t, err)

	data, err := snapshot.Marshal(snapshot.Encode(s))
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"requestId", "cycle", "recipes", "types", "buildings", "requests", "roads"} {
		assert.Contains(t, raw, key)
	}
	doc, err := snapshot.Parse(data)
	require.NoError(t, err)
	assert.False(t, doc.Initial())
	assert.Equal(t, 4, doc.RequestID, "one user request and three ingredient requests")

	var door snapshot.BuildingDoc
	for _, b := range doc.Buildings {
		if b.Name == "D" {
			door = b
		}
	}
	require.Len(t, door.Sources, 2)
	assert.True(t, door.Sources[0].HasPath)
	assert.Equal(t, "M", door.Sources[0].Name)
	assert.Equal(t, []int{0}, door.Requests)
	require.Len(t, doc.Requests, 4)
	assert.Equal(t, []int{1, 2, 3}, doc.Requests[0].SubRequests)
}

func TestIngredients_KeepDocumentOrder(t *testing.T) {
	var in snapshot.Ingredients
	require.NoError(t, json.Unmarshal([]byte(`{"z": 1, "a": 2, "m": 3}`), &in))

	assert.Equal(t, snapshot.Ingredients{{Name: "z", Quantity: 1}, {Name: "a", Quantity: 2}, {Name: "m", Quantity: 3}}, in)
	out, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2,"m":3}`, string(out))
}

func TestSourceDoc_Forms(t *testing.T) {
	var sources []snapshot.SourceDoc
	require.NoError(t, json.Unmarshal([]byte(`["M", ["W", 1, 2, 3, 4]]`), &sources))

	require.Len(t, sources, 2)
	assert.Equal(t, snapshot.SourceDoc{Name: "M"}, sources[0])
	assert.Equal(t, snapshot.SourceDoc{Name: "W", Second: [2]int{1, 2}, SecondLast: [2]int{3, 4}, HasPath: true}, sources[1])

	var bad snapshot.SourceDoc
	assert.Error(t, json.Unmarshal([]byte(`["W", 1, 2]`), &bad))
}

func TestLoad_RejectsUnknownReferences(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown type", `{"recipes": [], "types": [], "buildings": [{"name": "F", "type": "Nope"}]}`},
		{"unknown mine", `{"recipes": [], "types": [], "buildings": [{"name": "M", "mine": "gold"}]}`},
		{"unknown source", `{"recipes": [{"output": "metal", "latency": 1, "ingredients": {}}], "types": [], "buildings": [{"name": "S", "stores": "metal", "capacity": 1, "priority": 1, "sources": ["ghost"]}]}`},
		{"unknown ingredient", `{"recipes": [{"output": "door", "latency": 1, "ingredients": {"wood": 1}}], "types": [], "buildings": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := snapshot.Load([]byte(tt.doc), simulation.Options{})
			assert.Error(t, err)
		})
	}
}
