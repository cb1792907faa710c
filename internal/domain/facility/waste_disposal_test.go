package facility_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	"github.com/andrescamacho/factorysim-go/internal/domain/grid"
	"github.com/andrescamacho/factorysim-go/internal/domain/production"
)

func wasteSetup(t *testing.T, capacity int) (*testWorld, *production.Recipe, *facility.Building, *facility.Building) {
	t.Helper()
	w := newTestWorld()
	bolt, err := production.NewWasteRecipe("bolt", nil, 1, "slag", 2)
	require.NoError(t, err)
	factory := w.add(facility.NewFactory("F", mustFactoryType(t, "Bolt", bolt), w), 0, 0)
	disposal := w.add(facility.NewWasteDisposal("D", capacity, []*production.Recipe{bolt}, 1, 2, w), 0, 1)
	f, _ := factory.Factory()
	f.AddDisposal("D", grid.NewGraphPath([]grid.Coordinate{grid.NewCoordinate(0, 0), grid.NewCoordinate(0, 1)}, 0))
	return w, bolt, factory, disposal
}

func TestWasteDisposal_ReceivesAndDisposesWaste(t *testing.T) {
	// Arrange
	w, bolt, factory, disposal := wasteSetup(t, 3)
	require.NoError(t, factory.AddRequest(userRequest(w, bolt)))
	f, _ := factory.Factory()
	d, _ := disposal.WasteDisposal()

	// Act & Assert
	w.tick(t)
	assert.Equal(t, []facility.WasteStock{{Item: "slag", Amount: 2}}, f.Wastes())
	assert.EqualError(t, factory.CapableOf("bolt"), "cannot produce 'bolt' because of waste: {slag=2}")

	w.tick(t)
	assert.Empty(t, f.Wastes())
	assert.Equal(t, facility.DisposalState{Current: 2, Predicted: 2}, d.State())
	assert.True(t, disposal.Finished())
	assert.True(t, factory.Finished())
	assert.False(t, disposal.ReadyForRemoval())

	w.tick(t)
	assert.Equal(t, facility.DisposalState{Current: 2, Predicted: 2, Interval: 1}, d.State())
	w.tick(t)
	assert.Equal(t, facility.DisposalState{Current: 1, Predicted: 1}, d.State())
}

func TestFactory_StallsWhileWasteHasNowhereToGo(t *testing.T) {
	// Arrange
	w, bolt, factory, disposal := wasteSetup(t, 1)
	require.NoError(t, factory.AddRequest(userRequest(w, bolt)))
	w.tick(t)
	next := userRequest(w, bolt)
	factory.EnqueueRequest(next)

	// Act
	w.tick(t)
	w.tick(t)

	// Assert
	f, _ := factory.Factory()
	d, _ := disposal.WasteDisposal()
	assert.Equal(t, []facility.WasteStock{{Item: "slag", Amount: 2}}, f.Wastes())
	assert.Equal(t, production.RequestWaiting, next.State())
	assert.Equal(t, 0, d.State().Predicted)
}

func TestWasteDisposal_Capability(t *testing.T) {
	_, _, _, disposal := wasteSetup(t, 3)
	d, _ := disposal.WasteDisposal()

	assert.NoError(t, disposal.CapableOf("bolt"))
	assert.Error(t, disposal.CapableOf("slag"))
	assert.True(t, d.CanDispose("slag", 3))
	assert.False(t, d.CanDispose("slag", 4))
	assert.False(t, d.CanDispose("ash", 1))
	assert.True(t, disposal.ReadyForRemoval())
}
