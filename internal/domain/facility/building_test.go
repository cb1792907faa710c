package facility_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	"github.com/andrescamacho/factorysim-go/internal/domain/production"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
)

func TestFactory_AdjacentMineDeliversOnTheSameTick(t *testing.T) {
	// Arrange
	w := newTestWorld()
	metal := mustRecipe(t, "metal", 1)
	hinge := mustRecipe(t, "hinge", 1, production.Ingredient{Name: "metal", Quantity: 1})
	mine := w.add(facility.NewMine("M", metal, w), 0, 0)
	factory := w.add(facility.NewFactory("F", mustFactoryType(t, "Hinge", hinge), w), 0, 1)
	connect(mine, factory)
	require.NoError(t, factory.AddRequest(userRequest(w, hinge)))
	require.Len(t, mine.Requests(), 1)

	// Act & Assert
	w.tick(t)
	assert.True(t, mine.Finished())
	assert.Equal(t, 1, factory.InventoryCount("metal"))

	w.tick(t)
	assert.True(t, factory.Finished())
	assert.Equal(t, 0, factory.InventoryCount("metal"))
	assert.NotContains(t, factory.Inventory(), "metal")
	require.Len(t, w.eventsOf(facility.EventOrderComplete), 2)
}

func TestFactory_DeliveryOneSquareAway(t *testing.T) {
	// Arrange
	w := newTestWorld()
	metal := mustRecipe(t, "metal", 1)
	hinge := mustRecipe(t, "hinge", 2, production.Ingredient{Name: "metal", Quantity: 1})
	mine := w.add(facility.NewMine("M", metal, w), 0, 0)
	factory := w.add(facility.NewFactory("F", mustFactoryType(t, "Hinge", hinge), w), 0, 2)
	connect(mine, factory)
	order := userRequest(w, hinge)
	require.NoError(t, factory.AddRequest(order))

	// Act & Assert
	w.tick(t)
	assert.False(t, mine.Finished(), "metal is still on the road")
	require.Len(t, mine.Deliveries(), 1)
	assert.Equal(t, 0, mine.Deliveries()[0].Remaining)

	w.tick(t)
	assert.True(t, mine.Finished())
	assert.Equal(t, 1, factory.InventoryCount("metal"))

	w.tick(t)
	current, left := factory.CurrentRequest()
	assert.Same(t, order, current)
	assert.Equal(t, 1, left)
	assert.Equal(t, production.RequestWorking, order.State())

	w.tick(t)
	assert.True(t, factory.Finished())
	assert.Equal(t, production.RequestReady, order.State())
	assert.Empty(t, factory.Inventory())
}

func TestFactory_SubRequestsFollowIngredientOrder(t *testing.T) {
	// Arrange
	w := newTestWorld()
	metal := mustRecipe(t, "metal", 1)
	wood := mustRecipe(t, "wood", 1)
	door := mustRecipe(t, "door", 3,
		production.Ingredient{Name: "wood", Quantity: 1},
		production.Ingredient{Name: "metal", Quantity: 2})
	m1 := w.add(facility.NewMine("m1", metal, w), 0, 0)
	m2 := w.add(facility.NewMine("m2", metal, w), 1, 0)
	forest := w.add(facility.NewMine("forest", wood, w), 2, 0)
	factory := w.add(facility.NewFactory("F", mustFactoryType(t, "Door", door), w), 0, 4)
	connect(m1, factory)
	connect(m2, factory)
	connect(forest, factory)
	parent := userRequest(w, door)

	// Act
	require.NoError(t, factory.AddRequest(parent))

	// Assert
	subs := parent.SubRequests()
	require.Len(t, subs, 3)
	assert.Equal(t, "wood", subs[0].Output())
	assert.Equal(t, []string{"metal", "metal"}, []string{subs[1].Output(), subs[2].Output()})
	assert.Len(t, m1.Requests(), 1, "qlen spreads the metal")
	assert.Len(t, m2.Requests(), 1)
	assert.Len(t, forest.Requests(), 1)
	for i, sub := range subs {
		assert.Equal(t, parent.ID()+i+1, sub.ID())
		assert.Equal(t, "F", sub.Requester())
	}

	assignments := w.eventsOf(facility.EventIngredientAssignment)
	require.Len(t, assignments, 3)
	assert.Equal(t, "forest", assignments[0].Counterpart)
	assert.Equal(t, "m1", assignments[1].Counterpart)
	assert.Equal(t, "m2", assignments[2].Counterpart)

	selections := w.eventsOf(facility.EventSourceSelection)
	require.Len(t, selections, 3)
	assert.Equal(t, []facility.Metric{{Candidate: "m1", Value: 0}, {Candidate: "m2", Value: 0}}, selections[1].Metrics)
	assert.Equal(t, 2, selections[2].Index)
}

func TestFactory_CapabilityErrors(t *testing.T) {
	w := newTestWorld()
	metal := mustRecipe(t, "metal", 1)
	hinge := mustRecipe(t, "hinge", 1, production.Ingredient{Name: "metal", Quantity: 1})
	factory := w.add(facility.NewFactory("F", mustFactoryType(t, "Hinge", hinge), w), 0, 0)

	t.Run("unknown output", func(t *testing.T) {
		err := factory.CapableOf("door")
		var capErr *shared.CapabilityError
		require.True(t, errors.As(err, &capErr))
		assert.Equal(t, "factory 'F' cannot produce 'door'", err.Error())
	})

	t.Run("no source", func(t *testing.T) {
		err := factory.AddRequest(userRequest(w, hinge))
		assert.EqualError(t, err, "no source for 'metal' in factory 'F'")
		assert.Empty(t, factory.Requests())
	})

	t.Run("source being removed", func(t *testing.T) {
		mine := w.add(facility.NewMine("M", metal, w), 0, 2)
		connect(mine, factory)
		mine.MarkForRemoval()
		assert.EqualError(t, factory.CapableOf("hinge"), "being removed")
	})
}

func TestFactory_FailedAllocationLeavesNothingQueuedUpstream(t *testing.T) {
	// Arrange
	w := newTestWorld()
	ore := mustRecipe(t, "ore", 1)
	metal := mustRecipe(t, "metal", 1)
	wood := mustRecipe(t, "wood", 1, production.Ingredient{Name: "ore", Quantity: 1})
	door := mustRecipe(t, "door", 3,
		production.Ingredient{Name: "wood", Quantity: 1},
		production.Ingredient{Name: "metal", Quantity: 1})
	pit := w.add(facility.NewMine("pit", ore, w), 0, 0)
	mill := w.add(facility.NewFactory("mill", mustFactoryType(t, "Mill", wood), w), 0, 2)
	mine := w.add(facility.NewMine("M", metal, w), 1, 0)
	factory := w.add(facility.NewFactory("F", mustFactoryType(t, "Door", door), w), 0, 4)
	connect(pit, mill)
	connect(mill, factory)
	connect(mine, factory)
	w.onEmit = func(e facility.Event) {
		if e.Kind == facility.EventIngredientAssignment && e.Building == "F" && e.Item == "wood" {
			mine.MarkForRemoval()
		}
	}

	// Act
	err := factory.AddRequest(userRequest(w, door))

	// Assert
	assert.EqualError(t, err, "Can't find source building for metal")
	assert.Empty(t, factory.Requests())
	assert.Empty(t, mill.Requests(), "the wood already placed is taken back")
	assert.Empty(t, pit.Requests(), "and so is the ore it ordered")
	assert.Empty(t, mine.Requests())
}

func TestStorage_FailedAllocationReturnsTheSlot(t *testing.T) {
	// Arrange
	w := newTestWorld()
	metal := mustRecipe(t, "metal", 1)
	wood := mustRecipe(t, "wood", 1)
	crate := mustRecipe(t, "crate", 1,
		production.Ingredient{Name: "metal", Quantity: 1},
		production.Ingredient{Name: "wood", Quantity: 1})
	mine := w.add(facility.NewMine("M", metal, w), 0, 0)
	store := w.add(facility.NewStorage("S", metal, 3, 1, w), 0, 2)
	forest := w.add(facility.NewMine("forest", wood, w), 1, 0)
	factory := w.add(facility.NewFactory("F", mustFactoryType(t, "Crate", crate), w), 0, 4)
	connect(mine, store)
	connect(store, factory)
	connect(forest, factory)
	s, ok := store.Storage()
	require.True(t, ok)
	before := s.Remain()
	w.onEmit = func(e facility.Event) {
		if e.Kind == facility.EventIngredientAssignment && e.Building == "F" && e.Item == "metal" {
			forest.MarkForRemoval()
		}
	}

	// Act
	err := factory.AddRequest(userRequest(w, crate))

	// Assert
	require.Error(t, err)
	assert.Empty(t, store.Requests())
	assert.Equal(t, before, s.Remain())
	assert.Empty(t, factory.Requests())
}

func TestBuilding_DeliveryThatCannotLandStaysInFlight(t *testing.T) {
	// Arrange
	w := newTestWorld()
	metal := mustRecipe(t, "metal", 1)
	hinge := mustRecipe(t, "hinge", 2, production.Ingredient{Name: "metal", Quantity: 1})
	mine := w.add(facility.NewMine("M", metal, w), 0, 0)
	factory := w.add(facility.NewFactory("F", mustFactoryType(t, "Hinge", hinge), w), 0, 2)
	connect(mine, factory)
	require.NoError(t, factory.AddRequest(userRequest(w, hinge)))
	w.tick(t)
	require.Len(t, mine.Deliveries(), 1)
	delete(w.byName, "F")

	// Act
	err := mine.Deliver()

	// Assert
	var ref *shared.InvalidReferenceError
	require.True(t, errors.As(err, &ref))
	require.Len(t, mine.Deliveries(), 1, "the metal is not lost")

	w.byName["F"] = factory
	require.NoError(t, mine.Deliver())
	assert.Empty(t, mine.Deliveries())
	assert.Equal(t, 1, factory.InventoryCount("metal"))
}

func TestCapableOf_StopsOnSupplyLoops(t *testing.T) {
	w := newTestWorld()
	metal := mustRecipe(t, "metal", 1)
	a := w.add(facility.NewStorage("a", metal, 5, 1, w), 0, 0)
	b := w.add(facility.NewStorage("b", metal, 5, 1, w), 0, 2)
	connect(a, b)
	connect(b, a)

	err := a.CapableOf("metal")

	var capErr *shared.CapabilityError
	assert.True(t, errors.As(err, &capErr))
}

func TestMine_CapableOnlyOfItsRecipe(t *testing.T) {
	w := newTestWorld()
	mine := facility.NewMine("M", mustRecipe(t, "metal", 1), w)

	assert.NoError(t, mine.CapableOf("metal"))
	assert.EqualError(t, mine.CapableOf("wood"), "mine 'M' cannot produce 'wood'")
	assert.True(t, mine.MayProduce("metal"))
	assert.False(t, mine.MayProduce("wood"))
}

func TestBuilding_FinishedTracksQueueAndDeliveries(t *testing.T) {
	w := newTestWorld()
	metal := mustRecipe(t, "metal", 1)
	mine := w.add(facility.NewMine("M", metal, w), 0, 0)
	assert.True(t, mine.Finished())

	r := userRequest(w, metal)
	mine.EnqueueRequest(r)
	assert.False(t, mine.Finished())

	require.NoError(t, mine.AddDelivery(r, 3))
	assert.Error(t, mine.AddDelivery(r, 1), "a request is only delivered once")
}

func TestBuilding_SimpleLatencyCountsOnlyTimeLeftOfCurrent(t *testing.T) {
	w := newTestWorld()
	metal := mustRecipe(t, "metal", 4)
	mine := w.add(facility.NewMine("M", metal, w), 0, 0)
	first := userRequest(w, metal)
	mine.EnqueueRequest(first)
	mine.EnqueueRequest(userRequest(w, metal))

	assert.Equal(t, 8, mine.SimpleLatency())
	w.tick(t)

	assert.Equal(t, 3+4, mine.SimpleLatency())
	assert.Equal(t, 2, mine.QueueLength())
}

func TestBuilding_RecipeSelectionReport(t *testing.T) {
	w := newTestWorld()
	hinge := mustRecipe(t, "hinge", 1, production.Ingredient{Name: "metal", Quantity: 2})
	factory := w.add(facility.NewFactory("F", mustFactoryType(t, "Hinge", hinge), w), 0, 0)
	factory.EnqueueRequest(userRequest(w, hinge))

	w.tick(t)

	selections := w.eventsOf(facility.EventRecipeSelection)
	require.Len(t, selections, 1)
	assert.Equal(t, []string{
		"[recipe selection]: F has fifo on cycle 1",
		"    0: is not ready, waiting on {2x metal}",
		"    Selecting 0",
	}, selections[0].Lines())
}
