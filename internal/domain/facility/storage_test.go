package facility_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	"github.com/andrescamacho/factorysim-go/internal/domain/production"
)

func TestStorage_ReplenishFrequency(t *testing.T) {
	w := newTestWorld()
	metal := mustRecipe(t, "metal", 1)

	tests := []struct {
		name     string
		remain   int
		amount   int
		priority float64
		want     int
	}{
		{"empty storage orders every tick", 4, 0, 1, 0},
		{"no free slot never orders", 0, 3, 1, facility.NeverReplenish},
		{"zero priority never orders", 2, 0, 0, facility.NeverReplenish},
		{"fuller storage orders less often", 2, 3, 0.5, 9},
		{"rounds up", 3, 2, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := facility.RestoreStorage("S", metal, 5, tt.remain, tt.amount, tt.priority, w)
			s, ok := b.Storage()
			require.True(t, ok)
			assert.Equal(t, tt.want, s.Frequency())
		})
	}
}

func TestStorage_OrdersFromItsSourceUntilFull(t *testing.T) {
	// Arrange
	w := newTestWorld()
	metal := mustRecipe(t, "metal", 1)
	mine := w.add(facility.NewMine("M", metal, w), 0, 0)
	store := w.add(facility.NewStorage("S", metal, 4, 1, w), 0, 1)
	connect(mine, store)
	s, _ := store.Storage()

	// Act
	w.tick(t)
	w.tick(t)

	// Assert
	assert.Equal(t, 1, s.Amount())
	assert.Equal(t, 2, s.Remain())
	assert.Len(t, mine.Requests(), 1)
	amount, ok := store.StoredAmount()
	assert.True(t, ok)
	assert.Equal(t, 1, amount)
}

func TestStorage_ServesDownstreamFromStock(t *testing.T) {
	// Arrange
	w := newTestWorld()
	metal := mustRecipe(t, "metal", 1)
	hinge := mustRecipe(t, "hinge", 1, production.Ingredient{Name: "metal", Quantity: 1})
	mine := w.add(facility.NewMine("M", metal, w), 0, 0)
	store := w.add(facility.RestoreStorage("S", metal, 5, 5, 1, 1, w), 0, 1)
	factory := w.add(facility.NewFactory("F", mustFactoryType(t, "Hinge", hinge), w), 0, 2)
	connect(mine, store)
	connect(store, factory)
	s, _ := store.Storage()

	order := userRequest(w, hinge)
	require.NoError(t, factory.AddRequest(order))
	require.Len(t, store.Requests(), 1, "stock makes the storage the shortest queue")
	assert.Equal(t, 6, s.Remain())

	// Act & Assert
	w.tick(t)
	assert.Equal(t, 0, s.Amount())
	assert.Equal(t, 1, factory.InventoryCount("metal"))
	assert.Equal(t, production.RequestReady, order.SubRequests()[0].State())
	assert.Len(t, mine.Requests(), 1)

	w.tick(t)
	assert.True(t, factory.Finished())
	assert.Equal(t, 1, s.Amount())
	assert.Equal(t, 4, s.Remain())
}

func TestStorage_RejectsOtherItems(t *testing.T) {
	w := newTestWorld()
	store := w.add(facility.NewStorage("S", mustRecipe(t, "metal", 1), 2, 1, w), 0, 0)

	assert.Error(t, store.AddIngredient("wood"))
	assert.EqualError(t, store.CapableOf("wood"), "storage 'S' cannot provide 'wood'")
	assert.EqualError(t, store.CapableOf("metal"), "no source for 'metal' in storage 'S'")
}

func TestStorage_ReadyForRemovalOnlyWhenEmptyAndUnreserved(t *testing.T) {
	w := newTestWorld()
	metal := mustRecipe(t, "metal", 1)

	assert.True(t, facility.NewStorage("S", metal, 2, 1, w).ReadyForRemoval())
	assert.False(t, facility.RestoreStorage("S", metal, 2, 2, 1, 1, w).ReadyForRemoval())
	assert.False(t, facility.RestoreStorage("S", metal, 2, 1, 0, 1, w).ReadyForRemoval())
}
