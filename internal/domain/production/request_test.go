package production_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim-go/internal/domain/production"
)

func mustRecipe(t *testing.T, output string, latency int, ings ...production.Ingredient) *production.Recipe {
	t.Helper()
	r, err := production.NewRecipe(output, ings, latency)
	require.NoError(t, err)
	return r
}

func TestRequestIDs_StrictlyIncreasing(t *testing.T) {
	ids := production.NewRequestIDs()
	metal := mustRecipe(t, "metal", 1)

	prev := -1
	for i := 0; i < 10; i++ {
		var r *production.Request
		if i%3 == 0 {
			r = production.NewWasteRequest(ids, "dump", 2)
		} else {
			r = production.NewRequest(ids, metal, "", true)
		}
		assert.Greater(t, r.ID(), prev)
		prev = r.ID()
	}

	// probes never consume an identity
	production.NewProbeRequest(metal)
	assert.Equal(t, prev+1, ids.Peek())

	ids.Reset()
	assert.Equal(t, 0, production.NewRequest(ids, metal, "", true).ID())
}

func TestRequest_Lifecycle(t *testing.T) {
	// Arrange
	ids := production.NewRequestIDs()
	r := production.NewRequest(ids, mustRecipe(t, "metal", 1), "factory", false)
	require.Equal(t, production.RequestWaiting, r.State())

	// Act & Assert
	require.NoError(t, r.Start())
	assert.Equal(t, production.RequestWorking, r.State())

	err := r.Start()
	var transitionErr *production.ErrInvalidRequestTransition
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, production.RequestWorking, transitionErr.From)

	require.NoError(t, r.Finish())
	assert.Equal(t, production.RequestReady, r.State())
}

func TestRequest_FinishOnlyFromWorking(t *testing.T) {
	// Arrange
	ids := production.NewRequestIDs()
	waiting := production.NewRequest(ids, mustRecipe(t, "metal", 1), "factory", false)
	ready := production.NewRequest(ids, mustRecipe(t, "metal", 1), "factory", false)
	require.NoError(t, ready.Start())
	require.NoError(t, ready.Finish())

	// Act
	errWaiting := waiting.Finish()
	errReady := ready.Finish()

	// Assert
	var transitionErr *production.ErrInvalidRequestTransition
	require.True(t, errors.As(errWaiting, &transitionErr))
	assert.Equal(t, production.RequestWaiting, transitionErr.From)
	assert.Equal(t, production.RequestReady, transitionErr.To)
	assert.Equal(t, production.RequestWaiting, waiting.State(), "a refused transition changes nothing")

	require.True(t, errors.As(errReady, &transitionErr))
	assert.Equal(t, production.RequestReady, transitionErr.From)
	assert.EqualError(t, errReady, fmt.Sprintf("invalid request transition for %d: READY -> READY", ready.ID()))
}

func TestRequest_IsReady(t *testing.T) {
	// Arrange
	ids := production.NewRequestIDs()
	metal := mustRecipe(t, "metal", 1)
	hinge := mustRecipe(t, "hinge", 1, production.Ingredient{Name: "metal", Quantity: 2})
	r := production.NewRequest(ids, hinge, "", true)
	sub := production.NewRequest(ids, metal, "factory", false)
	r.AddSubRequest(sub)
	inv := production.NewInventory()

	// Act & Assert
	assert.False(t, r.IsReady(inv))

	inv.Add("metal", 2)
	assert.False(t, r.IsReady(inv), "sub-request still outstanding")

	require.NoError(t, sub.Start())
	require.NoError(t, sub.Finish())
	assert.True(t, r.IsReady(inv))
}

func TestInventory_ConsumeRemovesExhaustedEntries(t *testing.T) {
	inv := production.NewInventory()
	inv.Add("metal", 3)
	inv.Add("wood", 1)
	inv.Add("nothing", 0)

	inv.Consume("metal", 2)
	inv.Consume("wood", 5)

	assert.Equal(t, 1, inv.Count("metal"))
	_, hasWood := inv["wood"]
	assert.False(t, hasWood)
	_, hasNothing := inv["nothing"]
	assert.False(t, hasNothing)
	assert.Equal(t, []string{"metal"}, inv.Items())

	missing := inv.Missing([]production.Ingredient{{Name: "metal", Quantity: 3}, {Name: "wood", Quantity: 1}})
	assert.Equal(t, []production.Ingredient{{Name: "metal", Quantity: 2}, {Name: "wood", Quantity: 1}}, missing)
}
