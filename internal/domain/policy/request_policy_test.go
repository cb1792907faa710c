package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim-go/internal/domain/policy"
	"github.com/andrescamacho/factorysim-go/internal/domain/production"
)

func TestRequestPolicies(t *testing.T) {
	// Arrange
	ids := production.NewRequestIDs()
	metal, err := production.NewRecipe("metal", nil, 1)
	require.NoError(t, err)
	slowBolt, err := production.NewRecipe("bolt", []production.Ingredient{{Name: "metal", Quantity: 1}}, 5)
	require.NoError(t, err)
	quickPin, err := production.NewRecipe("pin", []production.Ingredient{{Name: "metal", Quantity: 1}}, 2)
	require.NoError(t, err)
	blocked, err := production.NewRecipe("door", []production.Ingredient{{Name: "wood", Quantity: 1}}, 1)
	require.NoError(t, err)

	head := production.NewRequest(ids, blocked, "", true)
	bolt := production.NewRequest(ids, slowBolt, "", true)
	pin := production.NewRequest(ids, quickPin, "", true)
	pin2 := production.NewRequest(ids, quickPin, "", true)
	raw := production.NewRequest(ids, metal, "", true)
	queue := []*production.Request{head, bolt, pin, pin2}

	inv := production.NewInventory()
	inv.Add("metal", 1)

	// Act & Assert
	assert.Same(t, head, policy.FifoPolicy{}.Select(queue, inv), "fifo ignores readiness")
	assert.Same(t, bolt, policy.ReadyPolicy{}.Select(queue, inv))
	assert.Same(t, pin, policy.SjfPolicy{}.Select(queue, inv), "sjf keeps the earliest of equal latencies")
	assert.Same(t, raw, policy.SjfPolicy{}.Select([]*production.Request{bolt, raw}, inv))

	assert.Nil(t, policy.FifoPolicy{}.Select(nil, inv))
	assert.Nil(t, policy.ReadyPolicy{}.Select([]*production.Request{head}, inv))
	assert.Nil(t, policy.SjfPolicy{}.Select([]*production.Request{head}, inv))
}
