package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim-go/internal/domain/policy"
)

func TestSimpleSourcePolicies_ReturnNilWhenNoCandidateIsCapable(t *testing.T) {
	a := newFakeNode("a", "wood")
	b := newFakeNode("b", "wood")
	candidates := []policy.Node{a, b}

	for _, p := range []policy.SourcePolicy{policy.QlenPolicy{}, policy.SimpleLatPolicy{}} {
		t.Run(p.Name(), func(t *testing.T) {
			metrics := map[string]int{}
			assert.Nil(t, p.SelectSource(candidates, "metal", metrics))
			assert.Empty(t, metrics)
		})
	}
}

func TestSimpleSourcePolicies_BreakTiesByDeclarationOrder(t *testing.T) {
	first := newFakeNode("first", "metal")
	second := newFakeNode("second", "metal")
	first.qlen, second.qlen = 2, 2
	first.simpleLat, second.simpleLat = 5, 5

	for _, p := range []policy.SourcePolicy{policy.QlenPolicy{}, policy.SimpleLatPolicy{}} {
		t.Run(p.Name(), func(t *testing.T) {
			assert.Same(t, first, p.SelectSource([]policy.Node{first, second}, "metal", nil))
			assert.Same(t, second, p.SelectSource([]policy.Node{second, first}, "metal", nil))
		})
	}
}

func TestQlenPolicy_PicksShortestQueueAndRecordsMetrics(t *testing.T) {
	// Arrange
	busy := newFakeNode("busy", "metal")
	idle := newFakeNode("idle", "metal")
	unable := newFakeNode("unable", "wood")
	busy.qlen, idle.qlen, unable.qlen = 3, 1, 0
	metrics := map[string]int{}

	// Act
	chosen := policy.QlenPolicy{}.SelectSource([]policy.Node{busy, unable, idle}, "metal", metrics)

	// Assert
	assert.Same(t, idle, chosen)
	assert.Equal(t, map[string]int{"busy": 3, "idle": 1}, metrics)
}

func TestSimpleLatPolicy_PicksLeastQueuedWork(t *testing.T) {
	slow := newFakeNode("slow", "metal")
	fast := newFakeNode("fast", "metal")
	slow.simpleLat, fast.simpleLat = 10, 4

	chosen := policy.SimpleLatPolicy{}.SelectSource([]policy.Node{slow, fast}, "metal", nil)

	assert.Same(t, fast, chosen)
}

func TestRegistry_LookupIgnoresCase(t *testing.T) {
	r := policy.NewRegistry(newCatalog(t))

	p, err := r.SourcePolicy("recursiveLat")
	require.NoError(t, err)
	assert.Equal(t, policy.RecursiveLatPolicyName, p.Name())

	p, err = r.SourcePolicy("simpleLat")
	require.NoError(t, err)
	assert.Equal(t, policy.SimpleLatPolicyName, p.Name())

	rp, err := r.RequestPolicy("SJF")
	require.NoError(t, err)
	assert.Equal(t, policy.SjfPolicyName, rp.Name())

	_, err = r.RequestPolicy("lifo")
	assert.EqualError(t, err, "invalid request policy name 'lifo'")
}
