package policy_test

import (
	"fmt"

	"github.com/andrescamacho/factorysim-go/internal/domain/policy"
	"github.com/andrescamacho/factorysim-go/internal/domain/production"
)

// fakeNode is a hand-wired building view for exercising policies without the facility package
type fakeNode struct {
	name      string
	produces  map[string]bool
	requests  []*production.Request
	current   *production.Request
	timeLeft  int
	inventory production.Inventory
	stored    *int
	suppliers []policy.Node
	qlen      int
	simpleLat int
}

func newFakeNode(name string, produces ...string) *fakeNode {
	n := &fakeNode{name: name, produces: map[string]bool{}, inventory: production.NewInventory()}
	for _, p := range produces {
		n.produces[p] = true
	}
	return n
}

func (n *fakeNode) Name() string { return n.name }

func (n *fakeNode) CapableOf(product string) error {
	if n.produces[product] {
		return nil
	}
	return fmt.Errorf("'%s' cannot produce '%s'", n.name, product)
}

func (n *fakeNode) QueueLength() int                 { return n.qlen }
func (n *fakeNode) SimpleLatency() int               { return n.simpleLat }
func (n *fakeNode) Requests() []*production.Request { return n.requests }

func (n *fakeNode) CurrentRequest() (*production.Request, int) { return n.current, n.timeLeft }
func (n *fakeNode) InventoryCount(item string) int             { return n.inventory.Count(item) }
func (n *fakeNode) Suppliers() []policy.Node                   { return n.suppliers }

func (n *fakeNode) StoredAmount() (int, bool) {
	if n.stored == nil {
		return 0, false
	}
	return *n.stored, true
}

func storageNode(name, item string, amount int) *fakeNode {
	n := newFakeNode(name, item)
	n.stored = &amount
	return n
}
