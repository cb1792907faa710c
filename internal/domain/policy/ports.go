package policy

import "github.com/andrescamacho/factorysim-go/internal/domain/production"

// Node is the view of a building that source selection needs
type Node interface {
	Name() string

	// CapableOf returns nil when the building can currently take a request for product
	CapableOf(product string) error

	// QueueLength is the number of requests still to be served
	QueueLength() int

	// SimpleLatency sums queued recipe latencies; the in-progress request counts its time left
	SimpleLatency() int

	Requests() []*production.Request

	// CurrentRequest returns the request being worked and its remaining time
	CurrentRequest() (*production.Request, int)

	InventoryCount(item string) int

	// StoredAmount reports the buffered amount for buffering buildings
	StoredAmount() (int, bool)

	// Suppliers lists upstream sources in declaration order
	Suppliers() []Node
}

// RecipeLookup resolves recipes by output name
type RecipeLookup interface {
	Recipe(output string) (*production.Recipe, bool)
}

// RequestPolicy chooses which queued request a building works next
type RequestPolicy interface {
	Name() string
	Select(queue []*production.Request, inv production.Inventory) *production.Request
}

// SourcePolicy chooses which upstream building supplies an ingredient. metrics receives the
// per-candidate figure the choice was based on; it may be nil.
type SourcePolicy interface {
	Name() string
	SelectSource(candidates []Node, ingredient string, metrics map[string]int) Node
}
