package policy

import (
	"math"
	"sort"

	"github.com/andrescamacho/factorysim-go/internal/domain/production"
)

// Unreachable is the estimate for work no reachable source can perform
const Unreachable = math.MaxInt32

// RecursiveLatPolicy estimates, for each candidate, how long its whole queue takes once the
// inputs each queued request still needs have been produced upstream
type RecursiveLatPolicy struct {
	recipes RecipeLookup
}

func NewRecursiveLatPolicy(recipes RecipeLookup) *RecursiveLatPolicy {
	return &RecursiveLatPolicy{recipes: recipes}
}

func (p *RecursiveLatPolicy) Name() string { return RecursiveLatPolicyName }

func (p *RecursiveLatPolicy) SelectSource(candidates []Node, ingredient string, metrics map[string]int) Node {
	return selectMinimum(candidates, ingredient, metrics, p.QueueEstimate)
}

// QueueEstimate sums the estimates of every request queued at n. Each request is estimated
// against a fresh ledger.
func (p *RecursiveLatPolicy) QueueEstimate(n Node) int {
	total := 0
	for _, r := range n.Requests() {
		total = saturatingAdd(total, p.Estimate(r, n))
	}
	return total
}

// Estimate returns the ticks until n can have req done
func (p *RecursiveLatPolicy) Estimate(req *production.Request, n Node) int {
	e := &estimator{recipes: p.recipes, onPath: make(map[string]bool)}
	return e.estimate(req, n, newLedger(), e.newBranch())
}

type estimator struct {
	recipes    RecipeLookup
	onPath     map[string]bool
	lastBranch int
}

type ranked struct {
	cost   int
	ledger *ledger
}

func (e *estimator) newBranch() int {
	e.lastBranch++
	return e.lastBranch
}

func (e *estimator) estimate(req *production.Request, n Node, led *ledger, branch int) int {
	if current, left := n.CurrentRequest(); current != nil && current.ID() == req.ID() &&
		current.State() == production.RequestWorking {
		return left
	}
	if e.onPath[n.Name()] {
		return Unreachable
	}
	e.onPath[n.Name()] = true
	defer delete(e.onPath, n.Name())

	if amount, ok := n.StoredAmount(); ok {
		return e.estimateStorage(req, n, amount, led, branch)
	}

	recipe := req.Recipe()
	if recipe == nil {
		return 0
	}
	total := recipe.Latency()
	for _, ing := range recipe.Ingredients() {
		available := n.InventoryCount(ing.Name) - led.reserved(n.Name(), ing.Name)
		taken := clamp(available, 0, ing.Quantity)
		led.reserve(n.Name(), ing.Name, branch, taken)

		for remaining := ing.Quantity - taken; remaining > 0; {
			subRecipe, ok := e.recipes.Recipe(ing.Name)
			if !ok {
				return Unreachable
			}
			results := e.rank(production.NewProbeRequest(subRecipe), n.Suppliers(), ing.Name, led)
			if len(results) == 0 {
				break
			}
			batch := remaining
			if batch > len(results) {
				batch = len(results)
			}
			// suppliers work in parallel, so a batch takes as long as its slowest member
			total = saturatingAdd(total, results[batch-1].cost)
			for _, r := range results[:batch] {
				led.merge(r.ledger)
			}
			remaining -= batch
		}
	}
	return total
}

func (e *estimator) estimateStorage(req *production.Request, n Node, amount int, led *ledger, branch int) int {
	item := req.Output()
	if amount-led.reserved(n.Name(), item) >= 1 {
		led.reserve(n.Name(), item, branch, 1)
		return 0
	}
	results := e.rank(req, n.Suppliers(), item, led)
	if len(results) == 0 {
		return Unreachable
	}
	led.merge(results[0].ledger)
	return results[0].cost
}

// rank estimates req at every capable supplier on its own branch and sorts cheapest first.
// Equal estimates keep declaration order.
func (e *estimator) rank(req *production.Request, suppliers []Node, item string, led *ledger) []ranked {
	var results []ranked
	for _, s := range suppliers {
		if s.CapableOf(item) != nil {
			continue
		}
		child := led.clone()
		cost := e.estimate(req, s, child, e.newBranch())
		results = append(results, ranked{cost: cost, ledger: child})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].cost < results[j].cost
	})
	return results
}

func saturatingAdd(a, b int) int {
	if a >= Unreachable-b {
		return Unreachable
	}
	return a + b
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
