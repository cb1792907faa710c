package policy

const (
	QlenPolicyName         = "qlen"
	SimpleLatPolicyName    = "simplelat"
	RecursiveLatPolicyName = "recursivelat"
)

// selectMinimum picks the capable candidate with the strictly smallest metric, so earlier
// declarations win ties
func selectMinimum(candidates []Node, ingredient string, metrics map[string]int, metric func(Node) int) Node {
	var best Node
	bestValue := 0
	for _, c := range candidates {
		if c.CapableOf(ingredient) != nil {
			continue
		}
		v := metric(c)
		if metrics != nil {
			metrics[c.Name()] = v
		}
		if best == nil || v < bestValue {
			best, bestValue = c, v
		}
	}
	return best
}

// QlenPolicy prefers the source with the fewest pending requests
type QlenPolicy struct{}

func (QlenPolicy) Name() string { return QlenPolicyName }

func (QlenPolicy) SelectSource(candidates []Node, ingredient string, metrics map[string]int) Node {
	return selectMinimum(candidates, ingredient, metrics, Node.QueueLength)
}

// SimpleLatPolicy prefers the source with the least queued work
type SimpleLatPolicy struct{}

func (SimpleLatPolicy) Name() string { return SimpleLatPolicyName }

func (SimpleLatPolicy) SelectSource(candidates []Node, ingredient string, metrics map[string]int) Node {
	return selectMinimum(candidates, ingredient, metrics, Node.SimpleLatency)
}
