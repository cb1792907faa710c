package policy

import "github.com/andrescamacho/factorysim-go/internal/domain/production"

const (
	FifoPolicyName  = "fifo"
	ReadyPolicyName = "ready"
	SjfPolicyName   = "sjf"
)

// FifoPolicy returns the head of the queue without checking readiness
type FifoPolicy struct{}

func (FifoPolicy) Name() string { return FifoPolicyName }

func (FifoPolicy) Select(queue []*production.Request, _ production.Inventory) *production.Request {
	if len(queue) == 0 {
		return nil
	}
	return queue[0]
}

// ReadyPolicy returns the first request whose inputs are all on hand
type ReadyPolicy struct{}

func (ReadyPolicy) Name() string { return ReadyPolicyName }

func (ReadyPolicy) Select(queue []*production.Request, inv production.Inventory) *production.Request {
	for _, r := range queue {
		if r.IsReady(inv) {
			return r
		}
	}
	return nil
}

// SjfPolicy returns the ready request with the smallest latency, earliest first on ties
type SjfPolicy struct{}

func (SjfPolicy) Name() string { return SjfPolicyName }

func (SjfPolicy) Select(queue []*production.Request, inv production.Inventory) *production.Request {
	var best *production.Request
	for _, r := range queue {
		if !r.IsReady(inv) {
			continue
		}
		if best == nil || r.Latency() < best.Latency() {
			best = r
		}
	}
	return best
}
