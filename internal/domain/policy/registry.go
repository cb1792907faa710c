package policy

import (
	"strings"

	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
)

// Registry resolves policy names. Lookups ignore case, so "simpleLat" and "simplelat" match.
type Registry struct {
	requestPolicies map[string]RequestPolicy
	sourcePolicies  map[string]SourcePolicy
}

func NewRegistry(recipes RecipeLookup) *Registry {
	return &Registry{
		requestPolicies: map[string]RequestPolicy{
			FifoPolicyName:  FifoPolicy{},
			ReadyPolicyName: ReadyPolicy{},
			SjfPolicyName:   SjfPolicy{},
		},
		sourcePolicies: map[string]SourcePolicy{
			QlenPolicyName:         QlenPolicy{},
			SimpleLatPolicyName:    SimpleLatPolicy{},
			RecursiveLatPolicyName: NewRecursiveLatPolicy(recipes),
		},
	}
}

func (r *Registry) RequestPolicy(name string) (RequestPolicy, error) {
	if p, ok := r.requestPolicies[strings.ToLower(name)]; ok {
		return p, nil
	}
	return nil, shared.NewInvalidReferenceError("request policy", name)
}

func (r *Registry) SourcePolicy(name string) (SourcePolicy, error) {
	if p, ok := r.sourcePolicies[strings.ToLower(name)]; ok {
		return p, nil
	}
	return nil, shared.NewInvalidReferenceError("source policy", name)
}
