package production

import "github.com/andrescamacho/factorysim-go/internal/domain/shared"

// FactoryType is a named, non-empty list of recipes a factory can run
type FactoryType struct {
	name    string
	recipes []*Recipe
}

func NewFactoryType(name string, recipes []*Recipe) (*FactoryType, error) {
	if name == "" {
		return nil, shared.NewValidationError("name", "factory type name must not be empty")
	}
	if len(recipes) == 0 {
		return nil, shared.NewValidationError("recipes", "factory type '"+name+"' needs at least one recipe")
	}
	rs := make([]*Recipe, len(recipes))
	copy(rs, recipes)
	return &FactoryType{name: name, recipes: rs}, nil
}

func (t *FactoryType) Name() string {
	return t.name
}

func (t *FactoryType) Recipes() []*Recipe {
	out := make([]*Recipe, len(t.recipes))
	copy(out, t.recipes)
	return out
}

// Recipe finds the recipe producing output
func (t *FactoryType) Recipe(output string) (*Recipe, bool) {
	for _, r := range t.recipes {
		if r.Output() == output {
			return r, true
		}
	}
	return nil, false
}
