package production

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
)

// Ingredient is one entry of a recipe's ordered ingredient list
type Ingredient struct {
	Name     string
	Quantity int
}

// Recipe is an immutable production rule. Ingredient order is significant: sub-requests are
// allocated in that order.
type Recipe struct {
	output      string
	ingredients []Ingredient
	latency     int
	waste       string
	wasteAmount int
}

// NewRecipe creates a recipe without a waste byproduct
func NewRecipe(output string, ingredients []Ingredient, latency int) (*Recipe, error) {
	return NewWasteRecipe(output, ingredients, latency, "", 0)
}

// NewWasteRecipe creates a recipe that leaves wasteAmount units of waste after each run.
// An empty waste name means no byproduct.
func NewWasteRecipe(output string, ingredients []Ingredient, latency int, waste string, wasteAmount int) (*Recipe, error) {
	if output == "" {
		return nil, shared.NewValidationError("output", "must not be empty")
	}
	if strings.Contains(output, "'") {
		return nil, shared.NewValidationError("output", fmt.Sprintf("'%s' must not contain a quote", output))
	}
	if latency < 1 {
		return nil, shared.NewValidationError("latency", fmt.Sprintf("must be at least 1, got %d", latency))
	}
	seen := make(map[string]bool, len(ingredients))
	for _, ing := range ingredients {
		if ing.Name == "" || ing.Quantity < 1 {
			return nil, shared.NewValidationError("ingredients",
				fmt.Sprintf("invalid ingredient '%s' x%d in '%s'", ing.Name, ing.Quantity, output))
		}
		if seen[ing.Name] {
			return nil, shared.NewValidationError("ingredients",
				fmt.Sprintf("duplicate ingredient '%s' in '%s'", ing.Name, output))
		}
		seen[ing.Name] = true
	}
	if waste != "" && wasteAmount < 1 {
		return nil, shared.NewValidationError("wasteAmount", fmt.Sprintf("must be at least 1 for waste '%s'", waste))
	}
	if waste == "" {
		wasteAmount = 0
	}

	ings := make([]Ingredient, len(ingredients))
	copy(ings, ingredients)
	return &Recipe{
		output:      output,
		ingredients: ings,
		latency:     latency,
		waste:       waste,
		wasteAmount: wasteAmount,
	}, nil
}

func (r *Recipe) Output() string {
	return r.output
}

func (r *Recipe) Latency() int {
	return r.latency
}

// Ingredients returns the ordered ingredient list
func (r *Recipe) Ingredients() []Ingredient {
	out := make([]Ingredient, len(r.ingredients))
	copy(out, r.ingredients)
	return out
}

// Quantity returns how many units of name one run consumes
func (r *Recipe) Quantity(name string) int {
	for _, ing := range r.ingredients {
		if ing.Name == name {
			return ing.Quantity
		}
	}
	return 0
}

func (r *Recipe) Waste() string {
	return r.waste
}

func (r *Recipe) WasteAmount() int {
	return r.wasteAmount
}

func (r *Recipe) HasWaste() bool {
	return r.waste != ""
}

// IsRawResource reports whether the recipe needs no ingredients
func (r *Recipe) IsRawResource() bool {
	return len(r.ingredients) == 0
}

func (r *Recipe) String() string {
	return r.output
}
