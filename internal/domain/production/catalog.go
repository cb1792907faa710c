package production

import "fmt"

// Catalog holds the recipes and factory types known to a simulation, in declaration order
type Catalog struct {
	recipeOrder []string
	recipes     map[string]*Recipe
	typeOrder   []string
	types       map[string]*FactoryType
}

func NewCatalog() *Catalog {
	return &Catalog{
		recipes: make(map[string]*Recipe),
		types:   make(map[string]*FactoryType),
	}
}

func (c *Catalog) AddRecipe(r *Recipe) error {
	if _, exists := c.recipes[r.Output()]; exists {
		return fmt.Errorf("recipe '%s' already defined", r.Output())
	}
	c.recipes[r.Output()] = r
	c.recipeOrder = append(c.recipeOrder, r.Output())
	return nil
}

// Recipe looks up a recipe by output name
func (c *Catalog) Recipe(output string) (*Recipe, bool) {
	r, ok := c.recipes[output]
	return r, ok
}

func (c *Catalog) Recipes() []*Recipe {
	out := make([]*Recipe, 0, len(c.recipeOrder))
	for _, name := range c.recipeOrder {
		out = append(out, c.recipes[name])
	}
	return out
}

func (c *Catalog) AddFactoryType(t *FactoryType) error {
	if _, exists := c.types[t.Name()]; exists {
		return fmt.Errorf("factory type '%s' already defined", t.Name())
	}
	c.types[t.Name()] = t
	c.typeOrder = append(c.typeOrder, t.Name())
	return nil
}

func (c *Catalog) FactoryType(name string) (*FactoryType, bool) {
	t, ok := c.types[name]
	return t, ok
}

func (c *Catalog) FactoryTypes() []*FactoryType {
	out := make([]*FactoryType, 0, len(c.typeOrder))
	for _, name := range c.typeOrder {
		out = append(out, c.types[name])
	}
	return out
}
