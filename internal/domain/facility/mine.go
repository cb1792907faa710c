package facility

import (
	"fmt"

	"github.com/andrescamacho/factorysim-go/internal/domain/production"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
)

// Mine produces a single raw resource with no ingredients
type Mine struct {
	recipe *production.Recipe
}

func NewMine(name string, recipe *production.Recipe, world World) *Building {
	return newBuilding(name, world, &Mine{recipe: recipe})
}

func (b *Building) Mine() (*Mine, bool) {
	m, ok := b.behavior.(*Mine)
	return m, ok
}

func (m *Mine) Recipe() *production.Recipe {
	return m.recipe
}

func (m *Mine) kind() Kind {
	return KindMine
}

func (m *Mine) recipes() []*production.Recipe {
	return []*production.Recipe{m.recipe}
}

func (m *Mine) mayProduce(product string) bool {
	return m.recipe.Output() == product
}

func (m *Mine) capableOf(b *Building, product string, _ map[string]bool) error {
	if err := b.beingRemoved(product); err != nil {
		return err
	}
	if !m.mayProduce(product) {
		return shared.NewCapabilityError(b.name, product,
			fmt.Sprintf("mine '%s' cannot produce '%s'", b.name, product))
	}
	return nil
}

func (m *Mine) step(b *Building) error {
	return b.runQueue()
}

func (m *Mine) finished(b *Building) bool {
	return b.baseFinished()
}

func (m *Mine) readyForRemoval(b *Building) bool {
	return b.baseFinished()
}
