package simulation

import (
	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	"github.com/andrescamacho/factorysim-go/internal/domain/grid"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
)

// PlacementRule decides whether a new building may occupy c
type PlacementRule interface {
	Check(g *grid.Grid, c grid.Coordinate) error
}

// PlacementChecker runs its rules in order and stops at the first refusal
type PlacementChecker struct {
	rules []PlacementRule
}

func NewPlacementChecker(rules ...PlacementRule) *PlacementChecker {
	return &PlacementChecker{rules: rules}
}

// Then returns a checker that also applies rule after the existing ones
func (p *PlacementChecker) Then(rule PlacementRule) *PlacementChecker {
	rules := make([]PlacementRule, 0, len(p.rules)+1)
	rules = append(rules, p.rules...)
	return &PlacementChecker{rules: append(rules, rule)}
}

func (p *PlacementChecker) Check(g *grid.Grid, c grid.Coordinate) error {
	for _, rule := range p.rules {
		if err := rule.Check(g, c); err != nil {
			return err
		}
	}
	return nil
}

// NoCollisionRule refuses a coordinate already taken by a building or a road
type NoCollisionRule struct{}

func (NoCollisionRule) Check(g *grid.Grid, c grid.Coordinate) error {
	if g.Occupied(c) {
		return shared.NewValidationError("coordinate",
			"That placement is invalid: the building overlaps another building.")
	}
	return nil
}

// autoPlacer hands out coordinates to buildings created without one: the first goes to the
// origin and each later one sits spacing rows and columns past the furthest placed building
type autoPlacer struct {
	spacing        int
	maxRow, maxCol int
}

func newAutoPlacer(spacing int) *autoPlacer {
	return &autoPlacer{spacing: spacing, maxRow: -1, maxCol: -1}
}

func (a *autoPlacer) place(b *facility.Building) {
	if a.maxRow == -1 && a.maxCol == -1 {
		a.maxRow, a.maxCol = 0, 0
	} else {
		a.maxRow += a.spacing
		a.maxCol += a.spacing
	}
	b.Place(grid.NewCoordinate(a.maxRow, a.maxCol))
}

func (a *autoPlacer) observe(c grid.Coordinate) {
	a.maxRow = max(a.maxRow, c.Row)
	a.maxCol = max(a.maxCol, c.Col)
}
