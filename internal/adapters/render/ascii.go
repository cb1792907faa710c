package render

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	"github.com/andrescamacho/factorysim-go/internal/domain/grid"
	"github.com/andrescamacho/factorysim-go/internal/domain/simulation"
)

var kindSymbols = map[facility.Kind]byte{
	facility.KindFactory:       'F',
	facility.KindMine:          'M',
	facility.KindStorage:       'S',
	facility.KindWasteDisposal: 'W',
	facility.KindDronePort:     'P',
}

func roadSymbol(r *grid.Road) byte {
	d, ok := r.Direction()
	if !ok {
		return '+'
	}
	switch d {
	case grid.Up:
		return '^'
	case grid.Down:
		return 'v'
	case grid.Left:
		return '<'
	default:
		return '>'
	}
}

// ASCII draws the occupied part of the grid, highest row first, followed by a legend of the
// buildings. Empty cells are dots.
func ASCII(s *simulation.Simulation) string {
	g := s.Grid()
	min, max, ok := g.Bounds()
	if !ok {
		return "(empty grid)\n"
	}

	var sb strings.Builder
	for row := max.Row; row >= min.Row; row-- {
		fmt.Fprintf(&sb, "%4d ", row)
		for col := min.Col; col <= max.Col; col++ {
			sb.WriteByte(cellSymbol(s, g, grid.NewCoordinate(row, col)))
		}
		sb.WriteByte('\n')
	}

	sb.WriteByte('\n')
	for _, b := range s.Buildings() {
		c, _ := b.Coordinate()
		fmt.Fprintf(&sb, "%c %-12s %-10s %s\n", kindSymbols[b.Kind()], b.Name(), c, b.Kind())
	}
	return sb.String()
}

func cellSymbol(s *simulation.Simulation, g *grid.Grid, c grid.Coordinate) byte {
	square, ok := g.At(c)
	if !ok {
		return '.'
	}
	if square.IsRoad() {
		return roadSymbol(square.Road())
	}
	if b, ok := s.Lookup(square.Building()); ok {
		if sym, ok := kindSymbols[b.Kind()]; ok {
			return sym
		}
	}
	return '?'
}
