package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/colornames"

	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	"github.com/andrescamacho/factorysim-go/internal/domain/grid"
	"github.com/andrescamacho/factorysim-go/internal/domain/simulation"
)

// Scheme sets how each kind of square is coloured
type Scheme struct {
	Background color.Color
	Roads      color.Color
	Arrows     color.Color
	Drones     color.Color
	Labels     color.Color
	Buildings  map[facility.Kind]color.Color
}

func DefaultScheme() *Scheme {
	return &Scheme{
		Background: colornames.White,
		Roads:      colornames.Dimgray,
		Arrows:     colornames.Lightgray,
		Drones:     colornames.Crimson,
		Labels:     colornames.Black,
		Buildings: map[facility.Kind]color.Color{
			facility.KindFactory:       colornames.Steelblue,
			facility.KindMine:          colornames.Saddlebrown,
			facility.KindStorage:       colornames.Goldenrod,
			facility.KindWasteDisposal: colornames.Olivedrab,
			facility.KindDronePort:     colornames.Mediumpurple,
		},
	}
}

// Options for PNG rendering. CellSize is in pixels.
type Options struct {
	CellSize int
	Margin   int
	Labels   bool
	Scheme   *Scheme
}

func (o Options) withDefaults() Options {
	if o.CellSize <= 0 {
		o.CellSize = 24
	}
	if o.Margin < 0 {
		o.Margin = 0
	}
	if o.Scheme == nil {
		o.Scheme = DefaultScheme()
	}
	return o
}

// canvas maps grid coordinates to pixels. Rows grow upward on the grid and downward in the image.
type canvas struct {
	ctx      *gg.Context
	min, max grid.Coordinate
	cell     float64
	margin   float64
}

func (c *canvas) topLeft(row, col float64) (float64, float64) {
	x := c.margin + (col-float64(c.min.Col))*c.cell
	y := c.margin + (float64(c.max.Row)-row)*c.cell
	return x, y
}

func (c *canvas) centre(row, col float64) (float64, float64) {
	x, y := c.topLeft(row, col)
	return x + c.cell/2, y + c.cell/2
}

// Draw renders the grid, its buildings, roads and drones into a new context
func Draw(s *simulation.Simulation, opts Options) (*gg.Context, error) {
	opts = opts.withDefaults()
	min, max, ok := s.Grid().Bounds()
	if !ok {
		return nil, fmt.Errorf("nothing to render: the grid is empty")
	}

	cols := max.Col - min.Col + 1
	rows := max.Row - min.Row + 1
	width := cols*opts.CellSize + 2*opts.Margin
	height := rows*opts.CellSize + 2*opts.Margin
	c := &canvas{
		ctx:    gg.NewContext(width, height),
		min:    min,
		max:    max,
		cell:   float64(opts.CellSize),
		margin: float64(opts.Margin),
	}
	scheme := opts.Scheme

	c.ctx.SetColor(scheme.Background)
	c.ctx.Clear()

	for _, r := range s.Grid().Roads() {
		drawRoad(c, r, scheme)
	}
	for _, b := range s.Buildings() {
		drawBuilding(c, b, scheme, opts.Labels)
	}
	for _, port := range s.DronePorts() {
		p, _ := port.DronePort()
		for _, d := range p.Drones() {
			if !d.InUse() {
				continue
			}
			row, col := d.Position()
			x, y := c.centre(row, col)
			c.ctx.SetColor(scheme.Drones)
			c.ctx.DrawCircle(x, y, c.cell/5)
			c.ctx.Fill()
		}
	}
	return c.ctx, nil
}

func drawRoad(c *canvas, r *grid.Road, scheme *Scheme) {
	at := r.Coordinate()
	x, y := c.topLeft(float64(at.Row), float64(at.Col))
	c.ctx.SetColor(scheme.Roads)
	c.ctx.DrawRectangle(x, y, c.cell, c.cell)
	c.ctx.Fill()

	d, ok := r.Direction()
	if !ok {
		return
	}
	cx, cy := c.centre(float64(at.Row), float64(at.Col))
	// image y grows downward, grid rows grow upward
	dx, dy := float64(d.DCol)*c.cell/3, -float64(d.DRow)*c.cell/3
	c.ctx.SetColor(scheme.Arrows)
	c.ctx.SetLineWidth(2)
	c.ctx.SetLineCapRound()
	c.ctx.DrawLine(cx-dx, cy-dy, cx+dx, cy+dy)
	c.ctx.Stroke()
	c.ctx.DrawCircle(cx+dx, cy+dy, 2.5)
	c.ctx.Fill()
}

func drawBuilding(c *canvas, b *facility.Building, scheme *Scheme, labels bool) {
	at, ok := b.Coordinate()
	if !ok {
		return
	}
	fill, ok := scheme.Buildings[b.Kind()]
	if !ok {
		fill = colornames.Gray
	}
	x, y := c.topLeft(float64(at.Row), float64(at.Col))
	c.ctx.SetColor(fill)
	c.ctx.DrawRoundedRectangle(x+1, y+1, c.cell-2, c.cell-2, c.cell/6)
	c.ctx.Fill()

	if labels {
		cx, cy := c.centre(float64(at.Row), float64(at.Col))
		c.ctx.SetColor(scheme.Labels)
		c.ctx.DrawStringAnchored(b.Name(), cx, cy, 0.5, 0.5)
	}
}

// PNG writes the rendered simulation to w
func PNG(s *simulation.Simulation, w io.Writer, opts Options) error {
	ctx, err := Draw(s, opts)
	if err != nil {
		return err
	}
	return ctx.EncodePNG(w)
}

// SavePNG writes the rendered simulation to path
func SavePNG(s *simulation.Simulation, path string, opts Options) error {
	ctx, err := Draw(s, opts)
	if err != nil {
		return err
	}
	return ctx.SavePNG(path)
}
