package render

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/decker502/particlefield/pkg/engine"
	"github.com/decker502/particlefield/pkg/utils"
)

// Default pixel size of one terminal cell. Cells are roughly twice as tall
// as they are wide.
const (
	DefaultCellWidth  = 8.0
	DefaultCellHeight = 16.0
)

// Glyphs used by the terminal renderer.
const (
	glyphSmall    = '·'
	glyphMedium   = '•'
	glyphLarge    = '●'
	glyphLink     = '.'
	glyphTriangle = '░'
)

// TerminalRenderer draws snapshots onto a tcell screen. Canvas coordinates
// are mapped to cells by CellWidth x CellHeight pixels per cell; opacity is
// rendered by blending towards the background colour.
type TerminalRenderer struct {
	screen     tcell.Screen
	CellWidth  float64
	CellHeight float64
	Background colorful.Color
}

// NewTerminalRenderer creates a renderer for screen with the default cell size.
func NewTerminalRenderer(screen tcell.Screen) *TerminalRenderer {
	return &TerminalRenderer{
		screen:     screen,
		CellWidth:  DefaultCellWidth,
		CellHeight: DefaultCellHeight,
	}
}

// CanvasSize returns the canvas size in pixels covered by the screen.
func (r *TerminalRenderer) CanvasSize() (width, height float64) {
	cols, rows := r.screen.Size()
	return float64(cols) * r.CellWidth, float64(rows) * r.CellHeight
}

// CanvasPoint converts a cell position to the canvas point at its centre.
func (r *TerminalRenderer) CanvasPoint(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * r.CellWidth, (float64(row) + 0.5) * r.CellHeight
}

// Cell converts a canvas point to a cell position.
func (r *TerminalRenderer) Cell(p utils.Vector) (col, row int) {
	return int(math.Floor(p.X / r.CellWidth)), int(math.Floor(p.Y / r.CellHeight))
}

// Draw renders snap and shows the screen.
func (r *TerminalRenderer) Draw(snap engine.Snapshot) {
	r.screen.Clear()

	for _, t := range snap.Triangles {
		centroid := utils.Vector{X: (t.A.X + t.B.X + t.C.X) / 3, Y: (t.A.Y + t.B.Y + t.C.Y) / 3}
		r.set(centroid, glyphTriangle, t.Color, t.Opacity)
	}
	for _, l := range snap.Links {
		r.line(l)
	}
	for _, l := range snap.MouseLinks {
		r.line(l)
	}
	for _, p := range snap.Particles {
		if p.Opacity <= 0 {
			continue
		}
		r.set(p.Position, glyphFor(p.Size, r.CellWidth), p.Color, p.Opacity)
	}

	r.screen.Show()
}

// line plots a link with one glyph per cell along its length.
func (r *TerminalRenderer) line(l engine.LinkView) {
	if l.Opacity <= 0 {
		return
	}
	dist := utils.GetDistances(l.To, l.From)
	steps := int(math.Max(math.Abs(dist.DX)/r.CellWidth, math.Abs(dist.DY)/r.CellHeight))
	for i := 1; i < steps; i++ {
		f := float64(i) / float64(steps)
		r.set(utils.Vector{X: l.From.X + dist.DX*f, Y: l.From.Y + dist.DY*f}, glyphLink, l.Color, l.Opacity)
	}
}

func (r *TerminalRenderer) set(p utils.Vector, glyph rune, c color.RGBA, opacity float64) {
	col, row := r.Cell(p)
	cols, rows := r.screen.Size()
	if col < 0 || row < 0 || col >= cols || row >= rows {
		return
	}
	style := tcell.StyleDefault.Foreground(r.blend(c, opacity))
	r.screen.SetContent(col, row, glyph, nil, style)
}

// blend mixes c towards the background by 1-opacity.
func (r *TerminalRenderer) blend(c color.RGBA, opacity float64) tcell.Color {
	fg, _ := colorful.MakeColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
	mixed := r.Background.BlendRgb(fg, utils.Clamp(opacity, 0, 1)).Clamped()
	cr, cg, cb := mixed.RGB255()
	return tcell.NewRGBColor(int32(cr), int32(cg), int32(cb))
}

// glyphFor picks a glyph by particle radius relative to the cell width.
func glyphFor(size, cellWidth float64) rune {
	switch {
	case size*2 >= cellWidth:
		return glyphLarge
	case size*4 >= cellWidth:
		return glyphMedium
	default:
		return glyphSmall
	}
}
