// Package terminal hosts the simulation in a text terminal using tcell.
// Each cell stands for a CellWidth x CellHeight block of logical pixels.
package terminal

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ayusman/cyberbamboo/internal/render"
	"github.com/ayusman/cyberbamboo/internal/vmath"
)

// Logical pixels per terminal cell.
const (
	CellWidth  = 8
	CellHeight = 16
)

// shades are ordered from faintest to solid.
var shades = []rune{'░', '▒', '▓', '█'}

// CellSurface rasterises canvas paths onto a tcell screen. Fills use the
// even-odd rule sampled at cell centres; a path too small to cover any
// centre still marks the cell holding its centroid.
type CellSurface struct {
	render.Context
	screen tcell.Screen
	cols   int
	rows   int
	bg     colorful.Color
}

// NewCellSurface creates a surface over screen sized to its current size.
func NewCellSurface(screen tcell.Screen) *CellSurface {
	s := &CellSurface{
		Context: render.NewContext(),
		screen:  screen,
		bg:      render.Background,
	}
	s.Resize(screen.Size())
	return s
}

// Resize sets the grid size in cells.
func (s *CellSurface) Resize(cols, rows int) {
	s.cols, s.rows = cols, rows
}

// LogicalSize returns the pixel space the grid represents.
func (s *CellSurface) LogicalSize() (width, height float64) {
	return float64(s.cols * CellWidth), float64(s.rows * CellHeight)
}

func (s *CellSurface) Clear() {
	s.ResetState()
	s.screen.Fill(' ', s.style(s.bg))
}

func (s *CellSurface) Fill() {
	cells := s.fillCells()
	s.paint(cells, s.FillColor())
}

func (s *CellSurface) Stroke() {
	cells := s.strokeCells()
	s.paint(cells, s.StrokeColor())
}

// FillText writes text starting at the cell containing (x, y).
func (s *CellSurface) FillText(text string, x, y float64) {
	dx, dy := s.Transform().Apply(x, y)
	col, row := int(math.Floor(dx/CellWidth)), int(math.Floor(dy/CellHeight))
	if row < 0 || row >= s.rows {
		return
	}

	fg, _ := s.shade(s.FillColor())
	st := s.style(s.bg).Foreground(toTcell(fg))
	for _, r := range text {
		if col >= 0 && col < s.cols {
			s.screen.SetContent(col, row, r, nil, st)
		}
		col++
	}
}

type cell struct{ col, row int }

// fillCells returns the cells whose centres lie inside the current path.
func (s *CellSurface) fillCells() []cell {
	min, max, ok := s.Bounds()
	if !ok {
		return nil
	}

	c0, r0 := s.clampCell(min)
	c1, r1 := s.clampCell(max)
	subpaths := s.Subpaths()

	var out []cell
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			centre := vmath.Vec2{
				X: (float64(col) + 0.5) * CellWidth,
				Y: (float64(row) + 0.5) * CellHeight,
			}
			if insideEvenOdd(centre, subpaths) {
				out = append(out, cell{col, row})
			}
		}
	}

	if len(out) == 0 {
		centroid := vmath.Vec2{X: (min.X + max.X) / 2, Y: (min.Y + max.Y) / 2}
		if c, ok := s.cellAt(centroid); ok {
			out = append(out, c)
		}
	}
	return out
}

// strokeCells returns the cells touched by every segment of the path.
func (s *CellSurface) strokeCells() []cell {
	seen := make(map[cell]bool)
	var out []cell
	mark := func(p vmath.Vec2) {
		if c, ok := s.cellAt(p); ok && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}

	for _, sp := range s.Subpaths() {
		if len(sp) == 1 {
			mark(sp[0])
		}
		for i := 1; i < len(sp); i++ {
			a, b := sp[i-1], sp[i]
			// Step at most half a cell so no cell along the line is skipped.
			steps := int(math.Ceil(math.Max(
				math.Abs(b.X-a.X)/(CellWidth/2),
				math.Abs(b.Y-a.Y)/(CellHeight/2),
			)))
			if steps < 1 {
				steps = 1
			}
			for k := 0; k <= steps; k++ {
				mark(vmath.LerpVec(a, b, float64(k)/float64(steps)))
			}
		}
	}
	return out
}

func (s *CellSurface) paint(cells []cell, c color.Color) {
	if len(cells) == 0 {
		return
	}
	fg, glyph := s.shade(c)
	if glyph == 0 {
		return
	}
	st := s.style(s.bg).Foreground(toTcell(fg))
	for _, cl := range cells {
		s.screen.SetContent(cl.col, cl.row, glyph, nil, st)
	}
}

// shade folds global and colour alpha into a glyph density and a colour
// blended toward the background. A zero glyph means fully transparent.
func (s *CellSurface) shade(c color.Color) (colorful.Color, rune) {
	r, g, b, a := render.Straight(c)
	alpha := vmath.Clamp(float64(a)*s.GlobalAlpha(), 0, 1)
	if alpha <= 0 {
		return s.bg, 0
	}

	base := colorful.Color{R: float64(r), G: float64(g), B: float64(b)}
	blended := s.bg.BlendRgb(base, alpha).Clamped()

	idx := int(math.Ceil(alpha*float64(len(shades)))) - 1
	if idx < 0 {
		idx = 0
	}
	return blended, shades[idx]
}

func (s *CellSurface) cellAt(p vmath.Vec2) (cell, bool) {
	col := int(math.Floor(p.X / CellWidth))
	row := int(math.Floor(p.Y / CellHeight))
	if col < 0 || col >= s.cols || row < 0 || row >= s.rows {
		return cell{}, false
	}
	return cell{col, row}, true
}

func (s *CellSurface) clampCell(p vmath.Vec2) (int, int) {
	col := int(vmath.Clamp(math.Floor(p.X/CellWidth), 0, float64(s.cols-1)))
	row := int(vmath.Clamp(math.Floor(p.Y/CellHeight), 0, float64(s.rows-1)))
	return col, row
}

func (s *CellSurface) style(bg colorful.Color) tcell.Style {
	return tcell.StyleDefault.Background(toTcell(bg))
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// insideEvenOdd reports whether p is inside the closed subpaths under the
// even-odd rule.
func insideEvenOdd(p vmath.Vec2, subpaths [][]vmath.Vec2) bool {
	inside := false
	for _, poly := range subpaths {
		n := len(poly)
		if n < 3 {
			continue
		}
		j := n - 1
		for i := 0; i < n; i++ {
			a, b := poly[i], poly[j]
			if (a.Y > p.Y) != (b.Y > p.Y) &&
				p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
				inside = !inside
			}
			j = i
		}
	}
	return inside
}
