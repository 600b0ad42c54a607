package render

import (
	"image/color"
	"math"

	"github.com/ayusman/cyberbamboo/internal/vmath"
)

// Flattening resolution for curves.
const (
	QuadSegments = 8
	ArcSegments  = 32
)

type drawState struct {
	transform Affine
	alpha     float64
	fill      color.Color
	stroke    color.Color
	lineWidth float64
}

func defaultState() drawState {
	return drawState{
		transform: Identity,
		alpha:     1,
		fill:      color.Black,
		stroke:    color.Black,
		lineWidth: 1,
	}
}

// Context holds the state shared by every Surface implementation: the
// transform stack, style, and the current path flattened into device-space
// polylines. Concrete surfaces embed it and supply Clear, Fill, Stroke and
// FillText.
type Context struct {
	state    drawState
	stack    []drawState
	subpaths [][]vmath.Vec2
	pen      vmath.Vec2
	hasPen   bool
}

// NewContext returns a Context with identity transform and full alpha.
func NewContext() Context {
	return Context{state: defaultState()}
}

// ResetState drops the save stack, the current path, and restores default style.
func (c *Context) ResetState() {
	c.state = defaultState()
	c.stack = c.stack[:0]
	c.BeginPath()
}

func (c *Context) Save() {
	c.stack = append(c.stack, c.state)
}

// Restore pops the last saved state. Unbalanced calls are ignored.
func (c *Context) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Context) Translate(x, y float64) {
	c.state.transform = c.state.transform.Translated(x, y)
}

func (c *Context) Rotate(angle float64) {
	c.state.transform = c.state.transform.Rotated(angle)
}

func (c *Context) SetGlobalAlpha(alpha float64) {
	c.state.alpha = vmath.Clamp(alpha, 0, 1)
}

func (c *Context) SetFillColor(col color.Color)   { c.state.fill = col }
func (c *Context) SetStrokeColor(col color.Color) { c.state.stroke = col }
func (c *Context) SetLineWidth(width float64)     { c.state.lineWidth = width }

// Transform returns the current transform.
func (c *Context) Transform() Affine { return c.state.transform }

// GlobalAlpha returns the current global alpha.
func (c *Context) GlobalAlpha() float64 { return c.state.alpha }

// FillColor returns the current fill colour.
func (c *Context) FillColor() color.Color { return c.state.fill }

// StrokeColor returns the current stroke colour.
func (c *Context) StrokeColor() color.Color { return c.state.stroke }

// LineWidth returns the current stroke width.
func (c *Context) LineWidth() float64 { return c.state.lineWidth }

// Subpaths returns the current path in device space.
func (c *Context) Subpaths() [][]vmath.Vec2 { return c.subpaths }

func (c *Context) BeginPath() {
	c.subpaths = c.subpaths[:0]
	c.hasPen = false
}

func (c *Context) MoveTo(x, y float64) {
	p := c.device(x, y)
	c.subpaths = append(c.subpaths, []vmath.Vec2{p})
	c.pen = p
	c.hasPen = true
}

func (c *Context) LineTo(x, y float64) {
	p := c.device(x, y)
	if !c.hasPen {
		c.subpaths = append(c.subpaths, []vmath.Vec2{p})
	} else {
		c.appendPoint(p)
	}
	c.pen = p
	c.hasPen = true
}

// QuadraticCurveTo flattens the curve from the pen through control point
// (cpx, cpy) to (x, y). Affine maps preserve Bézier curves, so flattening
// happens after transforming the control points.
func (c *Context) QuadraticCurveTo(cpx, cpy, x, y float64) {
	if !c.hasPen {
		c.MoveTo(cpx, cpy)
	}
	p0 := c.pen
	p1 := c.device(cpx, cpy)
	p2 := c.device(x, y)
	for i := 1; i <= QuadSegments; i++ {
		t := float64(i) / QuadSegments
		u := 1 - t
		c.appendPoint(vmath.Vec2{
			X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
			Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
		})
	}
	c.pen = p2
}

// Arc adds a clockwise circular arc. A line joins the pen to the arc start
// when a subpath is already open.
func (c *Context) Arc(x, y, radius, startAngle, endAngle float64) {
	sweep := endAngle - startAngle
	steps := int(math.Ceil(math.Abs(sweep) / (2 * math.Pi) * ArcSegments))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		a := startAngle + sweep*float64(i)/float64(steps)
		px := x + radius*math.Cos(a)
		py := y + radius*math.Sin(a)
		if i == 0 && !c.hasPen {
			c.MoveTo(px, py)
			continue
		}
		c.LineTo(px, py)
	}
}

func (c *Context) device(x, y float64) vmath.Vec2 {
	dx, dy := c.state.transform.Apply(x, y)
	return vmath.Vec2{X: dx, Y: dy}
}

func (c *Context) appendPoint(p vmath.Vec2) {
	last := len(c.subpaths) - 1
	c.subpaths[last] = append(c.subpaths[last], p)
}

// Bounds returns the device-space bounding box of the current path.
func (c *Context) Bounds() (min, max vmath.Vec2, ok bool) {
	for _, sp := range c.subpaths {
		for _, p := range sp {
			if !ok {
				min, max, ok = p, p, true
				continue
			}
			min.X = math.Min(min.X, p.X)
			min.Y = math.Min(min.Y, p.Y)
			max.X = math.Max(max.X, p.X)
			max.Y = math.Max(max.Y, p.Y)
		}
	}
	return min, max, ok
}
