// Package render defines the 2D drawing surface the particle system and HUD
// paint onto, plus the concrete surfaces: an ebiten image, and a recorder
// used by tests.
package render

import "image/color"

// Surface is a canvas-style immediate-mode drawing context. Paths are built
// with BeginPath/MoveTo/LineTo/QuadraticCurveTo/Arc and painted with Fill or
// Stroke using the current transform, colours and global alpha.
type Surface interface {
	// Clear wipes the surface and resets transform and style state.
	Clear()

	Save()
	Restore()
	Translate(x, y float64)
	Rotate(angle float64)

	SetGlobalAlpha(alpha float64)
	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)
	SetLineWidth(width float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticCurveTo(cpx, cpy, x, y float64)
	Arc(x, y, radius, startAngle, endAngle float64)

	Fill()
	Stroke()

	// FillText draws a single line of text with its top-left corner at (x, y).
	FillText(text string, x, y float64)
}
