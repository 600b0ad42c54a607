package render

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette.
var (
	Accent     = mustHex("#00FF41")
	Background = mustHex("#050505")
	DimAccent  = mustHex("#166534")
	White      = colorful.Color{R: 1, G: 1, B: 1}
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("render: bad palette colour " + s + ": " + err.Error())
	}
	return c
}

// WithAlpha returns c with its opacity replaced by alpha (0..1).
func WithAlpha(c color.Color, alpha float64) color.Color {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return color.NRGBA{}
	}
	r, g, b := cf.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)}
}

// Straight returns c as straight (non-premultiplied) RGBA components in 0..1.
func Straight(c color.Color) (r, g, b, a float32) {
	pr, pg, pb, pa := c.RGBA()
	if pa == 0 {
		return 0, 0, 0, 0
	}
	fa := float32(pa)
	return float32(pr) / fa, float32(pg) / fa, float32(pb) / fa, fa / 0xffff
}
