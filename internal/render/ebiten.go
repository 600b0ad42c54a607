package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialised 1x1 white image used as the
// source texture for untextured triangles.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// EbitenSurface paints onto an ebiten image. Point it at the frame's screen
// with SetTarget before drawing.
type EbitenSurface struct {
	Context
	dst        *ebiten.Image
	background color.Color
	vertices   []ebiten.Vertex
	indices    []uint16
}

// NewEbitenSurface creates a surface that clears to the theme background.
func NewEbitenSurface() *EbitenSurface {
	return &EbitenSurface{
		Context:    NewContext(),
		background: Background,
	}
}

// SetTarget selects the image subsequent calls draw onto.
func (s *EbitenSurface) SetTarget(dst *ebiten.Image) {
	s.dst = dst
}

func (s *EbitenSurface) Clear() {
	s.ResetState()
	if s.dst != nil {
		s.dst.Fill(s.background)
	}
}

func (s *EbitenSurface) Fill() {
	path, ok := s.vectorPath(true)
	if !ok {
		return
	}
	s.vertices, s.indices = path.AppendVerticesAndIndicesForFilling(s.vertices[:0], s.indices[:0])
	s.paint(s.FillColor(), ebiten.NonZero)
}

func (s *EbitenSurface) Stroke() {
	path, ok := s.vectorPath(false)
	if !ok {
		return
	}
	s.vertices, s.indices = path.AppendVerticesAndIndicesForStroke(s.vertices[:0], s.indices[:0], &vector.StrokeOptions{
		Width:    float32(s.LineWidth()),
		LineJoin: vector.LineJoinRound,
		LineCap:  vector.LineCapRound,
	})
	s.paint(s.StrokeColor(), ebiten.FillAll)
}

func (s *EbitenSurface) FillText(text string, x, y float64) {
	if s.dst == nil {
		return
	}
	dx, dy := s.Transform().Apply(x, y)
	ebitenutil.DebugPrintAt(s.dst, text, int(dx), int(dy))
}

// vectorPath rebuilds the flattened device-space path as an ebiten path.
func (s *EbitenSurface) vectorPath(closed bool) (*vector.Path, bool) {
	if s.dst == nil || len(s.Subpaths()) == 0 {
		return nil, false
	}
	var path vector.Path
	for _, sp := range s.Subpaths() {
		if len(sp) < 2 {
			continue
		}
		path.MoveTo(float32(sp[0].X), float32(sp[0].Y))
		for _, p := range sp[1:] {
			path.LineTo(float32(p.X), float32(p.Y))
		}
		if closed {
			path.Close()
		}
	}
	return &path, true
}

func (s *EbitenSurface) paint(c color.Color, rule ebiten.FillRule) {
	if len(s.indices) == 0 {
		return
	}
	r, g, b, a := Straight(c)
	a *= float32(s.GlobalAlpha())
	for i := range s.vertices {
		s.vertices[i].SrcX = 0.5
		s.vertices[i].SrcY = 0.5
		s.vertices[i].ColorR = r
		s.vertices[i].ColorG = g
		s.vertices[i].ColorB = b
		s.vertices[i].ColorA = a
	}
	op := &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
		FillRule:  rule,
	}
	s.dst.DrawTriangles(s.vertices, s.indices, ensureWhitePixel(), op)
}
