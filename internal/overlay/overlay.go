// Package overlay draws the heads-up display on top of the leaves: the
// tracked hand, the interaction cursor, the stats panel and the loading
// banner.
package overlay

import (
	"fmt"
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/ayusman/cyberbamboo/internal/detector"
	"github.com/ayusman/cyberbamboo/internal/gesture"
	"github.com/ayusman/cyberbamboo/internal/particles"
	"github.com/ayusman/cyberbamboo/internal/render"
	"github.com/ayusman/cyberbamboo/internal/vmath"
)

// Hand visuals.
const (
	SkeletonAlpha  = 0.4
	SkeletonWidth  = 2.0
	TipRadius      = 8.0
	CursorRadius   = 25.0
	CursorWidth    = 3.0
	GlowAlpha      = 0.2
	GlowFadeIn     = 0.25 // seconds
	LoadingMessage = "INITIALIZING CYBER SYSTEM..."
)

// Panel layout in logical pixels.
const (
	Margin       = 32.0
	TextInset    = 48.0
	LineHeight   = 16.0
	GlyphWidth   = 8.0
	CrossArm     = 16.0
	CrossAlpha   = 0.4
	LabelColumn  = 80.0
	StatusDotRad = 4.0
)

// Stats is the once-per-second readout shown in the panel.
type Stats struct {
	FPS      int
	Nodes    int
	Velocity float64
	Mode     particles.Mode
	Delta    time.Duration
}

// Projector maps normalized landmark coordinates to screen pixels.
type Projector interface {
	MapCoordinates(nx, ny float64) vmath.Vec2
}

// HUD holds the overlay's animated state. It is owned by the render loop.
type HUD struct {
	width, height float64
	stats         Stats

	glow      *gween.Tween
	glowAlpha float64
	magnetic  bool

	pulse *gween.Sequence
}

// New creates a HUD for a width x height viewport.
func New(width, height float64) *HUD {
	pulse := gween.NewSequence(
		gween.New(1, 0.35, 0.6, ease.InOutSine),
		gween.New(0.35, 1, 0.6, ease.InOutSine),
	)
	pulse.SetLoop(-1)

	return &HUD{
		width:  width,
		height: height,
		pulse:  pulse,
	}
}

// Resize updates the viewport the panel is laid out in.
func (h *HUD) Resize(width, height float64) {
	h.width, h.height = width, height
}

// SetStats replaces the panel readout.
func (h *HUD) SetStats(s Stats) { h.stats = s }

// Stats returns the current panel readout.
func (h *HUD) Stats() Stats { return h.stats }

// GlowAlpha returns the current pinch glow opacity.
func (h *HUD) GlowAlpha() float64 { return h.glowAlpha }

// Advance steps the animations by dt.
func (h *HUD) Advance(dt time.Duration, mode particles.Mode) {
	secs := float32(dt.Seconds())

	switch {
	case mode == particles.ModeMagnetic && !h.magnetic:
		h.glow = gween.New(0, GlowAlpha, GlowFadeIn, ease.OutQuad)
		h.magnetic = true
	case mode != particles.ModeMagnetic:
		h.glow = nil
		h.glowAlpha = 0
		h.magnetic = false
	}

	if h.glow != nil {
		v, done := h.glow.Update(secs)
		h.glowAlpha = float64(v)
		if done {
			h.glowAlpha = GlowAlpha
		}
	}
}

// DrawHand draws the skeleton, fingertip dots and cursor for a frame with
// a hand. Frames without a hand draw nothing.
func (h *HUD) DrawHand(s render.Surface, f gesture.Frame, proj Projector) {
	if !f.HasHand() {
		return
	}

	s.SetStrokeColor(render.WithAlpha(render.Accent, SkeletonAlpha))
	s.SetLineWidth(SkeletonWidth)
	s.BeginPath()
	for _, bone := range detector.Connections {
		a := f.Landmarks.Points[bone[0]]
		b := f.Landmarks.Points[bone[1]]
		p1 := proj.MapCoordinates(a.X, a.Y)
		p2 := proj.MapCoordinates(b.X, b.Y)
		s.MoveTo(p1.X, p1.Y)
		s.LineTo(p2.X, p2.Y)
	}
	s.Stroke()

	// The index tip is drawn as the cursor instead.
	s.SetFillColor(render.Accent)
	for i, tip := range f.Tips {
		if i == gesture.IndexTip {
			continue
		}
		s.BeginPath()
		s.Arc(tip.X, tip.Y, TipRadius, 0, 2*math.Pi)
		s.Fill()
	}

	s.SetStrokeColor(render.Accent)
	s.SetLineWidth(CursorWidth)
	s.BeginPath()
	s.Arc(f.Cursor.X, f.Cursor.Y, CursorRadius, 0, 2*math.Pi)
	s.Stroke()

	if f.Mode != particles.ModeMagnetic || len(f.Tips) == 0 {
		return
	}

	if h.glowAlpha > 0 {
		s.SetFillColor(render.WithAlpha(render.Accent, h.glowAlpha))
		s.Fill()
	}

	thumb := f.Tips[gesture.ThumbTip]
	s.BeginPath()
	s.MoveTo(thumb.X, thumb.Y)
	s.LineTo(f.Cursor.X, f.Cursor.Y)
	s.SetStrokeColor(render.White)
	s.Stroke()
}

// DrawPanel draws the corner crosshairs, title, data grid and mode status.
func (h *HUD) DrawPanel(s render.Surface) {
	h.drawCrosshairs(s)

	s.SetFillColor(render.White)
	s.FillText("CYBER BAMBOO SYSTEM", TextInset, Margin)

	st := h.stats
	rows := [][2]string{
		{"FPS", fmt.Sprintf("%d", st.FPS)},
		{"NODES", fmt.Sprintf("%d", st.Nodes)},
		{"VELOCITY", fmt.Sprintf("%.2f m/s", st.Velocity)},
	}
	top := h.height - Margin - float64(len(rows))*LineHeight

	s.SetStrokeColor(render.Accent)
	s.SetLineWidth(2)
	s.BeginPath()
	s.MoveTo(TextInset-6, top)
	s.LineTo(TextInset-6, top+float64(len(rows))*LineHeight)
	s.Stroke()

	for i, row := range rows {
		y := top + float64(i)*LineHeight
		s.SetFillColor(render.WithAlpha(render.White, 0.4))
		s.FillText(row[0], TextInset, y)
		s.SetFillColor(render.Accent)
		s.FillText(row[1], TextInset+LabelColumn, y)
	}

	h.drawStatus(s)
}

func (h *HUD) drawStatus(s render.Surface) {
	right := h.width - TextInset
	subtitle := "BAMBOO WIND SIMULATION"
	dot := render.DimAccent
	if h.stats.Mode == particles.ModeMagnetic {
		subtitle = "SINGULARITY DETECTED"
		dot = render.Accent
	}

	y := h.height - Margin - 3*LineHeight

	online := "SYSTEM ONLINE"
	x := right - textWidth(online)
	s.SetFillColor(dot)
	s.BeginPath()
	s.Arc(x-StatusDotRad*3, y+LineHeight/2, StatusDotRad, 0, 2*math.Pi)
	s.Fill()
	s.SetFillColor(render.Accent)
	s.FillText(online, x, y)

	mode := h.stats.Mode.String()
	s.SetFillColor(render.White)
	s.FillText(mode, right-textWidth(mode), y+LineHeight)

	s.SetFillColor(render.WithAlpha(render.White, 0.5))
	s.FillText(subtitle, right-textWidth(subtitle), y+2*LineHeight)
}

func (h *HUD) drawCrosshairs(s render.Surface) {
	s.SetStrokeColor(render.WithAlpha(render.Accent, CrossAlpha))
	s.SetLineWidth(2)
	s.BeginPath()

	corners := []struct{ x, y, dx, dy float64 }{
		{Margin, Margin, 1, 1},
		{h.width - Margin, Margin, -1, 1},
		{Margin, h.height - Margin, 1, -1},
		{h.width - Margin, h.height - Margin, -1, -1},
	}
	for _, c := range corners {
		s.MoveTo(c.x+c.dx*CrossArm, c.y)
		s.LineTo(c.x, c.y)
		s.LineTo(c.x, c.y+c.dy*CrossArm)
	}
	s.Stroke()
}

// DrawLoading draws the pulsing banner shown while the hand source starts.
func (h *HUD) DrawLoading(s render.Surface, dt time.Duration) {
	alpha, _, _ := h.pulse.Update(float32(dt.Seconds()))

	x := (h.width - textWidth(LoadingMessage)) / 2
	y := (h.height - LineHeight) / 2

	s.SetGlobalAlpha(vmath.Clamp(float64(alpha), 0, 1))
	s.SetFillColor(render.Accent)
	s.FillText(LoadingMessage, x, y)
	s.SetGlobalAlpha(1)
}

func textWidth(text string) float64 {
	return float64(len(text)) * GlyphWidth
}
