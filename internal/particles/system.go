package particles

import (
	"github.com/ayusman/cyberbamboo/internal/render"
	"github.com/ayusman/cyberbamboo/internal/vmath"
)

// Pool sizing.
const (
	DesktopCap       = 600
	MobileCap        = 250
	MobileBreakpoint = 768
)

// Physics constants, per logical step.
const (
	Gravity         = 0.05
	Drag            = 0.96
	FlutterCoupling = 0.03

	// Leaves are recycled once they fall BottomMargin below the bottom edge
	// or drift SideMargin past either side.
	BottomMargin = 20.0
	SideMargin   = 50.0

	// CullMargin extends the drawn area so leaves do not pop at the edges.
	CullMargin = 20.0
)

// Capacity returns the pool size for a viewport of the given width.
func Capacity(width float64) int {
	if width < MobileBreakpoint {
		return MobileCap
	}
	return DesktopCap
}

// System owns a fixed-capacity pool of leaves.
type System struct {
	particles []Particle
	width     float64
	height    float64
	capacity  int
}

// NewSystem creates a system sized for a width×height viewport.
func NewSystem(width, height float64) *System {
	s := &System{
		particles: make([]Particle, 0, DesktopCap),
	}
	s.Resize(width, height)
	return s
}

// Resize updates the bounds and grows or truncates the pool to the capacity
// for the new width. Surviving leaves are left untouched.
func (s *System) Resize(width, height float64) {
	s.width = width
	s.height = height
	s.capacity = Capacity(width)

	if len(s.particles) > s.capacity {
		s.particles = s.particles[:s.capacity]
		return
	}
	for len(s.particles) < s.capacity {
		s.particles = append(s.particles, NewParticle(s.width, s.height))
	}
}

// Update advances every leaf by one step and applies the hand force for mode.
// tips may be empty and attractor nil when no hand is present.
func (s *System) Update(mode Mode, tips []vmath.Vec2, attractor *vmath.Vec2) {
	for i := range s.particles {
		p := &s.particles[i]

		p.VY += Gravity
		p.VX *= Drag
		p.VY *= Drag
		p.X += p.VX
		p.Y += p.VY

		p.Rotation += p.AngVel + p.VX*FlutterCoupling

		f := Force(mode, vmath.Vec2{X: p.X, Y: p.Y}, tips, attractor)
		p.VX += f.X
		p.VY += f.Y

		if p.Y > s.height+BottomMargin || p.X < -SideMargin || p.X > s.width+SideMargin {
			p.Reset(s.width)
		}
	}
}

// Draw paints every leaf inside the culling bounds onto surface.
func (s *System) Draw(surface render.Surface) {
	surface.SetFillColor(render.Accent)

	for i := range s.particles {
		p := &s.particles[i]
		if !s.visible(p) {
			continue
		}

		surface.SetGlobalAlpha(p.Alpha)
		surface.Save()
		surface.Translate(float64(int(p.X)), float64(int(p.Y)))
		surface.Rotate(p.Rotation)
		drawLeaf(surface, p.Size)
		surface.Restore()
	}

	surface.SetGlobalAlpha(1)
}

// drawLeaf fills a leaf of the given length centred on the origin: two
// mirrored quadratic curves from tip to tip, a third of the length wide.
func drawLeaf(surface render.Surface, size float64) {
	surface.BeginPath()
	surface.MoveTo(0, -size)
	surface.QuadraticCurveTo(size/3, 0, 0, size)
	surface.QuadraticCurveTo(-size/3, 0, 0, -size)
	surface.Fill()
}

func (s *System) visible(p *Particle) bool {
	return p.X >= -CullMargin && p.X <= s.width+CullMargin &&
		p.Y >= -CullMargin && p.Y <= s.height+CullMargin
}

// Len returns the number of live leaves.
func (s *System) Len() int { return len(s.particles) }

// Capacity returns the pool size for the current bounds.
func (s *System) Capacity() int { return s.capacity }

// Bounds returns the current viewport size.
func (s *System) Bounds() (width, height float64) { return s.width, s.height }

// Particles returns a copy of the current leaves.
func (s *System) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}
