// Package particles implements the bamboo-leaf particle system: spawning,
// per-frame physics, hand interaction forces and leaf rendering.
package particles

import (
	"math"
	"math/rand/v2"

	"github.com/ayusman/cyberbamboo/internal/vmath"
)

// Spawn ranges.
const (
	MinSpawnVX    = -1.0
	MaxSpawnVX    = 1.0
	MinSpawnVY    = 1.0
	MaxSpawnVY    = 4.0
	MinSize       = 10.0
	MaxSize       = 22.0
	MinAlpha      = 0.4
	MaxAlpha      = 0.9
	MaxAngularVel = 0.05

	// RespawnY is where a recycled leaf re-enters, just above the top edge.
	RespawnY = -20.0
)

// Particle is a single falling leaf.
type Particle struct {
	X, Y     float64
	VX, VY   float64
	Size     float64 // leaf length
	Rotation float64 // radians
	AngVel   float64
	Alpha    float64
}

// NewParticle spawns a leaf somewhere above a width×height container so it
// falls into view.
func NewParticle(width, height float64) Particle {
	return Particle{
		X:        rand.Float64() * width,
		Y:        rand.Float64() * -height,
		VX:       vmath.RandomRange(MinSpawnVX, MaxSpawnVX),
		VY:       vmath.RandomRange(MinSpawnVY, MaxSpawnVY),
		Size:     vmath.RandomRange(MinSize, MaxSize),
		Rotation: rand.Float64() * math.Pi * 2,
		AngVel:   vmath.RandomRange(-MaxAngularVel, MaxAngularVel),
		Alpha:    vmath.RandomRange(MinAlpha, MaxAlpha),
	}
}

// Reset recycles the leaf at the top edge with a fresh horizontal position
// and velocity. Size, alpha, rotation and spin are kept.
func (p *Particle) Reset(width float64) {
	p.X = rand.Float64() * width
	p.Y = RespawnY
	p.VX = vmath.RandomRange(MinSpawnVX, MaxSpawnVX)
	p.VY = vmath.RandomRange(MinSpawnVY, MaxSpawnVY)
}
