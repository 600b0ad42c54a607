package particles

import (
	"math"

	"github.com/ayusman/cyberbamboo/internal/vmath"
)

// Interaction constants.
const (
	WindRadius   = 250.0
	WindRadiusSq = WindRadius * WindRadius
	WindStrength = 3.5

	MagneticPull     = 0.12 * 8
	MagneticDeadZone = 10.0
	SpiralNumerator  = 3000.0
	SpiralSoftening  = 2000.0
)

// Force returns the velocity change the hand applies to a leaf at pos.
// WIND uses every fingertip; MAGNETIC uses only the attractor. With no
// fingertips or a nil attractor the force is zero.
func Force(mode Mode, pos vmath.Vec2, tips []vmath.Vec2, attractor *vmath.Vec2) vmath.Vec2 {
	switch mode {
	case ModeWind:
		return windForce(pos, tips)
	case ModeMagnetic:
		if attractor == nil {
			return vmath.Vec2{}
		}
		return magneticForce(pos, *attractor)
	default:
		return vmath.Vec2{}
	}
}

// windForce sums a linear-falloff repulsion from each fingertip in range.
func windForce(pos vmath.Vec2, tips []vmath.Vec2) vmath.Vec2 {
	var f vmath.Vec2
	for _, tip := range tips {
		d2 := vmath.DistSqVec(pos, tip)
		if d2 >= WindRadiusSq {
			continue
		}
		dist := math.Sqrt(d2)
		strength := (WindRadius - dist) / WindRadius * WindStrength
		angle := math.Atan2(pos.Y-tip.Y, pos.X-tip.X)
		f.X += math.Cos(angle) * strength
		f.Y += math.Sin(angle) * strength
	}
	return f
}

// magneticForce pulls toward the attractor and adds a tangential spiral term
// that fades with squared distance, so leaves orbit instead of collapsing.
func magneticForce(pos, attractor vmath.Vec2) vmath.Vec2 {
	dx := attractor.X - pos.X
	dy := attractor.Y - pos.Y
	d2 := dx*dx + dy*dy
	dist := math.Sqrt(d2)
	if dist <= MagneticDeadZone {
		return vmath.Vec2{}
	}

	nx := dx / dist
	ny := dy / dist
	spiral := SpiralNumerator / (d2 + SpiralSoftening)

	return vmath.Vec2{
		X: nx*MagneticPull - ny*spiral,
		Y: ny*MagneticPull + nx*spiral,
	}
}
