package render

import "math"

// Affine is a 2D affine transform stored as [a, b, c, d, tx, ty]:
//
//	x' = a*x + c*y + tx
//	y' = b*x + d*y + ty
type Affine [6]float64

// Identity is the transform that leaves points unchanged.
var Identity = Affine{1, 0, 0, 1, 0, 0}

// Apply maps a local point into the target space.
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Mul returns m·n: n is applied first, then m.
func (m Affine) Mul(n Affine) Affine {
	return Affine{
		m[0]*n[0] + m[2]*n[1],
		m[1]*n[0] + m[3]*n[1],
		m[0]*n[2] + m[2]*n[3],
		m[1]*n[2] + m[3]*n[3],
		m[0]*n[4] + m[2]*n[5] + m[4],
		m[1]*n[4] + m[3]*n[5] + m[5],
	}
}

// Translated returns m with a translation applied in local space.
func (m Affine) Translated(x, y float64) Affine {
	return m.Mul(Affine{1, 0, 0, 1, x, y})
}

// Rotated returns m with a rotation (radians, clockwise in screen space)
// applied in local space.
func (m Affine) Rotated(angle float64) Affine {
	sin, cos := math.Sincos(angle)
	return m.Mul(Affine{cos, sin, -sin, cos, 0, 0})
}
