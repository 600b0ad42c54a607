// Package vmath provides the scalar and 2D vector helpers shared by the
// particle engine and the gesture mapper.
package vmath

import (
	"math"
	"math/rand/v2"
)

// Vec2 is a point or direction in screen space.
type Vec2 struct {
	X float64
	Y float64
}

// Lerp linearly interpolates from start toward end by amt.
// amt=0 returns start, amt=1 returns end.
func Lerp(start, end, amt float64) float64 {
	return (1-amt)*start + amt*end
}

// LerpVec interpolates both components of a toward b by amt.
func LerpVec(a, b Vec2, amt float64) Vec2 {
	return Vec2{
		X: Lerp(a.X, b.X, amt),
		Y: Lerp(a.Y, b.Y, amt),
	}
}

// DistSq returns the squared Euclidean distance between (x1,y1) and (x2,y2).
func DistSq(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// DistSqVec is DistSq for two Vec2 values.
func DistSqVec(a, b Vec2) float64 {
	return DistSq(a.X, a.Y, b.X, b.Y)
}

// Clamp limits val to the closed range [min, max].
func Clamp(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}

// RandomRange returns a uniform random value in [min, max).
func RandomRange(min, max float64) float64 {
	return rand.Float64()*(max-min) + min
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
