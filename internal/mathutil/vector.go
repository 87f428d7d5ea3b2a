// Package mathutil provides the small vector/angle kinematics shared by
// the simulation, interpolation, and prediction code.
package mathutil

import "math"

// Vector3 is a point or displacement in meters.
type Vector3 struct {
	X, Y, Z float64
}

// Add adds two vectors.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub subtracts two vectors.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Mul scales a vector.
func (v Vector3) Mul(s float64) Vector3 {
	return Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Lerp linearly interpolates between v and o by fraction t.
func (v Vector3) Lerp(o Vector3, t float64) Vector3 {
	return v.Add(o.Sub(v).Mul(t))
}

const twoPi = 2 * math.Pi

// NormalizeAngle reduces an angle into (-2π, 2π) by modular reduction,
// matching the crude normalization the source keeps (spec.md §9,
// "Numerical care"): a proper modulo-2π is fine as long as it stays
// deterministic given the same input.
func NormalizeAngle(a float64) float64 {
	if a >= twoPi || a <= -twoPi {
		a = math.Mod(a, twoPi)
	}
	return a
}

// LerpFraction computes (between-from)/(to-from), returning 0 when
// to == from instead of dividing by zero (spec.md §9).
func LerpFraction(from, to, between float64) float64 {
	if to == from {
		return 0
	}
	return (between - from) / (to - from)
}
