package gfxlab

import "math"

// Axis indices into a Vec3.
const (
	AxisX = 0
	AxisY = 1
	AxisZ = 2
)

// Vec3 is a 3-component vector. Components are addressed by index so that
// per-axis loops (collision, bounds) iterate 0..2 instead of naming fields.
type Vec3 [3]float64

// V3 returns the vector (x, y, z).
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// X returns the first component.
func (v Vec3) X() float64 { return v[AxisX] }

// Y returns the second component.
func (v Vec3) Y() float64 { return v[AxisY] }

// Z returns the third component.
func (v Vec3) Z() float64 { return v[AxisZ] }

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

// Mul returns s * v.
func (v Vec3) Mul(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Div returns v / s. Division by zero yields Inf/NaN components.
func (v Vec3) Div(s float64) Vec3 {
	return Vec3{v[0] / s, v[1] / s, v[2] / s}
}

// Dot returns v · w.
func (v Vec3) Dot(w Vec3) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

// Cross returns v × w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Unit returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Unit() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Div(l)
}

// Inc adds w to v in place.
func (v *Vec3) Inc(w Vec3) {
	v[0] += w[0]
	v[1] += w[1]
	v[2] += w[2]
}

// Dec subtracts w from v in place.
func (v *Vec3) Dec(w Vec3) {
	v[0] -= w[0]
	v[1] -= w[1]
	v[2] -= w[2]
}
