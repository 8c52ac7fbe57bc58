package gfxlab

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Mat3 is a 3x3 matrix stored in column-major order: element (row r, col c)
// is at index c*3+r. For a 2D affine transform the translation lives in
// indices 6 and 7.
type Mat3 [9]float64

// Identity3 is the 3x3 identity matrix.
var Identity3 = Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}

// Transform2D returns a matrix that first scales uniformly by scale, then
// rotates counter-clockwise by rotation degrees, then translates by
// (positionX, positionY).
func Transform2D(positionX, positionY, rotation, scale float64) Mat3 {
	sin, cos := math.Sincos(rotation * math.Pi / 180)

	s := Mat3{scale, 0, 0, 0, scale, 0, 0, 0, 1}
	r := Mat3{cos, sin, 0, -sin, cos, 0, 0, 0, 1}
	m := s.Mul(r)
	m[6] = positionX
	m[7] = positionY
	return m
}

// ApplyTransform returns the transform that applies trans1 first and then
// trans2, i.e. trans2 · trans1.
func ApplyTransform(trans1, trans2 Mat3) Mat3 {
	return trans2.Mul(trans1)
}

// Mul returns the matrix product m · n.
func (m Mat3) Mul(n Mat3) Mat3 {
	var out Mat3
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			out[c*3+r] = m[r]*n[c*3] + m[3+r]*n[c*3+1] + m[6+r]*n[c*3+2]
		}
	}
	return out
}

// Transpose returns mᵀ.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// MulVec returns m · v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[3]*v[1] + m[6]*v[2],
		m[1]*v[0] + m[4]*v[1] + m[7]*v[2],
		m[2]*v[0] + m[5]*v[1] + m[8]*v[2],
	}
}

// TransformPoint applies m to the 2D point (x, y) with an implicit w of 1.
func (m Mat3) TransformPoint(x, y float64) (float64, float64) {
	return m[0]*x + m[3]*y + m[6], m[1]*x + m[4]*y + m[7]
}

// Determinant returns det(m).
func (m Mat3) Determinant() float64 {
	return m[0]*(m[4]*m[8]-m[7]*m[5]) -
		m[3]*(m[1]*m[8]-m[7]*m[2]) +
		m[6]*(m[1]*m[5]-m[4]*m[2])
}

// Invert returns the inverse of m. A singular matrix (|det| < 1e-12)
// returns Identity3.
func (m Mat3) Invert() Mat3 {
	det := m.Determinant()
	if det > -1e-12 && det < 1e-12 {
		return Identity3
	}
	inv := 1 / det
	return Mat3{
		(m[4]*m[8] - m[5]*m[7]) * inv,
		(m[2]*m[7] - m[1]*m[8]) * inv,
		(m[1]*m[5] - m[2]*m[4]) * inv,
		(m[5]*m[6] - m[3]*m[8]) * inv,
		(m[0]*m[8] - m[2]*m[6]) * inv,
		(m[2]*m[3] - m[0]*m[5]) * inv,
		(m[3]*m[7] - m[4]*m[6]) * inv,
		(m[1]*m[6] - m[0]*m[7]) * inv,
		(m[0]*m[4] - m[1]*m[3]) * inv,
	}
}

// Affine returns the 2D affine part as [a, b, c, d, tx, ty] where
//
//	x' = a*x + c*y + tx
//	y' = b*x + d*y + ty
func (m Mat3) Affine() [6]float64 {
	return [6]float64{m[0], m[1], m[3], m[4], m[6], m[7]}
}

// GeoM converts the 2D affine part of m to an ebiten.GeoM.
func (m Mat3) GeoM() ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[3])
	g.SetElement(0, 2, m[6])
	g.SetElement(1, 0, m[1])
	g.SetElement(1, 1, m[4])
	g.SetElement(1, 2, m[7])
	return g
}
