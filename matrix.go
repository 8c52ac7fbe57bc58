package gfxlab

import "math"

// Mat4 is a 4x4 matrix stored in column-major order, the layout shader
// uniforms expect: element (row r, col c) is at index c*4+r.
type Mat4 [16]float64

// Identity4 is the 4x4 identity matrix.
var Identity4 = Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// swapYZ exchanges the Y and Z axes. It is its own inverse and transpose.
var swapYZ = Mat4{
	1, 0, 0, 0,
	0, 0, 1, 0,
	0, 1, 0, 0,
	0, 0, 0, 1,
}

// sceneRadius is the half depth the projection reserves around the camera
// distance; meshes are normalized to fit inside it.
const sceneRadius = 1.74

// MatrixMult returns the product a · b of two column-major 4x4 matrices.
func MatrixMult(a, b Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var v float64
			for k := 0; k < 4; k++ {
				v += a[k*4+r] * b[c*4+k]
			}
			out[c*4+r] = v
		}
	}
	return out
}

// MulVec4 returns m · (x, y, z, w).
func (m Mat4) MulVec4(x, y, z, w float64) [4]float64 {
	var out [4]float64
	for r := 0; r < 4; r++ {
		out[r] = m[r]*x + m[4+r]*y + m[8+r]*z + m[12+r]*w
	}
	return out
}

// MulPoint returns the xyz of m · (p, 1) without a perspective divide.
func (m Mat4) MulPoint(p Vec3) Vec3 {
	v := m.MulVec4(p[0], p[1], p[2], 1)
	return Vec3{v[0], v[1], v[2]}
}

// Upper3 returns the upper-left 3x3 block.
func (m Mat4) Upper3() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// ModelViewMatrix returns the transform that rotates by rotationX about
// the X axis, then by rotationY about the Y axis (both in radians), then
// translates by (translationX, translationY, translationZ).
func ModelViewMatrix(translationX, translationY, translationZ, rotationX, rotationY float64) Mat4 {
	sx, cx := math.Sincos(rotationX)
	sy, cy := math.Sincos(rotationY)

	rx := Mat4{
		1, 0, 0, 0,
		0, cx, sx, 0,
		0, -sx, cx, 0,
		0, 0, 0, 1,
	}
	ry := Mat4{
		cy, 0, -sy, 0,
		0, 1, 0, 0,
		sy, 0, cy, 0,
		0, 0, 0, 1,
	}
	m := MatrixMult(ry, rx)
	m[12] = translationX
	m[13] = translationY
	m[14] = translationZ
	m[15] = 1
	return m
}

// ModelViewProjection returns projection · ModelViewMatrix(...).
func ModelViewProjection(projection Mat4, translationX, translationY, translationZ, rotationX, rotationY float64) Mat4 {
	return MatrixMult(projection, ModelViewMatrix(translationX, translationY, translationZ, rotationX, rotationY))
}

// ProjectionMatrix returns a perspective projection for a camera looking
// down +Z at a scene centered cameraZ units away. The near and far planes
// bracket the scene by sceneRadius; fovDeg is the vertical field of view.
// Clip w equals the view-space z.
func ProjectionMatrix(aspect, cameraZ, fovDeg float64) Mat4 {
	n := max(cameraZ-sceneRadius, 0.001)
	f := cameraZ + sceneRadius
	s := 1 / math.Tan(fovDeg*math.Pi/360)
	return Mat4{
		s / aspect, 0, 0, 0,
		0, s, 0, 0,
		0, 0, (n + f) / (f - n), 1,
		0, 0, -2 * n * f / (f - n), 0,
	}
}

// NormalMatrix returns the inverse transpose of the upper 3x3 of mv, which
// maps object-space normals to view space.
func NormalMatrix(mv Mat4) Mat3 {
	return mv.Upper3().Invert().Transpose()
}
