package gfxlab

import (
	"math"
	"testing"
)

func assertMat3(t *testing.T, name string, got, want Mat3) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func assertMat4(t *testing.T, name string, got, want Mat4) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// --- Transform2D ---

func TestTransform2DIdentity(t *testing.T) {
	assertMat3(t, "identity", Transform2D(0, 0, 0, 1), Identity3)
}

func TestTransform2DTranslation(t *testing.T) {
	got := Transform2D(10, 20, 0, 1)
	assertMat3(t, "translation", got, Mat3{1, 0, 0, 0, 1, 0, 10, 20, 1})
}

func TestTransform2DRotation90(t *testing.T) {
	got := Transform2D(0, 0, 90, 1)
	// cos(90)=0, sin(90)=1: x axis maps to +y.
	assertMat3(t, "rot90", got, Mat3{0, 1, 0, -1, 0, 0, 0, 0, 1})
	x, y := got.TransformPoint(1, 0)
	assertNear(t, "x", x, 0)
	assertNear(t, "y", y, 1)
}

func TestTransform2DScaleRotateTranslateOrder(t *testing.T) {
	m := Transform2D(5, -3, 90, 2)
	// (1,0) scaled to (2,0), rotated to (0,2), translated to (5,-1).
	x, y := m.TransformPoint(1, 0)
	assertNear(t, "x", x, 5)
	assertNear(t, "y", y, -1)
}

func TestApplyTransformOrder(t *testing.T) {
	move := Transform2D(10, 0, 0, 1)
	turn := Transform2D(0, 0, 90, 1)

	// Move first, then rotate about the origin: (0,0) -> (10,0) -> (0,10).
	x, y := ApplyTransform(move, turn).TransformPoint(0, 0)
	assertNear(t, "move-then-turn x", x, 0)
	assertNear(t, "move-then-turn y", y, 10)

	// Rotate first, then move: (0,0) -> (0,0) -> (10,0).
	x, y = ApplyTransform(turn, move).TransformPoint(0, 0)
	assertNear(t, "turn-then-move x", x, 10)
	assertNear(t, "turn-then-move y", y, 0)
}

func TestMat3Invert(t *testing.T) {
	m := Transform2D(7, -2, 33, 1.5)
	assertMat3(t, "m*inv", m.Mul(m.Invert()), Identity3)
}

func TestMat3InvertSingular(t *testing.T) {
	singular := Mat3{1, 2, 0, 2, 4, 0, 0, 0, 0}
	assertMat3(t, "singular", singular.Invert(), Identity3)
}

func TestMat3Affine(t *testing.T) {
	m := Transform2D(3, 4, 90, 2)
	got := m.Affine()
	want := [6]float64{0, 2, -2, 0, 3, 4}
	for i := range got {
		assertNear(t, "affine", got[i], want[i])
	}
}

func TestMat3GeoMMatchesTransformPoint(t *testing.T) {
	m := Transform2D(12, -8, 30, 0.75)
	g := m.GeoM()

	gx, gy := g.Apply(3, 5)
	mx, my := m.TransformPoint(3, 5)
	assertNear(t, "x", gx, mx)
	assertNear(t, "y", gy, my)
}

// --- Mat4 ---

func TestMatrixMultIdentity(t *testing.T) {
	m := ModelViewMatrix(1, 2, 3, 0.4, -0.7)
	assertMat4(t, "I*m", MatrixMult(Identity4, m), m)
	assertMat4(t, "m*I", MatrixMult(m, Identity4), m)
}

func TestModelViewMatrixTranslationOnly(t *testing.T) {
	m := ModelViewMatrix(1, 2, 3, 0, 0)
	assertMat4(t, "translation", m, Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		1, 2, 3, 1,
	})
}

func TestModelViewMatrixRotatesXBeforeY(t *testing.T) {
	m := ModelViewMatrix(0, 0, 0, math.Pi/2, math.Pi/2)
	// Rx(90) maps +Y to +Z; Ry(90) then maps +Z to +X.
	assertVec(t, "y axis", m.MulPoint(V3(0, 1, 0)), V3(1, 0, 0))
}

func TestModelViewProjection(t *testing.T) {
	proj := ProjectionMatrix(1.5, 3, 60)
	want := MatrixMult(proj, ModelViewMatrix(0.1, 0.2, 3, 0.3, 0.4))
	assertMat4(t, "mvp", ModelViewProjection(proj, 0.1, 0.2, 3, 0.3, 0.4), want)
}

func TestProjectionMatrixDepthRange(t *testing.T) {
	const camZ = 4.0
	p := ProjectionMatrix(1, camZ, 60)

	near := p.MulVec4(0, 0, camZ-sceneRadius, 1)
	far := p.MulVec4(0, 0, camZ+sceneRadius, 1)
	assertNear(t, "near ndc z", near[2]/near[3], -1)
	assertNear(t, "far ndc z", far[2]/far[3], 1)
	assertNear(t, "w", near[3], camZ-sceneRadius)
}

func TestProjectionMatrixClampsNear(t *testing.T) {
	p := ProjectionMatrix(1, 0.5, 60)
	near := p.MulVec4(0, 0, 0.001, 1)
	assertNear(t, "near ndc z", near[2]/near[3], -1)
}

func TestNormalMatrixRotationIsRotation(t *testing.T) {
	mv := ModelViewMatrix(5, 6, 7, 0.3, 1.1)
	assertMat3(t, "normal", NormalMatrix(mv), mv.Upper3())
}

func TestNormalMatrixNonUniformScale(t *testing.T) {
	mv := Identity4
	mv[0] = 2 // scale x by 2
	n := NormalMatrix(mv)
	// A surface tilted 45° in XY keeps a normal perpendicular to its tangent.
	tangent := mv.Upper3().MulVec(V3(1, -1, 0))
	normal := n.MulVec(V3(1, 1, 0))
	assertNear(t, "dot", tangent.Dot(normal), 0)
}
