package gfxlab

import (
	"math"
	"testing"
)

func TestNewClothGridLayout(t *testing.T) {
	g := NewClothGrid(4, 2, 1, V3(-0.5, 0.5, 0))

	if len(g.Rest) != 5*3 || len(g.UVs) != 5*3 {
		t.Fatalf("particles = %d, want 15", len(g.Rest))
	}
	if len(g.Indices) != 4*2*6 {
		t.Errorf("indices = %d, want 48", len(g.Indices))
	}
	assertVec(t, "top-left", g.Rest[g.Index(0, 0)], V3(-0.5, 0.5, 0))
	assertVec(t, "bottom-right", g.Rest[g.Index(4, 2)], V3(0.5, 0, 0))

	uv := g.UVs[g.Index(4, 2)]
	assertNear(t, "u", uv.X, 1)
	assertNear(t, "v", uv.Y, 1)

	a, b := g.TopCorners()
	if a != 0 || b != 4 {
		t.Errorf("TopCorners = %d,%d, want 0,4", a, b)
	}
}

func TestNewClothGridSpringCounts(t *testing.T) {
	const cols, rows = 3, 3
	g := NewClothGrid(cols, rows, 3, Vec3{})
	vc, vr := cols+1, rows+1

	structural := (vc-1)*vr + vc*(vr-1)
	shear := 2 * cols * rows
	bend := (vc-2)*vr + vc*(vr-2)
	if want := structural + shear + bend; len(g.Springs) != want {
		t.Errorf("springs = %d, want %d", len(g.Springs), want)
	}
}

func TestNewClothGridSpringsAtRest(t *testing.T) {
	g := NewClothGrid(3, 2, 1.5, V3(0.1, 0.2, 0.3))
	for _, s := range g.Springs {
		got := g.Rest[s.P1].Sub(g.Rest[s.P0]).Len()
		if math.Abs(got-s.Rest) > epsilon {
			t.Fatalf("spring %+v length %v, want rest %v", s, got, s.Rest)
		}
	}

	// A grid at rest feels no spring force: only gravity moves it.
	pos := append([]Vec3(nil), g.Rest...)
	vel := make([]Vec3, len(pos))
	Step(0.01, pos, vel, g.Springs, SimParams{Stiffness: 50, Damping: 1, ParticleMass: 1})
	for i := range pos {
		assertVec(t, "position", pos[i], g.Rest[i])
	}
}

func TestNewClothGridClampsSize(t *testing.T) {
	g := NewClothGrid(0, -1, 1, Vec3{})
	if g.Cols() != 1 || g.Rows() != 1 || len(g.Rest) != 4 {
		t.Errorf("grid = %dx%d with %d particles, want 1x1 with 4", g.Cols(), g.Rows(), len(g.Rest))
	}
}

func TestClothGridFillMeshFacesCamera(t *testing.T) {
	g := NewClothGrid(2, 2, 1, Vec3{})
	var m TriangleMesh
	g.FillMesh(g.Rest, &m)

	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if m.VertexCount() != len(g.Indices) {
		t.Fatalf("VertexCount = %d, want %d", m.VertexCount(), len(g.Indices))
	}
	for i := 0; i < m.VertexCount(); i++ {
		_, n, _ := meshVertex(&m, i)
		assertVec32(t, "normal", n, V3(0, 0, -1))
	}
}

func TestClothGridFillMeshReusesBuffers(t *testing.T) {
	g := NewClothGrid(3, 3, 1, Vec3{})
	var m TriangleMesh
	g.FillMesh(g.Rest, &m)
	first := &m.Positions[0]

	g.FillMesh(g.Rest, &m)
	if &m.Positions[0] != first {
		t.Error("FillMesh reallocated positions of the same size")
	}
}

func TestClothGridFillMeshSmoothNormals(t *testing.T) {
	// Fold the right column forward: the shared middle column averages both faces.
	g := NewClothGrid(2, 1, 2, Vec3{})
	pos := append([]Vec3(nil), g.Rest...)
	pos[g.Index(2, 0)][2] = -1
	pos[g.Index(2, 1)][2] = -1

	var m TriangleMesh
	g.FillMesh(pos, &m)

	mid := g.Index(1, 0)
	for k, idx := range g.Indices {
		if idx != mid {
			continue
		}
		_, n, _ := meshVertex(&m, k)
		if !(n[0] < 0 && n[2] < 0) {
			t.Errorf("middle normal = %v, want tilted between both faces", n)
		}
		assertNear32(t, "unit", n.Len(), 1)
	}
}

func TestSpringsFromTriangles(t *testing.T) {
	pos := []Vec3{V3(0, 0, 0), V3(1, 0, 0), V3(0, 1, 0), V3(1, 1, 0)}
	indices := []int{0, 1, 2, 1, 3, 2}

	springs := SpringsFromTriangles(pos, indices)
	if len(springs) != 5 {
		t.Fatalf("springs = %d, want 5 unique edges", len(springs))
	}
	want := []Spring{
		{0, 1, 1},
		{1, 2, math.Sqrt2},
		{2, 0, 1},
		{1, 3, 1},
		{3, 2, 1},
	}
	for i, s := range springs {
		if s.P0 != want[i].P0 || s.P1 != want[i].P1 {
			t.Errorf("spring %d = %d-%d, want %d-%d", i, s.P0, s.P1, want[i].P0, want[i].P1)
		}
		assertNear(t, "rest", s.Rest, want[i].Rest)
	}
}

func TestSpringsFromTrianglesSkipsDegenerateEdges(t *testing.T) {
	springs := SpringsFromTriangles([]Vec3{{}, V3(1, 0, 0)}, []int{0, 0, 1})
	if len(springs) != 1 {
		t.Errorf("springs = %d, want 1", len(springs))
	}
}

func TestMeshParticlesWeldsSharedCorners(t *testing.T) {
	m := NewCubeMesh(1)
	particles, indices := MeshParticles(m, 1e-4)

	if len(particles) != 8 {
		t.Errorf("particles = %d, want 8 cube corners", len(particles))
	}
	if len(indices) != m.VertexCount() {
		t.Errorf("indices = %d, want %d", len(indices), m.VertexCount())
	}

	// 12 cube edges plus one diagonal per face.
	if got := len(SpringsFromTriangles(particles, indices)); got != 18 {
		t.Errorf("springs = %d, want 18", got)
	}
}

func TestNewSoftBodyFromCube(t *testing.T) {
	m := NewCubeMesh(0.5)
	g := NewSoftBody(m, 1e-4)

	if len(g.Rest) != 8 || len(g.UVs) != 8 {
		t.Fatalf("particles = %d, uvs = %d, want 8", len(g.Rest), len(g.UVs))
	}
	if len(g.Springs) != 18 {
		t.Errorf("springs = %d, want 18", len(g.Springs))
	}
	if len(g.Indices) != m.VertexCount() {
		t.Errorf("indices = %d, want %d", len(g.Indices), m.VertexCount())
	}
	if uv := g.UVs[g.Indices[0]]; uv != (Vec2{0, 1}) {
		t.Errorf("first particle uv = %v, want the first vertex's (0, 1)", uv)
	}

	var out TriangleMesh
	g.FillMesh(g.Rest, &out)
	for i := 0; i < out.VertexCount(); i++ {
		pos, n, _ := meshVertex(&out, i)
		if n.Dot(pos) <= 0 {
			t.Fatalf("vertex %d normal %v points into the body", i, n)
		}
		assertNear32(t, "unit", n.Len(), 1)
	}
}

func TestNewSoftBodySettlesInBox(t *testing.T) {
	g := NewSoftBody(NewCubeMesh(0.3), 1e-4)
	sim := NewMassSpring(g.Rest, g.Springs, MassSpringConfig{Params: DefaultParams()})
	for i := 0; i < 300; i++ {
		sim.Tick()
	}
	for i, p := range sim.Positions() {
		for axis := AxisX; axis <= AxisZ; axis++ {
			if !(p[axis] >= BoxMin && p[axis] <= BoxMax) {
				t.Fatalf("particle %d = %v, outside the box", i, p)
			}
		}
	}
}
