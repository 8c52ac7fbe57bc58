package gfxlab

import (
	"fmt"
	"math"
)

// TriangleMesh holds non-indexed triangle data in the flat layout the
// MeshDrawer consumes: three floats per position, two per texture
// coordinate, three per normal, and every three vertices form one triangle.
type TriangleMesh struct {
	Positions []float32
	TexCoords []float32
	Normals   []float32
}

// VertexCount returns the number of vertices (not triangles) in the mesh.
func (m *TriangleMesh) VertexCount() int {
	return len(m.Positions) / 3
}

// Validate checks that the arrays describe whole triangles with matching
// attribute counts. Empty TexCoords or Normals are allowed.
func (m *TriangleMesh) Validate() error {
	n := len(m.Positions)
	if n%9 != 0 {
		return fmt.Errorf("gfxlab: mesh has %d position floats, not a multiple of 9", n)
	}
	verts := n / 3
	if len(m.TexCoords) != 0 && len(m.TexCoords) != verts*2 {
		return fmt.Errorf("gfxlab: mesh has %d vertices but %d texcoord floats", verts, len(m.TexCoords))
	}
	if len(m.Normals) != 0 && len(m.Normals) != verts*3 {
		return fmt.Errorf("gfxlab: mesh has %d vertices but %d normal floats", verts, len(m.Normals))
	}
	return nil
}

// appendVertex appends one vertex's attributes.
func (m *TriangleMesh) appendVertex(p Vec3, uv Vec2, n Vec3) {
	m.Positions = append(m.Positions, float32(p[0]), float32(p[1]), float32(p[2]))
	m.TexCoords = append(m.TexCoords, float32(uv.X), float32(uv.Y))
	m.Normals = append(m.Normals, float32(n[0]), float32(n[1]), float32(n[2]))
}

// NewSphereMesh builds a UV sphere of the given radius centered at the
// origin. stacks and slices are clamped to at least 2 and 3.
func NewSphereMesh(radius float64, stacks, slices int) *TriangleMesh {
	if stacks < 2 {
		stacks = 2
	}
	if slices < 3 {
		slices = 3
	}

	point := func(st, sl int) (Vec3, Vec2) {
		theta := math.Pi * float64(st) / float64(stacks)
		phi := 2 * math.Pi * float64(sl) / float64(slices)
		sinT, cosT := math.Sincos(theta)
		sinP, cosP := math.Sincos(phi)
		n := V3(sinT*cosP, cosT, sinT*sinP)
		uv := Vec2{X: float64(sl) / float64(slices), Y: float64(st) / float64(stacks)}
		return n, uv
	}

	m := &TriangleMesh{}
	for st := 0; st < stacks; st++ {
		for sl := 0; sl < slices; sl++ {
			n00, uv00 := point(st, sl)
			n01, uv01 := point(st, sl+1)
			n10, uv10 := point(st+1, sl)
			n11, uv11 := point(st+1, sl+1)
			if st != 0 {
				m.appendVertex(n00.Mul(radius), uv00, n00)
				m.appendVertex(n10.Mul(radius), uv10, n10)
				m.appendVertex(n01.Mul(radius), uv01, n01)
			}
			if st != stacks-1 {
				m.appendVertex(n01.Mul(radius), uv01, n01)
				m.appendVertex(n10.Mul(radius), uv10, n10)
				m.appendVertex(n11.Mul(radius), uv11, n11)
			}
		}
	}
	return m
}

// cubeFaces lists each face as its outward normal and two in-plane axes.
var cubeFaces = [6][3]Vec3{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

// NewCubeMesh builds an axis-aligned cube with the given half extent. Each
// face maps the full [0,1]² texture.
func NewCubeMesh(half float64) *TriangleMesh {
	m := &TriangleMesh{}
	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		corner := func(su, sv float64) Vec3 {
			return n.Add(u.Mul(su)).Add(v.Mul(sv)).Mul(half)
		}
		bl, br := corner(-1, -1), corner(1, -1)
		tl, tr := corner(-1, 1), corner(1, 1)
		m.appendVertex(bl, Vec2{0, 1}, n)
		m.appendVertex(br, Vec2{1, 1}, n)
		m.appendVertex(tr, Vec2{1, 0}, n)
		m.appendVertex(bl, Vec2{0, 1}, n)
		m.appendVertex(tr, Vec2{1, 0}, n)
		m.appendVertex(tl, Vec2{0, 0}, n)
	}
	return m
}
