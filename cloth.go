package gfxlab

import "math"

// ClothGrid is a rectangular particle lattice with the springs and triangle
// topology needed to simulate and draw it as cloth.
type ClothGrid struct {
	cols    int
	rows    int
	Rest    []Vec3   // initial particle positions
	Springs []Spring // structural, shear and bend springs
	Indices []int    // three particle indices per triangle
	UVs     []Vec2   // one texture coordinate per particle

	normals []Vec3 // scratch buffer for FillMesh
}

// NewClothGrid creates a grid of cols x rows cells (so (cols+1)*(rows+1)
// particles) of the given total width, hanging in the XY plane from origin:
// columns advance along +X and rows along -Y.
func NewClothGrid(cols, rows int, size float64, origin Vec3) *ClothGrid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	g := &ClothGrid{cols: cols, rows: rows}
	vcols := cols + 1
	vrows := rows + 1
	cell := size / float64(cols)

	g.Rest = make([]Vec3, vcols*vrows)
	g.UVs = make([]Vec2, vcols*vrows)
	for r := 0; r < vrows; r++ {
		for c := 0; c < vcols; c++ {
			idx := r*vcols + c
			g.Rest[idx] = origin.Add(V3(float64(c)*cell, -float64(r)*cell, 0))
			g.UVs[idx] = Vec2{X: float64(c) / float64(cols), Y: float64(r) / float64(rows)}
		}
	}

	link := func(a, b int) {
		g.Springs = append(g.Springs, Spring{P0: a, P1: b, Rest: g.Rest[b].Sub(g.Rest[a]).Len()})
	}
	for r := 0; r < vrows; r++ {
		for c := 0; c < vcols; c++ {
			i := g.Index(c, r)
			if c+1 < vcols {
				link(i, g.Index(c+1, r))
			}
			if r+1 < vrows {
				link(i, g.Index(c, r+1))
			}
			if c+1 < vcols && r+1 < vrows {
				link(i, g.Index(c+1, r+1))
				link(g.Index(c+1, r), g.Index(c, r+1))
			}
			if c+2 < vcols {
				link(i, g.Index(c+2, r))
			}
			if r+2 < vrows {
				link(i, g.Index(c, r+2))
			}
		}
	}

	g.Indices = make([]int, 0, cols*rows*6)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			tl := g.Index(c, r)
			tr := tl + 1
			bl := g.Index(c, r+1)
			br := bl + 1
			// Wound so face normals point along -Z, toward a camera at the origin.
			g.Indices = append(g.Indices, tl, tr, bl, tr, br, bl)
		}
	}
	return g
}

// Cols returns the number of grid columns (cells).
func (g *ClothGrid) Cols() int { return g.cols }

// Rows returns the number of grid rows (cells).
func (g *ClothGrid) Rows() int { return g.rows }

// Index returns the particle index at lattice coordinate (col, row).
func (g *ClothGrid) Index(col, row int) int {
	return row*(g.cols+1) + col
}

// TopCorners returns the particle indices of the two top corners, the
// usual pins for a hanging cloth.
func (g *ClothGrid) TopCorners() (int, int) {
	return g.Index(0, 0), g.Index(g.cols, 0)
}

// FillMesh expands the indexed grid into dst using the given particle
// positions, with smooth normals averaged from adjacent faces. dst's
// backing arrays are reused when large enough.
func (g *ClothGrid) FillMesh(positions []Vec3, dst *TriangleMesh) {
	if cap(g.normals) < len(positions) {
		g.normals = make([]Vec3, len(positions))
	}
	g.normals = g.normals[:len(positions)]
	clear(g.normals)

	for t := 0; t+2 < len(g.Indices); t += 3 {
		a, b, c := g.Indices[t], g.Indices[t+1], g.Indices[t+2]
		// Unnormalized cross product weights faces by area.
		n := positions[b].Sub(positions[a]).Cross(positions[c].Sub(positions[a]))
		g.normals[a].Inc(n)
		g.normals[b].Inc(n)
		g.normals[c].Inc(n)
	}

	nv := len(g.Indices)
	dst.Positions = growFloats(dst.Positions, nv*3)
	dst.TexCoords = growFloats(dst.TexCoords, nv*2)
	dst.Normals = growFloats(dst.Normals, nv*3)
	for k, idx := range g.Indices {
		p := positions[idx]
		n := g.normals[idx].Unit()
		uv := g.UVs[idx]
		dst.Positions[k*3+0] = float32(p[0])
		dst.Positions[k*3+1] = float32(p[1])
		dst.Positions[k*3+2] = float32(p[2])
		dst.TexCoords[k*2+0] = float32(uv.X)
		dst.TexCoords[k*2+1] = float32(uv.Y)
		dst.Normals[k*3+0] = float32(n[0])
		dst.Normals[k*3+1] = float32(n[1])
		dst.Normals[k*3+2] = float32(n[2])
	}
}

// growFloats returns buf resliced to n elements, reallocating only when
// the capacity is too small.
func growFloats(buf []float32, n int) []float32 {
	if cap(buf) < n {
		return make([]float32, n)
	}
	return buf[:n]
}

// SpringsFromTriangles returns one spring per distinct triangle edge, with
// the rest length taken from positions. Edges keep first-seen order.
func SpringsFromTriangles(positions []Vec3, indices []int) []Spring {
	seen := make(map[[2]int]struct{}, len(indices))
	var springs []Spring
	add := func(a, b int) {
		if a == b {
			return
		}
		key := [2]int{min(a, b), max(a, b)}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		springs = append(springs, Spring{P0: a, P1: b, Rest: positions[b].Sub(positions[a]).Len()})
	}
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		add(a, b)
		add(b, c)
		add(c, a)
	}
	return springs
}

// MeshParticles welds the vertices of a flat triangle mesh into shared
// particles, merging positions closer than tol. It returns the particle
// positions and the triangle indices into them, ready for
// SpringsFromTriangles.
func MeshParticles(m *TriangleMesh, tol float64) ([]Vec3, []int) {
	type cellKey [3]int64
	quant := func(v float32) int64 {
		if tol <= 0 {
			return int64(math.Float32bits(v))
		}
		return int64(math.Round(float64(v) / tol))
	}

	lookup := make(map[cellKey]int)
	var particles []Vec3
	indices := make([]int, 0, m.VertexCount())
	for i := 0; i+2 < len(m.Positions); i += 3 {
		x, y, z := m.Positions[i], m.Positions[i+1], m.Positions[i+2]
		key := cellKey{quant(x), quant(y), quant(z)}
		idx, ok := lookup[key]
		if !ok {
			idx = len(particles)
			lookup[key] = idx
			particles = append(particles, V3(float64(x), float64(y), float64(z)))
		}
		indices = append(indices, idx)
	}
	return particles, indices
}

// NewSoftBody welds m into particles and links every triangle edge with a
// spring, so a closed mesh such as NewSphereMesh simulates as a soft body.
// Each particle keeps the texture coordinate of its first vertex. The
// result draws through FillMesh like a cloth, but has no lattice: Cols,
// Rows, Index and TopCorners do not apply.
func NewSoftBody(m *TriangleMesh, tol float64) *ClothGrid {
	particles, indices := MeshParticles(m, tol)
	g := &ClothGrid{
		Rest:    particles,
		Springs: SpringsFromTriangles(particles, indices),
		Indices: indices,
		UVs:     make([]Vec2, len(particles)),
	}
	seen := make([]bool, len(particles))
	for k, idx := range indices {
		if seen[idx] || 2*k+1 >= len(m.TexCoords) {
			continue
		}
		seen[idx] = true
		g.UVs[idx] = Vec2{X: float64(m.TexCoords[2*k]), Y: float64(m.TexCoords[2*k+1])}
	}
	return g
}
