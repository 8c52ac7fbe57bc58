package gfxlab

import (
	"image"
	"log"
)

// MeshDrawer draws one triangle mesh with Phong shading through a
// RenderContext. It keeps no GPU state of its own; every setting is pushed
// to the context as a uniform.
type MeshDrawer struct {
	ctx         RenderContext
	vertexCount int
}

// NewMeshDrawer creates a drawer bound to ctx and pushes the default
// uniforms: no Y/Z swap, textures shown but none selected, shininess 100,
// lighting on.
func NewMeshDrawer(ctx RenderContext) *MeshDrawer {
	d := &MeshDrawer{ctx: ctx}
	ctx.SetUniform(UniformFlipYZ, false)
	ctx.SetUniform(UniformShowTex, true)
	ctx.SetUniform(UniformTextureSelected, false)
	ctx.SetUniform(UniformShininess, 100.0)
	ctx.SetUniform(UniformLighting, true)
	return d
}

// Context returns the RenderContext the drawer is bound to.
func (d *MeshDrawer) Context() RenderContext {
	return d.ctx
}

// VertexCount returns the number of vertices uploaded by SetMesh.
func (d *MeshDrawer) VertexCount() int {
	return d.vertexCount
}

// SetMesh uploads the flat vertex arrays: three floats per position, two
// per texture coordinate, three per normal.
func (d *MeshDrawer) SetMesh(vertPos, texCoords, normals []float32) {
	d.vertexCount = len(vertPos) / 3
	if len(texCoords) != 0 && len(texCoords)/2 != d.vertexCount {
		log.Printf("gfxlab: mesh has %d vertices but %d texcoords", d.vertexCount, len(texCoords)/2)
	}
	if len(normals) != 0 && len(normals)/3 != d.vertexCount {
		log.Printf("gfxlab: mesh has %d vertices but %d normals", d.vertexCount, len(normals)/3)
	}
	d.ctx.BufferData(BufferPosition, vertPos)
	d.ctx.BufferData(BufferTexCoord, texCoords)
	d.ctx.BufferData(BufferNormal, normals)
}

// SetTriangleMesh uploads m.
func (d *MeshDrawer) SetTriangleMesh(m *TriangleMesh) {
	d.SetMesh(m.Positions, m.TexCoords, m.Normals)
}

// SwapYZ toggles exchanging the Y and Z axes of positions and normals,
// for models authored Z-up.
func (d *MeshDrawer) SwapYZ(swap bool) {
	d.ctx.SetUniform(UniformFlipYZ, swap)
}

// Draw renders the mesh with the given model-view-projection, model-view
// and normal matrices.
func (d *MeshDrawer) Draw(mvp, mv Mat4, normal Mat3) error {
	d.ctx.SetUniform(UniformMVP, mvp)
	d.ctx.SetUniform(UniformMV, mv)
	d.ctx.SetUniform(UniformNormalMatrix, normal)
	return d.ctx.DrawArrays(d.vertexCount)
}

// SetTexture binds img and selects it for sampling.
func (d *MeshDrawer) SetTexture(img image.Image) {
	d.ctx.SetTexture(img)
	d.ctx.SetUniform(UniformTextureSelected, img != nil)
}

// ShowTexture toggles texture sampling. With it off, or with no texture
// selected, fragments use a depth-tinted base color.
func (d *MeshDrawer) ShowTexture(show bool) {
	d.ctx.SetUniform(UniformShowTex, show)
}

// SetLightDir sets the view-space direction toward the light. It is used
// as given; callers pass a unit vector.
func (d *MeshDrawer) SetLightDir(x, y, z float64) {
	d.ctx.SetUniform(UniformLightDirection, V3(x, y, z))
}

// SetShininess sets the specular exponent.
func (d *MeshDrawer) SetShininess(shininess float64) {
	d.ctx.SetUniform(UniformShininess, shininess)
}

// SetLighting toggles Phong shading. With it off the base color is drawn
// unlit.
func (d *MeshDrawer) SetLighting(on bool) {
	d.ctx.SetUniform(UniformLighting, on)
}
