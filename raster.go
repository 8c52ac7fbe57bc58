package gfxlab

import (
	"fmt"
	"image"
	"log"
	"math"
)

// SoftwareContext is a CPU RenderContext. It rasterizes triangle lists into
// an NRGBA color buffer with a depth buffer, using perspective-correct
// attribute interpolation. Every written pixel is opaque.
type SoftwareContext struct {
	width, height int
	color         *image.NRGBA
	depth         []float64
	clearColor    Color

	uniforms  Uniforms
	positions []float32
	texCoords []float32
	normals   []float32
	texture   *Texture
}

// NewSoftwareContext creates a cleared context of the given size. Non-positive
// dimensions are raised to 1.
func NewSoftwareContext(width, height int) *SoftwareContext {
	width = max(width, 1)
	height = max(height, 1)
	c := &SoftwareContext{
		width:      width,
		height:     height,
		color:      image.NewNRGBA(image.Rect(0, 0, width, height)),
		depth:      make([]float64, width*height),
		clearColor: ColorBlack,
		uniforms:   DefaultUniforms(),
	}
	c.Clear()
	return c
}

// Size returns the framebuffer dimensions.
func (c *SoftwareContext) Size() (int, int) {
	return c.width, c.height
}

// SetClearColor sets the color used by Clear.
func (c *SoftwareContext) SetClearColor(col Color) {
	c.clearColor = col
}

// Clear fills the color buffer with the clear color and resets every depth
// value to 1.
func (c *SoftwareContext) Clear() {
	px := c.clearColor.NRGBA()
	pix := c.color.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = px.R
		pix[i+1] = px.G
		pix[i+2] = px.B
		pix[i+3] = px.A
	}
	for i := range c.depth {
		c.depth[i] = 1
	}
}

// Image returns the color buffer. It is reused across frames.
func (c *SoftwareContext) Image() *image.NRGBA {
	return c.color
}

// DepthAt returns the stored depth of pixel (x, y).
func (c *SoftwareContext) DepthAt(x, y int) float64 {
	return c.depth[y*c.width+x]
}

// Uniforms returns the current uniform values.
func (c *SoftwareContext) Uniforms() Uniforms {
	return c.uniforms
}

// BufferData copies data into the attribute stream id.
func (c *SoftwareContext) BufferData(id BufferID, data []float32) {
	switch id {
	case BufferPosition:
		c.positions = append(c.positions[:0], data...)
	case BufferTexCoord:
		c.texCoords = append(c.texCoords[:0], data...)
	case BufferNormal:
		c.normals = append(c.normals[:0], data...)
	default:
		log.Printf("gfxlab: ignoring data for unknown %s", id)
	}
}

// SetUniform assigns a uniform. Unknown names and mismatched types are
// logged and ignored.
func (c *SoftwareContext) SetUniform(name string, value any) {
	if err := c.uniforms.Set(name, value); err != nil {
		log.Print(err)
	}
}

// SetTexture binds img. A nil image unbinds the texture.
func (c *SoftwareContext) SetTexture(img image.Image) {
	c.texture = NewTexture(img)
}

// DrawArrays rasterizes the first vertexCount vertices as triangles. A
// trailing partial triangle is ignored. Missing texture coordinates or
// normals read as zero.
func (c *SoftwareContext) DrawArrays(vertexCount int) error {
	if vertexCount < 0 {
		return fmt.Errorf("gfxlab: negative vertex count %d", vertexCount)
	}
	if have := len(c.positions) / 3; vertexCount > have {
		return fmt.Errorf("gfxlab: draw of %d vertices exceeds %s buffer of %d", vertexCount, BufferPosition, have)
	}

	var tri [3]shadedVertex
	for v := 0; v+3 <= vertexCount; v += 3 {
		for k := 0; k < 3; k++ {
			tri[k] = c.uniforms.shadeVertex(attribVec3(c.positions, v+k), attribVec3(c.normals, v+k), attribVec2(c.texCoords, v+k))
		}
		c.rasterize(&tri)
	}
	return nil
}

// attribVec3 reads vertex i of a 3-float stream. Missing data reads as zero.
func attribVec3(buf []float32, i int) Vec3 {
	if 3*i+2 >= len(buf) {
		return Vec3{}
	}
	return Vec3{float64(buf[3*i]), float64(buf[3*i+1]), float64(buf[3*i+2])}
}

// attribVec2 reads vertex i of a 2-float stream. Missing data reads as zero.
func attribVec2(buf []float32, i int) Vec2 {
	if 2*i+1 >= len(buf) {
		return Vec2{}
	}
	return Vec2{float64(buf[2*i]), float64(buf[2*i+1])}
}

// rasterize fills one triangle. Triangles with a vertex at or behind the eye
// (w <= 0) are dropped whole. Both windings are drawn.
func (c *SoftwareContext) rasterize(tri *[3]shadedVertex) {
	var sx, sy, sz, invW [3]float64
	for k := range tri {
		w := tri[k].clip[3]
		if !(w > 0) {
			return
		}
		invW[k] = 1 / w
		sx[k] = (tri[k].clip[0]*invW[k] + 1) * 0.5 * float64(c.width)
		sy[k] = (1 - tri[k].clip[1]*invW[k]) * 0.5 * float64(c.height)
		sz[k] = (tri[k].clip[2]*invW[k] + 1) * 0.5
	}

	area := edge(sx[0], sy[0], sx[1], sy[1], sx[2], sy[2])
	if area == 0 || math.IsNaN(area) {
		return
	}

	minX := max(int(math.Floor(min(sx[0], sx[1], sx[2]))), 0)
	maxX := min(int(math.Ceil(max(sx[0], sx[1], sx[2]))), c.width-1)
	minY := max(int(math.Floor(min(sy[0], sy[1], sy[2]))), 0)
	maxY := min(int(math.Ceil(max(sy[0], sy[1], sy[2]))), c.height-1)

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			b0 := edge(sx[1], sy[1], sx[2], sy[2], px, py) / area
			b1 := edge(sx[2], sy[2], sx[0], sy[0], px, py) / area
			b2 := edge(sx[0], sy[0], sx[1], sy[1], px, py) / area
			if b0 < 0 || b1 < 0 || b2 < 0 {
				continue
			}

			z := b0*sz[0] + b1*sz[1] + b2*sz[2]
			if z < 0 || z > 1 {
				continue
			}
			i := y*c.width + x
			if !(z < c.depth[i]) {
				continue
			}

			p := perspectiveWeights([3]float64{b0, b1, b2}, invW)
			frag := Fragment{
				Normal:   lerp3(p, tri[0].normal, tri[1].normal, tri[2].normal),
				Position: lerp3(p, tri[0].pos, tri[1].pos, tri[2].pos),
				UV: Vec2{
					X: p[0]*tri[0].uv.X + p[1]*tri[1].uv.X + p[2]*tri[2].uv.X,
					Y: p[0]*tri[0].uv.Y + p[1]*tri[1].uv.Y + p[2]*tri[2].uv.Y,
				},
				Depth: z,
			}
			col := ShadeFragment(&c.uniforms, frag, c.texture)
			col.A = 1
			px8 := col.NRGBA()

			c.depth[i] = z
			o := i * 4
			c.color.Pix[o+0] = px8.R
			c.color.Pix[o+1] = px8.G
			c.color.Pix[o+2] = px8.B
			c.color.Pix[o+3] = px8.A
		}
	}
}

// edge returns twice the signed area of the triangle (a, b, p).
func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// perspectiveWeights converts screen-space barycentrics to weights that
// interpolate attributes linearly in view space.
func perspectiveWeights(b, invW [3]float64) [3]float64 {
	w0 := b[0] * invW[0]
	w1 := b[1] * invW[1]
	w2 := b[2] * invW[2]
	sum := w0 + w1 + w2
	return [3]float64{w0 / sum, w1 / sum, w2 / sum}
}

func lerp3(p [3]float64, a, b, c Vec3) Vec3 {
	return a.Mul(p[0]).Add(b.Mul(p[1])).Add(c.Mul(p[2]))
}
