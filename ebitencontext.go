package gfxlab

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"log"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// phongShaderSrc is the fragment stage of ShadeFragment in Kage.
//
// Vertex attributes arrive as: src = texel position, color.rgb = view-space
// normal, color.a = window depth, custom.xyz = view-space position.
const phongShaderSrc = `//kage:unit pixels
package main

var Textured float
var Lighting float
var LightDirection vec3
var Shininess float

func texelRepeat(p vec2) vec4 {
	origin := imageSrc0Origin()
	size := imageSrc0Size()
	return imageSrc0At(mod(p-origin, size) + origin)
}

func sampleTexture(p vec2) vec3 {
	p0 := p - 1/2.0
	p1 := p + 1/2.0
	c0 := texelRepeat(p0)
	c1 := texelRepeat(vec2(p1.x, p0.y))
	c2 := texelRepeat(vec2(p0.x, p1.y))
	c3 := texelRepeat(p1)
	rate := fract(p1)
	return mix(mix(c0, c1, rate.x), mix(c2, c3, rate.x), rate.y).rgb
}

func Fragment(dst vec4, src vec2, color vec4, custom vec4) vec4 {
	normal := color.xyz
	depth := color.a
	base := vec3(1, depth*depth, 0)
	if Textured > 0 {
		base = sampleTexture(src)
	}
	if Lighting == 0 {
		return vec4(clamp(base, 0, 1), 1)
	}

	light := LightDirection
	diffuse := base * clamp(dot(normal, light), 0, 1)
	ambient := diffuse * base
	r := normalize(normal*2*dot(normalize(normal), light) - light)
	v := normalize(-custom.xyz)
	s := pow(clamp(dot(r, v), 0, 1), Shininess)
	return vec4(clamp(diffuse+vec3(s)+ambient, 0, 1), 1)
}
`

// Compiled lazily; the pipeline is single-threaded.
var phongShader *ebiten.Shader

func ensurePhongShader() (*ebiten.Shader, error) {
	if phongShader == nil {
		s, err := ebiten.NewShader([]byte(phongShaderSrc))
		if err != nil {
			return nil, fmt.Errorf("gfxlab: compile phong shader: %w", err)
		}
		phongShader = s
	}
	return phongShader, nil
}

// gpuTriangle is one projected triangle waiting to be sorted.
type gpuTriangle struct {
	v     [3]ebiten.Vertex
	depth float64
}

// EbitenContext is a RenderContext that draws into an ebiten.Image with
// DrawTrianglesShader and a Kage port of ShadeFragment. The vertex stage
// runs on the CPU exactly as in SoftwareContext.
//
// There is no depth buffer: triangles are sorted far to near by mean depth
// and painted in that order. Attributes are interpolated linearly in screen
// space. Draws must happen inside ebiten's game loop.
type EbitenContext struct {
	width, height int
	target        *ebiten.Image
	clearColor    Color

	uniforms  Uniforms
	positions []float32
	texCoords []float32
	normals   []float32
	texture   *ebiten.Image
	texW      float64
	texH      float64

	tris  []gpuTriangle
	verts []ebiten.Vertex
	inds  []uint32

	shaderUniforms map[string]any
	light          [3]float32
	lightSlice     []float32
	op             ebiten.DrawTrianglesShaderOptions
}

// NewEbitenContext creates a context with an offscreen target of the given
// size. Non-positive dimensions are raised to 1.
func NewEbitenContext(width, height int) *EbitenContext {
	width = max(width, 1)
	height = max(height, 1)
	c := &EbitenContext{
		width:          width,
		height:         height,
		target:         ebiten.NewImage(width, height),
		clearColor:     ColorBlack,
		uniforms:       DefaultUniforms(),
		shaderUniforms: make(map[string]any, 4),
	}
	c.lightSlice = c.light[:]
	c.shaderUniforms["LightDirection"] = c.lightSlice
	return c
}

// Size returns the target dimensions.
func (c *EbitenContext) Size() (int, int) {
	return c.width, c.height
}

// Image returns the render target. It is reused across frames.
func (c *EbitenContext) Image() *ebiten.Image {
	return c.target
}

// Uniforms returns the current uniform values.
func (c *EbitenContext) Uniforms() Uniforms {
	return c.uniforms
}

// SetClearColor sets the color used by Clear.
func (c *EbitenContext) SetClearColor(col Color) {
	c.clearColor = col
}

// Clear fills the target with the clear color.
func (c *EbitenContext) Clear() {
	c.target.Fill(c.clearColor.NRGBA())
}

// BufferData copies data into the attribute stream id.
func (c *EbitenContext) BufferData(id BufferID, data []float32) {
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
func (c *EbitenContext) SetUniform(name string, value any) {
	if err := c.uniforms.Set(name, value); err != nil {
		log.Print(err)
	}
}

// SetTexture uploads an opaque copy of img. A nil image unbinds the
// texture.
func (c *EbitenContext) SetTexture(img image.Image) {
	if c.texture != nil {
		c.texture.Deallocate()
		c.texture = nil
	}
	if img == nil || img.Bounds().Empty() {
		return
	}
	b := img.Bounds()
	opaque := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			px := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			px.A = 255
			opaque.SetNRGBA(x, y, px)
		}
	}
	c.texture = ebiten.NewImageFromImage(opaque)
	c.texW = float64(b.Dx())
	c.texH = float64(b.Dy())
}

// textured reports whether fragments sample the bound texture.
func (c *EbitenContext) textured() bool {
	return c.uniforms.ShowTex && c.uniforms.TextureSelected && c.texture != nil
}

// DrawArrays draws the first vertexCount vertices as triangles. A trailing
// partial triangle is ignored.
func (c *EbitenContext) DrawArrays(vertexCount int) error {
	if vertexCount < 0 {
		return fmt.Errorf("gfxlab: negative vertex count %d", vertexCount)
	}
	if have := len(c.positions) / 3; vertexCount > have {
		return fmt.Errorf("gfxlab: draw of %d vertices exceeds %s buffer of %d", vertexCount, BufferPosition, have)
	}
	if c.prepare(vertexCount) == 0 {
		return nil
	}

	shader, err := ensurePhongShader()
	if err != nil {
		return err
	}
	c.syncShaderUniforms()
	c.op.Uniforms = c.shaderUniforms
	c.op.Images[0] = nil
	if c.textured() {
		c.op.Images[0] = c.texture
	}

	// Vertices are unique per triangle, so splitting at a triangle boundary
	// keeps the painter's order.
	chunk := ebiten.MaxVertexCount / 3 * 3
	for from := 0; from < len(c.verts); from += chunk {
		to := min(from+chunk, len(c.verts))
		c.target.DrawTrianglesShader32(c.verts[from:to], c.inds[:to-from], shader, &c.op)
	}
	return nil
}

// prepare runs the vertex stage for vertexCount vertices and fills verts
// and inds with the visible triangles sorted far to near. It returns the
// number of triangles kept.
func (c *EbitenContext) prepare(vertexCount int) int {
	c.tris = c.tris[:0]
	for v := 0; v+3 <= vertexCount; v += 3 {
		var tri gpuTriangle
		visible := true
		for k := 0; k < 3; k++ {
			sv := c.uniforms.shadeVertex(
				attribVec3(c.positions, v+k),
				attribVec3(c.normals, v+k),
				attribVec2(c.texCoords, v+k),
			)
			w := sv.clip[3]
			if !(w > 0) {
				visible = false
				break
			}
			z := (sv.clip[2]/w + 1) * 0.5
			tri.v[k] = ebiten.Vertex{
				DstX:    float32((sv.clip[0]/w + 1) * 0.5 * float64(c.width)),
				DstY:    float32((1 - sv.clip[1]/w) * 0.5 * float64(c.height)),
				SrcX:    float32(sv.uv.X * c.texW),
				SrcY:    float32(sv.uv.Y * c.texH),
				ColorR:  float32(sv.normal[0]),
				ColorG:  float32(sv.normal[1]),
				ColorB:  float32(sv.normal[2]),
				ColorA:  float32(z),
				Custom0: float32(sv.pos[0]),
				Custom1: float32(sv.pos[1]),
				Custom2: float32(sv.pos[2]),
			}
			tri.depth += z / 3
		}
		if visible {
			c.tris = append(c.tris, tri)
		}
	}

	slices.SortStableFunc(c.tris, func(a, b gpuTriangle) int {
		return cmp.Compare(b.depth, a.depth)
	})

	c.verts = c.verts[:0]
	c.inds = c.inds[:0]
	for i := range c.tris {
		c.verts = append(c.verts, c.tris[i].v[:]...)
	}
	for i := range c.verts {
		c.inds = append(c.inds, uint32(i))
	}
	return len(c.tris)
}

func (c *EbitenContext) syncShaderUniforms() {
	u := &c.uniforms
	c.light[0] = float32(u.LightDirection[0])
	c.light[1] = float32(u.LightDirection[1])
	c.light[2] = float32(u.LightDirection[2])
	c.shaderUniforms["Shininess"] = float32(u.Shininess)
	c.shaderUniforms["Textured"] = boolFloat(c.textured())
	c.shaderUniforms["Lighting"] = boolFloat(u.Lighting)
}

func boolFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// Snapshot reads the target back into a straight-alpha image. Like
// ebiten.Image.ReadPixels it only works while the game is running.
func (c *EbitenContext) Snapshot() *image.NRGBA {
	pixels := make([]byte, 4*c.width*c.height)
	c.target.ReadPixels(pixels)

	img := image.NewNRGBA(image.Rect(0, 0, c.width, c.height))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}
