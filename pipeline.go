package gfxlab

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// BufferID names a vertex attribute stream.
type BufferID uint8

const (
	BufferPosition BufferID = iota // 3 floats per vertex
	BufferTexCoord                 // 2 floats per vertex
	BufferNormal                   // 3 floats per vertex
)

// String returns the attribute name used in error messages.
func (b BufferID) String() string {
	switch b {
	case BufferPosition:
		return "position"
	case BufferTexCoord:
		return "texcoord"
	case BufferNormal:
		return "normal"
	default:
		return fmt.Sprintf("buffer(%d)", uint8(b))
	}
}

// Uniform names understood by every RenderContext.
const (
	UniformMVP             = "mvp"             // Mat4
	UniformMV              = "mv"              // Mat4
	UniformNormalMatrix    = "matrixNormal"    // Mat3
	UniformFlipYZ          = "flipYZ"          // bool
	UniformShowTex         = "showTex"         // bool
	UniformTextureSelected = "textureSelected" // bool
	UniformLightDirection  = "lightDirection"  // Vec3
	UniformShininess       = "shininess"       // float64
	UniformLighting        = "lighting"        // bool
)

// RenderContext is the drawing surface a MeshDrawer talks to. It owns the
// vertex buffers, the uniform values and the bound texture. Implementations
// are not safe for concurrent use.
type RenderContext interface {
	// BufferData replaces the contents of one attribute stream.
	BufferData(id BufferID, data []float32)
	// SetUniform assigns a shader uniform by name.
	SetUniform(name string, value any)
	// SetTexture binds img as the only texture. A nil image unbinds it.
	SetTexture(img image.Image)
	// DrawArrays draws the first vertexCount vertices as a triangle list.
	DrawArrays(vertexCount int) error
}

// Uniforms is the full set of shader inputs that stay constant across one
// draw call.
type Uniforms struct {
	MVP             Mat4
	MV              Mat4
	NormalMatrix    Mat3
	FlipYZ          bool
	ShowTex         bool
	TextureSelected bool
	LightDirection  Vec3
	Shininess       float64
	Lighting        bool
}

// DefaultUniforms returns identity matrices, textures shown, lighting on and
// a shininess of 100.
func DefaultUniforms() Uniforms {
	return Uniforms{
		MVP:          Identity4,
		MV:           Identity4,
		NormalMatrix: Identity3,
		ShowTex:      true,
		Shininess:    100,
		Lighting:     true,
	}
}

// Set assigns the uniform called name. It reports an error for unknown
// names and for values of the wrong type; u is unchanged in that case.
func (u *Uniforms) Set(name string, value any) error {
	ok := true
	switch name {
	case UniformMVP, UniformMV:
		m, isMat := value.(Mat4)
		if ok = isMat; ok {
			if name == UniformMVP {
				u.MVP = m
			} else {
				u.MV = m
			}
		}
	case UniformNormalMatrix:
		m, isMat := value.(Mat3)
		if ok = isMat; ok {
			u.NormalMatrix = m
		}
	case UniformLightDirection:
		v, isVec := value.(Vec3)
		if ok = isVec; ok {
			u.LightDirection = v
		}
	case UniformShininess:
		switch v := value.(type) {
		case float64:
			u.Shininess = v
		case float32:
			u.Shininess = float64(v)
		case int:
			u.Shininess = float64(v)
		default:
			ok = false
		}
	case UniformFlipYZ, UniformShowTex, UniformTextureSelected, UniformLighting:
		b, isBool := value.(bool)
		if ok = isBool; !ok {
			break
		}
		switch name {
		case UniformFlipYZ:
			u.FlipYZ = b
		case UniformShowTex:
			u.ShowTex = b
		case UniformTextureSelected:
			u.TextureSelected = b
		case UniformLighting:
			u.Lighting = b
		}
	default:
		return fmt.Errorf("gfxlab: unknown uniform %q", name)
	}
	if !ok {
		return fmt.Errorf("gfxlab: uniform %q: unexpected value type %T", name, value)
	}
	return nil
}

// shadedVertex is the output of the vertex stage.
type shadedVertex struct {
	clip   [4]float64
	pos    Vec3 // view space
	normal Vec3 // view space, unit length
	uv     Vec2
}

// shadeVertex runs the vertex stage for one vertex.
func (u *Uniforms) shadeVertex(p, n Vec3, uv Vec2) shadedVertex {
	if u.FlipYZ {
		p = swapYZ.MulPoint(p)
		n = swapYZ.Upper3().MulVec(n)
	}
	view := u.MV.MulPoint(p)
	return shadedVertex{
		clip:   u.MVP.MulVec4(p[0], p[1], p[2], 1),
		pos:    view,
		normal: u.NormalMatrix.MulVec(n).Unit(),
		uv:     uv,
	}
}

// Fragment holds the interpolated inputs of the fragment stage.
type Fragment struct {
	Normal   Vec3    // view space, interpolated (not renormalized)
	Position Vec3    // view space
	UV       Vec2    // texture coordinate
	Depth    float64 // window depth in [0, 1]
}

// ShadeFragment returns the color of one fragment. tex may be nil.
//
// The base color is the texture sample when ShowTex and TextureSelected are
// both set, otherwise (1, depth², 0, 1). With Lighting on, the result is
//
//	diffuse  = base · clamp(n·L)
//	ambient  = diffuse · base
//	specular = clamp(r·v)^shininess, r = normalize(2(n̂·L)n - L), v = normalize(-pos)
//	color    = diffuse + specular + ambient
//
// with a white light. The returned color is not clamped.
func ShadeFragment(u *Uniforms, f Fragment, tex *Texture) Color {
	var base Color
	if u.ShowTex && u.TextureSelected && tex != nil {
		base = tex.Sample(f.UV.X, f.UV.Y)
	} else {
		base = Color{1, f.Depth * f.Depth, 0, 1}
	}
	if !u.Lighting {
		return base
	}

	light := u.LightDirection
	baseRGB := Color{base.R, base.G, base.B, 1}

	diffuse := baseRGB.Scale(clamp01(f.Normal.Dot(light)))
	ambient := diffuse.Mul(baseRGB)

	reflection := f.Normal.Mul(2 * f.Normal.Unit().Dot(light)).Sub(light).Unit()
	view := f.Position.Mul(-1).Unit()
	phi := clamp01(reflection.Dot(view))
	s := math.Pow(phi, u.Shininess)
	specular := ColorWhite.Scale(s)

	return ColorWhite.Mul(diffuse.Add(specular)).Add(ambient)
}

// Texture is an RGB image prepared for sampling. Alpha is dropped.
type Texture struct {
	width, height int
	texels        []Color
}

// NewTexture copies img into a Texture. It returns nil for a nil or empty
// image.
func NewTexture(img image.Image) *Texture {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	if b.Empty() {
		return nil
	}
	t := &Texture{
		width:  b.Dx(),
		height: b.Dy(),
		texels: make([]Color, b.Dx()*b.Dy()),
	}
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			c.A = 255
			t.texels[y*t.width+x] = colorFromNRGBA(c)
		}
	}
	return t
}

// Size returns the texture dimensions in texels.
func (t *Texture) Size() (int, int) {
	return t.width, t.height
}

// Sample returns the bilinearly filtered color at (u, v). Coordinates wrap
// (repeat) outside [0, 1); v = 0 is the top row of the source image.
func (t *Texture) Sample(u, v float64) Color {
	x := u*float64(t.width) - 0.5
	y := v*float64(t.height) - 0.5
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	fx := x - x0
	fy := y - y0

	ix0, ix1 := wrap(int(x0), t.width), wrap(int(x0)+1, t.width)
	iy0, iy1 := wrap(int(y0), t.height), wrap(int(y0)+1, t.height)

	c00 := t.texels[iy0*t.width+ix0]
	c10 := t.texels[iy0*t.width+ix1]
	c01 := t.texels[iy1*t.width+ix0]
	c11 := t.texels[iy1*t.width+ix1]

	top := c00.Scale(1 - fx).Add(c10.Scale(fx))
	bottom := c01.Scale(1 - fx).Add(c11.Scale(fx))
	return top.Scale(1 - fy).Add(bottom.Scale(fy))
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
