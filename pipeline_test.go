package gfxlab

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func assertColor(t *testing.T, name string, got, want Color) {
	t.Helper()
	if math.Abs(got.R-want.R) > 1e-9 || math.Abs(got.G-want.G) > 1e-9 ||
		math.Abs(got.B-want.B) > 1e-9 || math.Abs(got.A-want.A) > 1e-9 {
		t.Errorf("%s = %+v, want %+v", name, got, want)
	}
}

func solidTexture(c color.NRGBA) *Texture {
	return NewTexture(solidNRGBA(1, 1, c))
}

// --- Uniforms ---

func TestDefaultUniforms(t *testing.T) {
	u := DefaultUniforms()
	if u.MVP != Identity4 || u.MV != Identity4 || u.NormalMatrix != Identity3 {
		t.Error("matrices should default to identity")
	}
	if u.FlipYZ || u.TextureSelected {
		t.Error("FlipYZ and TextureSelected should default to false")
	}
	if !u.ShowTex || !u.Lighting {
		t.Error("ShowTex and Lighting should default to true")
	}
	if u.Shininess != 100 {
		t.Errorf("Shininess = %v, want 100", u.Shininess)
	}
}

func TestUniformsSet(t *testing.T) {
	u := DefaultUniforms()
	mv := ModelViewMatrix(1, 2, 3, 0, 0)

	sets := []struct {
		name  string
		value any
	}{
		{UniformMV, mv},
		{UniformFlipYZ, true},
		{UniformTextureSelected, true},
		{UniformLighting, false},
		{UniformLightDirection, V3(0, 0, 1)},
		{UniformShininess, float32(8)},
	}
	for _, s := range sets {
		if err := u.Set(s.name, s.value); err != nil {
			t.Fatalf("Set(%q): %v", s.name, err)
		}
	}

	if u.MV != mv {
		t.Error("MV not set")
	}
	if !u.FlipYZ || !u.TextureSelected || u.Lighting {
		t.Errorf("bools = %v %v %v, want true true false", u.FlipYZ, u.TextureSelected, u.Lighting)
	}
	if u.LightDirection != V3(0, 0, 1) {
		t.Errorf("LightDirection = %v", u.LightDirection)
	}
	if u.Shininess != 8 {
		t.Errorf("Shininess = %v, want 8", u.Shininess)
	}
}

func TestUniformsSetRejects(t *testing.T) {
	u := DefaultUniforms()
	if err := u.Set("texture", 0); err == nil {
		t.Error("unknown uniform should error")
	}
	if err := u.Set(UniformShowTex, 1); err == nil {
		t.Error("int for bool uniform should error")
	}
	if err := u.Set(UniformMVP, Identity3); err == nil {
		t.Error("Mat3 for mvp should error")
	}
	if u.MVP != Identity4 || !u.ShowTex {
		t.Error("rejected Set should leave uniforms unchanged")
	}
}

// --- vertex stage ---

func TestShadeVertexFlipYZ(t *testing.T) {
	u := DefaultUniforms()
	u.FlipYZ = true
	v := u.shadeVertex(V3(1, 2, 3), V3(0, 1, 0), Vec2{})

	assertVec(t, "pos", v.pos, V3(1, 3, 2))
	assertVec(t, "normal", v.normal, V3(0, 0, 1))
	if v.clip != [4]float64{1, 3, 2, 1} {
		t.Errorf("clip = %v, want [1 3 2 1]", v.clip)
	}
}

func TestShadeVertexNormalizesNormal(t *testing.T) {
	u := DefaultUniforms()
	v := u.shadeVertex(Vec3{}, V3(0, 3, 4), Vec2{})
	assertVec(t, "normal", v.normal, V3(0, 0.6, 0.8))
}

// --- fragment stage ---

func TestShadeFragmentUnlitDepthTint(t *testing.T) {
	u := DefaultUniforms()
	u.Lighting = false
	got := ShadeFragment(&u, Fragment{Depth: 0.5}, nil)
	assertColor(t, "color", got, Color{1, 0.25, 0, 1})
}

func TestShadeFragmentTextureNeedsBothFlags(t *testing.T) {
	tex := solidTexture(color.NRGBA{0, 0, 255, 255})
	u := DefaultUniforms()
	u.Lighting = false

	u.TextureSelected = false
	assertColor(t, "not selected", ShadeFragment(&u, Fragment{}, tex), Color{1, 0, 0, 1})

	u.TextureSelected = true
	u.ShowTex = false
	assertColor(t, "hidden", ShadeFragment(&u, Fragment{}, tex), Color{1, 0, 0, 1})

	u.ShowTex = true
	assertColor(t, "shown", ShadeFragment(&u, Fragment{}, tex), Color{0, 0, 1, 1})
}

func TestShadeFragmentGrazingLightIsBlack(t *testing.T) {
	u := DefaultUniforms()
	u.LightDirection = V3(0, 0, 1)
	f := Fragment{Normal: V3(1, 0, 0), Position: V3(0, 0, -1), Depth: 0.5}

	got := ShadeFragment(&u, f, nil)
	assertColor(t, "color", got, Color{0, 0, 0, 0})
}

func TestShadeFragmentDiffuseAndAmbient(t *testing.T) {
	u := DefaultUniforms()
	u.TextureSelected = true
	u.LightDirection = V3(0, math.Sqrt(0.75), 0.5)
	f := Fragment{Normal: V3(0, 0, 1), Position: V3(0, 0, -2)}

	// 102/255 = 0.4; diffuse = 0.4*0.5, ambient = 0.2*0.4, specular ~ 0.5^100.
	got := ShadeFragment(&u, f, solidTexture(color.NRGBA{102, 0, 0, 255}))
	assertNear(t, "R", got.R, 0.28)
	assertNear(t, "G", got.G, 0)
}

func TestShadeFragmentSpecularHighlight(t *testing.T) {
	u := DefaultUniforms()
	u.TextureSelected = true
	u.Shininess = 1
	u.LightDirection = V3(0, 0, 1)
	f := Fragment{Normal: V3(0, 0, 1), Position: V3(0, 0, -1)}

	got := ShadeFragment(&u, f, solidTexture(color.NRGBA{0, 0, 0, 255}))
	assertColor(t, "color", got, Color{1, 1, 1, 3})
}

func TestShadeFragmentShininessSharpensHighlight(t *testing.T) {
	u := DefaultUniforms()
	u.TextureSelected = true
	u.LightDirection = V3(0, 0, 1)
	// 45° between reflection and view.
	f := Fragment{Normal: V3(0, 0, 1), Position: V3(-1, 0, -1)}
	black := solidTexture(color.NRGBA{0, 0, 0, 255})

	u.Shininess = 1
	dull := ShadeFragment(&u, f, black).R
	u.Shininess = 50
	sharp := ShadeFragment(&u, f, black).R

	assertNear(t, "dull", dull, math.Sqrt(0.5))
	if !(sharp < dull) {
		t.Errorf("shininess 50 gave %v, want less than %v", sharp, dull)
	}
}

// --- Texture ---

func TestNewTextureNil(t *testing.T) {
	if NewTexture(nil) != nil {
		t.Error("nil image should give nil texture")
	}
	if NewTexture(image.NewNRGBA(image.Rectangle{})) != nil {
		t.Error("empty image should give nil texture")
	}
}

func TestTextureDropsAlpha(t *testing.T) {
	tex := solidTexture(color.NRGBA{255, 0, 0, 10})
	assertColor(t, "texel", tex.Sample(0.5, 0.5), Color{1, 0, 0, 1})
}

func TestTextureSampleBilinearRepeat(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{0, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{255, 255, 255, 255})
	tex := NewTexture(img)

	tests := []struct {
		u    float64
		want float64
	}{
		{0.25, 0},   // center of texel 0
		{0.75, 1},   // center of texel 1
		{0.5, 0.5},  // halfway
		{0, 0.5},    // wraps to texel 1 on the left
		{1.25, 0},   // repeat
		{-0.25, 1},  // negative repeat
		{0.375, 0.25},
	}
	for _, tt := range tests {
		got := tex.Sample(tt.u, 0.5)
		assertNear(t, "R", got.R, tt.want)
	}
}

func TestTextureTopRowIsVZero(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(0, 1, color.NRGBA{0, 0, 255, 255})
	tex := NewTexture(img)

	assertColor(t, "top", tex.Sample(0.5, 0.25), Color{1, 0, 0, 1})
	assertColor(t, "bottom", tex.Sample(0.5, 0.75), Color{0, 0, 1, 1})
}

func TestBufferIDString(t *testing.T) {
	if BufferNormal.String() != "normal" || BufferID(9).String() != "buffer(9)" {
		t.Errorf("got %q, %q", BufferNormal.String(), BufferID(9).String())
	}
}
