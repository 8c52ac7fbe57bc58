package gfxlab

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default light color.
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is the default clear color of a SoftwareContext.
var ColorBlack = Color{0, 0, 0, 1}

// Add returns the component-wise sum of c and o.
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B, c.A + o.A}
}

// Mul returns the component-wise product of c and o.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

// Scale multiplies every component, alpha included, by s.
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s, c.A * s}
}

// Clamp limits every component to [0, 1].
func (c Color) Clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

// NRGBA converts to an 8-bit straight-alpha color.
func (c Color) NRGBA() color.NRGBA {
	c = c.Clamp()
	return color.NRGBA{
		R: uint8(math.Round(c.R * 255)),
		G: uint8(math.Round(c.G * 255)),
		B: uint8(math.Round(c.B * 255)),
		A: uint8(math.Round(c.A * 255)),
	}
}

// colorFromNRGBA converts an 8-bit straight-alpha color to a Color.
func colorFromNRGBA(c color.NRGBA) Color {
	return Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

// Vec2 is a 2D vector used for texture coordinates and 2D points.
type Vec2 struct {
	X, Y float64
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value
// for GPU drawing and to a CPU formula in CompositeBlend.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // alpha-weighted source-over, alpha = max(src, dst)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendScreen                    // screen (1 - (1-src)*(1-dst); only brightens)
	BlendErase                     // destination-out (punch transparent holes)
)

// String returns the mode name used in logs and demos.
func (b BlendMode) String() string {
	switch b {
	case BlendNormal:
		return "normal"
	case BlendAdd:
		return "add"
	case BlendMultiply:
		return "multiply"
	case BlendScreen:
		return "screen"
	case BlendErase:
		return "erase"
	default:
		return "unknown"
	}
}

// EbitenBlend returns the ebiten.Blend that draws what CompositeBlend
// computes on the CPU for the same mode. Ebiten sources are premultiplied,
// so s below is already a·s in CompositeBlend's terms.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendNormal:
		// d' = s + (1-a)·d
		return ebiten.BlendSourceOver
	case BlendAdd:
		// d' = s + d
		return ebiten.BlendLighter
	case BlendMultiply:
		// d' = s·d + (1-a)·d
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendScreen:
		// d' = s + (1-s)·d, which expands to CompositeBlend's
		// a·(1-(1-s)(1-d)) + (1-a)·d.
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendErase:
		// Only alpha changes: d.a' = (1-a)·d.a. Ebiten also scales the
		// destination color, which is invisible once alpha is straight.
		return ebiten.BlendDestinationOut
	default:
		return ebiten.BlendSourceOver
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
