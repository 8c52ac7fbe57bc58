package gfxlab

import (
	"image"
	"math"
)

// Composite draws fg over bg in place. fgOpacity scales the foreground's
// alpha channel; fgPos is the foreground's top-left corner in bg pixel
// coordinates and may be negative. Only the overlapping region is touched.
//
// For every overlapping pixel whose scaled foreground alpha is positive,
// each color channel becomes α·fg + (1-α)·bg, and the alpha channel
// becomes the larger of the two alphas.
func Composite(bg, fg *image.NRGBA, fgOpacity float64, fgPos image.Point) {
	CompositeBlend(bg, fg, fgOpacity, fgPos, BlendNormal)
}

// CompositeBlend is Composite with a selectable blend mode. BlendNormal is
// the formula documented on Composite.
func CompositeBlend(bg, fg *image.NRGBA, fgOpacity float64, fgPos image.Point, mode BlendMode) {
	bb := bg.Bounds()
	fb := fg.Bounds()

	startX := max(fgPos.X, 0)
	startY := max(fgPos.Y, 0)
	endX := min(fgPos.X+fb.Dx(), bb.Dx())
	endY := min(fgPos.Y+fb.Dy(), bb.Dy())

	for y := startY; y < endY; y++ {
		for x := startX; x < endX; x++ {
			bi := bg.PixOffset(bb.Min.X+x, bb.Min.Y+y)
			fi := fg.PixOffset(fb.Min.X+x-fgPos.X, fb.Min.Y+y-fgPos.Y)

			fgAlpha := float64(fg.Pix[fi+3]) * fgOpacity
			if !(fgAlpha > 0) {
				continue
			}
			blendPixel(bg.Pix[bi:bi+4:bi+4], fg.Pix[fi:fi+4:fi+4], fgAlpha, mode)
		}
	}
}

// blendPixel mixes one foreground pixel into dst. fgAlpha is the scaled
// foreground alpha in [0, 255·opacity].
func blendPixel(dst, src []uint8, fgAlpha float64, mode BlendMode) {
	a := fgAlpha / 255

	if mode == BlendErase {
		dst[3] = clampByte(float64(dst[3]) * (1 - a))
		return
	}

	for c := 0; c < 3; c++ {
		d := float64(dst[c])
		s := float64(src[c])
		var v float64
		switch mode {
		case BlendAdd:
			v = d + a*s
		case BlendMultiply:
			v = a*(s*d/255) + (1-a)*d
		case BlendScreen:
			v = a*(255-(255-s)*(255-d)/255) + (1-a)*d
		default:
			v = a*s + (1-a)*d
		}
		dst[c] = clampByte(v)
	}
	dst[3] = clampByte(math.Max(float64(dst[3]), fgAlpha))
}

// clampByte converts to a byte the way a clamped 8-bit pixel array stores
// numbers: NaN becomes 0, values clamp to [0, 255], and halves round to even.
func clampByte(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}
