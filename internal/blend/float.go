// Package blend provides the float blending operations of the heatmap
// renderer, from alpha accumulation to coverage compositing onto NRGBA
// pixels.
package blend

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Clamp limits x to [lo, hi]. NaN is returned unchanged.
func Clamp[T constraints.Float](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Mix returns a + (b-a)*t, the GLSL mix function.
func Mix[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// Remap returns the position of v inside [lo, hi] as a fraction.
func Remap[T constraints.Float](lo, hi, v T) T {
	return (v - lo) / (hi - lo)
}

// AccumulateAlpha blends a source alpha into a destination alpha with the
// ONE, ONE_MINUS_SRC_ALPHA blend function and the FUNC_ADD equation. The
// source is clamped to [0, 1] first, as a normalized color attachment does.
func AccumulateAlpha(src, dst float32) float32 {
	src = Clamp(src, 0, 1)
	return src + dst*(1-src)
}

// Unorm8 rounds x to the nearest value representable in an 8-bit
// normalized channel.
func Unorm8(x float32) float32 {
	return float32(math.Round(float64(Clamp(x, 0, 1))*255)) / 255
}

// CoverNRGBA replaces the non-premultiplied RGBA8 pixel px with src where
// the pixel is covered by m in [0, 1]. Partial coverage mixes old and new
// colors in premultiplied space, which is how a multisampled target without
// blending resolves an edge.
func CoverNRGBA(px []byte, src [4]float32, m float32) {
	if m >= 1 {
		px[0], px[1], px[2], px[3] = ToByte(src[0]), ToByte(src[1]), ToByte(src[2]), ToByte(src[3])
		return
	}
	if !(m > 0) {
		return
	}
	da := float32(px[3]) / 255
	sa := Clamp(src[3], 0, 1)
	oa := Mix(da, sa, m)
	if oa <= 0 {
		px[0], px[1], px[2], px[3] = 0, 0, 0, 0
		return
	}
	for i := 0; i < 3; i++ {
		d := float32(px[i]) / 255 * da
		s := Clamp(src[i], 0, 1) * sa
		px[i] = ToByte(Mix(d, s, m) / oa)
	}
	px[3] = ToByte(oa)
}

// ToByte converts a [0, 1] channel to 0..255 with rounding.
func ToByte(x float32) uint8 {
	if !(x > 0) {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return uint8(math.Round(float64(x) * 255))
}
