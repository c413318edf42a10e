// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster implements the CPU rasterization steps of the heatmap
// render pipeline: radial splat accumulation and exact-area box coverage.
package raster

import (
	"image"
	"math"

	"github.com/gogpu/heatmap/internal/blend"
)

// Weight returns the radial weight for a squared normalized distance r2 in
// [0, 1].
type Weight func(r2 float32) float32

// Splat accumulates one radial splat into a single-channel alpha buffer of
// size w×h.
//
// The splat is centred at (cx, cy) in pixel units and has the given radius.
// Pixel (x, y) is sampled at the integer position (x, y), so a center that
// falls on integer coordinates is sampled at r = 0. Inside the unit disk the
// fragment alpha is alpha·weight(r²); it is blended with
// blend.AccumulateAlpha. When quantize is set the result is rounded to 8
// bits after every blend.
func Splat(dst []float32, w, h int, cx, cy, radius float64, alpha float32, weight Weight, quantize bool) {
	b, ok := SplatBounds(cx, cy, radius, w, h)
	if !ok {
		return
	}
	inv := 1 / radius
	for y := b.Min.Y; y < b.Max.Y; y++ {
		dy := (float64(y) - cy) * inv
		row := dst[y*w : (y+1)*w]
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := (float64(x) - cx) * inv
			r2 := float32(dx*dx + dy*dy)
			if r2 > 1 {
				continue
			}
			v := blend.AccumulateAlpha(alpha*weight(r2), row[x])
			if quantize {
				v = blend.Unorm8(v)
			}
			row[x] = v
		}
	}
}

// SplatBounds returns the pixels whose integer sample positions can fall
// inside a splat, clipped to a w×h buffer. ok is false when there are none.
func SplatBounds(cx, cy, radius float64, w, h int) (b image.Rectangle, ok bool) {
	if !(radius > 0) || !finite(cx) || !finite(cy) {
		return image.Rectangle{}, false
	}
	x0, x1, ok := span(cx, radius, w)
	if !ok {
		return image.Rectangle{}, false
	}
	y0, y1, ok := span(cy, radius, h)
	if !ok {
		return image.Rectangle{}, false
	}
	return image.Rect(x0, y0, x1+1, y1+1), true
}

// span returns the inclusive integer range [c-r, c+r] clipped to [0, n-1].
func span(c, r float64, n int) (int, int, bool) {
	lo := math.Max(math.Ceil(c-r), 0)
	hi := math.Min(math.Floor(c+r), float64(n-1))
	if lo > hi {
		return 0, 0, false
	}
	return int(lo), int(hi), true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
