// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// Coverage computes antialiased coverage masks of axis-aligned boxes.
// The rasterizer and mask memory are reused between calls.
type Coverage struct {
	z   *vector.Rasterizer
	pix []uint8
}

// Box rasterizes the box spanned by (x0, y0) and (x1, y1), in pixel units,
// clipped to clip. It returns the coverage mask (255 = fully covered) and
// the pixel bounds the mask maps to. The mask is only valid until the next
// call. A nil mask means nothing is covered.
func (c *Coverage) Box(x0, y0, x1, y1 float64, clip image.Rectangle) (*image.Alpha, image.Rectangle) {
	x0, y0, x1, y1, ok := clampBox(x0, y0, x1, y1, clip)
	if !ok {
		return nil, image.Rectangle{}
	}
	b := pixelBounds(x0, y0, x1, y1, clip)
	if b.Empty() {
		return nil, b
	}

	w, h := b.Dx(), b.Dy()
	if c.z == nil {
		c.z = vector.NewRasterizer(w, h)
	} else {
		c.z.Reset(w, h)
	}
	c.z.DrawOp = draw.Src

	ox, oy := float64(b.Min.X), float64(b.Min.Y)
	c.z.MoveTo(float32(x0-ox), float32(y0-oy))
	c.z.LineTo(float32(x1-ox), float32(y0-oy))
	c.z.LineTo(float32(x1-ox), float32(y1-oy))
	c.z.LineTo(float32(x0-ox), float32(y1-oy))
	c.z.ClosePath()

	n := w * h
	if cap(c.pix) < n {
		c.pix = make([]uint8, n)
	}
	mask := &image.Alpha{Pix: c.pix[:n], Stride: w, Rect: image.Rect(0, 0, w, h)}
	c.z.Draw(mask, mask.Rect, image.Opaque, image.Point{})
	return mask, b
}

// BoxBounds returns the pixels touched by the box spanned by (x0, y0) and
// (x1, y1), clipped to clip.
func BoxBounds(x0, y0, x1, y1 float64, clip image.Rectangle) image.Rectangle {
	x0, y0, x1, y1, ok := clampBox(x0, y0, x1, y1, clip)
	if !ok {
		return image.Rectangle{}
	}
	return pixelBounds(x0, y0, x1, y1, clip)
}

// clampBox orders the corners and keeps them within one pixel of clip so
// the rasterizer stays small for boxes reaching far outside the target.
func clampBox(x0, y0, x1, y1 float64, clip image.Rectangle) (float64, float64, float64, float64, bool) {
	if !finite(x0) || !finite(y0) || !finite(x1) || !finite(y1) {
		return 0, 0, 0, 0, false
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	x0 = math.Max(x0, float64(clip.Min.X-1))
	y0 = math.Max(y0, float64(clip.Min.Y-1))
	x1 = math.Min(x1, float64(clip.Max.X+1))
	y1 = math.Min(y1, float64(clip.Max.Y+1))
	return x0, y0, x1, y1, true
}

func pixelBounds(x0, y0, x1, y1 float64, clip image.Rectangle) image.Rectangle {
	return image.Rect(
		int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x1)), int(math.Ceil(y1)),
	).Intersect(clip)
}

// BoxCoverage returns the exact area of pixel (x, y) covered by the box
// [x0, x1]×[y0, y1]. It is the analytic counterpart of Box used to check GPU
// output.
func BoxCoverage(x, y int, x0, y0, x1, y1 float64) float64 {
	ox := math.Min(float64(x+1), x1) - math.Max(float64(x), x0)
	oy := math.Min(float64(y+1), y1) - math.Max(float64(y), y0)
	if ox <= 0 || oy <= 0 {
		return 0
	}
	return ox * oy
}
