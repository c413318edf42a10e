// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
)

// RenderTarget is the pixel destination of a heatmap renderer.
//
// Pixels are non-premultiplied RGBA, 4 bytes per pixel, laid out row by row
// with the given Stride. Renderers that work on the GPU read the result back
// into Pixels.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// Pixels returns direct access to pixel data.
	Pixels() []byte

	// Stride returns the number of bytes per row.
	Stride() int
}

// PixmapTarget is a CPU-backed render target using *image.NRGBA, the
// layout of a non-premultiplied overlay canvas.
//
// Example:
//
//	target := render.NewPixmapTarget(800, 600)
//	renderer.Render(target, frame)
//	png.Encode(w, target.Image())
type PixmapTarget struct {
	img *image.NRGBA
}

// NewPixmapTarget creates a transparent target of the given size.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{
		img: image.NewNRGBA(image.Rect(0, 0, width, height)),
	}
}

// NewPixmapTargetFromImage wraps an existing *image.NRGBA without copying.
// img may be a sub-image of a larger canvas; pixel (0, 0) of the target is
// img.Rect.Min.
func NewPixmapTargetFromImage(img *image.NRGBA) *PixmapTarget {
	return &PixmapTarget{img: img}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	return t.img.Bounds().Dy()
}

// Format returns RGBA8Unorm.
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Pixels returns direct access to the pixel data.
func (t *PixmapTarget) Pixels() []byte {
	return t.img.Pix
}

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int {
	return t.img.Stride
}

// Image returns the underlying image. It shares memory with the target.
func (t *PixmapTarget) Image() *image.NRGBA {
	return t.img
}

// Clear fills the target with c.
func (t *PixmapTarget) Clear(c color.NRGBA) {
	Clear(t, c)
}

// Resize reallocates the target when the size changes. The contents are
// cleared either way.
func (t *PixmapTarget) Resize(width, height int) {
	if t.Width() == width && t.Height() == height {
		clear(t.img.Pix)
		return
	}
	t.img = image.NewNRGBA(image.Rect(0, 0, width, height))
}

// At returns the pixel at (x, y) relative to the target origin.
func (t *PixmapTarget) At(x, y int) color.NRGBA {
	o := t.img.Rect.Min
	return t.img.NRGBAAt(o.X+x, o.Y+y)
}

// Clear fills any render target with c.
func Clear(t RenderTarget, c color.NRGBA) {
	pix, stride := t.Pixels(), t.Stride()
	w, h := t.Width(), t.Height()
	if c == (color.NRGBA{}) && stride == 4*w {
		clear(pix[:stride*h])
		return
	}
	for y := 0; y < h; y++ {
		row := pix[y*stride : y*stride+4*w]
		for x := 0; x < len(row); x += 4 {
			row[x], row[x+1], row[x+2], row[x+3] = c.R, c.G, c.B, c.A
		}
	}
}

var _ RenderTarget = (*PixmapTarget)(nil)
