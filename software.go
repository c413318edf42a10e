package heatmap

import (
	"image"
	"image/color"

	"github.com/gogpu/heatmap/internal/blend"
	"github.com/gogpu/heatmap/internal/parallel"
	"github.com/gogpu/heatmap/internal/raster"
	"github.com/gogpu/heatmap/render"
)

// SoftwareRenderer is a CPU implementation of the render pipeline.
//
// It is the reference for GPU accelerators and the fallback when none is
// registered. It is not safe for concurrent use.
type SoftwareRenderer struct {
	cov   raster.Coverage
	field IntensityField
}

// NewSoftwareRenderer creates a new software renderer.
func NewSoftwareRenderer() *SoftwareRenderer {
	return &SoftwareRenderer{}
}

// Render clears target and draws f into it.
func (r *SoftwareRenderer) Render(target render.RenderTarget, f *Frame) error {
	if err := f.validate(); err != nil {
		return err
	}
	render.Clear(target, color.NRGBA{})

	switch f.Type {
	case TypeCircle:
		r.renderCircles(target, f)
	case TypeHorizontal:
		r.renderRects(target, f)
	}
	return nil
}

// renderCircles runs the accumulation pass into the intensity field and
// then the color pass into target.
func (r *SoftwareRenderer) renderCircles(target render.RenderTarget, f *Frame) {
	w, h := target.Width(), target.Height()
	field := f.Intensity
	if field == nil {
		field = &r.field
	}
	field.Resize(w, h)

	g := f.Geometry
	if g.Count == 0 {
		return
	}

	xf := NewSplatTransform(float64(w), float64(h), f.View)
	radius := f.SplatRadius()
	quantize := f.Accumulation == AccumUnorm8
	for i := 0; i < g.Count; i++ {
		px, py := xf.Pixel(float64(g.Positions[2*i]), float64(g.Positions[2*i+1]))
		raster.Splat(field.Alpha, w, h, px, py, radius, f.SplatAlpha(g.Values[i]), f.Falloff.Weight, quantize)
	}

	colorize(target, field, f.Gradient, float32(f.View.Opacity))
}

// colorize maps every accumulated alpha through the gradient. Row bands
// run on the shared pool.
func colorize(target render.RenderTarget, field *IntensityField, g *GradientTable, opacity float32) {
	pix, stride := target.Pixels(), target.Stride()
	parallel.Shared().Rows(field.Width, field.Height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := field.Alpha[y*field.Width : (y+1)*field.Width]
			out := pix[y*stride:]
			for x, a := range row {
				if !(a > 0) {
					continue
				}
				c := g.lookup(a, opacity)
				o := out[x*4 : x*4+4]
				o[0], o[1], o[2], o[3] = blend.ToByte(c[0]), blend.ToByte(c[1]), blend.ToByte(c[2]), blend.ToByte(c[3])
			}
		}
	})
}

// renderRects draws every rect with antialiased edges and no blending:
// a covered pixel takes the rect color, later rects win.
func (r *SoftwareRenderer) renderRects(target render.RenderTarget, f *Frame) {
	w, h := target.Width(), target.Height()
	pix, stride := target.Pixels(), target.Stride()
	clip := image.Rect(0, 0, w, h)
	g := f.Geometry

	for i := 0; i < g.Count; i++ {
		left, bottom, right, top := g.Rect(i)
		x0, y0 := ClipToPixel(float64(left), float64(top), w, h)
		x1, y1 := ClipToPixel(float64(right), float64(bottom), w, h)
		if x0 > x1 {
			x0, x1 = x1, x0
		}
		if y0 > y1 {
			y0, y1 = y1, y0
		}

		mask, b := r.cov.Box(x0, y0, x1, y1, clip)
		if mask == nil {
			continue
		}

		var flat [4]float32
		if f.Strategy == GradientLookup {
			flat = f.RectColor(g.Values[i*VerticesPerRect])
		}

		for y := b.Min.Y; y < b.Max.Y; y++ {
			mrow := mask.Pix[(y-b.Min.Y)*mask.Stride:]
			t := clamp01((y1 - (float64(y) + 0.5)) / (y1 - y0))
			for x := b.Min.X; x < b.Max.X; x++ {
				m := mrow[x-b.Min.X]
				if m == 0 {
					continue
				}
				c := flat
				if f.Strategy == CornerWash {
					s := clamp01((float64(x) + 0.5 - x0) / (x1 - x0))
					c = f.Corners.At(s, t).vec4()
				}
				off := y*stride + x*4
				blend.CoverNRGBA(pix[off:off+4], c, float32(m)/255)
			}
		}
	}
}

func clamp01(v float64) float64 {
	return blend.Clamp(v, 0, 1)
}
