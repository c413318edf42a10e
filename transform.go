package heatmap

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// minZoom replaces a zero zoom in the splat transform.
const minZoom = 0.01

func apply(m matrix.Matrix, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*v.X + m[2]*v.Y + m[4],
		Y: m[1]*v.X + m[3]*v.Y + m[5],
	}
}

// rotation returns the matrix rotating by angle radians, counter-clockwise
// in a y-up frame.
func rotation(angle float64) matrix.Matrix {
	s, c := math.Sincos(angle)
	return matrix.Matrix{c, s, -s, c, 0, 0}
}

// ToViewSpace maps a raw layout coordinate (for example a pointer position)
// into the current pan/zoom/rotation frame of the chart.
//
// The point is recentred on the viewport half extents
// (width/(2·pixelRatio), height/(2·pixelRatio)), normalized, scaled by zoom,
// rotated by angle, expanded back to pixels and offset by -translate.
// width and height are backing-store sizes. A zero extent or pixel ratio
// yields non-finite coordinates, which are passed through unchanged.
func ToViewSpace(p Point, width, height, pixelRatio, zoom, angle float64, translate [2]float64) Point {
	cx := width / (2 * pixelRatio)
	cy := height / (2 * pixelRatio)

	sx, sy := zoom/cx, zoom/cy
	toUnit := matrix.Scale(sx, sy).Translate(-cx*sx, -cy*sy)
	fromUnit := matrix.Scale(cx, cy).Translate(cx-translate[0], cy-translate[1])

	v := apply(toUnit, p.vec())
	if angle != 0 {
		v = apply(rotation(angle), v)
	}
	v = apply(fromUnit, v)
	return Point{X: v.X, Y: v.Y, Value: p.Value}
}

// SplatTransform is the per-draw vertex transform of the circle
// accumulation pass. It maps layout coordinates to clip space; ToViewSpace
// is its inverse.
type SplatTransform struct {
	resolution vec.Vec2 // backing-store size
	translate  vec.Vec2
	density    float64
	zoom       float64
	rot        matrix.Matrix
	rotate     bool
}

// NewSplatTransform builds the transform for a backing store of the given
// size. A zero zoom is replaced by 0.01.
func NewSplatTransform(width, height float64, v ViewState) SplatTransform {
	zoom := v.Zoom
	if zoom == 0 {
		zoom = minZoom
	}
	return SplatTransform{
		resolution: vec.Vec2{X: width, Y: height},
		translate:  vec.Vec2{X: v.Translate[0], Y: v.Translate[1]},
		density:    v.PixelRatio,
		zoom:       zoom,
		rot:        rotation(-v.Angle),
		rotate:     v.Angle != 0,
	}
}

// Clip maps a layout coordinate to clip space. The clip y axis follows the
// layout y axis (downwards).
func (t SplatTransform) Clip(x, y float64) (float64, float64) {
	p := vec.Vec2{X: x, Y: y}.Add(t.translate).Mul(t.density)
	c := vec.Vec2{X: p.X/t.resolution.X*2 - 1, Y: p.Y/t.resolution.Y*2 - 1}.Mul(1 / t.zoom)
	if t.rotate {
		c = apply(t.rot, c)
	}
	return c.X, c.Y
}

// Pixel maps a layout coordinate to a backing-store pixel position.
func (t SplatTransform) Pixel(x, y float64) (float64, float64) {
	cx, cy := t.Clip(x, y)
	return (cx + 1) / 2 * t.resolution.X, (cy + 1) / 2 * t.resolution.Y
}

// ClipToPixel maps a clip-space coordinate with y up (horizontal mode) to a
// backing-store pixel position with y down.
func ClipToPixel(cx, cy float64, width, height int) (float64, float64) {
	return (cx + 1) / 2 * float64(width), (1 - cy) / 2 * float64(height)
}
