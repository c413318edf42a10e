package heatmap

import "seehuhn.de/go/geom/vec"

// Point is a weighted sample of a circle heatmap. X and Y are layout
// (CSS) pixel coordinates with y growing downwards.
type Point struct {
	X, Y  float64
	Value float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y, value float64) Point {
	return Point{X: x, Y: y, Value: value}
}

func (p Point) vec() vec.Vec2 { return vec.Vec2{X: p.X, Y: p.Y} }

// Rect is a weighted rectangle of a horizontal heatmap.
//
// X and Y are the top-left corner in clip space ([-1, 1], y up). The
// rectangle covers [X, X+SizeX] × [Y-SizeY, Y].
type Rect struct {
	X, Y         float64
	SizeX, SizeY float64
	Value        float64
}
