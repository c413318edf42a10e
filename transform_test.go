package heatmap

import (
	"math"
	"testing"
)

const transformEpsilon = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < transformEpsilon }

func TestToViewSpaceIdentity(t *testing.T) {
	for _, p := range []Point{Pt(0, 0, 1), Pt(100, 50, 2), Pt(37.5, 12.25, 3), Pt(-20, 80, 4)} {
		got := ToViewSpace(p, 200, 100, 1, 1, 0, [2]float64{})
		if !near(got.X, p.X) || !near(got.Y, p.Y) || got.Value != p.Value {
			t.Errorf("ToViewSpace(%+v) = %+v, want identity", p, got)
		}
	}
}

func TestToViewSpace(t *testing.T) {
	tests := []struct {
		name      string
		p         Point
		zoom      float64
		angle     float64
		translate [2]float64
		want      Point
	}{
		{"translate", Pt(10, 20, 0), 1, 0, [2]float64{3, -4}, Pt(7, 24, 0)},
		{"zoom keeps center", Pt(100, 50, 0), 2, 0, [2]float64{}, Pt(100, 50, 0)},
		{"zoom scales from center", Pt(110, 50, 0), 2, 0, [2]float64{}, Pt(120, 50, 0)},
		{"half turn", Pt(110, 60, 0), 1, math.Pi, [2]float64{}, Pt(90, 40, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToViewSpace(tt.p, 200, 100, 1, tt.zoom, tt.angle, tt.translate)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
				t.Errorf("ToViewSpace() = (%v, %v), want (%v, %v)", got.X, got.Y, tt.want.X, tt.want.Y)
			}
		})
	}
}

func TestSplatTransformInvertsToViewSpace(t *testing.T) {
	const w, h, ratio = 400, 300, 2
	v := DefaultViewState()
	v.Zoom = 1.5
	v.Angle = 0.7
	v.Translate = [2]float64{3, -4}
	v.PixelRatio = ratio
	xf := NewSplatTransform(w, h, v)

	for _, p := range []Point{Pt(0, 0, 0), Pt(50, 75, 0), Pt(199, 3, 0)} {
		q := ToViewSpace(p, w, h, ratio, v.Zoom, v.Angle, v.Translate)
		x, y := xf.Pixel(q.X, q.Y)
		if math.Abs(x-p.X*ratio) > 1e-6 || math.Abs(y-p.Y*ratio) > 1e-6 {
			t.Errorf("Pixel(ToViewSpace(%v, %v)) = (%v, %v), want (%v, %v)", p.X, p.Y, x, y, p.X*ratio, p.Y*ratio)
		}
	}
}

func TestSplatTransformZeroZoom(t *testing.T) {
	v := DefaultViewState()
	v.Zoom = 0
	xf := NewSplatTransform(100, 100, v)
	x, y := xf.Clip(75, 25)
	if !near(x, 50) || !near(y, -50) {
		t.Errorf("Clip() = (%v, %v), want (50, -50)", x, y)
	}
}

func TestClipToPixel(t *testing.T) {
	tests := []struct {
		cx, cy float64
		x, y   float64
	}{
		{-1, 1, 0, 0},
		{1, -1, 80, 60},
		{0, 0, 40, 30},
	}
	for _, tt := range tests {
		x, y := ClipToPixel(tt.cx, tt.cy, 80, 60)
		if !near(x, tt.x) || !near(y, tt.y) {
			t.Errorf("ClipToPixel(%v, %v) = (%v, %v), want (%v, %v)", tt.cx, tt.cy, x, y, tt.x, tt.y)
		}
	}
}
