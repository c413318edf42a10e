package heatmap

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/gogpu/heatmap/render"
)

// mockRenderer is a test renderer for DI testing.
type mockRenderer struct {
	frames []*Frame
}

func (m *mockRenderer) Render(_ render.RenderTarget, f *Frame) error {
	m.frames = append(m.frames, f)
	return nil
}

// TestNewDefault tests that New uses the chain renderer by default.
func TestNewDefault(t *testing.T) {
	c := NewImageContainer(image.NewNRGBA(image.Rect(0, 0, 10, 10)), 1)
	hm, err := New(c, WithGradient(testStops))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := hm.renderer.(*chainRenderer); !ok {
		t.Errorf("renderer = %T, want *chainRenderer", hm.renderer)
	}
	if hm.strategy != CornerWash || hm.falloff != FalloffQuadratic || hm.accumulation != AccumFloat32 {
		t.Errorf("defaults = %v %v %v", hm.strategy, hm.falloff, hm.accumulation)
	}
	if hm.Type() != "" {
		t.Errorf("Type() = %q, want no default type", hm.Type())
	}
}

// TestWithRenderer tests that the frame carries every option.
func TestWithRenderer(t *testing.T) {
	mock := &mockRenderer{}
	corners := CornerColors{TopLeft: RGB(1, 0, 0)}
	hm, _ := newTestChart(t, 10, 10,
		WithRenderer(mock),
		WithType(TypeHorizontal),
		WithSize(12),
		WithMax(40),
		WithBlur(0.5),
		WithTranslate(2, 3),
		WithZoom(1.5),
		WithRotationAngle(0.25),
		WithOpacity(0.75),
		WithColorStrategy(GradientLookup),
		WithCornerColors(corners),
		WithFalloff(FalloffLinear),
		WithAccumulation(AccumUnorm8),
	)
	if err := hm.AddRects([]Rect{{X: 0, Y: 0, SizeX: 1, SizeY: 1, Value: 1}}); err != nil {
		t.Fatal(err)
	}
	if len(mock.frames) != 1 {
		t.Fatalf("renderer called %d times, want 1", len(mock.frames))
	}

	f := mock.frames[0]
	want := ViewState{Size: 12, Max: 40, Blur: 0.5, Translate: [2]float64{2, 3}, Zoom: 1.5, Angle: 0.25, Opacity: 0.75, PixelRatio: 1}
	if f.View != want {
		t.Errorf("View = %+v, want %+v", f.View, want)
	}
	if f.Type != TypeHorizontal || f.Strategy != GradientLookup || f.Falloff != FalloffLinear || f.Accumulation != AccumUnorm8 {
		t.Errorf("frame = %+v", f)
	}
	if f.Corners != corners {
		t.Errorf("Corners = %+v, want %+v", f.Corners, corners)
	}
	if f.Geometry.Count != 1 || f.Intensity == nil {
		t.Errorf("Geometry.Count = %d, Intensity = %v", f.Geometry.Count, f.Intensity)
	}
}

// TestFirstOptionErrorWins checks that New reports the first bad option.
func TestFirstOptionErrorWins(t *testing.T) {
	c := NewImageContainer(image.NewNRGBA(image.Rect(0, 0, 4, 4)), 1)
	_, err := New(c, WithGradient(testStops), WithBlur(math.NaN()), WithZoom(math.NaN()))
	var ae *ArgumentError
	if !errors.As(err, &ae) || ae.Op != "WithBlur" {
		t.Errorf("New() error = %v, want WithBlur error", err)
	}
}
