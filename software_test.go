package heatmap

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/heatmap/render"
)

func circleFrame(points []Point, v ViewState) *Frame {
	var p Packer
	return &Frame{
		Type:     TypeCircle,
		Geometry: p.PackCircles(points),
		Gradient: blackToWhite(),
		View:     v,
		Corners:  DefaultCornerColors(),
	}
}

func unitView(maxValue float64) ViewState {
	v := DefaultViewState()
	v.Max = maxValue
	return v
}

func TestSoftwareRendererCircle(t *testing.T) {
	target := render.NewPixmapTarget(40, 40)
	field := &IntensityField{}
	f := circleFrame([]Point{Pt(20, 20, 1)}, unitView(1))
	f.Intensity = field

	if err := NewSoftwareRenderer().Render(target, f); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if field.Width != 40 || field.Height != 40 {
		t.Fatalf("field size = %dx%d, want 40x40", field.Width, field.Height)
	}

	// radius is 10 pixels: r² = 0.25 at 5 pixels from the center
	tests := []struct {
		x, y int
		want float32
	}{
		{20, 20, 1},
		{25, 20, 0.75},
		{20, 15, 0.75},
		{30, 20, 0},
		{31, 20, 0},
	}
	for _, tt := range tests {
		if got := field.At(tt.x, tt.y); math.Abs(float64(got-tt.want)) > 1e-6 {
			t.Errorf("field.At(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	// the black-to-white gradient maps intensity straight to gray
	got := target.At(25, 20)
	want := color.NRGBA{R: 191, G: 191, B: 191, A: 255}
	if got != want {
		t.Errorf("pixel (25, 20) = %v, want %v", got, want)
	}
	if got := target.At(0, 0); got != (color.NRGBA{}) {
		t.Errorf("pixel (0, 0) = %v, want transparent", got)
	}
}

func TestSoftwareRendererAccumulates(t *testing.T) {
	target := render.NewPixmapTarget(20, 20)
	f := circleFrame([]Point{Pt(10, 10, 0.5), Pt(10, 10, 0.5)}, unitView(1))
	f.Intensity = &IntensityField{}
	if err := NewSoftwareRenderer().Render(target, f); err != nil {
		t.Fatal(err)
	}
	// 0.5 + 0.5·(1-0.5)
	if got := f.Intensity.At(10, 10); got != 0.75 {
		t.Errorf("accumulated alpha = %v, want 0.75", got)
	}
}

func TestSoftwareRendererFalloff(t *testing.T) {
	target := render.NewPixmapTarget(40, 40)
	f := circleFrame([]Point{Pt(20, 20, 1)}, unitView(1))
	f.Falloff = FalloffLinear
	f.Intensity = &IntensityField{}
	if err := NewSoftwareRenderer().Render(target, f); err != nil {
		t.Fatal(err)
	}
	if got := f.Intensity.At(25, 20); math.Abs(float64(got)-0.5) > 1e-6 {
		t.Errorf("linear falloff at half radius = %v, want 0.5", got)
	}
}

func TestSoftwareRendererUnorm8(t *testing.T) {
	target := render.NewPixmapTarget(40, 40)
	f := circleFrame([]Point{Pt(20, 20, 0.3), Pt(21, 19, 0.3)}, unitView(1))
	f.Accumulation = AccumUnorm8
	f.Intensity = &IntensityField{}
	if err := NewSoftwareRenderer().Render(target, f); err != nil {
		t.Fatal(err)
	}
	for i, a := range f.Intensity.Alpha {
		q := a * 255
		if math.Abs(float64(q)-math.Round(float64(q))) > 1e-3 {
			t.Fatalf("Alpha[%d] = %v is not an 8-bit value", i, a)
		}
	}
}

func TestSoftwareRendererClearsTarget(t *testing.T) {
	target := render.NewPixmapTarget(8, 8)
	target.Clear(color.NRGBA{R: 9, G: 9, B: 9, A: 9})
	if err := NewSoftwareRenderer().Render(target, circleFrame(nil, unitView(1))); err != nil {
		t.Fatal(err)
	}
	for _, b := range target.Pixels() {
		if b != 0 {
			t.Fatal("target not cleared for an empty dataset")
		}
	}
}

func rectFrame(rects []Rect, s ColorStrategy) *Frame {
	var p Packer
	return &Frame{
		Type:     TypeHorizontal,
		Geometry: p.PackRects(rects),
		Gradient: blackToWhite(),
		View:     unitView(10),
		Strategy: s,
		Corners:  DefaultCornerColors(),
	}
}

func TestSoftwareRendererCornerWash(t *testing.T) {
	target := render.NewPixmapTarget(100, 100)
	f := rectFrame([]Rect{{X: -1, Y: 1, SizeX: 2, SizeY: 2, Value: 5}}, CornerWash)
	if err := NewSoftwareRenderer().Render(target, f); err != nil {
		t.Fatal(err)
	}

	cc := DefaultCornerColors()
	tests := []struct {
		name string
		x, y int
		want RGBA
	}{
		{"top-left", 0, 0, cc.TopLeft},
		{"top-right", 99, 0, cc.TopRight},
		{"bottom-left", 0, 99, cc.BottomLeft},
		{"bottom-right", 99, 99, cc.BottomRight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromColor(target.At(tt.x, tt.y))
			if !colorsEqual(got, tt.want, 0.03) {
				t.Errorf("pixel (%d, %d) = %+v, want about %+v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestSoftwareRendererRectCoverage(t *testing.T) {
	target := render.NewPixmapTarget(10, 10)
	// left edge at pixel x = 2.5
	f := rectFrame([]Rect{{X: -0.5, Y: 1, SizeX: 1.5, SizeY: 2, Value: 10}}, GradientLookup)
	if err := NewSoftwareRenderer().Render(target, f); err != nil {
		t.Fatal(err)
	}
	if got := target.At(1, 5).A; got != 0 {
		t.Errorf("alpha outside the rect = %d, want 0", got)
	}
	if got := target.At(2, 5).A; got < 120 || got > 135 {
		t.Errorf("alpha on the half-covered edge = %d, want about 128", got)
	}
	if got := target.At(5, 5); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("interior pixel = %v, want opaque white", got)
	}
}

func TestSoftwareRendererRejectsFrames(t *testing.T) {
	target := render.NewPixmapTarget(4, 4)
	r := NewSoftwareRenderer()

	f := circleFrame(nil, unitView(1))
	f.Type = "radial"
	if err := r.Render(target, f); !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("Render(radial) error = %v, want ErrUnsupportedMode", err)
	}

	f = circleFrame(nil, unitView(1))
	f.Geometry = nil
	if err := r.Render(target, f); !errors.Is(err, ErrBackend) {
		t.Errorf("Render(nil geometry) error = %v, want ErrBackend", err)
	}
}
