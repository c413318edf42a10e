package heatmap

import (
	"image/color"
	"testing"
)

func TestRGB255(t *testing.T) {
	c := RGB255(255, 0, 51)
	if !colorsEqual(c, RGBA{R: 1, G: 0, B: 0.2, A: 1}, 1e-9) {
		t.Errorf("RGB255() = %+v", c)
	}
}

func TestRGBANRGBA(t *testing.T) {
	tests := []struct {
		name string
		in   RGBA
		want color.NRGBA
	}{
		{"opaque red", RGB(1, 0, 0), color.NRGBA{R: 255, A: 255}},
		{"half alpha", RGBA{R: 0, G: 1, B: 0, A: 0.5}, color.NRGBA{G: 255, A: 128}},
		{"clamped", RGBA{R: 2, G: -1, B: 0.5, A: 1}, color.NRGBA{R: 255, B: 128, A: 255}},
		{"transparent", RGBA{}, color.NRGBA{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.NRGBA(); got != tt.want {
				t.Errorf("NRGBA() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromColor(t *testing.T) {
	got := FromColor(color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	if !colorsEqual(got, RGB(1, 0, 0), 1e-9) {
		t.Errorf("FromColor() = %+v, want red", got)
	}
}

func TestLerp(t *testing.T) {
	a, b := RGB(0, 0, 0), RGB(1, 1, 1)
	if got := a.Lerp(b, 0.25); !colorsEqual(got, RGB(0.25, 0.25, 0.25), 1e-9) {
		t.Errorf("Lerp(0.25) = %+v", got)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    RGBA
		wantErr bool
	}{
		{"#ff0000", RGB(1, 0, 0), false},
		{"00ff00", RGB(0, 1, 0), false},
		{"#00f", RGB(0, 0, 1), false},
		{"#ffffff00", RGBA{R: 1, G: 1, B: 1}, false},
		{"#ff00", RGBA{}, true},
		{"#gg0000", RGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !colorsEqual(got, tt.want, 1e-9) {
			t.Errorf("ParseHex(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestCornerColorsAt(t *testing.T) {
	cc := DefaultCornerColors()
	tests := []struct {
		name string
		s, t float64
		want RGBA
	}{
		{"bottom-left", 0, 0, cc.BottomLeft},
		{"bottom-right", 1, 0, cc.BottomRight},
		{"top-left", 0, 1, cc.TopLeft},
		{"top-right", 1, 1, cc.TopRight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cc.At(tt.s, tt.t); !colorsEqual(got, tt.want, 1e-9) {
				t.Errorf("At(%v, %v) = %+v, want %+v", tt.s, tt.t, got, tt.want)
			}
		})
	}
}
