// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"image"
	"math"
	"testing"
)

func quadratic(r2 float32) float32 { return 1 - r2 }

func TestSplatCenterAndFalloff(t *testing.T) {
	const w, h = 21, 21
	dst := make([]float32, w*h)
	Splat(dst, w, h, 10, 10, 4, 0.8, quadratic, false)

	tests := []struct {
		x, y int
		want float32
	}{
		{10, 10, 0.8},
		{12, 10, 0.8 * 0.75},
		{10, 14, 0},
		{10, 15, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := dst[tt.y*w+tt.x]; math.Abs(float64(got-tt.want)) > 1e-6 {
			t.Errorf("dst(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestSplatQuantize(t *testing.T) {
	const w, h = 9, 9
	dst := make([]float32, w*h)
	Splat(dst, w, h, 4, 4, 3, 0.33, quadratic, true)
	Splat(dst, w, h, 5, 4, 3, 0.33, quadratic, true)
	for i, v := range dst {
		q := float64(v) * 255
		if math.Abs(q-math.Round(q)) > 1e-3 {
			t.Fatalf("dst[%d] = %v is not 8-bit", i, v)
		}
	}
}

func TestSplatIgnoresInvalid(t *testing.T) {
	dst := make([]float32, 16)
	Splat(dst, 4, 4, math.NaN(), 1, 2, 1, quadratic, false)
	Splat(dst, 4, 4, 1, math.Inf(1), 2, 1, quadratic, false)
	Splat(dst, 4, 4, 1, 1, 0, 1, quadratic, false)
	Splat(dst, 4, 4, 100, 100, 2, 1, quadratic, false)
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("dst[%d] = %v, want untouched", i, v)
		}
	}
}

func TestSplatBounds(t *testing.T) {
	tests := []struct {
		name      string
		cx, cy, r float64
		want      image.Rectangle
		wantOK    bool
	}{
		{"inside", 10, 10, 2, image.Rect(8, 8, 13, 13), true},
		{"fractional center", 10.5, 10, 2, image.Rect(9, 8, 13, 13), true},
		{"clipped", 1, 1, 3, image.Rect(0, 0, 5, 5), true},
		{"outside", -10, 5, 3, image.Rectangle{}, false},
		{"zero radius", 5, 5, 0, image.Rectangle{}, false},
		{"NaN", math.NaN(), 5, 1, image.Rectangle{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SplatBounds(tt.cx, tt.cy, tt.r, 20, 20)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("SplatBounds() = %v, %v, want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
