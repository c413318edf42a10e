package heatmap

import (
	"sort"

	"github.com/gogpu/heatmap/internal/blend"
)

// GradientStop is a color at a position of the heatmap gradient.
//
// Color holds red, green and blue in 0..255 and an optional alpha in 0..1.
// Missing channels are zero and a missing alpha is 1.
type GradientStop struct {
	Color  []float64
	Offset float64 // position in [0, 1]
}

// GradientTable is the normalized lookup form of a list of GradientStop.
//
// Colors are stored flattened (4 float32 per stop) next to a parallel
// offsets slice, the layout renderers upload as-is. Offsets are ascending.
type GradientTable struct {
	colors  []float32
	offsets []float32
}

// BuildGradient normalizes stops into a GradientTable.
//
// Channels are divided by 255 and alpha defaults to 1. Stops are sorted by
// offset (stable, so equal offsets keep their order); the input slice is not
// modified. There is no error path: an empty list yields a table whose every
// lookup is transparent.
func BuildGradient(stops []GradientStop) *GradientTable {
	sorted := sortStops(stops)
	t := &GradientTable{
		colors:  make([]float32, 4*len(sorted)),
		offsets: make([]float32, len(sorted)),
	}
	for i, s := range sorted {
		c := t.colors[4*i : 4*i+4]
		for ch := 0; ch < 3 && ch < len(s.Color); ch++ {
			c[ch] = float32(s.Color[ch] / 255)
		}
		c[3] = 1
		if len(s.Color) > 3 {
			c[3] = float32(s.Color[3])
		}
		t.offsets[i] = float32(s.Offset)
	}
	return t
}

func sortStops(stops []GradientStop) []GradientStop {
	sorted := make([]GradientStop, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})
	return sorted
}

// Len returns the number of stops.
func (t *GradientTable) Len() int { return len(t.offsets) }

// Colors returns the flattened RGBA values, 4 per stop. The slice is shared
// with the table and must not be modified.
func (t *GradientTable) Colors() []float32 { return t.colors }

// Offsets returns the stop offsets in ascending order. The slice is shared
// with the table and must not be modified.
func (t *GradientTable) Offsets() []float32 { return t.offsets }

// Stop returns the offset and normalized color of stop i.
func (t *GradientTable) Stop(i int) (float64, RGBA) {
	c := t.colors[4*i : 4*i+4]
	return float64(t.offsets[i]), RGBA{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])}
}

// Stops returns the normalized stops in offset order. Color holds r, g, b
// and a in [0, 1].
func (t *GradientTable) Stops() []GradientStop {
	out := make([]GradientStop, t.Len())
	for i := range out {
		c := t.colors[4*i : 4*i+4]
		out[i] = GradientStop{
			Color:  []float64{float64(c[0]), float64(c[1]), float64(c[2]), float64(c[3])},
			Offset: float64(t.offsets[i]),
		}
	}
	return out
}

// Lookup maps a normalized intensity to a color and applies the global
// opacity.
//
// Values outside (0, 1] are transparent. Otherwise the first stop whose
// offset is at least v selects the segment: at or below the first offset the
// first color is returned, past the last offset the result is transparent
// black, and in between the two neighbouring colors are mixed. The alpha of
// the result is then reduced by 1-opacity and clamped at zero.
func (t *GradientTable) Lookup(v, opacity float64) RGBA {
	c := t.lookup(float32(v), float32(opacity))
	return RGBA{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])}
}

// lookup is the float32 form of Lookup shared by the renderers.
func (t *GradientTable) lookup(v, opacity float32) [4]float32 {
	var c [4]float32
	if !(v > 0 && v <= 1) {
		return c
	}
	n := len(t.offsets)
	i := sort.Search(n, func(i int) bool { return t.offsets[i] >= v })
	switch {
	case n == 0 || i == n:
		// past the last stop: transparent black
	case i == 0:
		copy(c[:], t.colors[0:4])
	default:
		f := blend.Remap(t.offsets[i-1], t.offsets[i], v)
		lo, hi := t.colors[4*(i-1):4*i], t.colors[4*i:4*i+4]
		for ch := range c {
			c[ch] = blend.Mix(lo[ch], hi[ch], f)
		}
	}
	c[3] -= 1 - opacity
	if c[3] < 0 {
		c[3] = 0
	}
	return c
}
