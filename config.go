package heatmap

import "math"

// Type selects the heatmap rendering mode.
type Type string

const (
	// TypeCircle accumulates radial splats and maps the accumulated
	// intensity through the gradient.
	TypeCircle Type = "circle"

	// TypeHorizontal draws one colored rectangle per data point.
	TypeHorizontal Type = "horizontal"
)

// Valid reports whether t names a supported mode.
func (t Type) Valid() bool {
	return t == TypeCircle || t == TypeHorizontal
}

// ColorStrategy selects how horizontal-mode rectangles are colored.
type ColorStrategy uint8

const (
	// CornerWash blends four fixed corner colors across each rectangle.
	CornerWash ColorStrategy = iota

	// GradientLookup colors each rectangle with the gradient lookup of
	// value/max.
	GradientLookup
)

// String returns the strategy name.
func (s ColorStrategy) String() string {
	switch s {
	case CornerWash:
		return "corner-wash"
	case GradientLookup:
		return "gradient"
	default:
		return "unknown"
	}
}

// Falloff is the radial profile of a circle-mode splat.
type Falloff uint8

const (
	// FalloffQuadratic weights a fragment by 1 - r².
	FalloffQuadratic Falloff = iota

	// FalloffLinear weights a fragment by 1 - r.
	FalloffLinear
)

// Weight returns the falloff weight for squared distance r2 from the splat
// center, with r2 in [0, 1].
func (f Falloff) Weight(r2 float32) float32 {
	if f == FalloffLinear {
		return 1 - float32(math.Sqrt(float64(r2)))
	}
	return 1 - r2
}

// Accumulation selects the precision of the circle-mode intensity buffer.
type Accumulation uint8

const (
	// AccumFloat32 keeps full float32 precision.
	AccumFloat32 Accumulation = iota

	// AccumUnorm8 rounds the buffer to 8 bits after every blend, matching an
	// RGBA8 framebuffer.
	AccumUnorm8
)

// CornerColors are the four colors of the CornerWash strategy.
type CornerColors struct {
	TopLeft, TopRight, BottomLeft, BottomRight RGBA
}

// DefaultCornerColors returns the default wash: warm yellow to white along
// the top, blue to rose along the bottom.
func DefaultCornerColors() CornerColors {
	return CornerColors{
		TopLeft:     RGB255(254, 217, 138),
		TopRight:    RGB255(252, 252, 252),
		BottomLeft:  RGB255(18, 139, 184),
		BottomRight: RGB255(203, 79, 121),
	}
}

// At returns the wash color at texture coordinate (s, t), s across and t
// upwards.
func (c CornerColors) At(s, t float64) RGBA {
	l := c.BottomLeft.Lerp(c.TopLeft, t)
	r := c.BottomRight.Lerp(c.TopRight, t)
	out := l.Lerp(r, s)
	out.A = 1
	return out
}

// ViewState holds the view parameters of a chart.
type ViewState struct {
	Size       float64    // splat diameter in layout pixels
	Max        float64    // intensity mapped to 1; +Inf by default
	Blur       float64    // splat intensity multiplier
	Translate  [2]float64 // pan in layout pixels
	Zoom       float64
	Angle      float64 // rotation in radians
	Opacity    float64
	PixelRatio float64
}

// DefaultViewState returns the default view parameters.
func DefaultViewState() ViewState {
	return ViewState{
		Size:       20,
		Max:        math.Inf(1),
		Blur:       1,
		Zoom:       1,
		Opacity:    1,
		PixelRatio: 1,
	}
}
