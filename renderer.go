package heatmap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/heatmap/render"
)

// Renderer executes the render pipeline for one frame.
//
// Render clears the target and draws f into it. In circle mode it also
// fills f.Intensity, when set, with the accumulation buffer.
type Renderer interface {
	Render(target render.RenderTarget, f *Frame) error
}

// Frame is everything a Renderer needs to draw one chart frame.
type Frame struct {
	Type         Type
	Geometry     *PackedGeometry
	Gradient     *GradientTable
	View         ViewState
	Strategy     ColorStrategy
	Corners      CornerColors
	Falloff      Falloff
	Accumulation Accumulation

	// Intensity receives the circle-mode accumulation buffer. May be nil.
	Intensity *IntensityField
}

// SplatRadius returns the splat radius in backing-store pixels.
func (f *Frame) SplatRadius() float64 {
	return f.View.Size * f.View.PixelRatio / 2
}

// SplatAlpha returns the center alpha of a splat of the given raw value,
// value/max·blur, before falloff and clamping.
func (f *Frame) SplatAlpha(value float32) float32 {
	return value / float32(f.View.Max) * float32(f.View.Blur)
}

// RectColor returns the uniform color of a rect with the given value under
// the GradientLookup strategy.
func (f *Frame) RectColor(value float32) [4]float32 {
	return f.Gradient.lookup(value/float32(f.View.Max), float32(f.View.Opacity))
}

func (f *Frame) validate() error {
	if !f.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedMode, string(f.Type))
	}
	if f.Geometry == nil || f.Gradient == nil {
		return fmt.Errorf("%w: frame without geometry or gradient", ErrBackend)
	}
	return nil
}

// IntensityField is the single-channel accumulation buffer of circle mode,
// one float32 alpha per backing-store pixel, row by row.
type IntensityField struct {
	Width, Height int
	Alpha         []float32
}

// Resize reallocates the field when the size changes and clears it.
func (f *IntensityField) Resize(width, height int) {
	if f.Width == width && f.Height == height && f.Alpha != nil {
		clear(f.Alpha)
		return
	}
	f.Width, f.Height = width, height
	f.Alpha = make([]float32, width*height)
}

// At returns the accumulated alpha at (x, y), or 0 outside the field.
func (f *IntensityField) At(x, y int) float32 {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return 0
	}
	return f.Alpha[y*f.Width+x]
}

// chainRenderer tries the registered accelerator and falls back to the
// software renderer.
type chainRenderer struct {
	software *SoftwareRenderer
	warned   bool
	log      *slog.Logger // nil logs to Logger()
}

func newChainRenderer(log *slog.Logger) *chainRenderer {
	return &chainRenderer{software: NewSoftwareRenderer(), log: log}
}

func (c *chainRenderer) Render(target render.RenderTarget, f *Frame) error {
	if a := registeredAccelerator(); a != nil && a.CanRender(f.Type) {
		err := a.Render(target, f)
		if err == nil {
			return nil
		}
		if !c.warned || !errors.Is(err, ErrFallbackToCPU) {
			log := c.log
			if log == nil {
				log = Logger()
			}
			log.Warn("heatmap: accelerator failed, using CPU", "accelerator", a.Name(), "err", err)
			c.warned = true
		}
	}
	return c.software.Render(target, f)
}
