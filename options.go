package heatmap

import "log/slog"

// Option configures a Heatmap during creation.
//
// Example:
//
//	hm, err := heatmap.New(container,
//	    heatmap.WithGradient(stops),
//	    heatmap.WithType(heatmap.TypeCircle),
//	    heatmap.WithMax(100),
//	)
type Option func(*config)

// config holds the construction parameters of a Heatmap.
type config struct {
	typ          Type
	view         ViewState
	stops        []GradientStop
	strategy     ColorStrategy
	corners      CornerColors
	falloff      Falloff
	accumulation Accumulation
	renderer     Renderer
	onError      func(error)
	logger       *slog.Logger

	// err is the first invalid option value. New returns it.
	err error
}

// defaultConfig returns the default heatmap configuration.
func defaultConfig() config {
	return config{
		view:    DefaultViewState(),
		corners: DefaultCornerColors(),
	}
}

func (c *config) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// number records an ArgumentError for op when v is not finite.
func (c *config) number(op string, v float64, dst *float64) {
	if err := checkNumber(op, v); err != nil {
		c.fail(err)
		return
	}
	*dst = v
}

// WithGradient sets the gradient stops. It is required.
func WithGradient(stops []GradientStop) Option {
	return func(c *config) {
		c.stops = stops
	}
}

// WithType selects the rendering mode. There is no default: a chart
// without a valid type fails with ErrUnsupportedMode on its first render.
func WithType(t Type) Option {
	return func(c *config) {
		c.typ = t
	}
}

// WithSize sets the splat diameter in layout pixels (default 20).
func WithSize(size float64) Option {
	return func(c *config) { c.number("WithSize", size, &c.view.Size) }
}

// WithMax sets the intensity mapped to the top of the gradient
// (default +Inf, which renders nothing visible in circle mode).
func WithMax(maxValue float64) Option {
	return func(c *config) {
		if err := checkMax("WithMax", maxValue); err != nil {
			c.fail(err)
			return
		}
		c.view.Max = maxValue
	}
}

// WithBlur sets the splat intensity multiplier (default 1).
func WithBlur(blur float64) Option {
	return func(c *config) { c.number("WithBlur", blur, &c.view.Blur) }
}

// WithTranslate sets the pan offset in layout pixels (default 0, 0).
func WithTranslate(x, y float64) Option {
	return func(c *config) {
		c.number("WithTranslate", x, &c.view.Translate[0])
		c.number("WithTranslate", y, &c.view.Translate[1])
	}
}

// WithZoom sets the zoom factor (default 1).
func WithZoom(zoom float64) Option {
	return func(c *config) { c.number("WithZoom", zoom, &c.view.Zoom) }
}

// WithRotationAngle sets the view rotation in radians (default 0).
func WithRotationAngle(angle float64) Option {
	return func(c *config) { c.number("WithRotationAngle", angle, &c.view.Angle) }
}

// WithOpacity sets the global opacity (default 1).
func WithOpacity(opacity float64) Option {
	return func(c *config) { c.number("WithOpacity", opacity, &c.view.Opacity) }
}

// WithColorStrategy selects how horizontal rectangles are colored
// (default CornerWash).
func WithColorStrategy(s ColorStrategy) Option {
	return func(c *config) {
		c.strategy = s
	}
}

// WithCornerColors replaces the four colors of the CornerWash strategy.
func WithCornerColors(cc CornerColors) Option {
	return func(c *config) {
		c.corners = cc
	}
}

// WithFalloff selects the radial profile of circle splats
// (default FalloffQuadratic).
func WithFalloff(f Falloff) Option {
	return func(c *config) {
		c.falloff = f
	}
}

// WithAccumulation selects the precision of the circle-mode intensity
// buffer (default AccumFloat32).
func WithAccumulation(a Accumulation) Option {
	return func(c *config) {
		c.accumulation = a
	}
}

// WithRenderer sets a custom renderer for the chart.
// Without it the chart uses the registered GPU accelerator when there is one
// and the software renderer otherwise.
func WithRenderer(r Renderer) Option {
	return func(c *config) {
		c.renderer = r
	}
}

// WithErrorHandler sets the function receiving backend failures. The frame
// that failed is skipped. By default failures are logged at Error level.
func WithErrorHandler(fn func(error)) Option {
	return func(c *config) {
		c.onError = fn
	}
}

// WithLogger gives the chart its own logger in place of the package logger
// set by SetLogger. Resizes and skipped frames are logged there.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
