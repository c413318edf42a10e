package heatmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"math"
	"reflect"
	"slices"

	"github.com/gogpu/heatmap/render"
)

// Heatmap is a heatmap overlay over a Container.
//
// Every mutation (setters, AddData, RenderData, Resize) renders the whole
// chart before it returns. A Heatmap is not safe for concurrent use.
type Heatmap struct {
	container Container
	overlay   *Overlay
	target    *render.PixmapTarget

	typ          Type
	view         ViewState
	gradient     *GradientTable
	strategy     ColorStrategy
	corners      CornerColors
	falloff      Falloff
	accumulation Accumulation

	renderer  Renderer
	onError   func(error)
	log       *slog.Logger
	packer    Packer
	intensity IntensityField

	points []Point
	rects  []Rect

	closed bool
}

// Ensure Heatmap implements io.Closer
var _ io.Closer = (*Heatmap)(nil)

// New creates a heatmap over container. WithGradient is required.
//
// The overlay is sized to the container's client size times its pixel ratio
// and handed to the container when it implements OverlayReceiver. Nothing
// is rendered until data is added or a setter is called.
func New(container Container, opts ...Option) (*Heatmap, error) {
	if container == nil {
		return nil, &ArgumentError{Op: "New", Kind: KindUndefined, Want: "a container"}
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}
	if err := checkStops("WithGradient", cfg.stops); err != nil {
		return nil, err
	}

	h := &Heatmap{
		container:    container,
		target:       render.NewPixmapTarget(0, 0),
		typ:          cfg.typ,
		view:         cfg.view,
		gradient:     BuildGradient(cfg.stops),
		strategy:     cfg.strategy,
		corners:      cfg.corners,
		falloff:      cfg.falloff,
		accumulation: cfg.accumulation,
		renderer:     cfg.renderer,
		onError:      cfg.onError,
		log:          cfg.logger,
	}
	if h.renderer == nil {
		h.renderer = newChainRenderer(cfg.logger)
	}
	h.packer.log = cfg.logger
	if h.onError == nil {
		h.onError = h.frameError
	}
	h.overlay = &Overlay{target: h.target}
	h.resizeTarget()

	if r, ok := container.(OverlayReceiver); ok {
		r.AttachOverlay(h.overlay)
	}
	return h, nil
}

// resizeTarget reads the container size and resizes the overlay.
func (h *Heatmap) resizeTarget() {
	w, ht := h.container.ClientSize()
	ratio := h.container.PixelRatio()
	if !(ratio > 0) {
		ratio = 1
	}
	h.view.PixelRatio = ratio
	bw := max(int(float64(w)*ratio), 0)
	bh := max(int(float64(ht)*ratio), 0)
	h.target.Resize(bw, bh)
	h.overlay.width, h.overlay.height = w, ht
}

// render packs the current dataset and draws a frame.
//
// Backend failures go to the error handler and the frame is skipped; only
// an unsupported type is returned.
func (h *Heatmap) render() error {
	if h.closed {
		return nil
	}
	if !h.typ.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedMode, string(h.typ))
	}

	var g *PackedGeometry
	if h.typ == TypeCircle {
		g = h.packer.PackCircles(h.points)
	} else {
		g = h.packer.PackRects(h.rects)
	}

	f := &Frame{
		Type:         h.typ,
		Geometry:     g,
		Gradient:     h.gradient,
		View:         h.view,
		Strategy:     h.strategy,
		Corners:      h.corners,
		Falloff:      h.falloff,
		Accumulation: h.accumulation,
		Intensity:    &h.intensity,
	}
	if err := h.renderer.Render(h.target, f); err != nil {
		if errors.Is(err, ErrUnsupportedMode) {
			return err
		}
		h.onError(err)
	}
	return nil
}

// AddData appends points to the dataset and renders.
//
// When intact is true the points are raw layout coordinates (for example
// pointer positions) and are mapped into the current pan/zoom/rotation frame
// with ToViewSpace before they are stored.
//
// Points belong to circle charts; a horizontal chart rejects them with an
// *ArgumentError and keeps its dataset.
func (h *Heatmap) AddData(points []Point, intact bool) error {
	if err := h.accepts("AddData", TypeCircle); err != nil || h.closed {
		return err
	}
	if !intact {
		h.points = append(h.points, points...)
		return h.render()
	}
	w, ht := float64(h.target.Width()), float64(h.target.Height())
	for _, p := range points {
		h.points = append(h.points, ToViewSpace(p, w, ht, h.view.PixelRatio, h.view.Zoom, h.view.Angle, h.view.Translate))
	}
	return h.render()
}

// RenderData replaces the dataset with points and renders.
func (h *Heatmap) RenderData(points []Point) error {
	if err := h.accepts("RenderData", TypeCircle); err != nil || h.closed {
		return err
	}
	h.points = slices.Clone(points)
	return h.render()
}

// AddRects appends rects to the horizontal-mode dataset and renders.
// A circle chart rejects them.
func (h *Heatmap) AddRects(rects []Rect) error {
	if err := h.accepts("AddRects", TypeHorizontal); err != nil || h.closed {
		return err
	}
	h.rects = append(h.rects, rects...)
	return h.render()
}

// RenderRects replaces the horizontal-mode dataset with rects and renders.
func (h *Heatmap) RenderRects(rects []Rect) error {
	if err := h.accepts("RenderRects", TypeHorizontal); err != nil || h.closed {
		return err
	}
	h.rects = slices.Clone(rects)
	return h.render()
}

// accepts checks that data of the given mode can be stored on this chart.
// An unrecognized chart type is ErrUnsupportedMode.
func (h *Heatmap) accepts(op string, mode Type) error {
	if !h.typ.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedMode, string(h.typ))
	}
	if h.typ != mode {
		return &ArgumentError{Op: op, Kind: KindType, Value: mode, Want: fmt.Sprintf("%s, the chart type", h.typ)}
	}
	return nil
}

// Points returns the circle-mode dataset. The slice must not be modified.
func (h *Heatmap) Points() []Point { return h.points }

// Rects returns the horizontal-mode dataset. The slice must not be
// modified.
func (h *Heatmap) Rects() []Rect { return h.rects }

// Resize re-reads the container size and pixel ratio, reallocates the
// overlay when the backing size changed, and renders.
func (h *Heatmap) Resize() error {
	h.resizeTarget()
	h.logger().Info("heatmap: resized", "width", h.target.Width(), "height", h.target.Height(), "ratio", h.view.PixelRatio)
	return h.render()
}

// Clear clears the overlay to transparent. The dataset and view state are
// kept; the next mutation draws them again.
func (h *Heatmap) Clear() {
	h.target.Clear(color.NRGBA{})
	clear(h.intensity.Alpha)
}

// SetGradient replaces the gradient and renders.
func (h *Heatmap) SetGradient(stops []GradientStop) error {
	if err := checkStops("SetGradient", stops); err != nil {
		return err
	}
	h.gradient = BuildGradient(stops)
	return h.render()
}

// SetMax sets the intensity mapped to the top of the gradient. +Inf
// restores the default.
func (h *Heatmap) SetMax(v float64) error {
	if err := checkMax("SetMax", v); err != nil {
		return err
	}
	h.view.Max = v
	return h.render()
}

// SetTranslate sets the pan offset in layout pixels.
func (h *Heatmap) SetTranslate(x, y float64) error {
	if err := checkNumber("SetTranslate", x); err != nil {
		return err
	}
	if err := checkNumber("SetTranslate", y); err != nil {
		return err
	}
	h.view.Translate = [2]float64{x, y}
	return h.render()
}

// SetZoom sets the zoom factor.
func (h *Heatmap) SetZoom(v float64) error {
	return h.setNumber("SetZoom", v, &h.view.Zoom)
}

// SetRotationAngle sets the rotation in radians.
func (h *Heatmap) SetRotationAngle(v float64) error {
	return h.setNumber("SetRotationAngle", v, &h.view.Angle)
}

// SetSize sets the splat diameter in layout pixels.
func (h *Heatmap) SetSize(v float64) error {
	return h.setNumber("SetSize", v, &h.view.Size)
}

// SetBlur sets the splat intensity multiplier.
func (h *Heatmap) SetBlur(v float64) error {
	return h.setNumber("SetBlur", v, &h.view.Blur)
}

// SetOpacity sets the global opacity.
func (h *Heatmap) SetOpacity(v float64) error {
	return h.setNumber("SetOpacity", v, &h.view.Opacity)
}

func (h *Heatmap) setNumber(op string, v float64, dst *float64) error {
	if err := checkNumber(op, v); err != nil {
		return err
	}
	*dst = v
	return h.render()
}

// Set sets a view parameter by name from a dynamically typed value, as
// decoded from JSON or a command line. Names are "size", "max", "blur",
// "translate", "zoom", "rotationAngle" and "opacity".
//
// A nil value is reported with KindUndefined and a non-numeric value with
// KindType. "translate" takes a two-element numeric slice or array.
func (h *Heatmap) Set(name string, value any) error {
	if name == "translate" {
		const want = "an array of two finite numbers"
		if value == nil {
			return &ArgumentError{Op: "SetTranslate", Kind: KindUndefined, Want: want}
		}
		x, y, ok := toPair(value)
		if !ok {
			return &ArgumentError{Op: "SetTranslate", Kind: KindType, Value: value, Want: want}
		}
		return h.SetTranslate(x, y)
	}

	var set func(float64) error
	var op string
	switch name {
	case "size":
		set, op = h.SetSize, "SetSize"
	case "max":
		set, op = h.SetMax, "SetMax"
	case "blur":
		set, op = h.SetBlur, "SetBlur"
	case "zoom":
		set, op = h.SetZoom, "SetZoom"
	case "rotationAngle":
		set, op = h.SetRotationAngle, "SetRotationAngle"
	case "opacity":
		set, op = h.SetOpacity, "SetOpacity"
	default:
		return fmt.Errorf("%w: unknown parameter %q", ErrInvalidArgument, name)
	}
	if value == nil {
		return &ArgumentError{Op: op, Kind: KindUndefined}
	}
	v, ok := toFloat(value)
	if !ok {
		return &ArgumentError{Op: op, Kind: KindType, Value: value}
	}
	return set(v)
}

// Type returns the rendering mode.
func (h *Heatmap) Type() Type { return h.typ }

// View returns a copy of the view parameters.
func (h *Heatmap) View() ViewState { return h.view }

// Gradient returns the gradient table.
func (h *Heatmap) Gradient() *GradientTable { return h.gradient }

// Overlay returns the overlay surface.
func (h *Heatmap) Overlay() *Overlay { return h.overlay }

// Image returns the overlay pixels.
func (h *Heatmap) Image() *image.NRGBA { return h.target.Image() }

// Intensity returns the circle-mode accumulation buffer of the last frame.
func (h *Heatmap) Intensity() *IntensityField { return &h.intensity }

// Close releases the chart buffers. Later mutations validate their
// arguments but neither store data nor render.
func (h *Heatmap) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	h.points, h.rects = nil, nil
	h.intensity = IntensityField{}
	return nil
}

func checkNumber(op string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ArgumentError{Op: op, Kind: KindType, Value: v}
	}
	return nil
}

// checkMax accepts any number but NaN and -Inf; +Inf is the default max.
func checkMax(op string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, -1) {
		return &ArgumentError{Op: op, Kind: KindType, Value: v, Want: "a number or +Inf"}
	}
	return nil
}

func checkStops(op string, stops []GradientStop) error {
	if len(stops) == 0 {
		return &ArgumentError{Op: op, Kind: KindUndefined, Want: "a non-empty list of gradient stops"}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func toPair(v any) (float64, float64, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return 0, 0, false
	}
	if rv.Len() != 2 {
		return 0, 0, false
	}
	x, ok := toFloat(rv.Index(0).Interface())
	if !ok {
		return 0, 0, false
	}
	y, ok := toFloat(rv.Index(1).Interface())
	if !ok {
		return 0, 0, false
	}
	return x, y, true
}
