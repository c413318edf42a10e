package main

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg" // base image decoders
	_ "image/png"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/heatmap"
	"github.com/gogpu/heatmap/dataset"
)

// defaultGradient is the classic blue-green-yellow-red density ramp.
const defaultGradient = "0.25:#0000ff,0.55:#00ff00,0.85:#ffff00,1:#ff0000"

// chartFlags are the chart options shared by render and watch.
type chartFlags struct {
	typ       string
	width     int
	height    int
	ratio     float64
	size      float64
	max       float64
	blur      float64
	zoom      float64
	angle     float64
	opacity   float64
	translate []float64
	gradient  string
	strategy  string
	falloff   string
	unorm8    bool
	software  bool
	intact    bool
	view      string
	base      string
	output    string
	sheet     string
	cols      dataset.Columns
}

func (f *chartFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.output, "output", "o", "heatmap.png", "Output PNG file")
	fs.StringVarP(&f.typ, "type", "t", string(heatmap.TypeCircle), "Heatmap type: circle or horizontal")
	fs.IntVar(&f.width, "width", 800, "Client width in layout pixels (ignored with --base)")
	fs.IntVar(&f.height, "height", 600, "Client height in layout pixels (ignored with --base)")
	fs.Float64Var(&f.ratio, "pixel-ratio", 1, "Device pixel ratio of the overlay")
	fs.Float64Var(&f.size, "size", 20, "Splat diameter in layout pixels")
	fs.Float64Var(&f.max, "max", math.Inf(1), "Intensity mapped to the top of the gradient")
	fs.Float64Var(&f.blur, "blur", 1, "Splat intensity multiplier")
	fs.Float64Var(&f.zoom, "zoom", 1, "View zoom")
	fs.Float64Var(&f.angle, "angle", 0, "View rotation in radians")
	fs.Float64Var(&f.opacity, "opacity", 1, "Overlay opacity")
	fs.Float64SliceVar(&f.translate, "translate", []float64{0, 0}, "View pan x,y in layout pixels")
	fs.StringVar(&f.gradient, "gradient", defaultGradient, "Gradient stops as offset:#rrggbb[aa],...")
	fs.StringVar(&f.strategy, "color", "corner-wash", "Horizontal coloring: corner-wash or gradient")
	fs.StringVar(&f.falloff, "falloff", "quadratic", "Splat falloff: quadratic or linear")
	fs.BoolVar(&f.unorm8, "unorm8", false, "Accumulate intensity with 8-bit precision")
	fs.BoolVar(&f.software, "software", false, "Render on the CPU even if a GPU is available")
	fs.BoolVar(&f.intact, "intact", false, "Apply the view transform to points on ingestion")
	fs.StringVar(&f.view, "view", "", "JSON file of view parameters, e.g. {\"zoom\": 2, \"translate\": [10, 0]}")
	fs.StringVar(&f.base, "base", "", "PNG or JPEG image to draw the overlay over")
	fs.StringVar(&f.sheet, "sheet", "", "XLSX worksheet (default: first)")
	fs.StringVar(&f.cols.X, "x-col", "", "Column holding x (default \"x\")")
	fs.StringVar(&f.cols.Y, "y-col", "", "Column holding y (default \"y\")")
	fs.StringVar(&f.cols.Value, "value-col", "", "Column holding the value (default \"value\")")
}

func (f *chartFlags) options() ([]heatmap.Option, error) {
	stops, err := parseGradient(f.gradient)
	if err != nil {
		return nil, err
	}
	if len(f.translate) != 2 {
		return nil, fmt.Errorf("--translate takes two values, got %d", len(f.translate))
	}

	opts := []heatmap.Option{
		heatmap.WithType(heatmap.Type(f.typ)),
		heatmap.WithGradient(stops),
		heatmap.WithSize(f.size),
		heatmap.WithMax(f.max),
		heatmap.WithBlur(f.blur),
		heatmap.WithZoom(f.zoom),
		heatmap.WithRotationAngle(f.angle),
		heatmap.WithOpacity(f.opacity),
		heatmap.WithTranslate(f.translate[0], f.translate[1]),
	}

	switch f.strategy {
	case "corner-wash":
		opts = append(opts, heatmap.WithColorStrategy(heatmap.CornerWash))
	case "gradient":
		opts = append(opts, heatmap.WithColorStrategy(heatmap.GradientLookup))
	default:
		return nil, fmt.Errorf("invalid --color %q (must be corner-wash or gradient)", f.strategy)
	}
	switch f.falloff {
	case "quadratic":
		opts = append(opts, heatmap.WithFalloff(heatmap.FalloffQuadratic))
	case "linear":
		opts = append(opts, heatmap.WithFalloff(heatmap.FalloffLinear))
	default:
		return nil, fmt.Errorf("invalid --falloff %q (must be quadratic or linear)", f.falloff)
	}
	if f.unorm8 {
		opts = append(opts, heatmap.WithAccumulation(heatmap.AccumUnorm8))
	}
	if f.software {
		opts = append(opts, heatmap.WithRenderer(heatmap.NewSoftwareRenderer()))
	}
	return opts, nil
}

// newChart builds the container and chart described by the flags.
func (f *chartFlags) newChart() (*heatmap.Heatmap, *heatmap.ImageContainer, error) {
	opts, err := f.options()
	if err != nil {
		return nil, nil, err
	}
	base, err := f.baseImage()
	if err != nil {
		return nil, nil, err
	}
	c := heatmap.NewImageContainer(base, f.ratio)
	h, err := heatmap.New(c, opts...)
	if err != nil {
		return nil, nil, err
	}
	if f.view != "" {
		if err := applyView(h, f.view); err != nil {
			_ = h.Close()
			return nil, nil, err
		}
	}
	return h, c, nil
}

func (f *chartFlags) baseImage() (image.Image, error) {
	if f.base == "" {
		if f.width <= 0 || f.height <= 0 {
			return nil, fmt.Errorf("invalid size %dx%d", f.width, f.height)
		}
		return image.NewNRGBA(image.Rect(0, 0, f.width, f.height)), nil
	}
	r, err := os.Open(f.base)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.base, err)
	}
	return img, nil
}

// frame returns the image to save: the composite when a base image was
// given, the bare overlay otherwise.
func (f *chartFlags) frame(h *heatmap.Heatmap, c *heatmap.ImageContainer) image.Image {
	if f.base != "" {
		return c.Composite()
	}
	return h.Image()
}

// parseGradient parses "offset:#rrggbb[aa]" pairs separated by commas.
func parseGradient(s string) ([]heatmap.GradientStop, error) {
	var stops []heatmap.GradientStop
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		off, hex, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("invalid gradient stop %q (want offset:#rrggbb)", part)
		}
		offset, err := strconv.ParseFloat(strings.TrimSpace(off), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid gradient offset %q: %w", off, err)
		}
		c, err := heatmap.ParseHex(strings.TrimSpace(hex))
		if err != nil {
			return nil, err
		}
		stops = append(stops, heatmap.GradientStop{
			Color:  []float64{c.R * 255, c.G * 255, c.B * 255, c.A},
			Offset: offset,
		})
	}
	if len(stops) == 0 {
		return nil, fmt.Errorf("gradient has no stops")
	}
	return stops, nil
}

// applyView feeds the keys of a JSON object to Heatmap.Set in name order.
func applyView(h *heatmap.Heatmap, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var params map[string]any
	if err := json.Unmarshal(data, &params); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := h.Set(k, params[k]); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}
