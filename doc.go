// Package heatmap renders 2D heatmap overlays.
//
// # Overview
//
// A Heatmap draws weighted samples over a Container. The client supplies
// points and a color gradient; heatmap accumulates per-pixel intensity, maps
// it through the gradient and writes a transparent overlay the container
// composites over its content.
//
// # Quick Start
//
//	import "github.com/gogpu/heatmap"
//
//	c := heatmap.NewImageContainer(background, 1)
//	hm, err := heatmap.New(c,
//	    heatmap.WithType(heatmap.TypeCircle),
//	    heatmap.WithGradient([]heatmap.GradientStop{
//	        {Color: []float64{0, 0, 255}, Offset: 0.2},
//	        {Color: []float64{255, 0, 0}, Offset: 1},
//	    }),
//	    heatmap.WithMax(100),
//	)
//	if err != nil {
//	    return err
//	}
//	hm.AddData([]heatmap.Point{{X: 120, Y: 80, Value: 60}}, false)
//	png.Encode(w, c.Composite())
//
// # Modes
//
// TypeCircle runs two passes. Every point is drawn as a radial splat whose
// alpha (value/max)·blur·(1-r²) is blended into an intensity buffer with
// the ONE, ONE_MINUS_SRC_ALPHA blend function; the buffer is then mapped
// through the gradient. TypeHorizontal draws one rectangle per Rect, colored
// by a four-corner wash or by the gradient (see ColorStrategy).
//
// # Renderers
//
// SoftwareRenderer is always available. Importing the gpu sub-package
// registers a wgpu compute accelerator that charts use when it can serve a
// frame:
//
//	import _ "github.com/gogpu/heatmap/gpu"
//
// # Architecture
//
// The library is organized into:
//   - Public API: Heatmap, GradientTable, Packer, ViewState, Point, Rect
//   - render: render targets and the shared GPU device handle
//   - Internal: raster (splats, box coverage), blend (blend equations), gpu
//   - dataset: JSON, CSV and XLSX loaders and live CSV feeds
package heatmap
