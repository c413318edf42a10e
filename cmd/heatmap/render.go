package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/heatmap"
	"github.com/gogpu/heatmap/dataset"
)

func newRenderCmd() *cobra.Command {
	var f chartFlags
	cmd := &cobra.Command{
		Use:   "render [data.json|data.csv|data.xlsx]",
		Short: "Render a dataset to a PNG image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, &f, args[0])
		},
	}
	f.register(cmd)
	return cmd
}

func runRender(cmd *cobra.Command, f *chartFlags, input string) error {
	h, c, err := f.newChart()
	if err != nil {
		return err
	}
	defer h.Close()

	opts := dataset.Options{Columns: f.cols, Sheet: f.sheet}
	var n int
	switch h.Type() {
	case heatmap.TypeHorizontal:
		rects, err := dataset.ReadRectsFile(input, opts)
		if err != nil {
			return err
		}
		if err := h.RenderRects(rects); err != nil {
			return err
		}
		n = len(rects)
	default:
		points, err := dataset.ReadPointsFile(input, opts)
		if err != nil {
			return err
		}
		if f.intact {
			err = h.AddData(points, true)
		} else {
			err = h.RenderData(points)
		}
		if err != nil {
			return err
		}
		n = len(points)
	}

	img := f.frame(h, c)
	if err := savePNG(f.output, img); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	b := img.Bounds()
	printer(cmd.OutOrStdout())("rendered %d %s samples to %s (%dx%d)\n", n, h.Type(), f.output, b.Dx(), b.Dy())
	return nil
}
