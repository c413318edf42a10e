package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/heatmap"
	"github.com/gogpu/heatmap/dataset"
)

func newWatchCmd() *cobra.Command {
	var f chartFlags
	cmd := &cobra.Command{
		Use:   "watch [data.csv]",
		Short: "Re-render a CSV file every time rows are appended",
		Long: `watch follows a CSV file with x, y and value columns. New rows are added
to the chart as they are written and the output PNG is rewritten after each
batch. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, &f, args[0])
		},
	}
	f.register(cmd)
	return cmd
}

func runWatch(cmd *cobra.Command, f *chartFlags, input string) error {
	h, c, err := f.newChart()
	if err != nil {
		return err
	}
	defer h.Close()
	if h.Type() != heatmap.TypeCircle {
		return fmt.Errorf("watch supports only %s heatmaps", heatmap.TypeCircle)
	}

	ctx := cmd.Context()
	printf := printer(cmd.OutOrStdout())
	err = dataset.Watch(ctx, input, f.cols, func(points []heatmap.Point) error {
		if err := h.AddData(points, f.intact); err != nil {
			return err
		}
		if err := savePNG(f.output, f.frame(h, c)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		printf("added %d points, %d total\n", len(points), len(h.Points()))
		return nil
	})
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}
