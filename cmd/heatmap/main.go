// Command heatmap renders heatmap overlays from JSON, CSV and XLSX datasets.
//
//	heatmap render points.csv -o out.png --max 50 --size 30
//	heatmap render rects.json --type horizontal -o bars.png
//	heatmap watch live.csv -o live.png
package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/heatmap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "heatmap",
		Short: "Render heatmap overlays from point datasets",
		Long: `heatmap renders circle (density) and horizontal (bar) heatmaps
from JSON, CSV or XLSX datasets and writes the overlay as a PNG image.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if verbose {
				heatmap.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline diagnostics to stderr")

	root.AddCommand(newRenderCmd(), newWatchCmd())
	return root
}

// printer formats summaries with grouped digits.
func printer(w io.Writer) func(format string, args ...any) {
	p := message.NewPrinter(language.English)
	return func(format string, args ...any) {
		_, _ = p.Fprintf(w, format, args...)
	}
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
