package heatmap

import (
	"log/slog"
	"sync/atomic"
)

// discard is in effect until SetLogger is called.
var discard = slog.New(slog.DiscardHandler)

var pkgLogger atomic.Pointer[slog.Logger]

func init() {
	pkgLogger.Store(discard)
}

// SetLogger sets the logger shared by heatmap, gpu, dataset and the
// registered accelerator. Charts created with WithLogger keep their own.
// Passing nil silences output again.
//
// Records by level:
//   - [slog.LevelDebug]: GPU buffer allocation, submitted frames
//   - [slog.LevelInfo]: accelerator selection, chart resizes
//   - [slog.LevelWarn]: CPU fallback, skipped dataset rows
//   - [slog.LevelError]: frames dropped after a backend failure
//
// Example:
//
//	heatmap.SetLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = discard
	}
	pkgLogger.Store(l)

	if a := registeredAccelerator(); a != nil {
		propagateLogger(a, l)
	}
}

// Logger returns the package logger.
func Logger() *slog.Logger {
	return pkgLogger.Load()
}

// logger returns the chart's own logger, or the package logger.
func (h *Heatmap) logger() *slog.Logger {
	if h.log != nil {
		return h.log
	}
	return Logger()
}

// frameError is the default error handler. The record carries the chart
// type and backing size so a dropped frame can be matched to its chart.
func (h *Heatmap) frameError(err error) {
	h.logger().Error("heatmap: frame skipped",
		"type", string(h.typ),
		"width", h.target.Width(),
		"height", h.target.Height(),
		"err", err)
}

// loggerSetter is implemented by accelerators that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

func propagateLogger(a Accelerator, l *slog.Logger) {
	if ls, ok := a.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
