//go:build !nogpu

package main

// GPU compute acceleration; build with -tags nogpu for a CPU-only binary.
import _ "github.com/gogpu/heatmap/gpu"
