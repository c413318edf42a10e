//go:build !nogpu

// Package gpu registers the wgpu compute accelerator for heatmap rendering.
//
// Import this package to render heatmap frames with GPU compute shaders.
// If GPU initialization fails (no Vulkan available), the accelerator stays
// registered in fallback mode and every frame renders on the CPU.
//
// Usage:
//
//	import _ "github.com/gogpu/heatmap/gpu" // enable GPU acceleration
package gpu

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/heatmap"
	gpuimpl "github.com/gogpu/heatmap/internal/gpu"
	"github.com/gogpu/heatmap/render"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

func init() {
	if err := heatmap.RegisterAccelerator(gpuimpl.New(gputypes.BackendVulkan)); err != nil {
		heatmap.Logger().Warn("heatmap: GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider configures the GPU accelerator to use a shared GPU device
// from the host application instead of opening its own.
//
// The handle should also implement render.HalProvider for direct HAL
// access.
func SetDeviceProvider(h render.DeviceHandle) error {
	return heatmap.SetAcceleratorDeviceProvider(h)
}
