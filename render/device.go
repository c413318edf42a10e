// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// A host that already owns a GPU device (a gogpu window, for example) passes
// it to the heatmap accelerator so both share one device and queue instead
// of the accelerator opening its own.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider.
type DeviceHandle = gpucontext.DeviceProvider

// HalProvider is implemented by device handles that expose the wgpu HAL
// device and queue behind the opaque gpucontext tokens. The accelerator
// type-asserts the returned values to hal.Device and hal.Queue.
type HalProvider interface {
	HalDevice() any
	HalQueue() any
}

// IsSoftwareAdapter reports whether the handle is backed by a CPU
// implementation of the GPU API. Rendering through such a device is slower
// than the native software renderer.
func IsSoftwareAdapter(h DeviceHandle) bool {
	if h == nil {
		return false
	}
	return h.AdapterInfo().Type == gpucontext.AdapterTypeSoftware
}

// NullDeviceHandle is a DeviceHandle without a device.
// Used for CPU-only rendering.
type NullDeviceHandle struct{}

// Device returns nil.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo reports an unknown adapter.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "none", Type: gpucontext.AdapterTypeUnknown}
}

// SurfaceFormat returns the undefined format.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

var _ DeviceHandle = NullDeviceHandle{}
