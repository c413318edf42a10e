// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides the integration layer between heatmap renderers
// and their pixel destinations or host GPU devices.
//
// # Core Types
//
//   - RenderTarget: where a frame is written (non-premultiplied RGBA8)
//   - PixmapTarget: CPU-backed *image.NRGBA target
//   - DeviceHandle: a GPU device shared by the host application
//
// The heatmap accelerator RECEIVES a device when the host has one and opens
// its own otherwise:
//
//	gpu.SetDeviceProvider(app.DeviceHandle())
package render
