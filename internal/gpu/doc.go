// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package gpu implements the heatmap render pipeline on the GPU with
// gogpu/wgpu HAL compute shaders.
//
// Shaders are WGSL, compiled to SPIR-V with gogpu/naga:
//
//   - accumulate.wgsl: one pass per point, blending the splat into an f32
//     intensity field over the splat bounding box
//   - colorize.wgsl: one pass per gradient segment, mapping the field to
//     packed RGBA8 pixels
//   - rects.wgsl: one pass per horizontal-mode rect with exact box coverage
//
// Passes never loop over points or stops inside a shader. Results are
// copied to MapRead staging buffers and read back into the render target.
//
// This is an internal package; import github.com/gogpu/heatmap/gpu to
// register the accelerator.
package gpu
