// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/accumulate.wgsl
var accumulateShaderSource string

//go:embed shaders/colorize.wgsl
var colorizeShaderSource string

//go:embed shaders/rects.wgsl
var rectsShaderSource string

// compileSPIRV compiles WGSL source to SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// bindingKind is the buffer binding type of one shader binding.
type bindingKind = gputypes.BufferBindingType

// pipelineSpec describes one compute pipeline: its shader and the buffer
// bindings of group 0 in binding order.
type pipelineSpec struct {
	label    string
	source   string
	bindings []bindingKind
}

var (
	accumulateSpec = pipelineSpec{
		label:  "heatmap_accumulate",
		source: accumulateShaderSource,
		bindings: []bindingKind{
			gputypes.BufferBindingTypeUniform,
			gputypes.BufferBindingTypeStorage,
		},
	}
	colorizeSpec = pipelineSpec{
		label:  "heatmap_colorize",
		source: colorizeShaderSource,
		bindings: []bindingKind{
			gputypes.BufferBindingTypeUniform,
			gputypes.BufferBindingTypeReadOnlyStorage,
			gputypes.BufferBindingTypeStorage,
		},
	}
	rectsSpec = pipelineSpec{
		label:  "heatmap_rects",
		source: rectsShaderSource,
		bindings: []bindingKind{
			gputypes.BufferBindingTypeUniform,
			gputypes.BufferBindingTypeStorage,
		},
	}
)

// computePipeline holds the GPU objects of one compiled pipelineSpec.
type computePipeline struct {
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
}

// createPipeline compiles spec and creates its pipeline on device. On error
// the objects created so far are destroyed.
func createPipeline(device hal.Device, spec pipelineSpec) (*computePipeline, error) {
	code, err := compileSPIRV(spec.source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.label, err)
	}

	p := &computePipeline{}
	p.shader, err = device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  spec.label,
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s shader module: %w", spec.label, err)
	}

	entries := make([]gputypes.BindGroupLayoutEntry, len(spec.bindings))
	for i, kind := range spec.bindings {
		entries[i] = gputypes.BindGroupLayoutEntry{
			Binding:    uint32(i), //nolint:gosec // binding index fits uint32
			Visibility: gputypes.ShaderStageCompute,
			Buffer:     &gputypes.BufferBindingLayout{Type: kind},
		}
	}
	p.bindLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   spec.label + "_bind_layout",
		Entries: entries,
	})
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("create %s bind group layout: %w", spec.label, err)
	}

	p.pipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            spec.label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("create %s pipeline layout: %w", spec.label, err)
	}

	p.pipeline, err = device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   spec.label + "_pipeline",
		Layout:  p.pipeLayout,
		Compute: hal.ComputeState{Module: p.shader, EntryPoint: "main"},
	})
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("create %s compute pipeline: %w", spec.label, err)
	}
	return p, nil
}

// destroy releases the pipeline objects in reverse creation order.
func (p *computePipeline) destroy(device hal.Device) {
	if p == nil || device == nil {
		return
	}
	if p.pipeline != nil {
		device.DestroyComputePipeline(p.pipeline)
	}
	if p.pipeLayout != nil {
		device.DestroyPipelineLayout(p.pipeLayout)
	}
	if p.bindLayout != nil {
		device.DestroyBindGroupLayout(p.bindLayout)
	}
	if p.shader != nil {
		device.DestroyShaderModule(p.shader)
	}
}
