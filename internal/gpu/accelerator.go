// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/heatmap"
	"github.com/gogpu/heatmap/render"
)

// maxPasses bounds the compute passes of one frame. Every point, gradient
// segment and rect is its own pass; larger frames render on the CPU.
const maxPasses = 4096

// Accelerator renders heatmap frames with wgpu/hal compute shaders.
// It implements heatmap.Accelerator.
//
// Each splat, gradient segment and rect is dispatched as a separate compute
// pass in one command encoder, with one submit per frame. Passes are ordered
// by the storage buffer barriers between them, which gives the same
// blending order as the software renderer.
type Accelerator struct {
	mu sync.Mutex

	backend  gputypes.Backend
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	accumulate *computePipeline
	colorize   *computePipeline
	rects      *computePipeline

	buffers targetBuffers
	scratch heatmap.IntensityField

	log atomic.Pointer[slog.Logger]

	adapterName    string
	gpuReady       bool
	externalDevice bool // true when using a shared device (don't destroy on Close)
}

var (
	_ heatmap.Accelerator         = (*Accelerator)(nil)
	_ heatmap.DeviceProviderAware = (*Accelerator)(nil)
)

// New returns an accelerator that opens its own device on the given HAL
// backend when Init is called. The backend package must be imported so it
// registers itself.
func New(backend gputypes.Backend) *Accelerator {
	return &Accelerator{backend: backend}
}

// Name returns "wgpu".
func (a *Accelerator) Name() string { return "wgpu" }

// CanRender reports true for both chart types.
func (a *Accelerator) CanRender(t heatmap.Type) bool {
	return t.Valid()
}

// Ready reports whether the GPU pipelines are available.
func (a *Accelerator) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gpuReady
}

// AdapterName returns the name of the adapter in use.
func (a *Accelerator) AdapterName() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.adapterName
}

// SetLogger sets the logger of this accelerator. heatmap.SetLogger calls it
// on the registered accelerator; nil reverts to heatmap.Logger.
func (a *Accelerator) SetLogger(l *slog.Logger) {
	a.log.Store(l)
}

func (a *Accelerator) logger() *slog.Logger {
	if l := a.log.Load(); l != nil {
		return l
	}
	return heatmap.Logger()
}

// Init opens a device and builds the pipelines. A GPU that cannot be
// initialized is logged and leaves the accelerator in CPU fallback mode;
// Init itself does not fail.
func (a *Accelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.initGPU(); err != nil {
		a.logger().Warn("heatmap/gpu: GPU init failed, using CPU fallback", "backend", a.backend.String(), "err", err)
	}
	return nil
}

// Close releases every GPU object. Shared devices are left open.
func (a *Accelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.releaseLocked()
}

func (a *Accelerator) releaseLocked() {
	a.buffers.destroy(a.device)
	a.destroyPipelines()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
		}
		if a.instance != nil {
			a.instance.Destroy()
		}
	}
	a.device = nil
	a.instance = nil
	a.queue = nil
	a.gpuReady = false
	a.externalDevice = false
}

// SetDeviceProvider switches the accelerator to a GPU device owned by the
// host. The handle must implement render.HalProvider.
func (a *Accelerator) SetDeviceProvider(h render.DeviceHandle) error {
	hp, ok := h.(render.HalProvider)
	if !ok {
		return errors.New("heatmap/gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return errors.New("heatmap/gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return errors.New("heatmap/gpu: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.releaseLocked()
	a.device = device
	a.queue = queue
	a.externalDevice = true
	a.adapterName = h.AdapterInfo().Name

	if err := a.createPipelines(); err != nil {
		a.gpuReady = false
		return fmt.Errorf("heatmap/gpu: create pipelines with shared device: %w", err)
	}
	a.gpuReady = true
	a.logger().Info("heatmap/gpu: switched to shared GPU device", "adapter", a.adapterName)
	return nil
}

func (a *Accelerator) initGPU() error {
	backend, ok := hal.GetBackend(a.backend)
	if !ok {
		return fmt.Errorf("%s backend not available", a.backend)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return errors.New("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue
	a.adapterName = selected.Info.Name

	if err := a.createPipelines(); err != nil {
		a.device.Destroy()
		a.device = nil
		a.queue = nil
		return fmt.Errorf("create pipelines: %w", err)
	}
	a.gpuReady = true
	a.logger().Info("heatmap/gpu: accelerator initialized", "adapter", a.adapterName)
	return nil
}

func (a *Accelerator) createPipelines() error {
	var err error
	if a.accumulate, err = createPipeline(a.device, accumulateSpec); err != nil {
		return err
	}
	if a.colorize, err = createPipeline(a.device, colorizeSpec); err != nil {
		a.destroyPipelines()
		return err
	}
	if a.rects, err = createPipeline(a.device, rectsSpec); err != nil {
		a.destroyPipelines()
		return err
	}
	return nil
}

func (a *Accelerator) destroyPipelines() {
	for _, p := range []*computePipeline{a.accumulate, a.colorize, a.rects} {
		p.destroy(a.device)
	}
	a.accumulate, a.colorize, a.rects = nil, nil, nil
}

// Render draws f into target. It returns heatmap.ErrFallbackToCPU when the
// GPU is not ready or the frame needs more passes than one submit allows.
func (a *Accelerator) Render(target render.RenderTarget, f *heatmap.Frame) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.gpuReady {
		return heatmap.ErrFallbackToCPU
	}
	if f == nil || f.Geometry == nil || f.Gradient == nil || !f.Type.Valid() {
		// Let the software renderer report the frame error.
		return heatmap.ErrFallbackToCPU
	}
	if f.Geometry.Count+f.Gradient.Len() > maxPasses {
		return heatmap.ErrFallbackToCPU
	}

	field := f.Intensity
	if field == nil {
		field = &a.scratch
	}
	w, h := target.Width(), target.Height()
	if f.Type == heatmap.TypeCircle {
		field.Resize(w, h)
	}
	if w == 0 || h == 0 || f.Geometry.Count == 0 {
		render.Clear(target, color.NRGBA{})
		return nil
	}

	allocated, err := a.buffers.ensure(a.device, w, h)
	if err != nil {
		return fmt.Errorf("%w: %w", heatmap.ErrBackend, err)
	}
	if allocated {
		a.logger().Debug("heatmap/gpu: target buffers allocated", "width", w, "height", h)
	}

	switch f.Type {
	case heatmap.TypeCircle:
		err = a.renderCircles(target, f, field)
	case heatmap.TypeHorizontal:
		err = a.renderRects(target, f)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", heatmap.ErrBackend, err)
	}
	return nil
}
