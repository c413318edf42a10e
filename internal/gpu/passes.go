// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/heatmap"
	"github.com/gogpu/heatmap/internal/raster"
	"github.com/gogpu/heatmap/render"
)

// targetBuffers are the per-size storage and staging buffers. They are
// reallocated only when the target size changes.
type targetBuffers struct {
	width, height int
	field         hal.Buffer // f32 per pixel
	pixels        hal.Buffer // packed RGBA8 per pixel
	fieldStaging  hal.Buffer
	pixelStaging  hal.Buffer
}

func (b *targetBuffers) size() uint64 {
	return uint64(b.width) * uint64(b.height) * 4 //nolint:gosec // dimensions are non-negative
}

// ensure sizes the buffers for a w x h target. It reports whether new
// buffers were allocated.
func (b *targetBuffers) ensure(device hal.Device, w, h int) (bool, error) {
	if b.field != nil && b.width == w && b.height == h {
		return false, nil
	}
	b.destroy(device)
	b.width, b.height = w, h
	size := b.size()

	storage := gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst
	staging := gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst
	var err error
	if b.field, err = device.CreateBuffer(&hal.BufferDescriptor{Label: "heatmap_field", Size: size, Usage: storage}); err != nil {
		return false, fmt.Errorf("create field buffer: %w", err)
	}
	if b.pixels, err = device.CreateBuffer(&hal.BufferDescriptor{Label: "heatmap_pixels", Size: size, Usage: storage}); err != nil {
		b.destroy(device)
		return false, fmt.Errorf("create pixel buffer: %w", err)
	}
	if b.fieldStaging, err = device.CreateBuffer(&hal.BufferDescriptor{Label: "heatmap_field_staging", Size: size, Usage: staging}); err != nil {
		b.destroy(device)
		return false, fmt.Errorf("create field staging buffer: %w", err)
	}
	if b.pixelStaging, err = device.CreateBuffer(&hal.BufferDescriptor{Label: "heatmap_pixel_staging", Size: size, Usage: staging}); err != nil {
		b.destroy(device)
		return false, fmt.Errorf("create pixel staging buffer: %w", err)
	}
	return true, nil
}

func (b *targetBuffers) destroy(device hal.Device) {
	if device != nil {
		for _, buf := range []hal.Buffer{b.field, b.pixels, b.fieldStaging, b.pixelStaging} {
			if buf != nil {
				device.DestroyBuffer(buf)
			}
		}
	}
	*b = targetBuffers{}
}

// pass is one compute dispatch.
type pass struct {
	pipeline  *computePipeline
	bindGroup hal.BindGroup
	x, y      uint32 // workgroups
}

// frame collects the uniform buffers and bind groups of one submit.
type frame struct {
	device hal.Device
	queue  hal.Queue
	passes []pass

	uniforms []hal.Buffer
	groups   []hal.BindGroup
}

// add creates a uniform buffer holding params and a bind group with the
// uniform at binding 0 followed by the storage buffers, each bound with
// storageSize bytes, and appends a pass over a width×height invocation grid.
func (fr *frame) add(p *computePipeline, label string, params []byte, width, height int, storageSize uint64, storage ...hal.Buffer) error {
	ub, err := fr.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label + "_params", Size: uint64(len(params)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create %s uniform buffer: %w", label, err)
	}
	fr.uniforms = append(fr.uniforms, ub)
	if err := fr.queue.WriteBuffer(ub, 0, params); err != nil {
		return fmt.Errorf("write %s uniform buffer: %w", label, err)
	}

	entries := []gputypes.BindGroupEntry{
		{Binding: 0, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: uint64(len(params))}},
	}
	for i, buf := range storage {
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  uint32(i + 1), //nolint:gosec // binding index fits uint32
			Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle(), Offset: 0, Size: storageSize},
		})
	}
	bg, err := fr.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: label + "_bind", Layout: p.bindLayout, Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create %s bind group: %w", label, err)
	}
	fr.groups = append(fr.groups, bg)

	fr.passes = append(fr.passes, pass{
		pipeline:  p,
		bindGroup: bg,
		x:         uint32((width + 7) / 8),  //nolint:gosec // dimensions always fit uint32
		y:         uint32((height + 7) / 8), //nolint:gosec // dimensions always fit uint32
	})
	return nil
}

func (fr *frame) release() {
	for _, bg := range fr.groups {
		if bg != nil {
			fr.device.DestroyBindGroup(bg)
		}
	}
	for _, ub := range fr.uniforms {
		if ub != nil {
			fr.device.DestroyBuffer(ub)
		}
	}
}

// submit clears the given buffers, runs every pass in order, copies the
// results to staging, and waits for the GPU.
func (a *Accelerator) submit(fr *frame, clears []hal.Buffer, copies [][2]hal.Buffer) error {
	size := a.buffers.size()
	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "heatmap_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("heatmap_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	for _, buf := range clears {
		encoder.ClearBuffer(buf, 0, size)
	}
	for _, p := range fr.passes {
		cp := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "heatmap_pass"})
		cp.SetPipeline(p.pipeline.pipeline)
		cp.SetBindGroup(0, p.bindGroup, nil)
		cp.Dispatch(p.x, p.y, 1)
		cp.End()
	}
	for _, c := range copies {
		encoder.CopyBufferToBuffer(c[0], c[1], []hal.BufferCopy{{SrcOffset: 0, DstOffset: 0, Size: size}})
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	if _, err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := a.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	a.logger().Debug("heatmap/gpu: frame submitted", "passes", len(fr.passes))
	return nil
}

// readback copies a mapped staging buffer into dst.
func (a *Accelerator) readback(buf hal.Buffer, dst []byte) error {
	size := uint64(len(dst))
	m, err := a.device.MapBuffer(buf, 0, size)
	if err != nil {
		return fmt.Errorf("map staging buffer: %w", err)
	}
	copy(dst, unsafe.Slice((*byte)(m.Ptr), size)) //nolint:gosec // mapping covers size bytes
	if err := a.device.UnmapBuffer(buf); err != nil {
		return fmt.Errorf("unmap staging buffer: %w", err)
	}
	return nil
}

// renderCircles runs the accumulation passes and the color passes, then
// reads back both the intensity field and the pixels.
func (a *Accelerator) renderCircles(target render.RenderTarget, f *heatmap.Frame, field *heatmap.IntensityField) error {
	w, h := target.Width(), target.Height()
	fr := &frame{device: a.device, queue: a.queue}
	defer fr.release()

	xf := heatmap.NewSplatTransform(float64(w), float64(h), f.View)
	radius := f.SplatRadius()
	g := f.Geometry
	for i := 0; i < g.Count; i++ {
		px, py := xf.Pixel(float64(g.Positions[2*i]), float64(g.Positions[2*i+1]))
		b, ok := raster.SplatBounds(px, py, radius, w, h)
		if !ok {
			continue
		}
		params := splatParams{
			CenterX: float32(px), CenterY: float32(py),
			OriginX: uint32(b.Min.X), OriginY: uint32(b.Min.Y), //nolint:gosec // clipped to the target
			SizeX: uint32(b.Dx()), SizeY: uint32(b.Dy()), //nolint:gosec // clipped to the target
			Width:   uint32(w), //nolint:gosec // dimensions always fit uint32
			Falloff: uint32(f.Falloff),
			Radius:  float32(radius),
			Alpha:   f.SplatAlpha(g.Values[i]),
		}
		if f.Accumulation == heatmap.AccumUnorm8 {
			params.Quantize = 1
		}
		raw := structToBytes(unsafe.Pointer(&params), unsafe.Sizeof(params)) //nolint:gosec // safe struct access
		if err := fr.add(a.accumulate, "heatmap_splat", raw, b.Dx(), b.Dy(), a.buffers.size(), a.buffers.field); err != nil {
			return err
		}
	}

	for _, seg := range segments(f.Gradient, w, h, float32(f.View.Opacity)) {
		raw := structToBytes(unsafe.Pointer(&seg), unsafe.Sizeof(seg)) //nolint:gosec // safe struct access
		if err := fr.add(a.colorize, "heatmap_segment", raw, w, h, a.buffers.size(), a.buffers.field, a.buffers.pixels); err != nil {
			return err
		}
	}

	err := a.submit(fr,
		[]hal.Buffer{a.buffers.field, a.buffers.pixels},
		[][2]hal.Buffer{{a.buffers.field, a.buffers.fieldStaging}, {a.buffers.pixels, a.buffers.pixelStaging}},
	)
	if err != nil {
		return err
	}

	raw := make([]byte, a.buffers.size())
	if err := a.readback(a.buffers.fieldStaging, raw); err != nil {
		return err
	}
	unpackField(raw, field.Alpha)
	if err := a.readback(a.buffers.pixelStaging, raw); err != nil {
		return err
	}
	unpackPixels(raw, target.Pixels(), w, h, target.Stride())
	return nil
}

// segments returns one color pass per gradient stop: segment 0 covers
// values at or below the first offset, segment k the values between
// offsets k-1 and k.
func segments(t *heatmap.GradientTable, w, h int, opacity float32) []segmentParams {
	colors, offsets := t.Colors(), t.Offsets()
	out := make([]segmentParams, len(offsets))
	for k := range offsets {
		s := segmentParams{
			Upper:   offsets[k],
			Width:   uint32(w), //nolint:gosec // dimensions always fit uint32
			Height:  uint32(h), //nolint:gosec // dimensions always fit uint32
			Opacity: opacity,
		}
		copy(s.Hi[:], colors[4*k:4*k+4])
		if k == 0 {
			s.First = 1
			s.Lo = s.Hi
		} else {
			s.Lower = offsets[k-1]
			copy(s.Lo[:], colors[4*(k-1):4*k])
		}
		out[k] = s
	}
	return out
}

// renderRects runs one pass per rect over the pixels it touches.
func (a *Accelerator) renderRects(target render.RenderTarget, f *heatmap.Frame) error {
	w, h := target.Width(), target.Height()
	clip := image.Rect(0, 0, w, h)
	fr := &frame{device: a.device, queue: a.queue}
	defer fr.release()

	wash := f.Strategy == heatmap.CornerWash
	corners := [4]heatmap.RGBA{f.Corners.TopLeft, f.Corners.TopRight, f.Corners.BottomLeft, f.Corners.BottomRight}
	g := f.Geometry
	for i := 0; i < g.Count; i++ {
		left, bottom, right, top := g.Rect(i)
		x0, y0 := heatmap.ClipToPixel(float64(left), float64(top), w, h)
		x1, y1 := heatmap.ClipToPixel(float64(right), float64(bottom), w, h)
		x0, x1 = min(x0, x1), max(x0, x1)
		y0, y1 = min(y0, y1), max(y0, y1)

		b := raster.BoxBounds(x0, y0, x1, y1, clip)
		if b.Empty() {
			continue
		}
		q := quadParams{
			Bounds:  [4]float32{float32(x0), float32(y0), float32(x1), float32(y1)},
			OriginX: uint32(b.Min.X), OriginY: uint32(b.Min.Y), //nolint:gosec // clipped to the target
			SizeX: uint32(b.Dx()), SizeY: uint32(b.Dy()), //nolint:gosec // clipped to the target
			Width: uint32(w), //nolint:gosec // dimensions always fit uint32
		}
		if wash {
			q.Wash = 1
			for k, dst := range []*[4]float32{&q.TL, &q.TR, &q.BL, &q.BR} {
				c := corners[k]
				*dst = [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
			}
		} else {
			q.Color = f.RectColor(g.Values[i*heatmap.VerticesPerRect])
		}
		raw := structToBytes(unsafe.Pointer(&q), unsafe.Sizeof(q)) //nolint:gosec // safe struct access
		if err := fr.add(a.rects, "heatmap_rect", raw, b.Dx(), b.Dy(), a.buffers.size(), a.buffers.pixels); err != nil {
			return err
		}
	}

	err := a.submit(fr,
		[]hal.Buffer{a.buffers.pixels},
		[][2]hal.Buffer{{a.buffers.pixels, a.buffers.pixelStaging}},
	)
	if err != nil {
		return err
	}
	raw := make([]byte, a.buffers.size())
	if err := a.readback(a.buffers.pixelStaging, raw); err != nil {
		return err
	}
	unpackPixels(raw, target.Pixels(), w, h, target.Stride())
	return nil
}
