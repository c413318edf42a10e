// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// splatParams matches the Splat uniform in accumulate.wgsl (48 bytes).
type splatParams struct {
	CenterX, CenterY float32
	OriginX, OriginY uint32
	SizeX, SizeY     uint32
	Width            uint32
	Falloff          uint32
	Radius           float32
	Alpha            float32
	Quantize         uint32
	_                uint32
}

// segmentParams matches the Segment uniform in colorize.wgsl (64 bytes).
type segmentParams struct {
	Lo, Hi       [4]float32
	Lower, Upper float32
	Width        uint32
	Height       uint32
	First        uint32
	Opacity      float32
	_            [2]uint32
}

// quadParams matches the Quad uniform in rects.wgsl (128 bytes).
type quadParams struct {
	Bounds           [4]float32
	OriginX, OriginY uint32
	SizeX, SizeY     uint32
	Color            [4]float32
	TL, TR, BL, BR   [4]float32
	Width            uint32
	Wash             uint32
	_                [2]uint32
}

func structToBytes(ptr unsafe.Pointer, size uintptr) []byte {
	return unsafe.Slice((*byte)(ptr), size) //nolint:gosec // safe struct serialization
}

// unpackPixels copies packed RGBA8 words into a strided pixel slice.
func unpackPixels(packed []byte, dst []byte, width, height, stride int) {
	for y := 0; y < height; y++ {
		row := dst[y*stride:]
		for x := 0; x < width; x++ {
			val := binary.LittleEndian.Uint32(packed[(y*width+x)*4:])
			o := row[x*4 : x*4+4]
			o[0] = uint8(val & 0xFF)         //nolint:gosec // masked to 8 bits
			o[1] = uint8((val >> 8) & 0xFF)  //nolint:gosec // masked to 8 bits
			o[2] = uint8((val >> 16) & 0xFF) //nolint:gosec // masked to 8 bits
			o[3] = uint8((val >> 24) & 0xFF) //nolint:gosec // masked to 8 bits
		}
	}
}

// unpackField copies little-endian float32 values into dst.
func unpackField(raw []byte, dst []float32) {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
}
