// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package memgpu provides a gpu.Device that records everything it is
// asked to do in memory. It is used for tests and for headless runs,
// where it stands in for a real GL context.
package memgpu

import (
	"fmt"
	"image"
	"image/draw"
	"maps"
	"slices"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/math32"
	"github.com/quadrupledare/qdare/gpu"
)

// Attrib is the recorded pointer state of one enabled vertex input.
type Attrib struct {
	Slot uint32

	// number of float32 components
	Size int

	// stride and offset in bytes
	Stride, Offset int
}

// State is the recorded fixed-function state.
type State struct {
	ClearColor [4]float32
	Viewport   image.Rectangle
	DepthTest  bool
	CullFront  bool
	CullBack   bool
	CCW        bool
	Blend      bool
}

// DrawCall is a snapshot of one indexed triangle draw.
type DrawCall struct {

	// Program is the name of the active program.
	Program string

	// Count is the number of indexes drawn.
	Count int

	// Vertices is the data most recently transferred into the
	// active vertex buffer.
	Vertices []float32

	// Indices are the first Count indexes of the active index buffer.
	Indices []uint32

	// Attribs are the enabled inputs, sorted by slot.
	Attribs []Attrib

	// Uniforms are the matrix uniform values of the active program.
	Uniforms map[string]math32.Matrix4

	State State
}

// Device is an in-memory gpu.Device.
type Device struct {

	// MaxBufferValues, if > 0, makes buffer allocations larger than
	// this many values fail with gpu.ErrOutOfMemory.
	MaxBufferValues int

	// State is the current fixed-function state.
	State State

	// Clears counts calls to Clear with color and with depth set.
	ColorClears, DepthClears int

	// Draws are all draw calls issued since the last Reset.
	Draws []DrawCall

	vb      *vertexBuffer
	ib      *indexBuffer
	prog    *program
	enabled map[uint32]bool
	ptrs    map[uint32]Attrib
	live    int
}

var _ gpu.Device = (*Device)(nil)

// NewDevice returns a new in-memory device.
func NewDevice() *Device {
	return &Device{enabled: map[uint32]bool{}, ptrs: map[uint32]Attrib{}}
}

// Reset forgets recorded draws and clear counts.
func (dv *Device) Reset() {
	dv.Draws = nil
	dv.ColorClears = 0
	dv.DepthClears = 0
}

// Live returns the number of buffers and programs not yet deleted.
func (dv *Device) Live() int {
	return dv.live
}

// Enabled reports whether the input at slot is enabled.
func (dv *Device) Enabled(slot uint32) bool {
	return dv.enabled[slot]
}

// ActiveProgram returns the name of the active program, or "".
func (dv *Device) ActiveProgram() string {
	if dv.prog == nil {
		return ""
	}
	return dv.prog.name
}

func (dv *Device) Clear(color, depth bool) {
	if color {
		dv.ColorClears++
	}
	if depth {
		dv.DepthClears++
	}
}

func (dv *Device) ClearColor(r, g, b, a float32) {
	dv.State.ClearColor = [4]float32{r, g, b, a}
}

func (dv *Device) DepthTest(on bool) {
	dv.State.DepthTest = on
}

func (dv *Device) CullFace(front, back, ccw bool) {
	dv.State.CullFront = front
	dv.State.CullBack = back
	dv.State.CCW = ccw
}

func (dv *Device) Op(op draw.Op) {
	dv.State.Blend = op == draw.Over
}

func (dv *Device) Viewport(rect image.Rectangle) {
	dv.State.Viewport = rect
}

// TrianglesIndexed records a draw call. It panics on the same
// conditions a GL driver would reject or crash on: no program, no
// buffers bound, or indexes out of range of the transferred vertices.
func (dv *Device) TrianglesIndexed(count int) {
	if dv.prog == nil || dv.vb == nil || dv.ib == nil {
		panic("memgpu: draw without program and buffers")
	}
	if count > dv.ib.used {
		panic(fmt.Sprintf("memgpu: draw of %d indexes with only %d transferred", count, dv.ib.used))
	}
	dc := DrawCall{
		Program:  dv.prog.name,
		Count:    count,
		Vertices: slices.Clone(dv.vb.data[:dv.vb.used]),
		Indices:  slices.Clone(dv.ib.data[:count]),
		Uniforms: maps.Clone(dv.prog.uniforms),
		State:    dv.State,
	}
	for _, slot := range slices.Sorted(maps.Keys(dv.enabled)) {
		if !dv.enabled[slot] {
			continue
		}
		at, ok := dv.ptrs[slot]
		if !ok {
			panic(fmt.Sprintf("memgpu: input slot %d enabled without a pointer", slot))
		}
		dc.Attribs = append(dc.Attribs, at)
	}
	dv.Draws = append(dv.Draws, dc)
}

func (dv *Device) NewVertexBuffer(n int) (gpu.VertexBuffer, error) {
	if err := dv.checkAlloc(n); err != nil {
		return nil, err
	}
	dv.live++
	return &vertexBuffer{dev: dv, data: make([]float32, n)}, nil
}

func (dv *Device) NewIndexBuffer(n int) (gpu.IndexBuffer, error) {
	if err := dv.checkAlloc(n); err != nil {
		return nil, err
	}
	dv.live++
	return &indexBuffer{dev: dv, data: make([]uint32, n)}, nil
}

func (dv *Device) checkAlloc(n int) error {
	if n < 0 || (dv.MaxBufferValues > 0 && n > dv.MaxBufferValues) {
		return errors.Log(fmt.Errorf("memgpu: allocating %d values: %w", n, gpu.ErrOutOfMemory))
	}
	return nil
}

func (dv *Device) NewProgram(name, vertexSrc, fragmentSrc string) (gpu.Program, error) {
	pr, err := parseProgram(dv, name, vertexSrc, fragmentSrc)
	if err != nil {
		return nil, errors.Log(err)
	}
	dv.live++
	return pr, nil
}

func (dv *Device) EnableAttrib(slot uint32) {
	dv.enabled[slot] = true
}

func (dv *Device) DisableAttrib(slot uint32) {
	delete(dv.enabled, slot)
}

func (dv *Device) AttribPointer(slot uint32, size, stride, offset int) {
	if dv.vb == nil {
		panic("memgpu: AttribPointer without an active vertex buffer")
	}
	dv.ptrs[slot] = Attrib{Slot: slot, Size: size, Stride: stride, Offset: offset}
}

func (dv *Device) Release() {}

type vertexBuffer struct {
	dev  *Device
	data []float32
	used int
}

func (vb *vertexBuffer) Len() int  { return len(vb.data) }
func (vb *vertexBuffer) Activate() { vb.dev.vb = vb }

func (vb *vertexBuffer) Transfer(data math32.ArrayF32) {
	if vb.dev.vb != vb {
		panic("memgpu: Transfer to inactive vertex buffer")
	}
	if len(data) > len(vb.data) {
		panic(fmt.Sprintf("memgpu: vertex transfer of %d values exceeds capacity %d", len(data), len(vb.data)))
	}
	copy(vb.data, data)
	vb.used = len(data)
}

func (vb *vertexBuffer) Delete() {
	if vb.data == nil {
		return
	}
	if vb.dev.vb == vb {
		vb.dev.vb = nil
	}
	vb.data = nil
	vb.dev.live--
}

type indexBuffer struct {
	dev  *Device
	data []uint32
	used int
}

func (ib *indexBuffer) Len() int  { return len(ib.data) }
func (ib *indexBuffer) Activate() { ib.dev.ib = ib }

func (ib *indexBuffer) Transfer(data math32.ArrayU32) {
	if ib.dev.ib != ib {
		panic("memgpu: Transfer to inactive index buffer")
	}
	if len(data) > len(ib.data) {
		panic(fmt.Sprintf("memgpu: index transfer of %d values exceeds capacity %d", len(data), len(ib.data)))
	}
	copy(ib.data, data)
	ib.used = len(data)
}

func (ib *indexBuffer) Delete() {
	if ib.data == nil {
		return
	}
	if ib.dev.ib == ib {
		ib.dev.ib = nil
	}
	ib.data = nil
	ib.dev.live--
}
