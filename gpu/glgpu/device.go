// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package glgpu implements the gpu.Device interface on OpenGL 4.1 core,
// using go-gl. A GL context must be current on the calling thread
// before NewDevice is called, and all methods must be called on that
// same thread.
package glgpu

import (
	"fmt"
	"log/slog"

	"cogentcore.org/core/base/errors"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/quadrupledare/qdare/gpu"
)

// Device is an OpenGL gpu.Device.
type Device struct {

	// vertex array object holding all attribute state; core
	// profile contexts need one bound to draw anything.
	vao uint32
}

var _ gpu.Device = (*Device)(nil)

// NewDevice loads the GL function pointers for the current context
// and binds a vertex array object.
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Log(fmt.Errorf("glgpu: init: %w", err))
	}
	slog.Info("glgpu: OpenGL", "version", gl.GoStr(gl.GetString(gl.VERSION)), "renderer", gl.GoStr(gl.GetString(gl.RENDERER)))
	dv := &Device{}
	gl.GenVertexArrays(1, &dv.vao)
	gl.BindVertexArray(dv.vao)
	return dv, nil
}

// NewVertexBuffer allocates a stream vertex buffer of n float32 values.
func (dv *Device) NewVertexBuffer(n int) (gpu.VertexBuffer, error) {
	vb := &vertexBuffer{ln: n}
	if err := vb.alloc(); err != nil {
		return nil, err
	}
	return vb, nil
}

// NewIndexBuffer allocates a stream index buffer of n uint32 values.
func (dv *Device) NewIndexBuffer(n int) (gpu.IndexBuffer, error) {
	ib := &indexBuffer{ln: n}
	if err := ib.alloc(); err != nil {
		return nil, err
	}
	return ib, nil
}

// NewProgram compiles and links a program from vertex and fragment source.
func (dv *Device) NewProgram(name, vertexSrc, fragmentSrc string) (gpu.Program, error) {
	pr := &program{name: name}
	if err := pr.compile(vertexSrc, fragmentSrc); err != nil {
		return nil, err
	}
	return pr, nil
}

// EnableAttrib enables the vertex input at the given slot.
func (dv *Device) EnableAttrib(slot uint32) {
	gl.EnableVertexAttribArray(slot)
}

// DisableAttrib disables the vertex input at the given slot.
func (dv *Device) DisableAttrib(slot uint32) {
	gl.DisableVertexAttribArray(slot)
}

// AttribPointer points the input at slot into the active vertex buffer.
func (dv *Device) AttribPointer(slot uint32, size, stride, offset int) {
	gl.VertexAttribPointerWithOffset(slot, int32(size), gl.FLOAT, false, int32(stride), uintptr(offset))
}

// Release deletes the vertex array object.
func (dv *Device) Release() {
	if dv.vao == 0 {
		return
	}
	gl.BindVertexArray(0)
	gl.DeleteVertexArrays(1, &dv.vao)
	dv.vao = 0
}

// allocError reports a GL out-of-memory condition from the last call.
func allocError(what string, bytes int) error {
	if e := gl.GetError(); e == gl.OUT_OF_MEMORY {
		return errors.Log(fmt.Errorf("glgpu: allocating %s of %d bytes: %w", what, bytes, gpu.ErrOutOfMemory))
	}
	return nil
}
