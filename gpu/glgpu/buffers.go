// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glgpu

import (
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/go-gl/gl/v4.1-core/gl"
)

const sizeofValue = 4 // float32 and uint32

// vertexBuffer is a GL_ARRAY_BUFFER of fixed capacity.
type vertexBuffer struct {
	handle uint32
	ln     int
}

func (vb *vertexBuffer) alloc() error {
	gl.GenBuffers(1, &vb.handle)
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.handle)
	gl.BufferData(gl.ARRAY_BUFFER, vb.ln*sizeofValue, nil, gl.STREAM_DRAW)
	if err := allocError("vertex buffer", vb.ln*sizeofValue); err != nil {
		vb.Delete()
		return err
	}
	return nil
}

// Len returns the capacity in float32 values.
func (vb *vertexBuffer) Len() int {
	return vb.ln
}

// Activate binds buffer as active one
func (vb *vertexBuffer) Activate() {
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.handle)
}

// Transfer copies data into the start of the buffer, leaving the
// rest of the region untouched.
func (vb *vertexBuffer) Transfer(data math32.ArrayF32) {
	if len(data) > vb.ln {
		panic(fmt.Sprintf("glgpu: vertex transfer of %d values exceeds capacity %d", len(data), vb.ln))
	}
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*sizeofValue, gl.Ptr(data))
}

// Delete deletes the GPU resources associated with this buffer
func (vb *vertexBuffer) Delete() {
	if vb.handle == 0 {
		return
	}
	gl.DeleteBuffers(1, &vb.handle)
	vb.handle = 0
}

// indexBuffer is a GL_ELEMENT_ARRAY_BUFFER of fixed capacity.
type indexBuffer struct {
	handle uint32
	ln     int
}

func (ib *indexBuffer) alloc() error {
	gl.GenBuffers(1, &ib.handle)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.handle)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, ib.ln*sizeofValue, nil, gl.STREAM_DRAW)
	if err := allocError("index buffer", ib.ln*sizeofValue); err != nil {
		ib.Delete()
		return err
	}
	return nil
}

// Len returns the capacity in indexes.
func (ib *indexBuffer) Len() int {
	return ib.ln
}

// Activate binds buffer as active one
func (ib *indexBuffer) Activate() {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.handle)
}

// Transfer copies data into the start of the buffer.
func (ib *indexBuffer) Transfer(data math32.ArrayU32) {
	if len(data) > ib.ln {
		panic(fmt.Sprintf("glgpu: index transfer of %d values exceeds capacity %d", len(data), ib.ln))
	}
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, len(data)*sizeofValue, gl.Ptr(data))
}

// Delete deletes the GPU resources associated with this buffer
func (ib *indexBuffer) Delete() {
	if ib.handle == 0 {
		return
	}
	gl.DeleteBuffers(1, &ib.handle)
	ib.handle = 0
}
