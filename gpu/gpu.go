// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu defines the small set of GPU operations needed to stream
// interleaved geometry to a shader program. Implementations live in
// glgpu (OpenGL 4.1 core) and memgpu (in-memory recorder, for tests and
// headless runs).
package gpu

import (
	"image"
	"image/draw"

	"cogentcore.org/core/math32"
)

// Drawing provides commonly-used GPU drawing functions and state settings that affect drawing.
// All operate on the current context with current program, buffers, etc.
type Drawing interface {
	// Clear clears the given properties of the current render target
	Clear(color, depth bool)

	// ClearColor sets the color to draw when clear is called
	ClearColor(r, g, b, a float32)

	// DepthTest turns on / off depth testing (standard less-than-or-equal depth assumed).
	DepthTest(on bool)

	// CullFace sets face culling, for front and / or back faces (back typical).
	// if ccw = true then standard CCW face ordering is used, else CW (clockwise).
	// Passing false for both front and back disables culling.
	CullFace(front, back, ccw bool)

	// Op sets the blend function based on go standard draw operation
	// Src disables blending, and Over uses alpha-blending
	Op(op draw.Op)

	// Viewport sets the rendering viewport to given rectangle.
	// It is important to update this for each render, cannot assume it.
	Viewport(rect image.Rectangle)

	// TrianglesIndexed uses all existing settings to draw count
	// indexes from the active IndexBuffer as triangles,
	// starting at index 0.
	TrianglesIndexed(count int)
}

// Device is a GPU context that can allocate buffers and programs
// and issue draw calls. All methods must be called from the
// goroutine that owns the context.
type Device interface {
	Drawing

	// NewVertexBuffer allocates a stream vertex buffer holding
	// n float32 values.
	NewVertexBuffer(n int) (VertexBuffer, error)

	// NewIndexBuffer allocates a stream index buffer holding
	// n uint32 values.
	NewIndexBuffer(n int) (IndexBuffer, error)

	// NewProgram compiles and links a program from vertex and
	// fragment shader source.
	NewProgram(name, vertexSrc, fragmentSrc string) (Program, error)

	// EnableAttrib enables the vertex input at the given slot.
	EnableAttrib(slot uint32)

	// DisableAttrib disables the vertex input at the given slot.
	DisableAttrib(slot uint32)

	// AttribPointer points the vertex input at slot to the active
	// VertexBuffer: size float32 components per vertex, with stride
	// and offset given in bytes.
	AttribPointer(slot uint32, size, stride, offset int)

	// Release frees any device-level resources.
	Release()
}

// VertexBuffer is a fixed-capacity GPU region of float32 vertex data.
type VertexBuffer interface {
	// Len returns the capacity in float32 values.
	Len() int

	// Activate binds buffer as the active vertex buffer.
	Activate()

	// Transfer uploads data to the start of the buffer.
	// Activate must have been called with no other such buffers
	// activated in between. Panics if data exceeds Len.
	Transfer(data math32.ArrayF32)

	// Delete deletes the GPU resources associated with this buffer.
	Delete()
}

// IndexBuffer is a fixed-capacity GPU region of uint32 indexes.
type IndexBuffer interface {
	// Len returns the capacity in indexes.
	Len() int

	// Activate binds buffer as the active index buffer.
	Activate()

	// Transfer uploads data to the start of the buffer.
	// Activate must have been called with no other such buffers
	// activated in between. Panics if data exceeds Len.
	Transfer(data math32.ArrayU32)

	// Delete deletes the GPU resources associated with this buffer.
	Delete()
}

// Program is a linked set of vertex and fragment shaders.
type Program interface {
	// Name returns name of program
	Name() string

	// Activate activates this as the active program.
	Activate()

	// Deactivate clears the active program.
	Deactivate()

	// InputByName returns the slot of the named vertex input,
	// or an error if the program has no such active input.
	InputByName(name string) (uint32, error)

	// SetUniformMatrix4 sets the named mat4 uniform.
	// The program must be active.
	SetUniformMatrix4(name string, m *math32.Matrix4) error

	// Delete deletes the GPU resources associated with this program.
	Delete()
}
