// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glgpu

import (
	"image"
	"image/draw"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Clear clears the given properties of the current render target
func (dv *Device) Clear(color, depth bool) {
	bits := uint32(0)
	if color {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if depth {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

// ClearColor sets the color to draw when clear is called
func (dv *Device) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

// DepthTest turns on / off depth testing
func (dv *Device) DepthTest(on bool) {
	if on {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LEQUAL)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

// CullFace sets face culling, for front and / or back faces (back typical).
// if ccw = true then standard CCW face ordering is used, else CW (clockwise).
func (dv *Device) CullFace(front, back, ccw bool) {
	switch {
	case front && back:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT_AND_BACK)
	case front:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	case back:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	default:
		gl.Disable(gl.CULL_FACE)
	}
	if ccw {
		gl.FrontFace(gl.CCW)
	} else {
		gl.FrontFace(gl.CW)
	}
}

// Op sets the blend function based on go standard draw operation
// Src disables blending, and Over uses straight alpha-blending.
func (dv *Device) Op(op draw.Op) {
	if op == draw.Over {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	} else {
		gl.Disable(gl.BLEND)
	}
}

// Viewport sets the rendering viewport to given rectangle.
func (dv *Device) Viewport(rect image.Rectangle) {
	gl.Viewport(int32(rect.Min.X), int32(rect.Min.Y), int32(rect.Dx()), int32(rect.Dy()))
}

// TrianglesIndexed draws count indexes of the active index buffer as triangles.
func (dv *Device) TrianglesIndexed(count int) {
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, 0)
}
