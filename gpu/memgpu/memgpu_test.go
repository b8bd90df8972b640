// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memgpu

import (
	"image/draw"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/quadrupledare/qdare/gpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVertex = `#version 410 core
uniform mat4 u_projection;
uniform mat4 u_view;
in vec3 a_position;
layout(location = 1) in vec4 a_color;
out vec4 v_color;
void main() {
	v_color = a_color;
	gl_Position = u_projection * u_view * vec4(a_position, 1.0);
}
`

const testFragment = `#version 410 core
in vec4 v_color;
out vec4 frag;
void main() {
	frag = v_color;
}
`

func TestProgramInputs(t *testing.T) {
	dv := NewDevice()
	pr, err := dv.NewProgram("test", testVertex, testFragment)
	require.NoError(t, err)

	slot, err := pr.InputByName("a_position")
	assert.NoError(t, err)
	assert.Equal(t, uint32(0), slot)
	slot, err = pr.InputByName("a_color")
	assert.NoError(t, err)
	assert.Equal(t, uint32(1), slot)

	_, err = pr.InputByName("a_normal")
	assert.ErrorIs(t, err, gpu.ErrNoInput)
	_, err = pr.InputByName("v_color")
	assert.ErrorIs(t, err, gpu.ErrNoInput)
}

func TestProgramUniforms(t *testing.T) {
	dv := NewDevice()
	pr, err := dv.NewProgram("test", testVertex, testFragment)
	require.NoError(t, err)

	var m math32.Matrix4
	m.SetIdentity()
	assert.Panics(t, func() { pr.SetUniformMatrix4("u_view", &m) })

	pr.Activate()
	assert.NoError(t, pr.SetUniformMatrix4("u_view", &m))
	assert.ErrorIs(t, pr.SetUniformMatrix4("u_model", &m), gpu.ErrNoUniform)
	assert.Equal(t, "test", dv.ActiveProgram())
	pr.Deactivate()
	assert.Equal(t, "", dv.ActiveProgram())
}

func TestBadProgram(t *testing.T) {
	dv := NewDevice()
	_, err := dv.NewProgram("bad", "in vec3 a;", testFragment)
	assert.Error(t, err)
	assert.Equal(t, 0, dv.Live())
}

func TestDrawRecording(t *testing.T) {
	dv := NewDevice()
	pr, err := dv.NewProgram("test", testVertex, testFragment)
	require.NoError(t, err)
	vb, err := dv.NewVertexBuffer(64)
	require.NoError(t, err)
	ib, err := dv.NewIndexBuffer(16)
	require.NoError(t, err)
	assert.Equal(t, 3, dv.Live())

	dv.DepthTest(true)
	dv.Op(draw.Over)
	pr.Activate()
	vb.Activate()
	vb.Transfer(math32.ArrayF32{1, 2, 3, 4, 5, 6, 7})
	dv.EnableAttrib(0)
	dv.AttribPointer(0, 3, 28, 0)
	ib.Activate()
	ib.Transfer(math32.ArrayU32{0, 0, 0})
	dv.TrianglesIndexed(3)

	require.Len(t, dv.Draws, 1)
	dc := dv.Draws[0]
	assert.Equal(t, "test", dc.Program)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7}, dc.Vertices)
	assert.Equal(t, []uint32{0, 0, 0}, dc.Indices)
	assert.Equal(t, []Attrib{{Slot: 0, Size: 3, Stride: 28}}, dc.Attribs)
	assert.True(t, dc.State.DepthTest)
	assert.True(t, dc.State.Blend)

	assert.Panics(t, func() { dv.TrianglesIndexed(6) })
	assert.Panics(t, func() { vb.Transfer(make(math32.ArrayF32, 65)) })

	vb.Delete()
	ib.Delete()
	pr.Delete()
	assert.Equal(t, 0, dv.Live())
}

func TestAllocLimit(t *testing.T) {
	dv := NewDevice()
	dv.MaxBufferValues = 8
	_, err := dv.NewVertexBuffer(9)
	assert.ErrorIs(t, err, gpu.ErrOutOfMemory)
	_, err = dv.NewIndexBuffer(8)
	assert.NoError(t, err)
}
