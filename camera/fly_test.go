// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package camera

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
)

const tol = 1e-4

func assertVec(t *testing.T, want, got math32.Vector3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol)
	assert.InDelta(t, want.Y, got.Y, tol)
	assert.InDelta(t, want.Z, got.Z, tol)
}

func viewPoint(view *math32.Matrix4, p math32.Vector3) math32.Vector3 {
	v := math32.Vector4FromVector3(p, 1).MulMatrix4(view)
	return math32.Vec3(v.X, v.Y, v.Z)
}

func TestDefaults(t *testing.T) {
	cm := NewFly(math32.Vec3(1, 2, 3))
	assertVec(t, math32.Vec3(0, 0, -1), cm.Forward())
	assertVec(t, math32.Vec3(1, 0, 0), cm.Right())
	assertVec(t, math32.Vec3(0, 0, 0), viewPoint(cm.ViewMatrix(), cm.Position))
}

func TestMouseLook(t *testing.T) {
	cm := NewFly(math32.Vector3{})
	cm.MouseLook(900, 0)
	assert.InDelta(t, 90, cm.Yaw, tol)
	assertVec(t, math32.Vec3(1, 0, 0), cm.Forward())
	assertVec(t, math32.Vec3(0, 0, 1), cm.Right())

	cm.MouseLook(0, 5000)
	assert.Equal(t, float32(90), cm.Pitch)
	assertVec(t, math32.Vec3(0, -1, 0), cm.Forward())
	cm.MouseLook(0, -20000)
	assert.Equal(t, float32(-90), cm.Pitch)
}

func TestViewMatrix(t *testing.T) {
	for _, cm := range []*Fly{
		{Position: math32.Vec3(3, 4, 5), Yaw: 30, Pitch: 20},
		{Position: math32.Vec3(-7, 1, 2), Yaw: -135, Pitch: -60},
		{Position: math32.Vec3(0, 10, 0), Yaw: 400, Pitch: 89},
	} {
		view := cm.ViewMatrix()
		assertVec(t, math32.Vector3{}, viewPoint(view, cm.Position))
		assertVec(t, math32.Vec3(0, 0, -1), viewPoint(view, cm.Position.Add(cm.Forward())))
		assertVec(t, math32.Vec3(1, 0, 0), viewPoint(view, cm.Position.Add(cm.Right())))
	}
}

func TestMove(t *testing.T) {
	cm := NewFly(math32.Vec3(0, 0, 0))
	cm.Move(2, 0, 0)
	assertVec(t, math32.Vec3(0, 0, -1), cm.Position)
	cm.Move(0, 2, 2)
	assertVec(t, math32.Vec3(1, 1, -1), cm.Position)
}

func TestLookAt(t *testing.T) {
	cm := NewFly(math32.Vec3(0, 10, 10))
	cm.LookAt(math32.Vec3(5, 0, -3))
	want := math32.Vec3(5, -10, -13)
	assertVec(t, want.Normal(), cm.Forward())
}
