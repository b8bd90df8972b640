// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package camera provides a free-flying first person camera.
package camera

import (
	"cogentcore.org/core/math32"
)

// Fly is a first person camera that turns with the mouse and moves
// relative to where it looks. Yaw turns about the world up axis and
// Pitch tilts up or down; both are in degrees.
type Fly struct {
	Position math32.Vector3

	// Yaw is the heading in degrees; 0 looks along -Z.
	Yaw float32

	// Pitch is the tilt in degrees, positive looks down, clamped to +/-90.
	Pitch float32

	// Sensitivity is degrees turned per unit of mouse motion.
	Sensitivity float32 `default:"0.1"`

	// Speed is the distance moved per Move step.
	Speed float32 `default:"0.5"`
}

// NewFly returns a camera at pos looking along -Z.
func NewFly(pos math32.Vector3) *Fly {
	return &Fly{Position: pos, Sensitivity: 0.1, Speed: 0.5}
}

// LookAt turns the camera towards target.
func (cm *Fly) LookAt(target math32.Vector3) {
	d := target.Sub(cm.Position)
	if d.Length() == 0 {
		return
	}
	h := math32.Sqrt(d.X*d.X + d.Z*d.Z)
	cm.Yaw = math32.RadToDeg(math32.Atan2(d.X, -d.Z))
	cm.Pitch = math32.RadToDeg(math32.Atan2(-d.Y, h))
}

// MouseLook turns the camera by a mouse motion of dx, dy.
func (cm *Fly) MouseLook(dx, dy float32) {
	cm.Yaw += dx * cm.Sensitivity
	cm.Pitch += dy * cm.Sensitivity
	cm.Pitch = math32.Max(-90, math32.Min(90, cm.Pitch))
}

// Forward returns the unit direction the camera looks in.
func (cm *Fly) Forward() math32.Vector3 {
	yaw, pitch := math32.DegToRad(cm.Yaw), math32.DegToRad(cm.Pitch)
	return math32.Vec3(math32.Sin(yaw)*math32.Cos(pitch), -math32.Sin(pitch), -math32.Cos(yaw)*math32.Cos(pitch))
}

// Right returns the unit horizontal direction to the right of the view.
func (cm *Fly) Right() math32.Vector3 {
	yaw := math32.DegToRad(cm.Yaw)
	return math32.Vec3(math32.Cos(yaw), 0, math32.Sin(yaw))
}

// Move moves the camera by Speed times forward along Forward, right
// along Right and up along the world up axis.
func (cm *Fly) Move(forward, right, up float32) {
	d := cm.Forward().MulScalar(forward).Add(cm.Right().MulScalar(right)).Add(math32.Vec3(0, up, 0))
	cm.Position = cm.Position.Add(d.MulScalar(cm.Speed))
}

// ViewMatrix returns the matrix transforming world coordinates into
// camera coordinates, with the camera looking along -Z.
func (cm *Fly) ViewMatrix() *math32.Matrix4 {
	yaw, pitch := math32.DegToRad(cm.Yaw), math32.DegToRad(cm.Pitch)
	q := math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), -yaw)
	q.SetMul(math32.NewQuatAxisAngle(math32.Vec3(1, 0, 0), -pitch))
	var cview math32.Matrix4
	cview.SetTransform(cm.Position, q, math32.Vec3(1, 1, 1))
	view, err := cview.Inverse()
	if err != nil {
		// rotations are always invertible
		view = &math32.Matrix4{}
		view.SetIdentity()
	}
	return view
}
