// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package roadmesh evaluates track segments as cubic Bézier curves and
// tessellates them into road geometry: a top surface between the two
// rails of the road and a wall from each rail down to the ground plane.
package roadmesh

import (
	"cogentcore.org/core/math32"
	"github.com/quadrupledare/qdare/track"
)

// Bezier evaluates the scalar cubic Bézier of a, b, c, d at t.
func Bezier(a, b, c, d, t float32) float32 {
	s := 1 - t
	return s*s*s*a + 3*s*s*t*b + 3*s*t*t*c + t*t*t*d
}

// BezierDeriv evaluates the derivative of the scalar cubic Bézier of
// a, b, c, d at t.
func BezierDeriv(a, b, c, d, t float32) float32 {
	s := 1 - t
	return 3 * (s*s*(b-a) + 2*s*t*(c-b) + t*t*(d-c))
}

// Bezier3 evaluates the cubic Bézier of points a, b, c, d at t.
func Bezier3(a, b, c, d math32.Vector3, t float32) math32.Vector3 {
	return math32.Vec3(Bezier(a.X, b.X, c.X, d.X, t), Bezier(a.Y, b.Y, c.Y, d.Y, t), Bezier(a.Z, b.Z, c.Z, d.Z, t))
}

// BezierDeriv3 evaluates the derivative of the cubic Bézier of points
// a, b, c, d at t.
func BezierDeriv3(a, b, c, d math32.Vector3, t float32) math32.Vector3 {
	return math32.Vec3(BezierDeriv(a.X, b.X, c.X, d.X, t), BezierDeriv(a.Y, b.Y, c.Y, d.Y, t), BezierDeriv(a.Z, b.Z, c.Z, d.Z, t))
}

// Point returns the center line position of seg at t.
func Point(seg *track.Segment, t float32) math32.Vector3 {
	return Bezier3(seg.P[0].Position, seg.P[1].Position, seg.P[2].Position, seg.P[3].Position, t)
}

// Tangent returns the derivative of the center line of seg at t. It is
// not normalized and is zero where the curve has a cusp.
func Tangent(seg *track.Segment, t float32) math32.Vector3 {
	return BezierDeriv3(seg.P[0].Position, seg.P[1].Position, seg.P[2].Position, seg.P[3].Position, t)
}

// Width returns the road half-width of seg at t.
func Width(seg *track.Segment, t float32) float32 {
	return Bezier(seg.P[0].Width, seg.P[1].Width, seg.P[2].Width, seg.P[3].Width, t)
}

// RawNormal returns the Bézier interpolation of the control point
// normals of seg at t, before orthogonalization.
func RawNormal(seg *track.Segment, t float32) math32.Vector3 {
	return Bezier3(seg.P[0].Normal, seg.P[1].Normal, seg.P[2].Normal, seg.P[3].Normal, t)
}
