// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package roadmesh

import (
	"cogentcore.org/core/math32"
	"github.com/quadrupledare/qdare/track"
)

// Epsilon is the length below which a direction is treated as zero.
const Epsilon = 1e-6

var (
	// Up is the world up direction.
	Up = math32.Vec3(0, 1, 0)

	// Forward is the direction used when a segment has no direction at all.
	Forward = math32.Vec3(0, 0, 1)

	// Side is the right direction used when no other choice is defined.
	Side = math32.Vec3(1, 0, 0)
)

// Section is the cross section of the road at one parameter value.
type Section struct {

	// Center is the point on the center line.
	Center math32.Vector3

	// Left and Right are the rail points, Center -/+ Across*Width.
	Left, Right math32.Vector3

	// Direction is the unit tangent.
	Direction math32.Vector3

	// Normal is the unit road up direction, perpendicular to Direction.
	Normal math32.Vector3

	// Across is the unit direction from Center towards Right,
	// perpendicular to Direction and Normal.
	Across math32.Vector3

	Width float32
}

// direction returns the unit tangent of seg at t. Where the tangent
// vanishes it uses the chord of the segment, and for a segment that
// starts and ends at the same point, Forward.
func direction(seg *track.Segment, t float32) math32.Vector3 {
	if d := Tangent(seg, t); d.Length() > Epsilon {
		return d.Normal()
	}
	if d := seg.P[3].Position.Sub(seg.P[0].Position); d.Length() > Epsilon {
		return d.Normal()
	}
	return Forward
}

// frame returns the unit across and normal directions for unit tangent
// dir and raw normal raw. When raw is zero or parallel to dir it uses
// Up, and when dir is vertical as well it uses Side as across.
func frame(dir, raw math32.Vector3) (across, normal math32.Vector3) {
	r := dir.Cross(raw)
	if r.Length() <= Epsilon*math32.Max(1, raw.Length()) {
		r = dir.Cross(Up)
	}
	if r.Length() <= Epsilon {
		r = Side
	}
	across = r.Normal()
	normal = across.Cross(dir).Normal()
	return
}

// Normal returns the unit road up direction of seg at t: the
// interpolated control point normal made perpendicular to the tangent.
func Normal(seg *track.Segment, t float32) math32.Vector3 {
	_, n := frame(direction(seg, t), RawNormal(seg, t))
	return n
}

// CrossSection returns the cross section of seg at t.
func CrossSection(seg *track.Segment, t float32) Section {
	dir := direction(seg, t)
	across, normal := frame(dir, RawNormal(seg, t))
	c := Point(seg, t)
	w := Width(seg, t)
	off := across.MulScalar(w)
	return Section{
		Center:    c,
		Left:      c.Sub(off),
		Right:     c.Add(off),
		Direction: dir,
		Normal:    normal,
		Across:    across,
		Width:     w,
	}
}

// WallNormal returns the outward normal of the right wall under s, the
// across direction flattened to the ground plane. The left wall normal
// is its negation. A vertical across direction uses the flattened road
// normal, and then Side.
func (s *Section) WallNormal() math32.Vector3 {
	if f := flatten(s.Across); f.Length() > Epsilon {
		return f.Normal()
	}
	if f := flatten(s.Normal); f.Length() > Epsilon {
		return f.Normal()
	}
	return Side
}

func flatten(v math32.Vector3) math32.Vector3 {
	return math32.Vec3(v.X, 0, v.Z)
}
