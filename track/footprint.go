// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package track

import (
	"math"

	"cogentcore.org/core/math32"
	"honnef.co/go/curve"
)

// ArclenAccuracy is the accuracy of Footprint lengths, in world units.
const ArclenAccuracy = 1e-3

// Footprint is the ground plan of a track: its center line projected
// onto the XZ plane, ignoring height and width.
type Footprint struct {

	// Bounds of the projected center line; X is world X, Y is world Z.
	Bounds curve.Rect

	// Length is the projected length of the center line.
	Length float64

	// Segments is the number of segments measured.
	Segments int
}

// PlanCurve returns the projection of seg's center line onto the XZ plane.
func PlanCurve(seg Segment) curve.CubicBez {
	pt := func(v math32.Vector3) curve.Point {
		return curve.Point{X: float64(v.X), Y: float64(v.Z)}
	}
	return curve.CubicBez{
		P0: pt(seg.P[0].Position),
		P1: pt(seg.P[1].Position),
		P2: pt(seg.P[2].Position),
		P3: pt(seg.P[3].Position),
	}
}

// MeasureFootprint measures every segment src derives.
func MeasureFootprint(src Source) Footprint {
	fp := Footprint{Bounds: curve.Rect{X0: math.Inf(1), Y0: math.Inf(1), X1: math.Inf(-1), Y1: math.Inf(-1)}}
	for i := range src.NodeCount() {
		seg, ok := DeriveSegment(src, i)
		if !ok {
			continue
		}
		cb := PlanCurve(seg)
		bb := cb.BoundingBox()
		fp.Bounds.X0 = min(fp.Bounds.X0, bb.X0)
		fp.Bounds.Y0 = min(fp.Bounds.Y0, bb.Y0)
		fp.Bounds.X1 = max(fp.Bounds.X1, bb.X1)
		fp.Bounds.Y1 = max(fp.Bounds.Y1, bb.Y1)
		fp.Length += cb.Arclen(ArclenAccuracy)
		fp.Segments++
	}
	if fp.Segments == 0 {
		fp.Bounds = curve.Rect{}
	}
	return fp
}

// Center returns the center of the bounds at ground level.
func (fp *Footprint) Center() math32.Vector3 {
	return math32.Vec3(float32(fp.Bounds.X0+fp.Bounds.X1)/2, 0, float32(fp.Bounds.Y0+fp.Bounds.Y1)/2)
}

// Radius returns half the diagonal of the bounds.
func (fp *Footprint) Radius() float32 {
	return float32(math.Hypot(fp.Bounds.X1-fp.Bounds.X0, fp.Bounds.Y1-fp.Bounds.Y0) / 2)
}

// Footprint measures the segments of the graph.
func (gr *Graph) Footprint() Footprint {
	return MeasureFootprint(gr)
}
