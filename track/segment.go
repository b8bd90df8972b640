// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package track

// Segment is the four control points of one cubic Bézier piece of road,
// running from a node's anchor to its successor's anchor.
type Segment struct {
	P [4]ControlPoint
}

// DeriveSegment builds the segment starting at node i: the node's
// anchor and handle, then the successor's handle mirrored across the
// successor's anchor, then that anchor. Mirroring the handle makes
// consecutive segments meet with matching tangents.
//
// It returns false if i is not a Bezier node or has no live Bezier
// successor.
func DeriveSegment(src Source, i int) (Segment, bool) {
	if i < 0 || i >= src.NodeCount() {
		return Segment{}, false
	}
	cur := src.NodeAt(i)
	if cur.Type != Bezier || cur.NumPoints < 2 {
		return Segment{}, false
	}
	if cur.Next < 0 || cur.Next >= src.NodeCount() {
		return Segment{}, false
	}
	next := src.NodeAt(cur.Next)
	if next.Type != Bezier || next.NumPoints < 2 {
		return Segment{}, false
	}
	return Segment{P: [4]ControlPoint{
		cur.Points[0],
		cur.Points[1],
		next.Points[0].Mirror(next.Points[1]),
		next.Points[0],
	}}, true
}
