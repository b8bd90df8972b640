// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package track

import "cogentcore.org/core/math32"

// DemoWidth is the half-width of the demo track.
const DemoWidth = 3

// NewDemo returns a closed loop of four Bezier nodes, each handle set
// along the direction from the previous anchor to the next one.
func NewDemo() *Graph {
	anchors := []math32.Vector3{
		math32.Vec3(-10, 5, -10),
		math32.Vec3(10, 4, -10),
		math32.Vec3(10, 15, 10),
		math32.Vec3(-10, 7, 10),
	}
	up := math32.Vec3(0, 1, 0)
	n := len(anchors)
	gr := NewGraph()
	for i, p := range anchors {
		prev := anchors[(i+n-1)%n]
		next := anchors[(i+1)%n]
		// mean of the outgoing and incoming chords
		tangent := next.Sub(p).Add(p.Sub(prev)).MulScalar(0.5)
		normal := up
		if i == 3 {
			normal = math32.Vec3(-0.3, 1, -0.3)
		}
		nd := NewBezierNode(
			ControlPoint{Position: p, Normal: normal, Width: DemoWidth},
			ControlPoint{Position: p.Add(tangent.MulScalar(0.4)), Normal: up, Width: DemoWidth},
		)
		nd.Prev = (i + n - 1) % n
		nd.Next = (i + 1) % n
		gr.nodes = append(gr.nodes, nd)
	}
	return gr
}
