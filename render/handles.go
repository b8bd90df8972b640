// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"cogentcore.org/core/math32"
	"github.com/quadrupledare/qdare/gpu/batch"
	"github.com/quadrupledare/qdare/roadmesh"
	"github.com/quadrupledare/qdare/track"
)

// Overlay sizes are fractions of the view height at the point drawn.
const (
	circleSteps     = 8
	circleInner     = 0.82
	primaryRadius   = 0.04
	secondaryRadius = 0.03
	lineWidth       = 0.003
)

var (
	primaryColor   = [4]float32{1, 1, 0, 1}
	secondaryColor = [4]float32{0.5, 0.6, 1, 1}
	lineColor      = [4]float32{0.3, 0.8, 0.3, 1}
	hoverColor     = [4]float32{1, 0.5, 0, 1}
	selectedColor  = [4]float32{1, 1, 1, 1}
)

// RenderHandles draws a circle at every control point of src and
// lines from each anchor to its handles, on top of the road.
func (rn *Renderer) RenderHandles(src track.Source) error {
	d := rn.dev
	d.Clear(false, true)
	d.CullFace(false, false, true)

	rn.color.ResetStats()
	rn.color.Begin()
	err := rn.setMatrices(rn.color)
	if err == nil {
		ov := overlay{b: rn.color, view: &rn.View, focal: rn.Projection[5]}
		ov.basis()
		rn.stats.Points = ov.draw(src)
	}
	rn.color.End()
	rn.stats.Handles = rn.color.Stats()
	return err
}

// overlay writes screen-facing geometry into a color batch.
type overlay struct {
	b     *batch.Batch
	view  *math32.Matrix4
	focal float32

	// camera axes in world coordinates
	right, up, forward math32.Vector3
}

func (ov *overlay) basis() {
	v := ov.view
	ov.right = math32.Vec3(v[0], v[4], v[8])
	ov.up = math32.Vec3(v[1], v[5], v[9])
	ov.forward = math32.Vec3(-v[2], -v[6], -v[10])
}

// draw writes the overlay of every live node and returns the number of
// control points drawn.
func (ov *overlay) draw(src track.Source) int {
	points := 0
	for i := range src.NodeCount() {
		nd := src.NodeAt(i)
		if !nd.IsLive() || nd.NumPoints == 0 {
			continue
		}
		anchor := nd.Anchor()
		for k := 1; k < nd.NumPoints; k++ {
			h := nd.Points[k]
			ov.line(anchor.Position, h.Position)
			ov.circle(h.Position, secondaryRadius, pointColor(h.Flags, secondaryColor))
			points++
			if k == 1 && nd.Type == track.Bezier {
				m := anchor.Mirror(h)
				ov.line(anchor.Position, m.Position)
				ov.circle(m.Position, secondaryRadius, secondaryColor)
			}
		}
		ov.circle(anchor.Position, primaryRadius, pointColor(anchor.Flags, primaryColor))
		points++
	}
	return points
}

func pointColor(fl track.PointFlags, base [4]float32) [4]float32 {
	switch {
	case fl.Has(track.PointSelected):
		return selectedColor
	case fl.Has(track.PointHover):
		return hoverColor
	}
	return base
}

// scale returns the world size of one unit of view height at p, and
// false if p is not in front of the camera.
func (ov *overlay) scale(p math32.Vector3) (float32, bool) {
	ps := math32.Vector4FromVector3(p, 1).MulMatrix4(ov.view)
	if ps.Z >= 0 {
		return 0, false
	}
	return -ps.Z / ov.focal, true
}

func (ov *overlay) circle(p math32.Vector3, radius float32, color [4]float32) {
	s, ok := ov.scale(p)
	if !ok {
		return
	}
	r := radius * s
	rim := func(j int) math32.Vector3 {
		a := 2 * math32.Pi * float32(j) / circleSteps
		return ov.right.MulScalar(math32.Cos(a)).Add(ov.up.MulScalar(math32.Sin(a))).MulScalar(r)
	}
	d0 := rim(0)
	for j := range circleSteps {
		d1 := rim(j + 1)
		ov.quad(color, p.Add(d0), p.Add(d1), p.Add(d1.MulScalar(circleInner)), p.Add(d0.MulScalar(circleInner)))
		d0 = d1
	}
}

func (ov *overlay) line(a, b math32.Vector3) {
	sa, oka := ov.scale(a)
	sb, okb := ov.scale(b)
	if !oka || !okb {
		return
	}
	side := b.Sub(a).Cross(ov.forward)
	l := side.Length()
	if l < roadmesh.Epsilon {
		return
	}
	side = side.MulScalar(1 / l)
	wa := side.MulScalar(lineWidth * sa)
	wb := side.MulScalar(lineWidth * sb)
	ov.quad(lineColor, a.Sub(wa), a.Add(wa), b.Add(wb), b.Sub(wb))
}

func (ov *overlay) quad(color [4]float32, ps ...math32.Vector3) {
	ov.b.NewQuad()
	for _, p := range ps {
		ov.b.AddVertex(p.X, p.Y, p.Z, color[0], color[1], color[2], color[3])
	}
}
