// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package roadmesh

import (
	"fmt"
	"slices"

	"cogentcore.org/core/math32"
	"github.com/quadrupledare/qdare/track"
)

// Materials select the shading of a quad in the road shader.
const (
	// MaterialTop is the material of the road surface.
	MaterialTop float32 = 0.5

	// MaterialSide is the material of the walls.
	MaterialSide float32 = 1.5
)

// QuadsPerStep is the number of quads emitted per subdivision step.
const QuadsPerStep = 3

// Vertex is one road vertex.
type Vertex struct {
	Position math32.Vector3
	Normal   math32.Vector3
}

// Quad is four vertices drawn as triangles (0,1,2) and (0,2,3),
// counter-clockwise seen from the side their normals point to.
type Quad struct {
	V        [4]Vertex
	Material float32
}

// Block is the solid under one subdivision step: the four rail points
// at the start and end of the step and their projections to the ground.
type Block struct {

	// Points are the start left, start right, end left and end right
	// rail points, then the same four at height 0.
	Points [8]math32.Vector3

	// Normals are the road normal at start and end, the left wall
	// normal at start and end, and the right wall normal at start and end.
	Normals [6]math32.Vector3
}

// MakeBlock returns the block of step i of n of seg.
func MakeBlock(seg *track.Segment, i, n int) Block {
	s0 := CrossSection(seg, float32(i)/float32(n))
	s1 := CrossSection(seg, float32(i+1)/float32(n))
	return blockOf(&s0, &s1)
}

func blockOf(s0, s1 *Section) Block {
	var bl Block
	bl.Points[0] = s0.Left
	bl.Points[1] = s0.Right
	bl.Points[2] = s1.Left
	bl.Points[3] = s1.Right
	for k := range 4 {
		bl.Points[4+k] = flatten(bl.Points[k])
	}
	w0, w1 := s0.WallNormal(), s1.WallNormal()
	bl.Normals = [6]math32.Vector3{s0.Normal, s1.Normal, w0.Negate(), w1.Negate(), w0, w1}
	return bl
}

// Quads returns the top, left wall and right wall quads of the block.
// A wall whose rails are below the ground runs up to it, so its winding
// is reversed to keep facing along its normal.
func (bl *Block) Quads() [QuadsPerStep]Quad {
	p, n := &bl.Points, &bl.Normals
	return [QuadsPerStep]Quad{
		{V: [4]Vertex{{p[2], n[1]}, {p[0], n[0]}, {p[1], n[0]}, {p[3], n[1]}}, Material: MaterialTop},
		wall(p[0].Y+p[2].Y < 0, [4]Vertex{{p[0], n[2]}, {p[2], n[3]}, {p[6], n[3]}, {p[4], n[2]}}),
		wall(p[1].Y+p[3].Y < 0, [4]Vertex{{p[3], n[5]}, {p[1], n[4]}, {p[5], n[4]}, {p[7], n[5]}}),
	}
}

func wall(below bool, v [4]Vertex) Quad {
	if below {
		v[1], v[3] = v[3], v[1]
	}
	return Quad{V: v, Material: MaterialSide}
}

// Tessellate appends the 3*n quads of seg split into n equal parameter
// steps to dst and returns the extended slice. Adjacent steps share
// their cross sections exactly. It panics if n < 1.
func Tessellate(seg *track.Segment, n int, dst []Quad) []Quad {
	if n < 1 {
		panic(fmt.Sprintf("roadmesh: Tessellate into %d steps", n))
	}
	dst = slices.Grow(dst, QuadsPerStep*n)
	s0 := CrossSection(seg, 0)
	for i := range n {
		t := float32(i+1) / float32(n)
		if i == n-1 {
			t = 1
		}
		s1 := CrossSection(seg, t)
		bl := blockOf(&s0, &s1)
		q := bl.Quads()
		dst = append(dst, q[:]...)
		s0 = s1
	}
	return dst
}
