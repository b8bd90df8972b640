// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package track holds the road as a graph of curve nodes. Each node owns
// an anchor control point and an outgoing tangent handle, and is linked
// to its neighbours by index. A node and its successor together define
// one cubic Bézier Segment of road.
package track

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// NoNode is the Prev / Next value of a node without that neighbour.
const NoNode = -1

// MaxNodes is the maximum number of node slots in a Graph.
const MaxNodes = 1 << 14

// PointFlags are editor state bits of a ControlPoint.
type PointFlags int32

const (
	// PointHover is set on a point under the pointer.
	PointHover PointFlags = 1 << iota

	// PointSelected is set on a selected point.
	PointSelected
)

// Has reports whether all bits of flag are set.
func (fl PointFlags) Has(flag PointFlags) bool {
	return fl&flag == flag
}

// ControlPoint is one control point of the road curve.
type ControlPoint struct {
	Position math32.Vector3

	// Normal is the road up direction near this point. It need not be
	// unit length or perpendicular to the curve.
	Normal math32.Vector3

	// Width is the half-width of the road surface.
	Width float32

	Flags PointFlags
}

// Mirror reflects handle across cp: position, normal and width all
// become 2*cp - handle. Flags are cleared.
func (cp ControlPoint) Mirror(handle ControlPoint) ControlPoint {
	return ControlPoint{
		Position: cp.Position.MulScalar(2).Sub(handle.Position),
		Normal:   cp.Normal.MulScalar(2).Sub(handle.Normal),
		Width:    2*cp.Width - handle.Width,
	}
}

// NodeTypes are the kinds of Node.
type NodeTypes int32

const (
	// Deleted marks a free slot.
	Deleted NodeTypes = iota

	// Bezier is a curve node: anchor plus tangent handle.
	Bezier

	// Stump is a dead end of the road. Not yet rendered.
	Stump

	// Gap is a break in the road. Not yet rendered.
	Gap
)

func (nt NodeTypes) String() string {
	switch nt {
	case Deleted:
		return "Deleted"
	case Bezier:
		return "Bezier"
	case Stump:
		return "Stump"
	case Gap:
		return "Gap"
	}
	return fmt.Sprintf("NodeTypes(%d)", int32(nt))
}

// Node is one node of the graph.
type Node struct {
	Type NodeTypes

	// Prev and Next are the indexes of the neighbouring nodes, or NoNode.
	Prev, Next int

	// Points are the anchor (0), the outgoing tangent handle (1) and an
	// optional incoming handle (2) shown by editors.
	Points [3]ControlPoint

	// NumPoints is the number of Points in use, 2 or 3 for Bezier nodes.
	NumPoints int
}

// Anchor returns the anchor point.
func (nd Node) Anchor() ControlPoint { return nd.Points[0] }

// Handle returns the outgoing tangent handle.
func (nd Node) Handle() ControlPoint { return nd.Points[1] }

// IsLive reports whether the node is not a tombstone.
func (nd Node) IsLive() bool { return nd.Type != Deleted }

// NewBezierNode returns an unlinked Bezier node with the given anchor and handle.
func NewBezierNode(anchor, handle ControlPoint) Node {
	return Node{Type: Bezier, Prev: NoNode, Next: NoNode, Points: [3]ControlPoint{anchor, handle}, NumPoints: 2}
}

// Source is read access to a graph of nodes by index.
type Source interface {
	// NodeAt returns the node at index i. Indexes out of range
	// return a Deleted node.
	NodeAt(i int) Node

	// NodeCount returns the number of slots, live or not.
	NodeCount() int
}
