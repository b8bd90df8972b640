// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package track

import (
	"fmt"

	"cogentcore.org/core/base/errors"
)

var (
	// ErrFull is returned when the graph has MaxNodes live nodes.
	ErrFull = errors.New("track: graph is full")

	// ErrNoNode is returned for an index that is not a live node.
	ErrNoNode = errors.New("track: no such node")

	// ErrInvalidNode is returned for a node that cannot be stored.
	ErrInvalidNode = errors.New("track: invalid node")
)

// Graph is an arena of nodes addressed by index. Indexes of live nodes
// never change; removed nodes become Deleted tombstones whose slots are
// reused by later additions. It is not safe for concurrent mutation.
type Graph struct {
	nodes []Node

	// free slot indexes, most recently freed last
	free []int
}

var _ Source = (*Graph)(nil)

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// NodeCount returns the number of slots, including tombstones.
func (gr *Graph) NodeCount() int {
	return len(gr.nodes)
}

// Live returns the number of live nodes.
func (gr *Graph) Live() int {
	return len(gr.nodes) - len(gr.free)
}

// NodeAt returns a copy of the node at i, or a Deleted node if i is
// out of range.
func (gr *Graph) NodeAt(i int) Node {
	if i < 0 || i >= len(gr.nodes) {
		return Node{Type: Deleted, Prev: NoNode, Next: NoNode}
	}
	return gr.nodes[i]
}

func (gr *Graph) isLive(i int) bool {
	return i >= 0 && i < len(gr.nodes) && gr.nodes[i].Type != Deleted
}

func (gr *Graph) mustLive(i int) error {
	if !gr.isLive(i) {
		return fmt.Errorf("track: node %d: %w", i, ErrNoNode)
	}
	return nil
}

func checkNode(nd *Node) error {
	switch nd.Type {
	case Deleted:
		return fmt.Errorf("track: cannot store a %v node: %w", nd.Type, ErrInvalidNode)
	case Bezier:
		if nd.NumPoints < 2 || nd.NumPoints > 3 {
			return fmt.Errorf("track: Bezier node with %d points: %w", nd.NumPoints, ErrInvalidNode)
		}
	default:
		if nd.NumPoints < 1 || nd.NumPoints > 3 {
			return fmt.Errorf("track: %v node with %d points: %w", nd.Type, nd.NumPoints, ErrInvalidNode)
		}
	}
	return nil
}

// Add stores nd in a free slot and returns its index. Its Prev and Next
// must be NoNode or live nodes; links are stored as given, use Link to
// connect both directions.
func (gr *Graph) Add(nd Node) (int, error) {
	if err := checkNode(&nd); err != nil {
		return NoNode, err
	}
	for _, l := range []int{nd.Prev, nd.Next} {
		if l != NoNode && !gr.isLive(l) {
			return NoNode, fmt.Errorf("track: link to node %d: %w", l, ErrNoNode)
		}
	}
	if n := len(gr.free); n > 0 {
		i := gr.free[n-1]
		gr.free = gr.free[:n-1]
		gr.nodes[i] = nd
		return i, nil
	}
	if len(gr.nodes) >= MaxNodes {
		return NoNode, ErrFull
	}
	gr.nodes = append(gr.nodes, nd)
	return len(gr.nodes) - 1, nil
}

// Link makes b the successor of a. Either may be NoNode to clear
// the corresponding link of the other.
func (gr *Graph) Link(a, b int) error {
	if a != NoNode {
		if err := gr.mustLive(a); err != nil {
			return err
		}
	}
	if b != NoNode {
		if err := gr.mustLive(b); err != nil {
			return err
		}
	}
	if a != NoNode {
		gr.nodes[a].Next = b
	}
	if b != NoNode {
		gr.nodes[b].Prev = a
	}
	return nil
}

// InsertAfter stores nd between node i and its successor and returns
// the new index.
func (gr *Graph) InsertAfter(i int, nd Node) (int, error) {
	if err := gr.mustLive(i); err != nil {
		return NoNode, err
	}
	next := gr.nodes[i].Next
	nd.Prev, nd.Next = NoNode, NoNode
	j, err := gr.Add(nd)
	if err != nil {
		return NoNode, err
	}
	gr.Link(i, j)
	if next != NoNode && gr.isLive(next) {
		gr.Link(j, next)
	}
	return j, nil
}

// Remove tombstones node i and links its neighbours to each other.
func (gr *Graph) Remove(i int) error {
	if err := gr.mustLive(i); err != nil {
		return err
	}
	nd := gr.nodes[i]
	prev, next := nd.Prev, nd.Next
	if prev == i {
		prev = NoNode
	}
	if next == i {
		next = NoNode
	}
	switch {
	case gr.isLive(prev) && gr.isLive(next):
		gr.Link(prev, next)
	case gr.isLive(prev):
		gr.nodes[prev].Next = NoNode
	case gr.isLive(next):
		gr.nodes[next].Prev = NoNode
	}
	gr.nodes[i] = Node{Type: Deleted, Prev: NoNode, Next: NoNode}
	gr.free = append(gr.free, i)
	return nil
}

// SetPoint replaces control point k of node i.
func (gr *Graph) SetPoint(i, k int, cp ControlPoint) error {
	if err := gr.mustLive(i); err != nil {
		return err
	}
	nd := &gr.nodes[i]
	if k < 0 || k >= nd.NumPoints {
		return fmt.Errorf("track: node %d has no point %d: %w", i, k, ErrInvalidNode)
	}
	nd.Points[k] = cp
	return nil
}

// SetFlags sets or clears flags on control point k of node i.
func (gr *Graph) SetFlags(i, k int, flags PointFlags, on bool) error {
	if err := gr.mustLive(i); err != nil {
		return err
	}
	nd := &gr.nodes[i]
	if k < 0 || k >= nd.NumPoints {
		return fmt.Errorf("track: node %d has no point %d: %w", i, k, ErrInvalidNode)
	}
	if on {
		nd.Points[k].Flags |= flags
	} else {
		nd.Points[k].Flags &^= flags
	}
	return nil
}

// ClearFlags clears flags on every control point.
func (gr *Graph) ClearFlags(flags PointFlags) {
	for i := range gr.nodes {
		for k := range gr.nodes[i].Points {
			gr.nodes[i].Points[k].Flags &^= flags
		}
	}
}

// Validate checks the link invariants: every link of a live node is
// NoNode or a live node, and links agree in both directions.
func (gr *Graph) Validate() error {
	var errs []error
	for i := range gr.nodes {
		nd := &gr.nodes[i]
		if nd.Type == Deleted {
			continue
		}
		if err := checkNode(nd); err != nil {
			errs = append(errs, fmt.Errorf("node %d: %w", i, err))
		}
		if nd.Next != NoNode {
			if !gr.isLive(nd.Next) {
				errs = append(errs, fmt.Errorf("node %d: next %d is not live", i, nd.Next))
			} else if gr.nodes[nd.Next].Prev != i {
				errs = append(errs, fmt.Errorf("node %d: next %d links back to %d", i, nd.Next, gr.nodes[nd.Next].Prev))
			}
		}
		if nd.Prev != NoNode && !gr.isLive(nd.Prev) {
			errs = append(errs, fmt.Errorf("node %d: prev %d is not live", i, nd.Prev))
		}
	}
	return errors.Join(errs...)
}

// Closed reports whether the live nodes form a single closed cycle.
func (gr *Graph) Closed() bool {
	start := NoNode
	for i := range gr.nodes {
		if gr.nodes[i].Type != Deleted {
			start = i
			break
		}
	}
	if start == NoNode {
		return false
	}
	live := gr.Live()
	i := start
	for n := 0; n < live; n++ {
		next := gr.nodes[i].Next
		if !gr.isLive(next) || gr.nodes[next].Prev != i {
			return false
		}
		i = next
		if i == start {
			return n == live-1
		}
	}
	return false
}
