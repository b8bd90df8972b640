// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

// Stats counts the work done by a Batch.
type Stats struct {

	// Draws is the number of draw calls issued.
	Draws int

	// Overflows is the number of draws forced by a full buffer,
	// as opposed to explicit Flush or End.
	Overflows int

	// Vertices and Indices are the totals drawn.
	Vertices, Indices int
}

func (st *Stats) add(nv, ni int, overflow bool) {
	st.Draws++
	if overflow {
		st.Overflows++
	}
	st.Vertices += nv
	st.Indices += ni
}

// Add accumulates other into st.
func (st *Stats) Add(other Stats) {
	st.Draws += other.Draws
	st.Overflows += other.Overflows
	st.Vertices += other.Vertices
	st.Indices += other.Indices
}
