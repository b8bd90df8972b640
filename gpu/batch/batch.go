// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package batch streams interleaved vertex data and triangle indexes
// through a fixed-capacity Buffer, issuing one indexed draw call each
// time the buffer fills up and once more at the end of a pass.
//
// A pass looks like:
//
//	b.Begin()
//	b.SetMatrix("u_view", view)
//	for ... {
//		b.NewQuad()
//		for v := 0; v < 4; v++ {
//			b.AddVertexFloat(x, 0)
//			...
//		}
//	}
//	b.End()
//
// Protocol misuse (writing a value out of order, a primitive larger than
// the buffer, Begin while recording) is a programming error and panics.
package batch

import (
	"fmt"
	"log/slog"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/logx"
	"cogentcore.org/core/math32"
	"github.com/quadrupledare/qdare/gpu"
)

// MaxAttribs is the maximum number of vertex attributes in a layout.
const MaxAttribs = 16

// ErrNotRecording is returned by operations that require Begin to have been called.
var ErrNotRecording = errors.New("batch: not recording")

// AttribSpec names one vertex shader input and its width in float32s.
type AttribSpec struct {
	Name string
	Size int
}

// States are the states of a Batch.
type States int32

const (
	// Inactive is the state outside of Begin / End.
	Inactive States = iota

	// Recording is the state between Begin and End.
	Recording
)

func (st States) String() string {
	switch st {
	case Inactive:
		return "Inactive"
	case Recording:
		return "Recording"
	}
	return fmt.Sprintf("States(%d)", int32(st))
}

type attrib struct {
	AttribSpec
	slot   uint32
	offset int
}

// Batch binds a vertex layout and a shader program to a Buffer.
type Batch struct {
	name    string
	dev     gpu.Device
	buf     *Buffer
	prog    gpu.Program
	attribs []attrib

	// floats per vertex
	stride int

	state States

	// position within the current vertex, 0..stride-1
	cursor int

	// vertex values reserved by the last primitive; writes stop here
	reservedEnd int

	stats Stats
}

// NewBatch resolves every attribute of specs to an input of prog and
// returns a Batch drawing from buf. The layout is interleaved in the
// order given. A quad of the layout must fit into an empty buf.
func NewBatch(dev gpu.Device, buf *Buffer, prog gpu.Program, specs []AttribSpec) (*Batch, error) {
	if len(specs) == 0 || len(specs) > MaxAttribs {
		return nil, errors.Log(fmt.Errorf("batch %s: %d attributes, need 1 to %d", prog.Name(), len(specs), MaxAttribs))
	}
	b := &Batch{name: prog.Name(), dev: dev, buf: buf, prog: prog}
	var errs []error
	for _, sp := range specs {
		if sp.Size < 1 || sp.Size > 4 {
			errs = append(errs, fmt.Errorf("attribute %q has width %d", sp.Name, sp.Size))
			continue
		}
		slot, err := prog.InputByName(sp.Name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		b.attribs = append(b.attribs, attrib{AttribSpec: sp, slot: slot, offset: b.stride})
		b.stride += sp.Size
	}
	if len(errs) > 0 {
		return nil, errors.Log(fmt.Errorf("batch %s: %w", b.name, errors.Join(errs...)))
	}
	if 4*b.stride > buf.VertexCapacity() || 6 > buf.IndexCapacity() {
		return nil, errors.Log(fmt.Errorf("batch %s: buffer of %d vertex values, %d indexes cannot hold a quad of stride %d", b.name, buf.VertexCapacity(), buf.IndexCapacity(), b.stride))
	}
	return b, nil
}

// Name returns the name of the batch program.
func (b *Batch) Name() string { return b.name }

// Stride returns the number of float32 values per vertex.
func (b *Batch) Stride() int { return b.stride }

// State returns the current state.
func (b *Batch) State() States { return b.state }

// Cursor returns the index, within the current vertex, of the next
// value AddVertexFloat expects.
func (b *Batch) Cursor() int { return b.cursor }

// Buffer returns the buffer the batch writes into.
func (b *Batch) Buffer() *Buffer { return b.buf }

// Layout returns a description of the vertex layout, for logging.
func (b *Batch) Layout() string {
	parts := make([]string, len(b.attribs))
	for i, at := range b.attribs {
		parts[i] = fmt.Sprintf("%s[%d]@%d", at.Name, at.Size, at.offset)
	}
	return strings.Join(parts, " ")
}

// Begin starts a pass: it activates the program, enables the vertex
// inputs and empties the buffer.
func (b *Batch) Begin() {
	if b.state == Recording {
		panic(fmt.Sprintf("batch %s: Begin while recording", b.name))
	}
	if b.buf.owner != nil {
		panic(fmt.Sprintf("batch %s: Begin while buffer is in use by batch %s", b.name, b.buf.owner.name))
	}
	b.prog.Activate()
	for _, at := range b.attribs {
		b.dev.EnableAttrib(at.slot)
	}
	b.buf.owner = b
	b.state = Recording
	b.cursor = 0
	b.buf.Reset()
	b.reservedEnd = 0
}

// End flushes any pending geometry, disables the vertex inputs and
// deactivates the program.
func (b *Batch) End() {
	b.mustRecord("End")
	b.flush(false)
	b.state = Inactive
	b.buf.owner = nil
	for _, at := range b.attribs {
		b.dev.DisableAttrib(at.slot)
	}
	b.prog.Deactivate()
}

// SetMatrix sets the named mat4 uniform. It applies to every draw
// issued after the call, including geometry already pending.
func (b *Batch) SetMatrix(name string, m *math32.Matrix4) error {
	if b.state != Recording {
		return fmt.Errorf("batch %s: SetMatrix %s: %w", b.name, name, ErrNotRecording)
	}
	return b.prog.SetUniformMatrix4(name, m)
}

// Requires makes room for a primitive of nvertices vertices and
// nindices indexes, flushing pending geometry if it would overflow the
// buffer, and reports whether it flushed. It panics if the primitive
// does not fit even into an empty buffer.
func (b *Batch) Requires(nvertices, nindices int) (flushed bool) {
	b.mustRecord("Requires")
	b.mustComplete("Requires")
	nv := nvertices * b.stride
	if b.buf.Fits(nv, nindices) {
		return false
	}
	b.flush(true)
	if !b.buf.Fits(nv, nindices) {
		panic(fmt.Sprintf("batch %s: primitive of %d vertices, %d indexes exceeds buffer capacity of %d vertex values, %d indexes",
			b.name, nvertices, nindices, b.buf.VertexCapacity(), b.buf.IndexCapacity()))
	}
	return true
}

// NewTriangle reserves three vertices and appends indexes for one triangle.
// The vertex values must then be written with AddVertexFloat.
func (b *Batch) NewTriangle() {
	b.Requires(3, 3)
	o := uint32(b.buf.vertexUsed / b.stride)
	b.buf.pushIndices(o, o+1, o+2)
	b.reservedEnd = b.buf.vertexUsed + 3*b.stride
}

// NewQuad reserves four vertices and appends indexes for two triangles
// (0,1,2) and (0,2,3). The vertex values must then be written with
// AddVertexFloat.
func (b *Batch) NewQuad() {
	b.Requires(4, 6)
	o := uint32(b.buf.vertexUsed / b.stride)
	b.buf.pushIndices(o, o+1, o+2, o, o+2, o+3)
	b.reservedEnd = b.buf.vertexUsed + 4*b.stride
}

// AddVertexFloat writes the next value of the current vertex. seq is
// the index of value within the vertex layout and must equal Cursor.
func (b *Batch) AddVertexFloat(value float32, seq int) {
	b.mustRecord("AddVertexFloat")
	if seq != b.cursor {
		panic(fmt.Sprintf("batch %s: vertex value %d written at position %d", b.name, seq, b.cursor))
	}
	if b.buf.vertexUsed >= b.reservedEnd {
		panic(fmt.Sprintf("batch %s: vertex value written past reserved primitive", b.name))
	}
	b.buf.pushVertex(value)
	b.cursor++
	if b.cursor == b.stride {
		b.cursor = 0
	}
}

// AddVertex writes one whole vertex. len(values) must equal Stride.
func (b *Batch) AddVertex(values ...float32) {
	if len(values) != b.stride {
		panic(fmt.Sprintf("batch %s: vertex of %d values, stride is %d", b.name, len(values), b.stride))
	}
	for i, v := range values {
		b.AddVertexFloat(v, i)
	}
}

// Flush draws any pending geometry and empties the buffer.
func (b *Batch) Flush() {
	b.mustRecord("Flush")
	b.flush(false)
}

func (b *Batch) flush(overflow bool) {
	b.mustComplete("Flush")
	if b.buf.indexUsed == 0 {
		b.buf.Reset()
		b.reservedEnd = 0
		return
	}
	b.buf.Upload()
	for _, at := range b.attribs {
		b.dev.AttribPointer(at.slot, at.Size, b.stride*4, at.offset*4)
	}
	b.dev.TrianglesIndexed(b.buf.indexUsed)
	b.stats.add(b.buf.vertexUsed/b.stride, b.buf.indexUsed, overflow)
	logx.PrintlnDebug("batch", b.name, "draw", b.buf.indexUsed, "indexes", "overflow", overflow)
	b.buf.Reset()
	b.reservedEnd = 0
}

func (b *Batch) mustRecord(op string) {
	if b.state != Recording {
		panic(fmt.Sprintf("batch %s: %s: %v", b.name, op, ErrNotRecording))
	}
}

// mustComplete panics if a reserved primitive has not been fully written.
func (b *Batch) mustComplete(op string) {
	if b.cursor != 0 || b.buf.vertexUsed != b.reservedEnd {
		panic(fmt.Sprintf("batch %s: %s with an incomplete primitive (%d of %d vertex values written)",
			b.name, op, b.buf.vertexUsed, b.reservedEnd))
	}
}

// Stats returns the counters accumulated since the last ResetStats.
func (b *Batch) Stats() Stats { return b.stats }

// ResetStats zeroes the counters.
func (b *Batch) ResetStats() { b.stats = Stats{} }

// LogStats logs the counters at debug level.
func (b *Batch) LogStats() {
	slog.Debug("batch stats", "batch", b.name, "draws", b.stats.Draws, "overflows", b.stats.Overflows,
		"vertices", b.stats.Vertices, "indices", b.stats.Indices)
}
