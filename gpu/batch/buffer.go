// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import (
	"fmt"
	"log/slog"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/math32"
	"github.com/quadrupledare/qdare/gpu"
)

// Buffer is a fixed-capacity pair of client-side arrays, one of float32
// vertex data and one of uint32 indexes, together with GPU regions of the
// same size that mirror them. Geometry is accumulated into the client
// arrays, uploaded by Upload, and discarded by Reset. Capacities never
// change after NewBuffer.
//
// A Buffer is owned by a single goroutine; any number of Batches may
// share one as long as only one is recording at a time.
type Buffer struct {
	dev gpu.Device

	// client storage, sized to capacity
	vertices math32.ArrayF32
	indices  math32.ArrayU32

	vertexUsed int
	indexUsed  int

	gpuVertices gpu.VertexBuffer
	gpuIndices  gpu.IndexBuffer

	// batch currently recording into this buffer, if any
	owner *Batch
}

// NewBuffer allocates a buffer holding vertexCapacity float32 values and
// indexCapacity uint32 indexes, on the client and on dev.
func NewBuffer(dev gpu.Device, vertexCapacity, indexCapacity int) (*Buffer, error) {
	if vertexCapacity <= 0 || indexCapacity <= 0 {
		return nil, errors.Log(fmt.Errorf("batch: invalid buffer capacity %d vertex values, %d indexes", vertexCapacity, indexCapacity))
	}
	vb, err := dev.NewVertexBuffer(vertexCapacity)
	if err != nil {
		return nil, err
	}
	ib, err := dev.NewIndexBuffer(indexCapacity)
	if err != nil {
		vb.Delete()
		return nil, err
	}
	slog.Debug("batch: new buffer", "vertexValues", vertexCapacity, "indexes", indexCapacity)
	return &Buffer{
		dev:         dev,
		vertices:    make(math32.ArrayF32, vertexCapacity),
		indices:     make(math32.ArrayU32, indexCapacity),
		gpuVertices: vb,
		gpuIndices:  ib,
	}, nil
}

// VertexCapacity returns the capacity in float32 values.
func (bf *Buffer) VertexCapacity() int { return len(bf.vertices) }

// IndexCapacity returns the capacity in indexes.
func (bf *Buffer) IndexCapacity() int { return len(bf.indices) }

// VertexUsed returns the number of float32 values written since the last Reset.
func (bf *Buffer) VertexUsed() int { return bf.vertexUsed }

// IndexUsed returns the number of indexes written since the last Reset.
func (bf *Buffer) IndexUsed() int { return bf.indexUsed }

// Vertices returns the written vertex values. The slice aliases the
// buffer and is only valid until the next write or Reset.
func (bf *Buffer) Vertices() math32.ArrayF32 { return bf.vertices[:bf.vertexUsed] }

// Indices returns the written indexes, with the same aliasing as Vertices.
func (bf *Buffer) Indices() math32.ArrayU32 { return bf.indices[:bf.indexUsed] }

// Fits reports whether nv more vertex values and ni more indexes fit.
func (bf *Buffer) Fits(nv, ni int) bool {
	return bf.vertexUsed+nv <= len(bf.vertices) && bf.indexUsed+ni <= len(bf.indices)
}

// Reset sets both usage counters to zero. Storage is kept.
func (bf *Buffer) Reset() {
	bf.vertexUsed = 0
	bf.indexUsed = 0
}

// Upload transfers the used prefix of both arrays to the GPU.
// The vertex region is left bound, so attribute pointers set after
// Upload refer to it.
func (bf *Buffer) Upload() {
	bf.gpuIndices.Activate()
	bf.gpuIndices.Transfer(bf.indices[:bf.indexUsed])
	bf.gpuVertices.Activate()
	bf.gpuVertices.Transfer(bf.vertices[:bf.vertexUsed])
}

// Release frees the GPU regions. The Buffer must not be used afterwards.
func (bf *Buffer) Release() {
	if bf.gpuVertices != nil {
		bf.gpuVertices.Delete()
		bf.gpuVertices = nil
	}
	if bf.gpuIndices != nil {
		bf.gpuIndices.Delete()
		bf.gpuIndices = nil
	}
}

func (bf *Buffer) pushVertex(v float32) {
	bf.vertices[bf.vertexUsed] = v
	bf.vertexUsed++
}

func (bf *Buffer) pushIndices(idx ...uint32) {
	copy(bf.indices[bf.indexUsed:], idx)
	bf.indexUsed += len(idx)
}
