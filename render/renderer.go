// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render draws a track as a road ribbon with walls, plus an
// overlay of its control points, by streaming geometry through batches
// that share one buffer.
package render

import (
	_ "embed"
	"fmt"
	"image"
	"image/draw"
	"log/slog"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/logx"
	"cogentcore.org/core/math32"
	"github.com/quadrupledare/qdare/gpu"
	"github.com/quadrupledare/qdare/gpu/batch"
	"github.com/quadrupledare/qdare/roadmesh"
	"github.com/quadrupledare/qdare/track"
	"golang.org/x/sync/errgroup"
)

var (
	//go:embed shaders/road.vert
	roadVertex string

	//go:embed shaders/road.frag
	roadFragment string

	//go:embed shaders/color.vert
	colorVertex string

	//go:embed shaders/color.frag
	colorFragment string
)

// RoadLayout is the vertex layout of the road batch.
var RoadLayout = []batch.AttribSpec{
	{Name: "a_position", Size: 3},
	{Name: "a_normal", Size: 3},
	{Name: "a_material", Size: 1},
}

// ColorLayout is the vertex layout of the overlay batch.
var ColorLayout = []batch.AttribSpec{
	{Name: "a_position", Size: 3},
	{Name: "a_color", Size: 4},
}

// Window is where finished frames are presented.
type Window interface {
	SwapBuffers()
}

// FrameStats are the counters of the last frame.
type FrameStats struct {

	// Nodes is the number of node slots walked.
	Nodes int

	// Segments is the number of segments drawn.
	Segments int

	// Skipped is the number of live nodes without a segment.
	Skipped int

	// Quads is the number of road quads written.
	Quads int

	// Points is the number of control points in the overlay.
	Points int

	Road    batch.Stats
	Handles batch.Stats
}

// Renderer draws frames of a track.Source. All methods must be called
// from the goroutine that owns the device.
type Renderer struct {
	Config Config

	// Projection is set by Resize.
	Projection math32.Matrix4

	// View is set by SetView.
	View math32.Matrix4

	dev       gpu.Device
	buf       *batch.Buffer
	roadProg  gpu.Program
	colorProg gpu.Program
	road      *batch.Batch
	color     *batch.Batch
	size      image.Point

	segs   []track.Segment
	quads  []roadmesh.Quad
	staged [][]roadmesh.Quad

	// nodes whose skip has been logged
	reported map[int]bool

	stats FrameStats
}

// New returns a Renderer drawing on dev. The road and overlay batches
// share one buffer of the configured capacities.
func New(dev gpu.Device, cfg *Config) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Log(fmt.Errorf("render: %w", err))
	}
	rn := &Renderer{Config: *cfg, dev: dev, reported: map[int]bool{}}
	rn.Projection.SetIdentity()
	rn.View.SetIdentity()
	if err := rn.init(); err != nil {
		rn.Release()
		return nil, err
	}
	slog.Info("renderer ready", "vertexCapacity", rn.buf.VertexCapacity(), "indexCapacity", rn.buf.IndexCapacity(),
		"road", rn.road.Layout(), "color", rn.color.Layout(), "subdivisions", rn.Config.Subdivisions, "workers", rn.Config.Workers)
	return rn, nil
}

func (rn *Renderer) init() error {
	var err error
	rn.buf, err = batch.NewBuffer(rn.dev, rn.Config.VertexCapacity, rn.Config.IndexCapacity)
	if err != nil {
		return errors.Log(err)
	}
	rn.roadProg, err = rn.dev.NewProgram("road", roadVertex, roadFragment)
	if err != nil {
		return errors.Log(err)
	}
	rn.colorProg, err = rn.dev.NewProgram("color", colorVertex, colorFragment)
	if err != nil {
		return errors.Log(err)
	}
	rn.road, err = batch.NewBatch(rn.dev, rn.buf, rn.roadProg, RoadLayout)
	if err != nil {
		return err
	}
	rn.color, err = batch.NewBatch(rn.dev, rn.buf, rn.colorProg, ColorLayout)
	return err
}

// Release deletes the programs and buffers of the renderer.
func (rn *Renderer) Release() {
	if rn.roadProg != nil {
		rn.roadProg.Delete()
		rn.roadProg = nil
	}
	if rn.colorProg != nil {
		rn.colorProg.Delete()
		rn.colorProg = nil
	}
	if rn.buf != nil {
		rn.buf.Release()
		rn.buf = nil
	}
	rn.road, rn.color = nil, nil
}

// Reconfigure applies the per-frame settings of cfg. The buffer
// capacities are fixed at New; changing them is reported and ignored.
func (rn *Renderer) Reconfigure(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if cfg.VertexCapacity != rn.Config.VertexCapacity || cfg.IndexCapacity != rn.Config.IndexCapacity {
		slog.Warn("render: buffer capacities only change on restart",
			"vertexCapacity", rn.Config.VertexCapacity, "indexCapacity", rn.Config.IndexCapacity)
	}
	vc, ic := rn.Config.VertexCapacity, rn.Config.IndexCapacity
	rn.Config = *cfg
	rn.Config.VertexCapacity, rn.Config.IndexCapacity = vc, ic
	rn.Resize(rn.size)
	return nil
}

// Resize sets the viewport size in pixels and the projection.
func (rn *Renderer) Resize(size image.Point) {
	rn.size = size
	aspect := float32(1)
	if size.X > 0 && size.Y > 0 {
		aspect = float32(size.X) / float32(size.Y)
	}
	rn.Projection.SetPerspective(rn.Config.FOV, aspect, rn.Config.Near, rn.Config.Far)
}

// Size returns the viewport size set by Resize.
func (rn *Renderer) Size() image.Point { return rn.size }

// SetView sets the view matrix used by the next frame.
func (rn *Renderer) SetView(view *math32.Matrix4) {
	rn.View = *view
}

// Stats returns the counters of the last frame.
func (rn *Renderer) Stats() FrameStats { return rn.stats }

// LogStats logs the counters of the last frame at debug level.
func (rn *Renderer) LogStats() {
	st := &rn.stats
	slog.Debug("frame", "nodes", st.Nodes, "segments", st.Segments, "skipped", st.Skipped, "quads", st.Quads,
		"draws", st.Road.Draws+st.Handles.Draws, "overflows", st.Road.Overflows+st.Handles.Overflows)
}

// Frame draws the track and, if Config.Handles is set, the overlay,
// and presents the result to win, which may be nil.
func (rn *Renderer) Frame(src track.Source, win Window) error {
	err := rn.RenderTrack(src)
	if err == nil && rn.Config.Handles {
		err = rn.RenderHandles(src)
	}
	if win != nil {
		win.SwapBuffers()
	}
	rn.LogStats()
	return err
}

func (rn *Renderer) setMatrices(b *batch.Batch) error {
	return errors.Join(b.SetMatrix("u_projection", &rn.Projection), b.SetMatrix("u_view", &rn.View))
}

// RenderTrack clears the frame and draws the road of every segment src
// derives, walking nodes in index order.
func (rn *Renderer) RenderTrack(src track.Source) error {
	d := rn.dev
	d.Viewport(image.Rectangle{Max: rn.size})
	c := rn.Config.ClearColor
	d.ClearColor(c[0], c[1], c[2], c[3])
	d.Clear(true, true)
	d.CullFace(false, true, true)
	d.Op(draw.Over)
	d.DepthTest(true)

	rn.stats = FrameStats{}
	rn.road.ResetStats()
	rn.road.Begin()
	err := rn.setMatrices(rn.road)
	if err == nil {
		rn.derive(src)
		if rn.Config.Workers > 1 && len(rn.segs) > 1 {
			rn.stage()
		} else {
			for k := range rn.segs {
				rn.quads = roadmesh.Tessellate(&rn.segs[k], rn.Config.Subdivisions, rn.quads[:0])
				rn.writeQuads(rn.quads)
			}
		}
	}
	rn.road.End()
	rn.stats.Road = rn.road.Stats()
	return err
}

// derive collects the segments of src in node order into rn.segs.
func (rn *Renderer) derive(src track.Source) {
	rn.segs = rn.segs[:0]
	n := src.NodeCount()
	closed := debugBuild && isClosed(src)
	rn.stats.Nodes = n
	for i := range n {
		seg, ok := track.DeriveSegment(src, i)
		if ok {
			rn.segs = append(rn.segs, seg)
			continue
		}
		nd := src.NodeAt(i)
		if !nd.IsLive() {
			continue
		}
		rn.stats.Skipped++
		if closed && nd.Type == track.Bezier && src.NodeAt(nd.Next).Type == track.Bezier {
			debugAssert(false, fmt.Sprintf("render: closed track node %d has no segment", i))
		}
		if rn.reported[i] {
			continue
		}
		rn.reported[i] = true
		if nd.Type != track.Bezier {
			slog.Warn("render: node type not implemented", "node", i, "type", nd.Type)
		} else {
			logx.PrintlnDebug("render: node", i, "has no successor segment")
		}
	}
	rn.stats.Segments = len(rn.segs)
}

// stage tessellates rn.segs on Config.Workers goroutines into private
// slices, then writes them to the batch in order.
func (rn *Renderer) stage() {
	for len(rn.staged) < len(rn.segs) {
		rn.staged = append(rn.staged, nil)
	}
	staged := rn.staged[:len(rn.segs)]
	n := rn.Config.Subdivisions
	var g errgroup.Group
	g.SetLimit(rn.Config.Workers)
	for k := range rn.segs {
		g.Go(func() error {
			staged[k] = roadmesh.Tessellate(&rn.segs[k], n, staged[k][:0])
			return nil
		})
	}
	errors.Log(g.Wait())
	for _, quads := range staged {
		rn.writeQuads(quads)
	}
}

func (rn *Renderer) writeQuads(quads []roadmesh.Quad) {
	b := rn.road
	for qi := range quads {
		q := &quads[qi]
		b.NewQuad()
		for _, v := range q.V {
			b.AddVertexFloat(v.Position.X, 0)
			b.AddVertexFloat(v.Position.Y, 1)
			b.AddVertexFloat(v.Position.Z, 2)
			b.AddVertexFloat(v.Normal.X, 3)
			b.AddVertexFloat(v.Normal.Y, 4)
			b.AddVertexFloat(v.Normal.Z, 5)
			b.AddVertexFloat(q.Material, 6)
		}
	}
	rn.stats.Quads += len(quads)
}

func isClosed(src track.Source) bool {
	cl, ok := src.(interface{ Closed() bool })
	return ok && cl.Closed()
}
