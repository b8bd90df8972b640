// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cogentcore.org/core/math32"
	"github.com/quadrupledare/qdare/camera"
	"github.com/quadrupledare/qdare/gpu/memgpu"
	"github.com/quadrupledare/qdare/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nodeList is a Source that does no validation.
type nodeList []track.Node

func (nl nodeList) NodeAt(i int) track.Node { return nl[i] }
func (nl nodeList) NodeCount() int          { return len(nl) }

type countingWindow struct{ swaps int }

func (w *countingWindow) SwapBuffers() { w.swaps++ }

func newTestRenderer(t *testing.T, cfg *Config) (*Renderer, *memgpu.Device) {
	t.Helper()
	dv := memgpu.NewDevice()
	rn, err := New(dv, cfg)
	require.NoError(t, err)
	rn.Resize(image.Pt(800, 600))
	t.Cleanup(rn.Release)
	return rn, dv
}

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, float32(65), cfg.FOV)
	assert.Equal(t, float32(0.1), cfg.Near)
	assert.Equal(t, float32(4096), cfg.Far)
	assert.Equal(t, 65536, cfg.VertexCapacity)
	assert.Equal(t, 16384, cfg.IndexCapacity)
	assert.Equal(t, 50, cfg.Subdivisions)
	assert.Equal(t, 1, cfg.Workers)
	assert.True(t, cfg.Handles)
	assert.NoError(t, cfg.Validate())
}

func TestOpenConfig(t *testing.T) {
	dir := t.TempDir()
	write := func(name, text string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
		return path
	}

	cfg, err := OpenConfig(write("ok.toml", "FOV = 90\nWorkers = 3\nClearColor = [0.1, 0.2, 0.3, 1.0]\n"))
	require.NoError(t, err)
	assert.Equal(t, float32(90), cfg.FOV)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 50, cfg.Subdivisions)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, cfg.ClearColor)

	_, err = OpenConfig(write("unknown.toml", "Zoom = 2\n"))
	assert.Error(t, err)

	_, err = OpenConfig(write("bad.toml", "Near = 10\nFar = 1\nSubdivisions = 0\n"))
	assert.ErrorContains(t, err, "Near")
	assert.ErrorContains(t, err, "Subdivisions")

	_, err = OpenConfig(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	cfg, err = OpenConfig(write("ok.yaml", "fov: 80\nsubdivisions: 10\nhandles: false\n"))
	require.NoError(t, err)
	assert.Equal(t, float32(80), cfg.FOV)
	assert.Equal(t, 10, cfg.Subdivisions)
	assert.False(t, cfg.Handles)
	assert.Equal(t, 1, cfg.Workers)

	cfg, err = OpenConfig(write("empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, *NewConfig(), *cfg)

	_, err = OpenConfig(write("unknown.yaml", "zoom: 2\n"))
	assert.Error(t, err)
}

func TestNewErrors(t *testing.T) {
	cfg := NewConfig()
	cfg.Workers = 0
	_, err := New(memgpu.NewDevice(), cfg)
	assert.Error(t, err)

	dv := memgpu.NewDevice()
	dv.MaxBufferValues = 1000
	_, err = New(dv, NewConfig())
	assert.Error(t, err)
	assert.Equal(t, 0, dv.Live())

	// too small for one quad of the road layout
	cfg = NewConfig()
	cfg.VertexCapacity = 20
	dv = memgpu.NewDevice()
	_, err = New(dv, cfg)
	assert.Error(t, err)
	assert.Equal(t, 0, dv.Live())
}

func TestLayouts(t *testing.T) {
	rn, _ := newTestRenderer(t, NewConfig())
	assert.Equal(t, "a_position[3]@0 a_normal[3]@3 a_material[1]@6", rn.road.Layout())
	assert.Equal(t, "a_position[3]@0 a_color[4]@3", rn.color.Layout())
	assert.Equal(t, 7, rn.road.Stride())
	assert.Equal(t, 7, rn.color.Stride())
}

func TestRenderDemo(t *testing.T) {
	rn, dv := newTestRenderer(t, NewConfig())
	cm := camera.NewFly(math32.Vec3(0, 20, 40))
	rn.SetView(cm.ViewMatrix())
	require.NoError(t, rn.RenderTrack(track.NewDemo()))

	st := rn.Stats()
	assert.Equal(t, 4, st.Nodes)
	assert.Equal(t, 4, st.Segments)
	assert.Equal(t, 0, st.Skipped)
	assert.Equal(t, 600, st.Quads)
	assert.Equal(t, 1, st.Road.Draws)
	assert.Equal(t, 0, st.Road.Overflows)
	assert.Equal(t, 2400, st.Road.Vertices)
	assert.Equal(t, 3600, st.Road.Indices)

	require.Len(t, dv.Draws, 1)
	dc := dv.Draws[0]
	assert.Equal(t, "road", dc.Program)
	assert.Equal(t, 3600, dc.Count)
	assert.Len(t, dc.Vertices, 2400*7)
	assert.Equal(t, rn.Projection, dc.Uniforms["u_projection"])
	assert.Equal(t, rn.View, dc.Uniforms["u_view"])
	assert.Equal(t, []memgpu.Attrib{
		{Slot: 0, Size: 3, Stride: 28, Offset: 0},
		{Slot: 1, Size: 3, Stride: 28, Offset: 12},
		{Slot: 2, Size: 1, Stride: 28, Offset: 24},
	}, dc.Attribs)
	assert.True(t, dc.State.DepthTest)
	assert.True(t, dc.State.CullBack)
	assert.False(t, dc.State.CullFront)
	assert.True(t, dc.State.CCW)
	assert.True(t, dc.State.Blend)
	assert.Equal(t, image.Rect(0, 0, 800, 600), dc.State.Viewport)
	assert.Equal(t, 1, dv.ColorClears)
	assert.Equal(t, 1, dv.DepthClears)
	assert.Equal(t, "", dv.ActiveProgram())

	// first quad is the top of the first step, material in the 7th value
	assert.Equal(t, float32(0.5), dc.Vertices[6])
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, dc.Indices[:6])
}

func TestRenderOverflow(t *testing.T) {
	cfg := NewConfig()
	cfg.VertexCapacity = 7 * 4 * 30
	cfg.IndexCapacity = 6 * 30
	rn, dv := newTestRenderer(t, cfg)
	require.NoError(t, rn.RenderTrack(track.NewDemo()))

	st := rn.Stats()
	assert.Equal(t, 20, st.Road.Draws)
	assert.Equal(t, 19, st.Road.Overflows)
	assert.Equal(t, 2400, st.Road.Vertices)
	assert.Equal(t, 3600, st.Road.Indices)
	require.Len(t, dv.Draws, 20)
	for _, dc := range dv.Draws {
		assert.Equal(t, 180, dc.Count)
		assert.LessOrEqual(t, len(dc.Vertices), cfg.VertexCapacity)
	}
}

func TestParallelStaging(t *testing.T) {
	draws := func(workers int) []memgpu.DrawCall {
		cfg := NewConfig()
		cfg.Workers = workers
		cfg.VertexCapacity = 7 * 4 * 100
		cfg.IndexCapacity = 6 * 100
		rn, dv := newTestRenderer(t, cfg)
		require.NoError(t, rn.RenderTrack(track.NewDemo()))
		require.NoError(t, rn.RenderTrack(track.NewDemo()))
		return dv.Draws
	}
	serial := draws(1)
	parallel := draws(4)
	require.Len(t, parallel, len(serial))
	for i := range serial {
		assert.Equal(t, serial[i].Vertices, parallel[i].Vertices, "draw %d", i)
		assert.Equal(t, serial[i].Indices, parallel[i].Indices, "draw %d", i)
	}
}

func TestInvalidNext(t *testing.T) {
	rn, dv := newTestRenderer(t, NewConfig())
	a := track.NewBezierNode(
		track.ControlPoint{Position: math32.Vec3(0, 1, 0), Normal: math32.Vec3(0, 1, 0), Width: 1},
		track.ControlPoint{Position: math32.Vec3(0, 1, 2), Normal: math32.Vec3(0, 1, 0), Width: 1})
	a.Next = 7
	stump := track.Node{Type: track.Stump, Prev: track.NoNode, Next: track.NoNode, NumPoints: 1}
	src := nodeList{a, stump, {Type: track.Deleted, Prev: track.NoNode, Next: track.NoNode}}

	require.NoError(t, rn.RenderTrack(src))
	st := rn.Stats()
	assert.Equal(t, 0, st.Segments)
	assert.Equal(t, 2, st.Skipped)
	assert.Equal(t, 0, st.Quads)
	assert.Empty(t, dv.Draws)
	assert.Equal(t, 0, rn.buf.VertexUsed())
	assert.Equal(t, 0, rn.buf.IndexUsed())
	assert.Len(t, rn.reported, 2)

	// skips are only reported once per node
	require.NoError(t, rn.RenderTrack(src))
	assert.Len(t, rn.reported, 2)
}

func TestOpenTrack(t *testing.T) {
	gr := track.NewDemo()
	require.NoError(t, gr.Link(3, track.NoNode))
	require.NoError(t, gr.Link(track.NoNode, 0))
	require.NoError(t, gr.Validate())
	rn, _ := newTestRenderer(t, NewConfig())
	require.NoError(t, rn.RenderTrack(gr))
	st := rn.Stats()
	assert.Equal(t, 3, st.Segments)
	assert.Equal(t, 1, st.Skipped)
	assert.Equal(t, 450, st.Quads)

	// removing a node relinks its neighbours
	require.NoError(t, gr.Remove(1))
	require.NoError(t, rn.RenderTrack(gr))
	st = rn.Stats()
	assert.Equal(t, 2, st.Segments)
	assert.Equal(t, 1, st.Skipped)
}

func TestRenderHandles(t *testing.T) {
	rn, dv := newTestRenderer(t, NewConfig())
	gr := track.NewDemo()
	require.NoError(t, gr.SetFlags(0, 0, track.PointSelected, true))

	rn.SetView(camera.NewFly(math32.Vec3(0, 5, 60)).ViewMatrix())
	require.NoError(t, rn.RenderHandles(gr))
	st := rn.Stats()
	assert.Equal(t, 8, st.Points)
	// per node: three circles of 8 quads and two lines
	assert.Equal(t, 4*26*4, st.Handles.Vertices)
	assert.Equal(t, 4*26*6, st.Handles.Indices)
	require.Len(t, dv.Draws, 1)
	dc := dv.Draws[0]
	assert.Equal(t, "color", dc.Program)
	assert.False(t, dc.State.CullBack)
	assert.Equal(t, 1, dv.DepthClears)
	assert.Equal(t, 0, dv.ColorClears)
	for i := 0; i < len(dc.Vertices); i += 7 {
		for _, v := range dc.Vertices[i : i+7] {
			require.False(t, math32.IsNaN(v) || math32.IsInf(v, 0))
		}
	}

	// nothing is drawn behind the camera
	dv.Reset()
	rn.SetView(camera.NewFly(math32.Vec3(0, 5, -60)).ViewMatrix())
	require.NoError(t, rn.RenderHandles(gr))
	assert.Equal(t, 0, rn.Stats().Handles.Draws)
	assert.Empty(t, dv.Draws)
}

func TestOverlayScale(t *testing.T) {
	var view math32.Matrix4
	view.SetIdentity()
	ov := overlay{view: &view, focal: 2}
	ov.basis()
	s, ok := ov.scale(math32.Vec3(0, 0, -10))
	assert.True(t, ok)
	assert.Equal(t, float32(5), s)
	_, ok = ov.scale(math32.Vec3(0, 0, 1))
	assert.False(t, ok)
	assert.Equal(t, math32.Vec3(1, 0, 0), ov.right)
	assert.Equal(t, math32.Vec3(0, 1, 0), ov.up)
	assert.Equal(t, math32.Vec3(0, 0, -1), ov.forward)
}

func TestFrame(t *testing.T) {
	rn, dv := newTestRenderer(t, NewConfig())
	rn.SetView(camera.NewFly(math32.Vec3(0, 5, 60)).ViewMatrix())
	var win countingWindow
	require.NoError(t, rn.Frame(track.NewDemo(), &win))
	assert.Equal(t, 1, win.swaps)
	require.Len(t, dv.Draws, 2)
	assert.Equal(t, "road", dv.Draws[0].Program)
	assert.Equal(t, "color", dv.Draws[1].Program)

	dv.Reset()
	rn.Config.Handles = false
	require.NoError(t, rn.Frame(track.NewDemo(), nil))
	assert.Len(t, dv.Draws, 1)
}

func TestReconfigure(t *testing.T) {
	rn, _ := newTestRenderer(t, NewConfig())
	before := rn.Projection
	cfg := NewConfig()
	cfg.FOV = 90
	cfg.VertexCapacity = 1024
	cfg.ClearColor = [4]float32{1, 0, 0, 1}
	require.NoError(t, rn.Reconfigure(cfg))
	assert.NotEqual(t, before, rn.Projection)
	assert.Equal(t, 65536, rn.Config.VertexCapacity)
	assert.Equal(t, float32(90), rn.Config.FOV)

	cfg.Near = -1
	assert.Error(t, rn.Reconfigure(cfg))
	assert.Equal(t, float32(0.1), rn.Config.Near)
}

func TestWatchConfig(t *testing.T) {
	ch, stop, err := WatchConfig("")
	require.NoError(t, err)
	assert.Nil(t, ch)
	stop()

	path := filepath.Join(t.TempDir(), "render.toml")
	require.NoError(t, os.WriteFile(path, []byte("FOV = 70\n"), 0o644))
	ch, stop, err = WatchConfig(path)
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(path, []byte("FOV = 90\nHandles = false\n"), 0o644))
	timeout := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-ch:
			// a write may be seen before it is complete
			if cfg.FOV != 90 || cfg.Handles {
				continue
			}
			assert.Equal(t, 50, cfg.Subdivisions)
			return
		case <-timeout:
			t.Fatal("no config reloaded")
		}
	}
}
