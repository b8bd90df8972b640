// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"image"
	"log/slog"
	"time"

	"github.com/quadrupledare/qdare/gpu/batch"
	"github.com/quadrupledare/qdare/gpu/memgpu"
	"github.com/quadrupledare/qdare/render"
	"github.com/quadrupledare/qdare/track"
)

// runHeadless renders c.Frames frames of gr on an in-memory device,
// turning the camera a little each frame, and logs the totals.
func runHeadless(c *Config, gr *track.Graph) error {
	dv := memgpu.NewDevice()
	rn, err := render.New(dv, &c.Config)
	if err != nil {
		return err
	}
	defer rn.Release()
	rn.Resize(image.Pt(c.Width, c.Height))
	reload, stop, err := render.WatchConfig(c.Settings)
	if err != nil {
		return err
	}
	defer stop()

	cm := newCamera(gr)
	var road, handles batch.Stats
	quads := 0
	start := time.Now()
	for range c.Frames {
		applyReload(rn, reload)
		cm.MouseLook(10, 0)
		rn.SetView(cm.ViewMatrix())
		if err := rn.Frame(gr, nil); err != nil {
			return err
		}
		st := rn.Stats()
		road.Add(st.Road)
		handles.Add(st.Handles)
		quads += st.Quads
		dv.Reset()
	}
	elapsed := time.Since(start)
	slog.Info("headless", "frames", c.Frames, "elapsed", elapsed, "quads", quads,
		"roadDraws", road.Draws, "roadOverflows", road.Overflows, "roadVertices", road.Vertices,
		"handleDraws", handles.Draws, "handleVertices", handles.Vertices)
	return nil
}
