// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command qdare renders a road track in a window, or headless into
// memory for profiling and smoke tests.
package main

import (
	"log/slog"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/cli"
	"cogentcore.org/core/math32"
	"github.com/quadrupledare/qdare/camera"
	"github.com/quadrupledare/qdare/render"
	"github.com/quadrupledare/qdare/track"
)

// Config is the configuration of the qdare command.
type Config struct {
	render.Config

	// Settings is a TOML file of render settings. If set, it replaces
	// the render flags, and is reloaded whenever it changes.
	Settings string

	// Headless renders Frames frames into memory instead of a window.
	Headless bool

	// Frames is the number of frames rendered in headless mode.
	Frames int `default:"120"`

	// Width and Height are the initial size of the window in pixels.
	Width  int `default:"1280"`
	Height int `default:"720"`
}

func main() {
	opts := cli.DefaultOptions("qdare", "Qdare renders a road track made of cubic Bézier segments.")
	cli.Run(opts, &Config{}, Run)
}

// Run renders the demo track.
func Run(c *Config) error { //cli:cmd -root
	if c.Settings != "" {
		rc, err := render.OpenConfig(c.Settings)
		if err != nil {
			return errors.Log(err)
		}
		c.Config = *rc
	}
	gr := track.NewDemo()
	if err := gr.Validate(); err != nil {
		return errors.Log(err)
	}
	if c.Headless {
		return runHeadless(c, gr)
	}
	return runWindow(c, gr)
}

// newCamera returns a camera above the footprint of gr, looking at its center.
func newCamera(gr *track.Graph) *camera.Fly {
	fp := gr.Footprint()
	center := fp.Center()
	r := math32.Max(fp.Radius(), 1)
	cm := camera.NewFly(center.Add(math32.Vec3(0, r*0.8, r*1.4)))
	cm.LookAt(center)
	cm.Speed = math32.Max(r/60, cm.Speed)
	slog.Info("track", "nodes", gr.Live(), "segments", fp.Segments, "length", fp.Length, "radius", r)
	return cm
}

// applyReload reconfigures rn with the latest settings from ch, if any.
func applyReload(rn *render.Renderer, ch <-chan *render.Config) {
	select {
	case cfg := <-ch:
		if err := rn.Reconfigure(cfg); err != nil {
			errors.Log(err)
			return
		}
		slog.Info("settings reloaded")
	default:
	}
}
