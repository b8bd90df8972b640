// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"image"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/quadrupledare/qdare/camera"
	"github.com/quadrupledare/qdare/gpu/glgpu"
	"github.com/quadrupledare/qdare/render"
	"github.com/quadrupledare/qdare/track"
)

func init() {
	// glfw event handling and the GL context must stay on the main thread
	runtime.LockOSThread()
}

func newWindow(c *Config) (*glfw.Window, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	return glfw.CreateWindow(c.Width, c.Height, "qdare", nil, nil)
}

// runWindow renders gr in a window until it is closed.
func runWindow(c *Config, gr *track.Graph) error {
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()
	win, err := newWindow(c)
	if err != nil {
		return err
	}
	defer win.Destroy()
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	dev, err := glgpu.NewDevice()
	if err != nil {
		return err
	}
	defer dev.Release()
	rn, err := render.New(dev, &c.Config)
	if err != nil {
		return err
	}
	defer rn.Release()
	rn.Resize(image.Pt(win.GetFramebufferSize()))
	win.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		rn.Resize(image.Pt(width, height))
	})

	reload, stop, err := render.WatchConfig(c.Settings)
	if err != nil {
		return err
	}
	defer stop()

	in := newInput(win, newCamera(gr))
	for !win.ShouldClose() {
		glfw.PollEvents()
		applyReload(rn, reload)
		in.move()
		rn.SetView(in.cam.ViewMatrix())
		if err := rn.Frame(gr, win); err != nil {
			return err
		}
	}
	return nil
}

// input drives a camera from the mouse and keyboard of a window.
// The cursor is captured while the right mouse button is held.
type input struct {
	win *glfw.Window
	cam *camera.Fly

	// last cursor position; valid is false until the first sample
	x, y  float64
	valid bool
}

func newInput(win *glfw.Window, cam *camera.Fly) *input {
	in := &input{win: win, cam: cam}
	win.SetCursorPosCallback(in.cursorPos)
	win.SetMouseButtonCallback(in.mouseButton)
	win.SetKeyCallback(in.key)
	return in
}

func (in *input) cursorPos(w *glfw.Window, x, y float64) {
	if in.valid && w.GetMouseButton(glfw.MouseButtonRight) == glfw.Press {
		in.cam.MouseLook(float32(x-in.x), float32(y-in.y))
	}
	in.x, in.y, in.valid = x, y, true
}

func (in *input) mouseButton(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonRight {
		return
	}
	if action == glfw.Press {
		w.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else if action == glfw.Release {
		w.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

func (in *input) key(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
}

// axis returns 1, -1 or 0 as pos, neg or neither key is held.
func (in *input) axis(pos, neg glfw.Key) float32 {
	v := float32(0)
	if in.win.GetKey(pos) == glfw.Press {
		v++
	}
	if in.win.GetKey(neg) == glfw.Press {
		v--
	}
	return v
}

// move moves the camera by the held movement keys.
func (in *input) move() {
	f := in.axis(glfw.KeyW, glfw.KeyS)
	r := in.axis(glfw.KeyD, glfw.KeyA)
	u := in.axis(glfw.KeySpace, glfw.KeyLeftShift)
	if f != 0 || r != 0 || u != 0 {
		in.cam.Move(f, r, u)
	}
}
