// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glgpu

import (
	"fmt"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/math32"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/quadrupledare/qdare/gpu"
)

// program is a linked vertex + fragment program.
type program struct {
	handle uint32
	name   string

	// uniform locations, looked up lazily
	unis map[string]int32
}

// Name returns name of program
func (pr *program) Name() string {
	return pr.name
}

// compile compiles both shaders and links the program.
func (pr *program) compile(vertexSrc, fragmentSrc string) error {
	vs, err := compileShader(gl.VERTEX_SHADER, pr.name, vertexSrc)
	if err != nil {
		return err
	}
	fs, err := compileShader(gl.FRAGMENT_SHADER, pr.name, fragmentSrc)
	if err != nil {
		gl.DeleteShader(vs)
		return err
	}

	handle := gl.CreateProgram()
	gl.AttachShader(handle, vs)
	gl.AttachShader(handle, fs)
	gl.LinkProgram(handle)

	gl.DetachShader(handle, vs)
	gl.DetachShader(handle, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var lgLength int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &lgLength)

		lg := strings.Repeat("\x00", int(lgLength+1))
		gl.GetProgramInfoLog(handle, lgLength, nil, gl.Str(lg))
		gl.DeleteProgram(handle)

		return errors.Log(fmt.Errorf("glgpu: program %s failed to link: %s", pr.name, strings.TrimRight(lg, "\x00")))
	}
	pr.handle = handle
	pr.unis = make(map[string]int32)
	return nil
}

// Activate activates this as the active program.
func (pr *program) Activate() {
	gl.UseProgram(pr.handle)
}

// Deactivate clears the active program.
func (pr *program) Deactivate() {
	gl.UseProgram(0)
}

// InputByName returns the attribute slot for the named vertex input.
func (pr *program) InputByName(name string) (uint32, error) {
	loc := gl.GetAttribLocation(pr.handle, gl.Str(cString(name)))
	if loc < 0 {
		return 0, fmt.Errorf("glgpu: program %s: input %q: %w", pr.name, name, gpu.ErrNoInput)
	}
	return uint32(loc), nil
}

// SetUniformMatrix4 sets the named mat4 uniform, column-major.
func (pr *program) SetUniformMatrix4(name string, m *math32.Matrix4) error {
	loc, ok := pr.unis[name]
	if !ok {
		loc = gl.GetUniformLocation(pr.handle, gl.Str(cString(name)))
		pr.unis[name] = loc
	}
	if loc < 0 {
		return fmt.Errorf("glgpu: program %s: uniform %q: %w", pr.name, name, gpu.ErrNoUniform)
	}
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
	return nil
}

// Delete deletes the GPU resources associated with this program
func (pr *program) Delete() {
	if pr.handle == 0 {
		return
	}
	gl.DeleteProgram(pr.handle)
	pr.handle = 0
}
