// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memgpu

import (
	"fmt"
	"regexp"
	"strings"

	"cogentcore.org/core/math32"
	"github.com/quadrupledare/qdare/gpu"
)

var (
	inputDecl   = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?(?:in|attribute)\s+\w+\s+(\w+)\s*;`)
	uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+(\w+)\s+(\w+)\s*;`)
	mainDecl    = regexp.MustCompile(`void\s+main\s*\(`)
)

// program resolves inputs and uniforms from the declarations in its
// GLSL source, assigning input slots in declaration order.
type program struct {
	dev      *Device
	name     string
	inputs   map[string]uint32
	types    map[string]string
	uniforms map[string]math32.Matrix4
	deleted  bool
}

func parseProgram(dv *Device, name, vertexSrc, fragmentSrc string) (*program, error) {
	for _, src := range []string{vertexSrc, fragmentSrc} {
		if !strings.Contains(src, "#version") || !mainDecl.MatchString(src) {
			return nil, fmt.Errorf("memgpu: program %s: shader needs a #version line and a main function", name)
		}
	}
	pr := &program{dev: dv, name: name, inputs: map[string]uint32{}, types: map[string]string{}, uniforms: map[string]math32.Matrix4{}}
	for i, m := range inputDecl.FindAllStringSubmatch(vertexSrc, -1) {
		pr.inputs[m[1]] = uint32(i)
	}
	for _, src := range []string{vertexSrc, fragmentSrc} {
		for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
			pr.types[m[2]] = m[1]
		}
	}
	return pr, nil
}

func (pr *program) Name() string { return pr.name }

func (pr *program) Activate() {
	if pr.deleted {
		panic("memgpu: Activate of deleted program " + pr.name)
	}
	pr.dev.prog = pr
}

func (pr *program) Deactivate() {
	pr.dev.prog = nil
}

func (pr *program) InputByName(name string) (uint32, error) {
	slot, ok := pr.inputs[name]
	if !ok {
		return 0, fmt.Errorf("memgpu: program %s: input %q: %w", pr.name, name, gpu.ErrNoInput)
	}
	return slot, nil
}

func (pr *program) SetUniformMatrix4(name string, m *math32.Matrix4) error {
	if pr.dev.prog != pr {
		panic("memgpu: SetUniformMatrix4 on inactive program " + pr.name)
	}
	if pr.types[name] != "mat4" {
		return fmt.Errorf("memgpu: program %s: uniform %q: %w", pr.name, name, gpu.ErrNoUniform)
	}
	pr.uniforms[name] = *m
	return nil
}

func (pr *program) Delete() {
	if pr.deleted {
		return
	}
	if pr.dev.prog == pr {
		pr.dev.prog = nil
	}
	pr.deleted = true
	pr.dev.live--
}
