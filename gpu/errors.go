// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import "cogentcore.org/core/base/errors"

var (
	// ErrNoInput is returned when a program has no active vertex input of a given name.
	ErrNoInput = errors.New("gpu: vertex input not found")

	// ErrNoUniform is returned when a program has no active uniform of a given name.
	ErrNoUniform = errors.New("gpu: uniform not found")

	// ErrOutOfMemory is returned when a buffer allocation fails.
	ErrOutOfMemory = errors.New("gpu: out of memory")
)
