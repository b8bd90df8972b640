// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build debug

package render

const debugBuild = true

// debugAssert panics with msg if ok is false. It is only checked in debug builds.
func debugAssert(ok bool, msg string) {
	if !ok {
		panic(msg)
	}
}
