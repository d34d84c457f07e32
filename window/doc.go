// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package window implements the render surface shown by the interactive
// thread.
//
// A [RenderWindow] wraps a host-provided [Drawable]. InitRenderTarget
// creates the context pair for the configured backend: the main context is
// handed to the execution thread, the child context stays with the
// interactive thread and presents frames. The window also derives the
// framebuffer layout from the drawable's pixel size, reports the first
// presented frame once per render target, and routes host input events to
// the input sinks.
//
// Drivers are looked up by name in the gfx registry, so the host links the
// ones it wants:
//
//	import (
//	    _ "github.com/gogpu/emuhost/gfx/software"
//	    _ "github.com/gogpu/emuhost/gfx/wgpu"
//	)
package window
