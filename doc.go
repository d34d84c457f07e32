// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package emuhost is the execution-control and graphics-context-sharing
// core that sits between an interactive host application and an emulated
// machine's execution engine.
//
// The work is split across sub-packages:
//
//   - emuthread: the execution thread and its run/pause/stop state machine
//   - gfx: graphics context handles, shared GPU object namespaces and the
//     factory that creates primary and derived contexts
//   - gfx/software and gfx/wgpu: context drivers
//   - window: the render surface the interactive thread presents into
//   - screenshot: asynchronous frame capture
//   - notify: the one-way event sink toward the interactive thread
//   - settings: read-only host configuration
//
// Two threads matter. The interactive thread owns the window, input and
// the presentation context. The execution thread owns the engine and the
// primary context. Everything shared between them goes through a mutex and
// condition variable in emuthread, or through the ordered notify.Queue.
//
// Logging is silent by default; see [SetLogger].
package emuhost
