// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu provides a Vulkan context driver built on gogpu/wgpu/hal.
//
// A namespace maps to one hal.Device: every context sharing a namespace
// submits to the same device and queue. Contexts created by the driver are
// of kind gfx.KindSurfaceBound when used as primaries.
//
// A host application that already opened a device (for example a gogpu
// window) can hand it to the emulation core with [Import]; the returned
// native context is then used as the factory's share source.
//
// Importing the package registers the driver as "vulkan":
//
//	import _ "github.com/gogpu/emuhost/gfx/wgpu"
package wgpu
