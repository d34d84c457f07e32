// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import "github.com/gogpu/gputypes"

// Kind tags which variant a Context is. The kind is fixed at construction.
type Kind uint8

const (
	// KindNull is a context that does nothing. It stands in where the
	// selected backend manages its own presentation.
	KindNull Kind = iota

	// KindSharedNamespace is a context that shares its GPU object namespace
	// with other contexts.
	KindSharedNamespace

	// KindSurfaceBound is a context that owns the device presenting into a
	// render surface.
	KindSurfaceBound
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindSharedNamespace:
		return "shared-namespace"
	case KindSurfaceBound:
		return "surface-bound"
	default:
		return "unknown"
	}
}

// WindowSystem identifies the host window system.
type WindowSystem uint8

const (
	WindowSystemHeadless WindowSystem = iota
	WindowSystemWindows
	WindowSystemX11
	WindowSystemWayland
	WindowSystemCocoa
)

// String returns the window system name.
func (w WindowSystem) String() string {
	switch w {
	case WindowSystemHeadless:
		return "headless"
	case WindowSystemWindows:
		return "windows"
	case WindowSystemX11:
		return "x11"
	case WindowSystemWayland:
		return "wayland"
	case WindowSystemCocoa:
		return "cocoa"
	default:
		return "unknown"
	}
}

// SurfaceInfo describes the drawable a context renders into.
// Handles are opaque to gfx and interpreted only by drivers.
type SurfaceInfo struct {
	// System is the window system the handles belong to.
	System WindowSystem

	// Display is the display connection (X11 Display*, wl_display*).
	Display uintptr

	// Surface is the native window handle. Zero means windowless.
	Surface uintptr

	// Scale is the device pixel ratio of the surface.
	Scale float32

	// Format is the presentation pixel format.
	Format gputypes.TextureFormat

	// Stereo requests a quad-buffered stereo context.
	Stereo bool

	// PreferGLES requests an OpenGL ES context where the driver supports both.
	PreferGLES bool
}

// Windowless reports whether the info describes an offscreen target.
func (s SurfaceInfo) Windowless() bool {
	return s.Surface == 0
}
