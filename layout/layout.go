// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package layout derives framebuffer layouts for the emulated screen.
//
// A [Framebuffer] is the pixel size of a presentation surface together with
// the rectangle the emulated screen occupies inside it. The screen keeps
// the emulated aspect ratio and is centered, with bars on the long axis.
package layout

import "math"

// Native screen sizes of the emulated machine.
const (
	ScreenUndockedWidth  = 1280
	ScreenUndockedHeight = 720
	ScreenDockedWidth    = 1920
	ScreenDockedHeight   = 1080
)

// AspectRatio is the emulated screen's height divided by its width.
const AspectRatio = float32(ScreenUndockedHeight) / float32(ScreenUndockedWidth)

// Rect is an integer rectangle. Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Width returns the rectangle's width.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the rectangle's height.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{r.Left + dx, r.Top + dy, r.Right + dx, r.Bottom + dy}
}

// Framebuffer describes a presentation surface.
type Framebuffer struct {
	Width, Height int
	Screen        Rect
}

// Empty reports whether the framebuffer has no pixels.
func (f Framebuffer) Empty() bool { return f.Width <= 0 || f.Height <= 0 }

// BufferSize returns the byte size of a 4-byte-per-pixel image of the
// framebuffer.
func (f Framebuffer) BufferSize() int {
	if f.Empty() {
		return 0
	}
	return f.Width * f.Height * 4
}

// ScreenSize returns the emulated screen size for the docked mode.
func ScreenSize(docked bool) (width, height int) {
	if docked {
		return ScreenDockedWidth, ScreenDockedHeight
	}
	return ScreenUndockedWidth, ScreenUndockedHeight
}

// DefaultFrameLayout letterboxes the emulated screen into a width×height
// surface. Sizes below one pixel are clamped to one.
func DefaultFrameLayout(width, height int) Framebuffer {
	width = max(width, 1)
	height = max(height, 1)

	fb := Framebuffer{Width: width, Height: height}
	windowAspect := float32(height) / float32(width)
	screen := maxRectangle(width, height, AspectRatio)

	if windowAspect < AspectRatio {
		screen = screen.Translate((width-screen.Width())/2, 0)
	} else {
		screen = screen.Translate(0, (height-screen.Height())/2)
	}
	fb.Screen = screen
	return fb
}

// FrameLayoutFromResolutionScale returns the layout of the emulated screen
// rendered at the given integer scale. A zero scale is treated as one.
func FrameLayoutFromResolutionScale(scale uint32, docked bool) Framebuffer {
	scale = max(scale, 1)
	w, h := ScreenSize(docked)
	return DefaultFrameLayout(w*int(scale), h*int(scale))
}

// maxRectangle returns the largest rectangle with the given aspect ratio
// that fits in width×height, anchored at the origin.
func maxRectangle(width, height int, ratio float32) Rect {
	scale := min(float32(width), float32(height)/ratio)
	return Rect{
		Right:  int(math.Round(float64(scale))),
		Bottom: int(math.Round(float64(scale * ratio))),
	}
}
