// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package input defines the input sinks the render window feeds, plus the
// coordinate helpers used to translate host events into emulated touch.
package input

import (
	"math"

	"github.com/gogpu/gpucontext"
)

// Keyboard receives key transitions.
type Keyboard interface {
	PressKey(key gpucontext.Key, mods gpucontext.Modifiers)
	ReleaseKey(key gpucontext.Key)
	ReleaseAllKeys()
}

// Motion receives emulated tilt driven by a pointer drag. Coordinates are
// logical window coordinates.
type Motion interface {
	BeginTilt(x, y int)
	Tilt(x, y int)
	EndTilt()
}

// Touch receives emulated touch in framebuffer pixels.
type Touch interface {
	TouchPressed(x, y uint32)
	TouchMoved(x, y uint32)
	TouchReleased()
}

// Point is a position in logical window coordinates.
type Point struct {
	X, Y float64
}

// TouchPhase is the phase of one touch point in a multi-touch event.
type TouchPhase uint8

const (
	TouchPointPressed TouchPhase = iota
	TouchPointMoved
	TouchPointStationary
	TouchPointReleased
)

// TouchPoint is one finger of a multi-touch event.
type TouchPoint struct {
	Pos   Point
	Phase TouchPhase
}

// ScaleTouch converts a logical position to framebuffer pixels, rounding
// to the nearest pixel and clamping negative coordinates to zero.
func ScaleTouch(p Point, pixelRatio float64) (x, y uint32) {
	return scale(p.X, pixelRatio), scale(p.Y, pixelRatio)
}

func scale(v, ratio float64) uint32 {
	return uint32(math.Max(math.Round(v*ratio), 0))
}

// AverageActive returns the mean position of the points that are still
// down. It reports false when no point is active.
func AverageActive(points []TouchPoint) (Point, bool) {
	var sum Point
	n := 0
	for _, tp := range points {
		if tp.Phase == TouchPointReleased {
			continue
		}
		sum.X += tp.Pos.X
		sum.Y += tp.Pos.Y
		n++
	}
	if n == 0 {
		return Point{}, false
	}
	return Point{sum.X / float64(n), sum.Y / float64(n)}, true
}
