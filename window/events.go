// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package window

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/emuhost/input"
)

// Button is a mouse button.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// MouseEvent is a host mouse event in logical coordinates.
type MouseEvent struct {
	Pos    input.Point
	Button Button

	// Synthesized marks mouse events the window system generated from
	// touch. They are ignored; the touch events carry the input.
	Synthesized bool
}

// KeyPress forwards a key press.
func (w *RenderWindow) KeyPress(key gpucontext.Key, mods gpucontext.Modifiers) {
	w.opts.keyboard.PressKey(key, mods)
}

// KeyRelease forwards a key release.
func (w *RenderWindow) KeyRelease(key gpucontext.Key) {
	w.opts.keyboard.ReleaseKey(key)
}

// FocusOut releases every held key.
func (w *RenderWindow) FocusOut() {
	w.opts.keyboard.ReleaseAllKeys()
}

// MousePress starts a touch with the left button and a tilt with the
// right one.
func (w *RenderWindow) MousePress(e MouseEvent) {
	if e.Synthesized {
		return
	}
	switch e.Button {
	case ButtonLeft:
		x, y := w.scaleTouch(e.Pos)
		w.opts.touch.TouchPressed(x, y)
	case ButtonRight:
		w.opts.motion.BeginTilt(int(e.Pos.X), int(e.Pos.Y))
	}
}

// MouseMove moves both the touch and the tilt.
func (w *RenderWindow) MouseMove(e MouseEvent) {
	if e.Synthesized {
		return
	}
	x, y := w.scaleTouch(e.Pos)
	w.opts.touch.TouchMoved(x, y)
	w.opts.motion.Tilt(int(e.Pos.X), int(e.Pos.Y))
}

// MouseRelease ends the touch or tilt started by the button.
func (w *RenderWindow) MouseRelease(e MouseEvent) {
	if e.Synthesized {
		return
	}
	switch e.Button {
	case ButtonLeft:
		w.opts.touch.TouchReleased()
	case ButtonRight:
		w.opts.motion.EndTilt()
	}
}

// TouchBegin starts a touch at the first point.
func (w *RenderWindow) TouchBegin(points []input.TouchPoint) {
	if len(points) == 0 {
		return
	}
	x, y := w.scaleTouch(points[0].Pos)
	w.opts.touch.TouchPressed(x, y)
}

// TouchUpdate moves the touch to the average of the active points.
func (w *RenderWindow) TouchUpdate(points []input.TouchPoint) {
	p, ok := input.AverageActive(points)
	if !ok {
		return
	}
	x, y := w.scaleTouch(p)
	w.opts.touch.TouchMoved(x, y)
}

// TouchEnd ends the touch. Cancelled touches end the same way.
func (w *RenderWindow) TouchEnd() {
	w.opts.touch.TouchReleased()
}

func (w *RenderWindow) scaleTouch(p input.Point) (x, y uint32) {
	return input.ScaleTouch(p, w.drawable.PixelRatio())
}
