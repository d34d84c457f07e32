// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gogpu/gpucontext"
	"github.com/mattn/go-runewidth"

	"github.com/gogpu/emuhost/gfx"
	"github.com/gogpu/emuhost/input"
	"github.com/gogpu/emuhost/notify"
	"github.com/gogpu/emuhost/window"
)

// statusRows are reserved below the emulated screen.
const statusRows = 2

// termDrawable presents the emulated screen in terminal cells, one cell
// per logical pixel.
type termDrawable struct {
	screen tcell.Screen
}

func (d *termDrawable) Size() (int, int) {
	w, h := d.screen.Size()
	return w, max(h-statusRows, 1)
}

func (d *termDrawable) PixelRatio() float64          { return 1 }
func (d *termDrawable) SetMinimumSize(int, int)      {}
func (d *termDrawable) Resize(int, int)              {}
func (d *termDrawable) SurfaceInfo() gfx.SurfaceInfo { return gfx.SurfaceInfo{Scale: 1} }

// termState is what the status lines show.
type termState struct {
	status  string
	loading string
	lastErr string
	buttons tcell.ButtonMask
}

func (h *host) runTerminal(screen tcell.Screen) error {
	evCh := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case evCh <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()

	st := &termState{status: "loading"}
	for {
		select {
		case e := <-h.events.C():
			h.onEvent(st, e)
		case ev := <-evCh:
			if h.onTerminalEvent(st, screen, ev) {
				h.win.Close()
				h.ctrl.Stop()
				<-h.ctrl.Done()
				return nil
			}
		case <-ticker.C:
			if err := h.win.Present(); err != nil {
				return err
			}
			h.draw(st, screen)
		}
	}
}

func (h *host) onEvent(st *termState, e notify.Event) {
	switch e.Type {
	case notify.LoadProgress:
		st.loading = fmt.Sprintf("%s %d/%d", e.Stage, e.Value, e.Total)
	case notify.ErrorThrown:
		st.lastErr = fmt.Sprintf("%v: %s", e.Result, e.Details)
	case notify.DebugModeEntered:
		st.status = "paused"
	case notify.DebugModeLeft:
		st.status = "running"
	case notify.FirstFrameDisplayed:
		st.status = "ready"
	}
}

// onTerminalEvent handles input. It reports true when the user quits.
func (h *host) onTerminalEvent(st *termState, screen tcell.Screen, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		screen.Sync()
		h.win.OnFramebufferSizeChanged()
	case *tcell.EventFocus:
		if !ev.Focused {
			h.win.FocusOut()
		}
	case *tcell.EventMouse:
		h.onMouse(st, ev)
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			return h.onRune(st, ev.Rune())
		}
	}
	return false
}

func (h *host) onRune(st *termState, r rune) bool {
	switch r {
	case 'q':
		return true
	case 's':
		if h.ctrl.Start() {
			st.status = "running"
			st.lastErr = ""
		}
	case 'p':
		if h.ctrl.Pause() {
			st.status = "paused"
		}
	case 'c':
		if _, err := h.capture(); err != nil {
			st.lastErr = err.Error()
		}
	case ' ':
		// Terminals report no key releases, so space toggles.
		var mods gpucontext.Modifiers
		if keys := h.win.Input(); keys != nil && keys.Held(gpucontext.KeySpace) {
			h.win.KeyRelease(gpucontext.KeySpace)
		} else {
			h.win.KeyPress(gpucontext.KeySpace, mods)
		}
	}
	return false
}

// onMouse turns tcell's button masks into press, move and release events.
func (h *host) onMouse(st *termState, ev *tcell.EventMouse) {
	x, y := ev.Position()
	pos := input.Point{X: float64(x), Y: float64(y)}
	now := ev.Buttons()
	prev := st.buttons
	st.buttons = now

	moved := true
	for _, b := range []struct {
		mask   tcell.ButtonMask
		button window.Button
	}{
		{tcell.ButtonPrimary, window.ButtonLeft},
		{tcell.ButtonSecondary, window.ButtonRight},
	} {
		switch {
		case now&b.mask != 0 && prev&b.mask == 0:
			h.win.MousePress(window.MouseEvent{Pos: pos, Button: b.button})
			moved = false
		case now&b.mask == 0 && prev&b.mask != 0:
			h.win.MouseRelease(window.MouseEvent{Pos: pos, Button: b.button})
			moved = false
		}
	}
	if moved {
		h.win.MouseMove(window.MouseEvent{Pos: pos})
	}
}

func (h *host) draw(st *termState, screen tcell.Screen) {
	screen.Clear()
	width, height := screen.Size()

	fb := h.win.Framebuffer()
	frame := h.engine.frames.Load()
	shade := []rune{'░', '▒', '▓', '█'}
	style := tcell.StyleDefault.Foreground(tcell.PaletteColor(int(frame/30%6) + 1))
	for y := fb.Screen.Top; y < fb.Screen.Bottom && y < height-statusRows; y++ {
		for x := fb.Screen.Left; x < fb.Screen.Right && x < width; x++ {
			r := shade[(uint64(x+y)+frame/4)%uint64(len(shade))]
			screen.SetContent(x, y, r, nil, style)
		}
	}
	if tx, ty, ok := h.win.Input().TouchPosition(); ok {
		screen.SetContent(int(tx), int(ty), '✛', nil, tcell.StyleDefault.Bold(true))
	}

	status := fmt.Sprintf("%s | %s | frame %d | %s", st.status, h.ctrl.State(), frame, st.loading)
	if st.lastErr != "" {
		status += " | error: " + st.lastErr
	}
	help := "s start  p pause  c screenshot  space turbo  q quit"
	drawText(screen, 0, height-2, width, status, tcell.StyleDefault.Reverse(true))
	drawText(screen, 0, height-1, width, help, tcell.StyleDefault.Dim(true))
	screen.Show()
}

// drawText writes s at (x, y), truncated to width columns.
func drawText(screen tcell.Screen, x, y, width int, s string, style tcell.Style) {
	s = runewidth.Truncate(s, width, "…")
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
