// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/emuhost"
	"github.com/gogpu/emuhost/emuthread"
	"github.com/gogpu/emuhost/gfx"
	"github.com/gogpu/emuhost/layout"
	"github.com/gogpu/emuhost/notify"
	"github.com/gogpu/emuhost/screenshot"
	"github.com/gogpu/emuhost/settings"
	"github.com/gogpu/emuhost/window"
)

// fixedDrawable is a headless surface of fixed size.
type fixedDrawable struct {
	w, h int
}

func (d *fixedDrawable) Size() (int, int)             { return d.w, d.h }
func (d *fixedDrawable) PixelRatio() float64          { return 1 }
func (d *fixedDrawable) SetMinimumSize(int, int)      {}
func (d *fixedDrawable) Resize(w, h int)              { d.w, d.h = w, h }
func (d *fixedDrawable) SurfaceInfo() gfx.SurfaceInfo { return gfx.SurfaceInfo{Scale: 1} }

// host wires the demo engine, the window and the controller together.
type host struct {
	cfg      config
	engine   *demoEngine
	renderer *demoRenderer
	events   *notify.Queue
	win      *window.RenderWindow
	ctrl     *emuthread.Controller
}

func run(ctx context.Context, cfg config) error {
	events := notify.NewQueue()
	defer events.Close()

	var (
		d      window.Drawable
		screen tcell.Screen
	)
	if cfg.headless {
		d = &fixedDrawable{w: layout.ScreenUndockedWidth, h: layout.ScreenUndockedHeight}
	} else {
		s, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		if err := s.Init(); err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		defer s.Fini()
		s.SetStyle(tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset))
		s.HideCursor()
		s.EnableMouse()
		s.EnableFocus()
		screen = s
		d = &termDrawable{screen: s}
	}

	win := window.New(d, settings.NewMemoryStore(cfg.values), events)
	if err := win.InitRenderTarget(ctx); err != nil {
		return err
	}
	defer win.ReleaseRenderTarget()

	engine := &demoEngine{delay: cfg.frameDelay, failAfter: cfg.failAfter, keys: win.Input()}
	renderer := &demoRenderer{engine: engine, scale: cfg.values.ResolutionScale, shaders: cfg.shaders}
	win.SetRenderer(renderer)

	// The main context belongs to the execution thread from here on.
	ctrl := emuthread.New(emuthread.Config{
		Engine:   engine,
		Renderer: renderer,
		Context:  win.MainContext(),
		Notifier: events,
		Parent:   ctx,
	})
	defer ctrl.Close()

	h := &host{cfg: cfg, engine: engine, renderer: renderer, events: events, win: win, ctrl: ctrl}
	if cfg.headless {
		return h.runHeadless()
	}
	return h.runTerminal(screen)
}

func (h *host) screenshotPath() string {
	name := fmt.Sprintf("emuhost-%s.png", time.Now().Format("20060102-150405.000"))
	return filepath.Join(h.cfg.shotDir, name)
}

// capture requests a screenshot; the result arrives on the returned channel.
func (h *host) capture() (<-chan error, error) {
	result := make(chan error, 1)
	err := h.win.CaptureScreenshot(h.cfg.values.ResolutionScale, h.screenshotPath(),
		screenshot.WithOnComplete(func(_ string, err error) { result <- err }))
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *host) runHeadless() error {
	log := emuhost.Logger()
	h.ctrl.Start()

	ticker := time.NewTicker(h.cfg.frameDelay)
	defer ticker.Stop()
	deadline := time.After(h.cfg.duration)

	for {
		select {
		case e := <-h.events.C():
			log.Info("event", "event", e.String())
		case <-ticker.C:
			if err := h.win.Present(); err != nil {
				return err
			}
		case <-deadline:
			h.ctrl.Pause()
			done, err := h.capture()
			if err != nil {
				return err
			}
			if err := <-done; err != nil {
				log.Warn("screenshot failed", "err", err)
			}
			h.ctrl.Stop()
			<-h.ctrl.Done()
			log.Info("stopped", "frames", h.engine.frames.Load(), "state", h.ctrl.State())
			return nil
		}
	}
}
