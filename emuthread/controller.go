// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package emuthread drives an emulation engine on a dedicated OS thread.
//
// A [Controller] owns exactly one goroutine, locked to its OS thread for
// its whole life. The interactive thread starts, pauses and stops it;
// transitions and failures are reported through a notify.Notifier.
//
//	c := emuthread.New(emuthread.Config{
//	    Engine:   engine,
//	    Renderer: renderer,
//	    Context:  window.MainContext(),
//	    Notifier: queue,
//	})
//	c.Start()
//	...
//	c.Pause() // returns once the engine is paused
//	...
//	c.Stop()
//	c.Wait(ctx)
package emuthread

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/gogpu/emuhost"
	"github.com/gogpu/emuhost/gfx"
	"github.com/gogpu/emuhost/notify"
	"github.com/gogpu/emuhost/video"
)

// Engine is the emulated machine. All methods are called from the
// controller's thread.
type Engine interface {
	// RegisterHostThread is called once when the thread starts.
	RegisterHostThread()
	// Run executes one bounded run step.
	Run() Result
	// Pause halts execution after a run phase.
	Pause() Result
	// Shutdown is called once before the thread exits.
	Shutdown()
	// StatusDetails describes the last failure.
	StatusDetails() string
}

// Config configures a Controller. Engine is required.
type Config struct {
	Engine Engine

	// Renderer loads disk resources before the first run. Optional.
	Renderer video.Renderer

	// Context is the primary graphics context. It is made current on the
	// controller's thread for the thread's lifetime and must not be made
	// current anywhere else meanwhile. Optional.
	Context *gfx.Context

	// Notifier receives events. Defaults to notify.Discard.
	Notifier notify.Notifier

	// Parent stops the controller when cancelled. Optional.
	Parent context.Context
}

// Controller runs an Engine on its own OS thread.
type Controller struct {
	engine   Engine
	renderer video.Renderer
	gctx     *gfx.Context
	notifier notify.Notifier

	mu      sync.Mutex
	cond    *sync.Cond
	state   State
	running bool
	stop    bool
	inPhase bool // the thread has committed to a run phase

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a controller and launches its thread. The controller starts
// Idle; call Start to run the engine.
func New(cfg Config) *Controller {
	if cfg.Engine == nil {
		panic("emuthread: nil Engine")
	}
	parent := cfg.Parent
	if parent == nil {
		parent = context.Background()
	}
	n := cfg.Notifier
	if n == nil {
		n = notify.Discard
	}

	c := &Controller{
		engine:   cfg.Engine,
		renderer: cfg.Renderer,
		gctx:     cfg.Context,
		notifier: n,
		done:     make(chan struct{}),
	}
	c.cond = sync.NewCond(&c.mu)
	c.ctx, c.cancel = context.WithCancel(parent)
	context.AfterFunc(c.ctx, c.Stop)

	go c.thread()
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsRunning reports whether the running flag is set.
func (c *Controller) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Start sets the running flag and wakes the thread. It reports false, and
// does nothing, unless the state is Idle, PauseRequested or Errored.
func (c *Controller) Start() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateIdle, StatePauseRequested, StateErrored:
	default:
		return false
	}
	c.running = true
	c.state = StateRunning
	c.cond.Broadcast()
	emuhost.Logger().Debug("emuthread: start requested")
	return true
}

// Pause asks the thread to pause and blocks until it has. It reports
// whether the controller is Idle on return.
//
// Pause is a no-op from any state but Running and PauseRequested. A call
// made while another pause is in flight waits for the same
// acknowledgement.
func (c *Controller) Pause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateRunning:
		c.running = false
		if !c.inPhase {
			// The thread has not picked up the run request yet.
			c.state = StateIdle
			return true
		}
		c.state = StatePauseRequested
		c.cond.Broadcast()
		emuhost.Logger().Debug("emuthread: pause requested")
	case StatePauseRequested:
	default:
		return false
	}
	for c.state == StatePauseRequested {
		c.cond.Wait()
	}
	return c.state == StateIdle
}

// Stop moves the controller to Stopped and wakes the thread, which shuts
// the engine down and exits. Stop does not wait; use Wait or Done.
// Stop is idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.stop {
		c.mu.Unlock()
		return
	}
	c.stop = true
	c.running = false
	c.state = StateStopped
	c.cond.Broadcast()
	c.mu.Unlock()

	c.cancel()
	emuhost.Logger().Debug("emuthread: stop requested")
}

// Done is closed when the thread has exited.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Wait blocks until the thread has exited or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the controller and waits for its thread.
func (c *Controller) Close() error {
	c.Stop()
	<-c.done
	return nil
}

func (c *Controller) emit(e notify.Event) {
	c.notifier.Notify(e)
}

func (c *Controller) thread() {
	defer close(c.done)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	log := emuhost.Logger()
	log.Info("emuthread: execution thread started")

	c.engine.RegisterHostThread()
	if c.gctx != nil {
		if err := c.gctx.MakeCurrent(); err != nil {
			log.Warn("emuthread: primary context unavailable", "err", err)
		}
	}

	c.load()
	c.loop()

	c.engine.Shutdown()
	if c.gctx != nil {
		_ = c.gctx.DoneCurrent()
	}
	log.Info("emuthread: execution thread stopped")
	c.emit(notify.Event{Type: notify.Closed})
}

func (c *Controller) load() {
	c.emit(notify.Event{Type: notify.LoadProgress, Stage: video.LoadPrepare})
	if c.renderer != nil {
		progress := func(stage video.LoadStage, value, total int) {
			c.emit(notify.Event{Type: notify.LoadProgress, Stage: stage, Value: value, Total: total})
		}
		err := c.renderer.LoadDiskResources(c.ctx, progress)
		if err != nil && !errors.Is(err, context.Canceled) {
			emuhost.Logger().Warn("emuthread: loading disk resources failed", "err", err)
		}
	}
	c.emit(notify.Event{Type: notify.LoadProgress, Stage: video.LoadComplete})
}

// loop alternates between run phases and waiting. It returns on Stop.
func (c *Controller) loop() {
	var debugMode, stepped bool
	for {
		c.mu.Lock()
		for !c.running && !c.stop {
			c.cond.Wait()
		}
		if c.stop {
			c.mu.Unlock()
			return
		}
		c.inPhase = true
		c.mu.Unlock()

		if debugMode {
			debugMode = false
			c.emit(notify.Event{Type: notify.DebugModeLeft})
		}

		n, failed := c.runPhase()
		stepped = stepped || n > 0

		if c.stopped() {
			return
		}
		if !failed {
			if r := c.engine.Pause(); !r.OK() {
				c.fail(r)
				failed = true
			}
		}
		if !failed && stepped {
			debugMode = true
			c.emit(notify.Event{Type: notify.DebugModeEntered})
		}

		c.mu.Lock()
		c.inPhase = false
		if c.state == StatePauseRequested {
			c.state = StateIdle
		}
		c.cond.Broadcast()
		c.mu.Unlock()
	}
}

// runPhase steps the engine while running. It returns the number of
// successful steps and whether a step failed.
func (c *Controller) runPhase() (steps int, failed bool) {
	emuhost.Logger().Debug("emuthread: run phase entered")
	for {
		c.mu.Lock()
		run := c.running && !c.stop
		c.mu.Unlock()
		if !run {
			return steps, false
		}
		if r := c.engine.Run(); !r.OK() {
			c.fail(r)
			return steps, true
		}
		steps++
	}
}

// fail moves the controller to Errored and reports r.
func (c *Controller) fail(r Result) {
	details := c.engine.StatusDetails()

	c.mu.Lock()
	c.running = false
	if !c.stop {
		c.state = StateErrored
	}
	c.mu.Unlock()

	emuhost.Logger().Warn("emuthread: engine error", "result", r, "details", details)
	c.emit(notify.Event{Type: notify.ErrorThrown, Result: r, Details: details})
}

func (c *Controller) stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop
}
