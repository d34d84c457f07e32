// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/emuhost"
	"github.com/gogpu/emuhost/emuthread"
	"github.com/gogpu/emuhost/input"
	"github.com/gogpu/emuhost/internal/osthread"
	"github.com/gogpu/emuhost/layout"
	"github.com/gogpu/emuhost/video"
)

// demoEngine advances a frame counter once per run step, four at a time
// while space is held.
type demoEngine struct {
	delay     time.Duration
	failAfter uint64
	keys      *input.State

	frames atomic.Uint64

	mu      sync.Mutex
	details string
}

func (e *demoEngine) RegisterHostThread() {
	emuhost.Logger().Info("demo: engine thread registered", "thread", osthread.Current())
}

func (e *demoEngine) Run() emuthread.Result {
	time.Sleep(e.delay)
	step := uint64(1)
	if e.keys != nil && e.keys.Held(gpucontext.KeySpace) {
		step = 4
	}
	n := e.frames.Add(step)
	if e.failAfter > 0 && n >= e.failAfter {
		e.mu.Lock()
		e.details = fmt.Sprintf("demo fault injected at frame %d", n)
		e.mu.Unlock()
		e.failAfter = 0
		return emuthread.ResultErrorGeneric
	}
	return emuthread.ResultSuccess
}

func (e *demoEngine) Pause() emuthread.Result { return emuthread.ResultSuccess }

func (e *demoEngine) Shutdown() {
	emuhost.Logger().Info("demo: engine shut down", "frames", e.frames.Load())
}

func (e *demoEngine) StatusDetails() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.details
}

// demoRenderer draws a gradient keyed to the engine's frame counter.
type demoRenderer struct {
	engine  *demoEngine
	scale   uint32
	shaders int
}

func (r *demoRenderer) LoadDiskResources(ctx context.Context, progress video.ProgressFunc) error {
	for i := 1; i <= r.shaders; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
		progress(video.LoadBuild, i, r.shaders)
	}
	return nil
}

func (r *demoRenderer) ResolutionScaleFactor() uint32 { return max(r.scale, 1) }

// RequestScreenshot fills buf on a render goroutine, bottom row first.
func (r *demoRenderer) RequestScreenshot(buf []byte, done func(), fb layout.Framebuffer) {
	frame := byte(r.engine.frames.Load())
	go func() {
		for y := 0; y < fb.Height; y++ {
			row := buf[y*fb.Width*4 : (y+1)*fb.Width*4]
			for x := 0; x < fb.Width; x++ {
				px := row[x*4 : x*4+4]
				px[0] = frame
				px[1] = byte(y * 255 / max(fb.Height-1, 1))
				px[2] = byte(x * 255 / max(fb.Width-1, 1))
			}
		}
		done()
	}()
}
