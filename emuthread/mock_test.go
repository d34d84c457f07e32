// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package emuthread

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/emuhost/layout"
	"github.com/gogpu/emuhost/notify"
	"github.com/gogpu/emuhost/video"
)

const timeout = 5 * time.Second

// mockEngine counts calls. run, when set, decides each step's result.
type mockEngine struct {
	run     func(step int64) Result
	details string

	registered atomic.Int32
	runs       atomic.Int64
	pauses     atomic.Int32
	shutdowns  atomic.Int32
}

func (e *mockEngine) RegisterHostThread() { e.registered.Add(1) }

func (e *mockEngine) Run() Result {
	n := e.runs.Add(1)
	time.Sleep(100 * time.Microsecond)
	if e.run != nil {
		return e.run(n)
	}
	return ResultSuccess
}

func (e *mockEngine) Pause() Result {
	e.pauses.Add(1)
	return ResultSuccess
}

func (e *mockEngine) Shutdown()             { e.shutdowns.Add(1) }
func (e *mockEngine) StatusDetails() string { return e.details }

// recorder collects events.
type recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recorder) Notify(e notify.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Event(nil), r.events...)
}

func (r *recorder) count(typ notify.EventType) int {
	n := 0
	for _, e := range r.snapshot() {
		if e.Type == typ {
			n++
		}
	}
	return n
}

// types returns the event types, skipping load progress.
func (r *recorder) types() []notify.EventType {
	var out []notify.EventType
	for _, e := range r.snapshot() {
		if e.Type != notify.LoadProgress {
			out = append(out, e.Type)
		}
	}
	return out
}

// waitFor polls until cond holds.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func waitDone(t *testing.T, c *Controller) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := c.Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
}

// mockRenderer reports progress and blocks loading until release is
// closed, if set.
type mockRenderer struct {
	release   chan struct{}
	cancelled atomic.Bool
}

func (r *mockRenderer) LoadDiskResources(ctx context.Context, progress video.ProgressFunc) error {
	for i := 1; i <= 3; i++ {
		progress(video.LoadBuild, i, 3)
	}
	if r.release == nil {
		return nil
	}
	select {
	case <-r.release:
		return nil
	case <-ctx.Done():
		r.cancelled.Store(true)
		return ctx.Err()
	}
}

func (r *mockRenderer) RequestScreenshot([]byte, func(), layout.Framebuffer) {}
func (r *mockRenderer) ResolutionScaleFactor() uint32                        { return 1 }
