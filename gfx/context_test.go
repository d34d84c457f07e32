// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx_test

import (
	"errors"
	"testing"

	"github.com/gogpu/emuhost/gfx"
	"github.com/gogpu/emuhost/gfx/software"
)

func newPair(t *testing.T) (*software.Driver, *gfx.Context, *gfx.Context) {
	t.Helper()
	drv := software.New()
	f := gfx.NewFactory(drv)
	primary, err := f.CreatePrimary(window)
	if err != nil {
		t.Fatalf("CreatePrimary() error = %v", err)
	}
	derived, err := f.CreateShared(primary, &window)
	if err != nil {
		t.Fatalf("CreateShared() error = %v", err)
	}
	t.Cleanup(func() { _ = primary.Close() })
	return drv, primary, derived
}

func TestMakeCurrentIdempotent(t *testing.T) {
	_, primary, _ := newPair(t)
	native := primary.Native().(*software.Context)

	th := newThread()
	defer th.stop()
	th.do(func() {
		for i := 0; i < 3; i++ {
			if err := primary.MakeCurrent(); err != nil {
				t.Errorf("MakeCurrent() #%d error = %v", i, err)
				return
			}
		}
		if native.Binds() != 1 {
			t.Errorf("native binds = %d, want 1", native.Binds())
		}
	})
}

func TestMakeCurrentReassertsAfterExternalRelease(t *testing.T) {
	drv, primary, _ := newPair(t)
	native := primary.Native().(*software.Context)

	th := newThread()
	defer th.stop()
	th.do(func() {
		if err := primary.MakeCurrent(); err != nil {
			t.Errorf("MakeCurrent() error = %v", err)
			return
		}
		// An unrelated library releases the thread's context.
		drv.ClearThread()
		if native.IsCurrent() {
			t.Error("context still current after ClearThread")
			return
		}
		if err := primary.MakeCurrent(); err != nil {
			t.Errorf("MakeCurrent() after release error = %v", err)
			return
		}
		if !native.IsCurrent() {
			t.Error("MakeCurrent did not re-bind the context")
		}
		if native.Binds() != 2 {
			t.Errorf("native binds = %d, want 2", native.Binds())
		}
	})
}

func TestContextNeverCurrentOnTwoThreads(t *testing.T) {
	_, primary, _ := newPair(t)

	a, b := newThread(), newThread()
	defer a.stop()
	defer b.stop()

	a.do(func() {
		if err := primary.MakeCurrent(); err != nil {
			t.Errorf("MakeCurrent() on A error = %v", err)
			return
		}
	})
	b.do(func() {
		if err := primary.MakeCurrent(); !errors.Is(err, gfx.ErrCurrentElsewhere) {
			t.Errorf("MakeCurrent() on B while current on A = %v, want ErrCurrentElsewhere", err)
		}
		if err := primary.DoneCurrent(); err != nil {
			t.Errorf("DoneCurrent() on B = %v, want no-op", err)
		}
	})
	a.do(func() {
		if !primary.Native().IsCurrent() {
			t.Error("B's DoneCurrent released A's binding")
		}
		if err := primary.DoneCurrent(); err != nil {
			t.Errorf("DoneCurrent() on A error = %v", err)
			return
		}
	})
	b.do(func() {
		if err := primary.MakeCurrent(); err != nil {
			t.Errorf("MakeCurrent() on B after A released = %v", err)
		}
		_ = primary.DoneCurrent()
	})
}

func TestOneCurrentContextPerThread(t *testing.T) {
	drv, primary, derived := newPair(t)

	th := newThread()
	defer th.stop()
	th.do(func() {
		if err := primary.MakeCurrent(); err != nil {
			t.Errorf("MakeCurrent(primary) error = %v", err)
			return
		}
		if err := derived.MakeCurrent(); err != nil {
			t.Errorf("MakeCurrent(derived) error = %v", err)
			return
		}
		if drv.Current() != derived.Native() {
			t.Error("thread's current context is not the derived one")
		}
		if primary.Native().IsCurrent() {
			t.Error("two contexts current on one thread")
		}
	})

	// The displaced primary can move to another thread.
	other := newThread()
	defer other.stop()
	other.do(func() {
		if err := primary.MakeCurrent(); err != nil {
			t.Errorf("MakeCurrent(primary) on second thread = %v", err)
		}
	})
}

func TestSwapBuffersRequiresCurrent(t *testing.T) {
	_, primary, derived := newPair(t)
	native := derived.Native().(*software.Context)

	th := newThread()
	defer th.stop()
	th.do(func() {
		if err := derived.SwapBuffers(); !errors.Is(err, gfx.ErrNotCurrent) {
			t.Errorf("SwapBuffers() while not current = %v, want ErrNotCurrent", err)
		}
		release, err := derived.Acquire()
		if err != nil {
			t.Errorf("Acquire() error = %v", err)
			return
		}
		if err := derived.SwapBuffers(); err != nil {
			t.Errorf("SwapBuffers() while current = %v", err)
		}
		release()
		if native.IsCurrent() {
			t.Error("release did not clear currency")
		}
	})
	if native.Swaps() != 1 {
		t.Errorf("swaps = %d, want 1", native.Swaps())
	}
	_ = primary
}

func TestClosedContextRejectsUse(t *testing.T) {
	_, _, derived := newPair(t)
	if err := derived.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	th := newThread()
	defer th.stop()
	th.do(func() {
		if err := derived.MakeCurrent(); !errors.Is(err, gfx.ErrClosed) {
			t.Errorf("MakeCurrent() after Close = %v, want ErrClosed", err)
		}
	})
}

func TestRegistry(t *testing.T) {
	const name = "registry-test"
	drv := software.New()
	gfx.Register(name, func() (gfx.Driver, error) { return drv, nil })
	t.Cleanup(func() { gfx.Unregister(name) })

	got, err := gfx.Open(name)
	if err != nil || got != drv {
		t.Fatalf("Open(%q) = %v, %v", name, got, err)
	}
	found := false
	for _, n := range gfx.Available() {
		if n == name {
			found = true
		}
	}
	if !found {
		t.Errorf("Available() = %v, missing %q", gfx.Available(), name)
	}

	gfx.Unregister(name)
	if _, err := gfx.Open(name); !errors.Is(err, gfx.ErrDriverNotFound) {
		t.Errorf("Open after Unregister error = %v, want ErrDriverNotFound", err)
	}
}
