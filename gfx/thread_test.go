// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx_test

import "runtime"

// thread is a goroutine locked to one OS thread that runs submitted
// functions in order.
type thread struct {
	work chan func()
	done chan struct{}
}

func newThread() *thread {
	th := &thread{work: make(chan func()), done: make(chan struct{})}
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(th.done)
		for fn := range th.work {
			fn()
		}
	}()
	return th
}

// do runs fn on the thread and waits for it.
func (th *thread) do(fn func()) {
	finished := make(chan struct{})
	th.work <- func() {
		defer close(finished)
		fn()
	}
	<-finished
}

func (th *thread) stop() {
	close(th.work)
	<-th.done
}
