// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"fmt"
	"sync"

	"github.com/gogpu/emuhost/internal/osthread"
)

// Bindings records which Native is current on which OS thread.
//
// Drivers use it to enforce the currency rules: a thread has at most one
// current context and a context is current on at most one thread. The zero
// value is ready to use.
type Bindings struct {
	mu       sync.Mutex
	byThread map[osthread.ID]Native
	byNative map[Native]osthread.ID
}

func (b *Bindings) init() {
	if b.byThread == nil {
		b.byThread = make(map[osthread.ID]Native)
		b.byNative = make(map[Native]osthread.ID)
	}
}

// Bind makes n current on the calling thread. The context previously
// current on the thread, if any, is unbound.
func (b *Bindings) Bind(n Native) error {
	tid := osthread.Current()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.init()

	if owner, ok := b.byNative[n]; ok && owner != tid {
		return fmt.Errorf("%w: bound to thread %v", ErrCurrentElsewhere, owner)
	}
	if prev, ok := b.byThread[tid]; ok && prev != n {
		delete(b.byNative, prev)
	}
	b.byThread[tid] = n
	b.byNative[n] = tid
	return nil
}

// Unbind releases n from the calling thread. It does nothing if n is not
// current here.
func (b *Bindings) Unbind(n Native) {
	tid := osthread.Current()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.init()

	if b.byThread[tid] == n {
		delete(b.byThread, tid)
		delete(b.byNative, n)
	}
}

// IsBound reports whether n is current on the calling thread.
func (b *Bindings) IsBound(n Native) bool {
	tid := osthread.Current()
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.byThread != nil && b.byThread[tid] == n
}

// Current returns the context current on the calling thread, or nil.
func (b *Bindings) Current() Native {
	tid := osthread.Current()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.byThread == nil {
		return nil
	}
	return b.byThread[tid]
}

// ThreadOf returns the thread n is current on, or osthread.None.
func (b *Bindings) ThreadOf(n Native) osthread.ID {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.byNative == nil {
		return osthread.None
	}
	return b.byNative[n]
}

// Detach unbinds n from whichever thread holds it. The returned function
// rebinds it to that thread unless the thread has since bound something
// else or n was rebound meanwhile.
func (b *Bindings) Detach(n Native) (restore func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.init()

	tid, ok := b.byNative[n]
	if !ok {
		return func() {}
	}
	delete(b.byNative, n)
	delete(b.byThread, tid)
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, busy := b.byThread[tid]; busy {
			return
		}
		if _, rebound := b.byNative[n]; rebound {
			return
		}
		b.byThread[tid] = n
		b.byNative[n] = tid
	}
}

// Forget removes every binding of n. Drivers call it when n is destroyed.
func (b *Bindings) Forget(n Native) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.init()

	if tid, ok := b.byNative[n]; ok {
		delete(b.byThread, tid)
		delete(b.byNative, n)
	}
}

// ClearThread unbinds whatever is current on the calling thread, the way
// an unrelated library releasing its own context would.
func (b *Bindings) ClearThread() {
	tid := osthread.Current()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.init()

	if n, ok := b.byThread[tid]; ok {
		delete(b.byThread, tid)
		delete(b.byNative, n)
	}
}
