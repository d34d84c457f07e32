// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"fmt"
	"sync"

	"github.com/gogpu/emuhost"
	"github.com/gogpu/emuhost/internal/osthread"
)

// Context is a handle to one native graphics context.
//
// Context must not be copied. A handle whose native context failed to
// construct keeps the error: every method is a no-op that returns it again.
// A KindNull handle succeeds on every call and does nothing.
type Context struct {
	mu sync.Mutex

	kind     Kind
	label    string
	native   Native
	err      error
	interval int

	// thread is the thread this handle last bound the context to.
	thread osthread.ID
	closed bool

	parent   *Context
	children map[*Context]struct{}
}

func newContext(kind Kind, label string, native Native, interval int) *Context {
	return &Context{
		kind:     kind,
		label:    label,
		native:   native,
		interval: interval,
	}
}

// NewNullContext returns a context of kind KindNull.
func NewNullContext(label string) *Context {
	return newContext(KindNull, label, nil, 0)
}

// newFailedContext returns a handle that re-reports err from every method.
func newFailedContext(kind Kind, label string, err error) *Context {
	c := newContext(kind, label, nil, 0)
	c.err = err
	return c
}

// Kind returns the context variant.
func (c *Context) Kind() Kind { return c.kind }

// Label returns the debug label given at creation.
func (c *Context) Label() string { return c.label }

// Err returns the construction error of a failed handle, or nil.
func (c *Context) Err() error { return c.err }

// SwapInterval returns the swap interval applied at creation.
func (c *Context) SwapInterval() int { return c.interval }

// Native returns the native context, or nil for null and failed handles.
func (c *Context) Native() Native { return c.native }

// Namespace returns the GPU object namespace, or nil for null and failed
// handles.
func (c *Context) Namespace() *Namespace {
	if c.native == nil {
		return nil
	}
	return c.native.Namespace()
}

// MakeCurrent binds the context to the calling thread. The caller must be
// locked to its OS thread.
//
// Repeated calls from the bound thread are cheap. The handle does not trust
// its own bookkeeping: if another library released the context on this
// thread in the meantime, MakeCurrent binds it again.
func (c *Context) MakeCurrent() error {
	if c.err != nil {
		return c.err
	}
	if c.native == nil {
		return nil
	}
	tid := osthread.Current()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.thread != osthread.None && c.thread != tid && !c.lostElsewhere() {
		return fmt.Errorf("%w: %s bound to thread %v", ErrCurrentElsewhere, c.label, c.thread)
	}
	if c.thread == tid && c.native.IsCurrent() {
		return nil
	}
	if err := c.native.MakeCurrent(); err != nil {
		return err
	}
	c.thread = tid
	emuhost.Logger().Debug("gfx: make current", "context", c.label, "thread", tid)
	return nil
}

// lostElsewhere reports whether the native layer no longer has the context
// bound to the thread recorded in c.thread. Only drivers that can observe
// other threads answer; others are assumed still bound.
func (c *Context) lostElsewhere() bool {
	type threadReporter interface {
		Thread() osthread.ID
	}
	tr, ok := c.native.(threadReporter)
	return ok && tr.Thread() != c.thread
}

// DoneCurrent releases the context from the calling thread. It does nothing
// when the context is not current here.
func (c *Context) DoneCurrent() error {
	if c.err != nil {
		return c.err
	}
	if c.native == nil {
		return nil
	}
	tid := osthread.Current()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.thread != tid {
		return nil
	}
	if c.native.IsCurrent() {
		if err := c.native.ClearCurrent(); err != nil {
			return err
		}
	}
	c.thread = osthread.None
	emuhost.Logger().Debug("gfx: done current", "context", c.label, "thread", tid)
	return nil
}

// SwapBuffers presents the back buffer. The context must be current on the
// calling thread.
func (c *Context) SwapBuffers() error {
	if c.err != nil {
		return c.err
	}
	if c.native == nil {
		return nil
	}
	tid := osthread.Current()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.thread != tid || !c.native.IsCurrent() {
		return fmt.Errorf("%w: %s", ErrNotCurrent, c.label)
	}
	return c.native.Swap()
}

// Acquire makes the context current and returns a function that releases
// it again.
//
//	release, err := ctx.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer release()
func (c *Context) Acquire() (release func(), err error) {
	if err := c.MakeCurrent(); err != nil {
		return func() {}, err
	}
	return func() { _ = c.DoneCurrent() }, nil
}

// Close destroys the context. Derived contexts still open are closed first.
// Close is idempotent.
func (c *Context) Close() error {
	if c.err != nil {
		return nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	children := make([]*Context, 0, len(c.children))
	for child := range c.children {
		children = append(children, child)
	}
	c.children = nil
	parent := c.parent
	c.parent = nil
	c.mu.Unlock()

	for _, child := range children {
		if err := child.Close(); err != nil {
			emuhost.Logger().Warn("gfx: closing derived context", "context", child.label, "err", err)
		}
	}
	if parent != nil {
		parent.removeChild(c)
	}
	if c.native == nil {
		return nil
	}

	c.mu.Lock()
	c.thread = osthread.None
	c.mu.Unlock()
	if err := c.native.Destroy(); err != nil {
		return fmt.Errorf("gfx: destroying %s: %w", c.label, err)
	}
	emuhost.Logger().Debug("gfx: context destroyed", "context", c.label)
	return nil
}

// Closed reports whether Close has been called.
func (c *Context) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Derived returns the number of open contexts derived from c.
func (c *Context) Derived() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.children)
}

func (c *Context) addChild(child *Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.children == nil {
		c.children = make(map[*Context]struct{})
	}
	c.children[child] = struct{}{}
	child.parent = c
	return nil
}

func (c *Context) removeChild(child *Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.children, child)
}
