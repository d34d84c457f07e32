// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software provides an in-process context driver.
//
// The driver keeps no GPU state of its own: namespaces are plain gfx
// namespaces and swaps are counted. It enforces the same currency rules a
// native API does, and reports violations as errors instead of undefined
// behavior, which makes it the reference driver for headless hosts and for
// tests that check thread affinity.
//
// Importing the package registers the driver as "software":
//
//	import _ "github.com/gogpu/emuhost/gfx/software"
package software

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/gogpu/emuhost/gfx"
	"github.com/gogpu/emuhost/internal/osthread"
)

// Name is the registry name of the driver.
const Name = "software"

// DefaultExtensions are the extensions reported when none are configured.
var DefaultExtensions = []string{
	"ARB_buffer_storage",
	"ARB_direct_state_access",
	"ARB_vertex_type_10f_11f_11f_rev",
	"ARB_texture_mirror_clamp_to_edge",
	"ARB_multi_bind",
	"ARB_clip_control",
	"EXT_texture_compression_s3tc",
	"ARB_texture_compression_rgtc",
	"ARB_depth_buffer_float",
}

var (
	// ErrDestroyed is returned when a destroyed context is used.
	ErrDestroyed = errors.New("software: context destroyed")

	// ErrNotCurrent is returned by Swap on a context not current on the
	// calling thread.
	ErrNotCurrent = errors.New("software: swap on a context that is not current")
)

func init() {
	gfx.Register(Name, func() (gfx.Driver, error) {
		return New(), nil
	})
}

// Option configures a Driver.
type Option func(*Driver)

// WithExtensions sets the extensions every context reports.
func WithExtensions(ext ...string) Option {
	return func(d *Driver) {
		d.extensions = slices.Clone(ext)
	}
}

// WithCreateError makes every context creation fail with err.
func WithCreateError(err error) Option {
	return func(d *Driver) {
		d.createErr = err
	}
}

// Driver is the software context driver.
type Driver struct {
	bindings   gfx.Bindings
	extensions []string
	createErr  error

	mu       sync.Mutex
	contexts []*Context
	nextID   atomic.Uint64
}

// New creates a software driver.
func New(opts ...Option) *Driver {
	d := &Driver{extensions: DefaultExtensions}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns "software".
func (d *Driver) Name() string { return Name }

// CreateContext creates a context with a fresh namespace.
func (d *Driver) CreateContext(info gfx.SurfaceInfo) (gfx.Native, error) {
	if d.createErr != nil {
		return nil, d.createErr
	}
	return d.newContext(gfx.NewNamespace(nil), &info), nil
}

// CreateSharedContext creates a context sharing share's namespace.
func (d *Driver) CreateSharedContext(share gfx.Native, surface *gfx.SurfaceInfo) (gfx.Native, error) {
	if d.createErr != nil {
		return nil, d.createErr
	}
	src, ok := share.(*Context)
	if !ok || src.driver != d {
		return nil, gfx.ErrForeignContext
	}
	if src.destroyed.Load() {
		return nil, ErrDestroyed
	}
	return d.newContext(src.Namespace(), surface), nil
}

// Current returns the context current on the calling thread, or nil.
func (d *Driver) Current() *Context {
	c, _ := d.bindings.Current().(*Context)
	return c
}

// ClearThread releases whatever context is current on the calling thread,
// as an unrelated library sharing the thread would.
func (d *Driver) ClearThread() {
	d.bindings.ClearThread()
}

// Contexts returns every context created by the driver, in creation order.
func (d *Driver) Contexts() []*Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.contexts)
}

func (d *Driver) newContext(ns *gfx.Namespace, surface *gfx.SurfaceInfo) *Context {
	c := &Context{
		driver: d,
		id:     d.nextID.Add(1),
		ns:     ns,
	}
	if surface != nil {
		info := *surface
		c.surface = &info
	}
	d.mu.Lock()
	d.contexts = append(d.contexts, c)
	d.mu.Unlock()
	return c
}

// Context is a software native context.
type Context struct {
	driver  *Driver
	id      uint64
	surface *gfx.SurfaceInfo

	mu       sync.Mutex
	ns       *gfx.Namespace
	interval int
	swaps    int
	binds    int

	destroyed atomic.Bool
}

var _ gfx.Native = (*Context)(nil)

// ID returns the creation sequence number of the context.
func (c *Context) ID() uint64 { return c.id }

// Windowless reports whether the context has no surface.
func (c *Context) Windowless() bool { return c.surface == nil || c.surface.Windowless() }

// Surface returns the surface the context was created for, or nil.
func (c *Context) Surface() *gfx.SurfaceInfo { return c.surface }

// Thread returns the thread the context is current on, or osthread.None.
func (c *Context) Thread() osthread.ID { return c.driver.bindings.ThreadOf(c) }

// MakeCurrent binds the context to the calling thread.
func (c *Context) MakeCurrent() error {
	if c.destroyed.Load() {
		return ErrDestroyed
	}
	if err := c.driver.bindings.Bind(c); err != nil {
		return err
	}
	c.mu.Lock()
	c.binds++
	c.mu.Unlock()
	return nil
}

// ClearCurrent releases the context from the calling thread.
func (c *Context) ClearCurrent() error {
	c.driver.bindings.Unbind(c)
	return nil
}

// IsCurrent reports whether the context is current on the calling thread.
func (c *Context) IsCurrent() bool {
	return c.driver.bindings.IsBound(c)
}

// Swap counts a presented frame.
func (c *Context) Swap() error {
	if c.destroyed.Load() {
		return ErrDestroyed
	}
	if !c.IsCurrent() {
		return ErrNotCurrent
	}
	c.mu.Lock()
	c.swaps++
	c.mu.Unlock()
	return nil
}

// SetSwapInterval records the swap interval.
func (c *Context) SetSwapInterval(interval int) error {
	if interval < 0 {
		return errors.New("software: negative swap interval")
	}
	c.mu.Lock()
	c.interval = interval
	c.mu.Unlock()
	return nil
}

// Namespace returns the context's namespace.
func (c *Context) Namespace() *gfx.Namespace {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ns
}

// Adopt switches the context to ns.
func (c *Context) Adopt(ns *gfx.Namespace) error {
	if c.destroyed.Load() {
		return ErrDestroyed
	}
	c.mu.Lock()
	c.ns = ns
	c.mu.Unlock()
	return nil
}

// Suspend detaches the context from its thread.
func (c *Context) Suspend() (func() error, error) {
	if c.destroyed.Load() {
		return nil, ErrDestroyed
	}
	restore := c.driver.bindings.Detach(c)
	return func() error {
		restore()
		return nil
	}, nil
}

// Extensions returns the driver's configured extensions.
func (c *Context) Extensions() []string {
	return slices.Clone(c.driver.extensions)
}

// Destroy unbinds and destroys the context.
func (c *Context) Destroy() error {
	if c.destroyed.Swap(true) {
		return nil
	}
	c.driver.bindings.Forget(c)
	return nil
}

// Destroyed reports whether Destroy has been called.
func (c *Context) Destroyed() bool { return c.destroyed.Load() }

// SwapInterval returns the last interval set.
func (c *Context) SwapInterval() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}

// Swaps returns the number of frames presented.
func (c *Context) Swaps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.swaps
}

// Binds returns the number of successful MakeCurrent calls.
func (c *Context) Binds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.binds
}
