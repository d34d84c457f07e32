// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"errors"
	"sync"

	"github.com/gogpu/emuhost/gfx"
	"github.com/gogpu/emuhost/internal/osthread"
)

// Context is a native context on a HAL device.
//
// Vulkan has no thread currency of its own; the driver tracks it so the
// gfx affinity rules hold for every backend.
type Context struct {
	driver *Driver

	mu        sync.Mutex
	ns        *gfx.Namespace
	prov      *provider
	owned     bool // true when this context opened the device
	interval  int
	frames    uint64
	destroyed bool
}

var _ gfx.Native = (*Context)(nil)

// Thread returns the thread the context is current on, or osthread.None.
func (c *Context) Thread() osthread.ID { return c.driver.bindings.ThreadOf(c) }

// MakeCurrent binds the context to the calling thread.
func (c *Context) MakeCurrent() error {
	c.mu.Lock()
	destroyed := c.destroyed
	c.mu.Unlock()
	if destroyed {
		return ErrDestroyed
	}
	return c.driver.bindings.Bind(c)
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

// Swap ends the frame. Presentation to the window surface is owned by the
// renderer; the context only validates currency and counts frames.
func (c *Context) Swap() error {
	if !c.IsCurrent() {
		return gfx.ErrNotCurrent
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return ErrDestroyed
	}
	c.frames++
	return nil
}

// Frames returns the number of swaps.
func (c *Context) Frames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// SetSwapInterval records the present interval used when the renderer
// configures the surface.
func (c *Context) SetSwapInterval(interval int) error {
	if interval < 0 {
		return errors.New("wgpu: negative swap interval")
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

// Adopt switches the context to ns and its device. A device this context
// opened itself is destroyed.
func (c *Context) Adopt(ns *gfx.Namespace) error {
	p, err := providerOf(ns)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return ErrDestroyed
	}
	if c.prov != nil && c.prov.device != p.device && c.owned {
		c.prov.device.Destroy()
	}
	format := p.format
	if c.prov != nil {
		format = c.prov.format
	}
	c.prov = &provider{device: p.device, queue: p.queue, format: format}
	c.owned = false
	c.ns = ns
	return nil
}

// Suspend detaches the context from its thread.
func (c *Context) Suspend() (func() error, error) {
	restore := c.driver.bindings.Detach(c)
	return func() error {
		restore()
		return nil
	}, nil
}

// Extensions returns nil; Vulkan capability checks happen at device open.
func (c *Context) Extensions() []string { return nil }

// Destroy unbinds the context and destroys the device if it owns it.
func (c *Context) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return nil
	}
	c.destroyed = true
	c.driver.bindings.Forget(c)
	if c.owned && c.prov != nil {
		c.prov.device.Destroy()
	}
	return nil
}
