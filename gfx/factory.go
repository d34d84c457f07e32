// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"errors"
	"fmt"

	"github.com/gogpu/emuhost"
)

// FactoryOption configures a Factory.
type FactoryOption func(*factoryOptions)

type factoryOptions struct {
	share    Native
	interval int
	kind     Kind
	label    string
}

func defaultFactoryOptions() factoryOptions {
	return factoryOptions{
		kind:  KindSharedNamespace,
		label: "primary",
	}
}

// WithShareSource sets an externally created context whose namespace every
// primary context imports. This is how a host toolkit that initialized its
// own context first shares textures and buffers with the emulation core.
func WithShareSource(n Native) FactoryOption {
	return func(o *factoryOptions) {
		o.share = n
	}
}

// WithSwapInterval sets the swap interval of primary contexts.
// Derived contexts always use zero.
func WithSwapInterval(interval int) FactoryOption {
	return func(o *factoryOptions) {
		o.interval = interval
	}
}

// WithKind sets the kind of primary contexts. The default is
// KindSharedNamespace.
func WithKind(k Kind) FactoryOption {
	return func(o *factoryOptions) {
		o.kind = k
	}
}

// WithLabel sets the debug label of primary contexts.
func WithLabel(label string) FactoryOption {
	return func(o *factoryOptions) {
		o.label = label
	}
}

// Factory creates primary contexts and contexts derived from them.
//
// Factory holds no per-context state; it is safe for concurrent use as long
// as the driver is.
type Factory struct {
	driver Driver
	opts   factoryOptions
}

// NewFactory returns a factory creating contexts through driver.
func NewFactory(driver Driver, opts ...FactoryOption) *Factory {
	o := defaultFactoryOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Factory{driver: driver, opts: o}
}

// Driver returns the driver used by the factory.
func (f *Factory) Driver() Driver { return f.driver }

// CreatePrimary creates a primary context presenting into info.
//
// When a share source is configured, the new context imports its namespace
// before CreatePrimary returns. Both contexts are detached from every thread
// for the duration of the import and restored afterwards.
//
// On failure the returned Context is a failed handle whose methods return
// the same error. Failures are not retried.
func (f *Factory) CreatePrimary(info SurfaceInfo) (*Context, error) {
	label := f.opts.label
	native, err := f.driver.CreateContext(info)
	if err != nil {
		return f.fail(label, err)
	}
	if f.opts.share != nil {
		if err := importNamespace(f.opts.share, native); err != nil {
			_ = native.Destroy()
			return f.fail(label, err)
		}
	}
	if err := native.SetSwapInterval(f.opts.interval); err != nil {
		emuhost.Logger().Warn("gfx: swap interval rejected", "context", label, "interval", f.opts.interval, "err", err)
	}

	emuhost.Logger().Debug("gfx: primary context created",
		"driver", f.driver.Name(), "kind", f.opts.kind, "shared", f.opts.share != nil)
	return newContext(f.opts.kind, label, native, f.opts.interval), nil
}

// CreateShared creates a context that shares primary's namespace. It has its
// own thread affinity and never paces frames. A nil surface requests a
// windowless context.
//
// Deriving from a KindNull primary yields another null context.
func (f *Factory) CreateShared(primary *Context, surface *SurfaceInfo) (*Context, error) {
	label := primary.sharedLabel()
	if primary == nil {
		return newFailedContext(KindSharedNamespace, label, ErrNilContext), ErrNilContext
	}
	if err := primary.Err(); err != nil {
		return newFailedContext(KindSharedNamespace, label, err), err
	}
	if primary.Kind() == KindNull {
		return NewNullContext(label), nil
	}
	if primary.Closed() {
		return newFailedContext(KindSharedNamespace, label, ErrClosed), ErrClosed
	}

	native, err := f.driver.CreateSharedContext(primary.native, surface)
	if err != nil {
		return f.fail(label, err)
	}
	if err := native.SetSwapInterval(0); err != nil {
		emuhost.Logger().Warn("gfx: swap interval rejected", "context", label, "interval", 0, "err", err)
	}

	ctx := newContext(KindSharedNamespace, label, native, 0)
	if err := primary.addChild(ctx); err != nil {
		_ = native.Destroy()
		return newFailedContext(KindSharedNamespace, label, err), err
	}
	return ctx, nil
}

func (f *Factory) fail(label string, cause error) (*Context, error) {
	err := fmt.Errorf("%w: %s %s: %w", ErrContextCreation, f.driver.Name(), label, cause)
	emuhost.Logger().Error("gfx: context creation failed", "driver", f.driver.Name(), "context", label, "err", cause)
	return newFailedContext(f.opts.kind, label, err), err
}

func (c *Context) sharedLabel() string {
	if c == nil {
		return "shared"
	}
	return c.label + "/shared"
}

// importNamespace merges dst's namespace into src's and switches dst to it,
// with both contexts detached from every thread while it happens.
func importNamespace(src, dst Native) error {
	resumeSrc, err := src.Suspend()
	if err != nil {
		return fmt.Errorf("suspending share source: %w", err)
	}
	resumeDst, err := dst.Suspend()
	if err != nil {
		return errors.Join(fmt.Errorf("suspending new context: %w", err), resumeSrc())
	}

	ns := src.Namespace()
	ns.Merge(dst.Namespace())
	err = dst.Adopt(ns)

	return errors.Join(err, resumeDst(), resumeSrc())
}
