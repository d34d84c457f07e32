// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"fmt"
	"sort"
	"sync"
)

// Native is one context of a native graphics API.
//
// Currency is per OS thread: MakeCurrent, ClearCurrent, IsCurrent and Swap
// act on the calling thread. Implementations must refuse to make a context
// current on a thread while it is current on another one.
type Native interface {
	// MakeCurrent binds the context to the calling thread, replacing
	// whatever context was current there.
	MakeCurrent() error

	// ClearCurrent unbinds the context from the calling thread. It is a
	// no-op when the context is not current here.
	ClearCurrent() error

	// IsCurrent reports whether the context is current on the calling thread.
	IsCurrent() bool

	// Swap presents the back buffer. The context must be current.
	Swap() error

	// SetSwapInterval sets the number of vertical blanks per swap.
	// Zero disables frame pacing.
	SetSwapInterval(interval int) error

	// Namespace returns the GPU object namespace of the context.
	Namespace() *Namespace

	// Adopt switches the context to ns, sharing every object in it.
	Adopt(ns *Namespace) error

	// Suspend detaches the context from whatever thread it is current on.
	// resume restores the previous binding.
	Suspend() (resume func() error, err error)

	// Extensions lists the API extensions the context supports.
	Extensions() []string

	// Destroy releases the context. It is unbound from every thread first.
	Destroy() error
}

// Driver creates native contexts.
type Driver interface {
	// Name returns the registry name of the driver.
	Name() string

	// CreateContext creates a context presenting into info.
	CreateContext(info SurfaceInfo) (Native, error)

	// CreateSharedContext creates a context that shares share's namespace.
	// A nil surface requests a windowless context.
	CreateSharedContext(share Native, surface *SurfaceInfo) (Native, error)
}

// DriverFactory opens a driver.
type DriverFactory func() (Driver, error)

var (
	registryMu sync.RWMutex
	drivers    = make(map[string]DriverFactory)
)

// Register registers a driver factory under name.
// This is typically called from init() functions in driver packages.
// Registering a name twice replaces the previous factory.
func Register(name string, factory DriverFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	drivers[name] = factory
}

// Unregister removes a driver from the registry.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(drivers, name)
}

// Available returns the registered driver names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens the driver registered under name.
func Open(name string) (Driver, error) {
	registryMu.RLock()
	factory, ok := drivers[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDriverNotFound, name)
	}
	return factory()
}
