// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/emuhost"
	"github.com/gogpu/emuhost/gfx"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Name is the registry name of the driver.
const Name = "vulkan"

// Package errors.
var (
	// ErrNoBackend is returned when the Vulkan HAL backend is not available.
	ErrNoBackend = errors.New("wgpu: vulkan backend not available")

	// ErrNoAdapter is returned when no GPU adapter is found.
	ErrNoAdapter = errors.New("wgpu: no GPU adapters found")

	// ErrNoHAL is returned when an imported provider does not expose HAL
	// device and queue.
	ErrNoHAL = errors.New("wgpu: provider does not expose HAL types")

	// ErrDestroyed is returned when a destroyed context is used.
	ErrDestroyed = errors.New("wgpu: context destroyed")
)

func init() {
	gfx.Register(Name, func() (gfx.Driver, error) {
		return New(), nil
	})
}

// Driver creates contexts on a Vulkan device.
type Driver struct {
	bindings gfx.Bindings

	mu       sync.Mutex
	instance hal.Instance
}

// New creates a driver. The HAL instance is created on first use.
func New() *Driver {
	return &Driver{}
}

// Name returns "vulkan".
func (d *Driver) Name() string { return Name }

// CreateContext opens a device and creates a context owning it.
func (d *Driver) CreateContext(info gfx.SurfaceInfo) (gfx.Native, error) {
	device, queue, name, err := d.open()
	if err != nil {
		return nil, err
	}
	p := &provider{device: device, queue: queue, format: surfaceFormat(info)}
	emuhost.Logger().Info("wgpu: device opened", "adapter", name)
	return &Context{
		driver: d,
		ns:     gfx.NewNamespace(p),
		prov:   p,
		owned:  true,
	}, nil
}

// CreateSharedContext creates a context on share's device.
func (d *Driver) CreateSharedContext(share gfx.Native, surface *gfx.SurfaceInfo) (gfx.Native, error) {
	src, ok := share.(*Context)
	if !ok {
		return nil, gfx.ErrForeignContext
	}
	src.mu.Lock()
	destroyed, ns := src.destroyed, src.ns
	src.mu.Unlock()
	if destroyed {
		return nil, ErrDestroyed
	}
	p, err := providerOf(ns)
	if err != nil {
		return nil, err
	}
	if surface != nil {
		p = &provider{device: p.device, queue: p.queue, format: surfaceFormat(*surface)}
	}
	return &Context{driver: d, ns: ns, prov: p}, nil
}

// Close destroys the HAL instance. Contexts must be destroyed first.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
	return nil
}

func (d *Driver) open() (hal.Device, hal.Queue, string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.instance == nil {
		backend, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return nil, nil, "", ErrNoBackend
		}
		instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
		if err != nil {
			return nil, nil, "", fmt.Errorf("wgpu: create instance: %w", err)
		}
		d.instance = instance
	}

	adapters := d.instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return nil, nil, "", ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return nil, nil, "", fmt.Errorf("wgpu: open device: %w", err)
	}
	return openDev.Device, openDev.Queue, selected.Info.Name, nil
}

func surfaceFormat(info gfx.SurfaceInfo) gputypes.TextureFormat {
	if info.Format == gputypes.TextureFormatUndefined {
		return gputypes.TextureFormatBGRA8Unorm
	}
	return info.Format
}
