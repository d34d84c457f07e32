// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"github.com/gogpu/emuhost/gfx"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// halProvider is implemented by device providers that expose their HAL
// device and queue, such as gogpu applications.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// provider exposes a HAL device as a gpucontext.DeviceProvider so the rest
// of the gogpu stack can render into a shared namespace.
type provider struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat
}

var (
	_ gpucontext.DeviceProvider = (*provider)(nil)
	_ halProvider               = (*provider)(nil)
)

func (p *provider) Device() gpucontext.Device             { return deviceRef{} }
func (p *provider) Queue() gpucontext.Queue               { return nil }
func (p *provider) Adapter() gpucontext.Adapter           { return nil }
func (p *provider) SurfaceFormat() gputypes.TextureFormat { return p.format }
func (p *provider) HalDevice() any                        { return p.device }
func (p *provider) HalQueue() any                         { return p.queue }

// deviceRef is the gpucontext view of a device whose lifetime belongs to
// the context that opened it. Destroy is deliberately a no-op.
type deviceRef struct{}

func (deviceRef) Poll(bool) {}
func (deviceRef) Destroy()  {}

// providerOf extracts the HAL device and queue behind a namespace.
func providerOf(ns *gfx.Namespace) (*provider, error) {
	if ns == nil {
		return nil, ErrNoHAL
	}
	return fromDeviceProvider(ns.Device())
}

func fromDeviceProvider(dp gpucontext.DeviceProvider) (*provider, error) {
	if p, ok := dp.(*provider); ok {
		return p, nil
	}
	hp, ok := dp.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, ErrNoHAL
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, ErrNoHAL
	}
	return &provider{device: device, queue: queue, format: dp.SurfaceFormat()}, nil
}

// Import wraps a device opened by the host application as a native context.
// Use it as the factory's share source so the emulation core renders on
// the host's device:
//
//	host, err := drv.Import(app.GPUContextProvider())
//	f := gfx.NewFactory(drv, gfx.WithShareSource(host))
//
// The returned context never destroys the host's device.
func (d *Driver) Import(dp gpucontext.DeviceProvider) (gfx.Native, error) {
	if dp == nil {
		return nil, ErrNoHAL
	}
	p, err := fromDeviceProvider(dp)
	if err != nil {
		return nil, err
	}
	return &Context{driver: d, ns: gfx.NewNamespace(p), prov: p}, nil
}
