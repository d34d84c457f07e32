// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/emuhost/gfx"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// plainProvider implements gpucontext.DeviceProvider without HAL access.
type plainProvider struct{}

func (plainProvider) Device() gpucontext.Device             { return nil }
func (plainProvider) Queue() gpucontext.Queue               { return nil }
func (plainProvider) Adapter() gpucontext.Adapter           { return nil }
func (plainProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }

func TestRegistered(t *testing.T) {
	d, err := gfx.Open(Name)
	if err != nil {
		t.Fatalf("Open(%q) error = %v", Name, err)
	}
	if d.Name() != Name {
		t.Errorf("Name() = %q, want %q", d.Name(), Name)
	}
}

func TestImportRequiresHAL(t *testing.T) {
	d := New()
	if _, err := d.Import(plainProvider{}); !errors.Is(err, ErrNoHAL) {
		t.Errorf("Import(plain) error = %v, want ErrNoHAL", err)
	}
	if _, err := d.Import(nil); !errors.Is(err, ErrNoHAL) {
		t.Errorf("Import(nil) error = %v, want ErrNoHAL", err)
	}
}

func TestCreateSharedRejectsForeignContext(t *testing.T) {
	d := New()
	if _, err := d.CreateSharedContext(nil, nil); !errors.Is(err, gfx.ErrForeignContext) {
		t.Errorf("CreateSharedContext(nil) error = %v, want ErrForeignContext", err)
	}
}

func TestSurfaceFormatDefault(t *testing.T) {
	if got := surfaceFormat(gfx.SurfaceInfo{}); got != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("surfaceFormat(undefined) = %v, want BGRA8Unorm", got)
	}
	info := gfx.SurfaceInfo{Format: gputypes.TextureFormatRGBA8Unorm}
	if got := surfaceFormat(info); got != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("surfaceFormat(RGBA8) = %v, want RGBA8Unorm", got)
	}
}

// TestDeviceSharing opens a real device when one is available.
func TestDeviceSharing(t *testing.T) {
	d := New()
	defer d.Close()

	f := gfx.NewFactory(d, gfx.WithKind(gfx.KindSurfaceBound))
	primary, err := f.CreatePrimary(gfx.SurfaceInfo{})
	if err != nil {
		t.Skipf("no Vulkan device: %v", err)
	}
	defer primary.Close()

	derived, err := f.CreateShared(primary, nil)
	if err != nil {
		t.Fatalf("CreateShared() error = %v", err)
	}
	pp, _ := providerOf(primary.Namespace())
	dp, _ := providerOf(derived.Namespace())
	if pp == nil || dp == nil || pp.device != dp.device {
		t.Error("derived context does not share the primary's device")
	}
	if primary.Kind() != gfx.KindSurfaceBound {
		t.Errorf("primary Kind() = %v, want surface-bound", primary.Kind())
	}

	host, err := d.Import(primary.Namespace().Device())
	if err != nil {
		t.Fatalf("Import(own provider) error = %v", err)
	}
	if got, _ := providerOf(host.Namespace()); got.device != pp.device {
		t.Error("imported context does not use the provider's device")
	}
}
