// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

type mockProvider struct{}

func (mockProvider) Device() gpucontext.Device             { return nil }
func (mockProvider) Queue() gpucontext.Queue               { return nil }
func (mockProvider) Adapter() gpucontext.Adapter           { return nil }
func (mockProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }

func TestNamespaceCreateLookupDelete(t *testing.T) {
	ns := NewNamespace(nil)

	tex := ns.Create(ObjectTexture, "framebuffer")
	buf := ns.Create(ObjectBuffer, "vertices")
	if tex.ID == buf.ID {
		t.Fatalf("objects share ID %d", tex.ID)
	}
	if ns.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ns.Len())
	}

	got, ok := ns.Lookup(tex.ID)
	if !ok || got != tex {
		t.Errorf("Lookup(%d) = %+v, %v; want %+v, true", tex.ID, got, ok, tex)
	}
	if !ns.Delete(tex.ID) {
		t.Error("Delete of existing object returned false")
	}
	if ns.Delete(tex.ID) {
		t.Error("second Delete returned true")
	}
	if _, ok := ns.Lookup(tex.ID); ok {
		t.Error("deleted object still visible")
	}
}

func TestNamespaceMerge(t *testing.T) {
	a := NewNamespace(nil)
	b := NewNamespace(mockProvider{})

	pa := a.Create(ObjectProgram, "blit")
	tb := b.Create(ObjectTexture, "ui-atlas")

	a.Merge(b)

	for _, obj := range []Object{pa, tb} {
		if got, ok := a.Lookup(obj.ID); !ok || got != obj {
			t.Errorf("after Merge, Lookup(%d) = %+v, %v", obj.ID, got, ok)
		}
	}
	if a.Device() == nil {
		t.Error("Merge did not take the other namespace's device")
	}

	// Self and nil merges are no-ops.
	a.Merge(a)
	a.Merge(nil)
	if a.Len() != 2 {
		t.Errorf("Len() = %d, want 2", a.Len())
	}
}

func TestNamespaceObjectsOrdered(t *testing.T) {
	ns := NewNamespace(nil)
	var want []ObjectID
	for i := 0; i < 5; i++ {
		want = append(want, ns.Create(ObjectBuffer, "").ID)
	}
	objs := ns.Objects()
	if len(objs) != len(want) {
		t.Fatalf("Objects() len = %d, want %d", len(objs), len(want))
	}
	for i, obj := range objs {
		if obj.ID != want[i] {
			t.Errorf("Objects()[%d].ID = %d, want %d", i, obj.ID, want[i])
		}
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNull, "null"},
		{KindSharedNamespace, "shared-namespace"},
		{KindSurfaceBound, "surface-bound"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
