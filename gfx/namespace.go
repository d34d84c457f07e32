// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
)

// ObjectKind is the type of a GPU object held in a Namespace.
type ObjectKind uint8

const (
	ObjectTexture ObjectKind = iota
	ObjectBuffer
	ObjectProgram
)

// String returns the object kind name.
func (k ObjectKind) String() string {
	switch k {
	case ObjectTexture:
		return "texture"
	case ObjectBuffer:
		return "buffer"
	case ObjectProgram:
		return "program"
	default:
		return "unknown"
	}
}

// ObjectID identifies a GPU object. IDs are unique process-wide, so they
// stay valid when namespaces are merged.
type ObjectID uint64

// Object describes one GPU object.
type Object struct {
	ID    ObjectID
	Kind  ObjectKind
	Label string
}

var nextObjectID atomic.Uint64

// Namespace is a set of GPU objects visible to every context that shares it.
//
// Namespace is safe for concurrent use: contexts on different threads
// create and look up objects in the same namespace.
type Namespace struct {
	mu      sync.RWMutex
	objects map[ObjectID]Object
	device  gpucontext.DeviceProvider
}

// NewNamespace creates an empty namespace backed by device.
// device may be nil for drivers that do not expose a GPU device.
func NewNamespace(device gpucontext.DeviceProvider) *Namespace {
	return &Namespace{
		objects: make(map[ObjectID]Object),
		device:  device,
	}
}

// Device returns the GPU device backing the namespace, or nil.
func (n *Namespace) Device() gpucontext.DeviceProvider {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.device
}

// Create adds a new object and returns it.
func (n *Namespace) Create(kind ObjectKind, label string) Object {
	obj := Object{
		ID:    ObjectID(nextObjectID.Add(1)),
		Kind:  kind,
		Label: label,
	}
	n.mu.Lock()
	n.objects[obj.ID] = obj
	n.mu.Unlock()
	return obj
}

// Lookup returns the object with the given ID.
func (n *Namespace) Lookup(id ObjectID) (Object, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	obj, ok := n.objects[id]
	return obj, ok
}

// Delete removes an object. It reports whether the object existed.
func (n *Namespace) Delete(id ObjectID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.objects[id]; !ok {
		return false
	}
	delete(n.objects, id)
	return true
}

// Len returns the number of objects.
func (n *Namespace) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.objects)
}

// Objects returns all objects ordered by ID.
func (n *Namespace) Objects() []Object {
	n.mu.RLock()
	out := make([]Object, 0, len(n.objects))
	for _, obj := range n.objects {
		out = append(out, obj)
	}
	n.mu.RUnlock()
	slices.SortFunc(out, func(a, b Object) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// Merge imports every object of other into n. If n has no device it takes
// other's. After both sides adopt n, objects created through either context
// before the merge are visible through both.
func (n *Namespace) Merge(other *Namespace) {
	if other == nil || other == n {
		return
	}
	other.mu.RLock()
	objs := make([]Object, 0, len(other.objects))
	for _, obj := range other.objects {
		objs = append(objs, obj)
	}
	device := other.device
	other.mu.RUnlock()

	n.mu.Lock()
	defer n.mu.Unlock()
	for _, obj := range objs {
		n.objects[obj.ID] = obj
	}
	if n.device == nil {
		n.device = device
	}
}
