// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package settings holds the host configuration read by the render window
// and screenshot capture.
//
// The core only reads settings. A [Store] returns a [Values] snapshot;
// [MemoryStore] serves embedding and tests, [SQLiteStore] persists to disk.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnknownBackend is returned when a stored backend name is not known.
var ErrUnknownBackend = errors.New("settings: unknown renderer backend")

// Backend selects the renderer backend.
type Backend uint8

const (
	BackendOpenGL Backend = iota
	BackendVulkan
	BackendNone
)

// String returns the backend name.
func (b Backend) String() string {
	switch b {
	case BackendOpenGL:
		return "opengl"
	case BackendVulkan:
		return "vulkan"
	case BackendNone:
		return "none"
	default:
		return fmt.Sprintf("Backend(%d)", uint8(b))
	}
}

// ParseBackend parses a backend name, case-insensitively.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "opengl", "gl":
		return BackendOpenGL, nil
	case "vulkan", "vk":
		return BackendVulkan, nil
	case "none", "null":
		return BackendNone, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}

// Values is a snapshot of the host settings.
type Values struct {
	// Backend selects how the render target is created.
	Backend Backend

	// GLDriver names the gfx driver used for the OpenGL backend.
	GLDriver string

	// Stereo requests a quad-buffered stereo context.
	Stereo bool

	// PreferGLES requests an OpenGL ES context where available.
	PreferGLES bool

	// Docked selects the docked screen size for screenshots.
	Docked bool

	// MinClientWidth and MinClientHeight bound the window's client area.
	MinClientWidth  int
	MinClientHeight int

	// ResolutionScale is the screenshot scale; 0 follows the renderer.
	ResolutionScale uint32
}

// Defaults returns the settings used when nothing is stored.
func Defaults() Values {
	return Values{
		Backend:         BackendOpenGL,
		GLDriver:        "software",
		MinClientWidth:  320,
		MinClientHeight: 180,
	}
}

// Store provides settings.
type Store interface {
	Load(ctx context.Context) (Values, error)
	Save(ctx context.Context, v Values) error
}

// MemoryStore keeps settings in memory. The zero value holds Defaults.
type MemoryStore struct {
	mu  sync.RWMutex
	v   Values
	set bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a store holding v.
func NewMemoryStore(v Values) *MemoryStore {
	return &MemoryStore{v: v, set: true}
}

// Load returns the stored values.
func (m *MemoryStore) Load(context.Context) (Values, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set {
		return Defaults(), nil
	}
	return m.v, nil
}

// Save replaces the stored values.
func (m *MemoryStore) Save(_ context.Context, v Values) error {
	m.mu.Lock()
	m.v, m.set = v, true
	m.mu.Unlock()
	return nil
}
