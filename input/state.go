// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package input

import (
	"sync"

	"github.com/gogpu/gpucontext"
)

// State is an in-memory sink for all three input kinds. It keeps the set
// of held keys, the tilt origin and the touch position, for hosts that
// poll input rather than subscribe to it.
type State struct {
	mu       sync.Mutex
	keys     map[gpucontext.Key]gpucontext.Modifiers
	tilting  bool
	tiltFrom [2]int
	tiltTo   [2]int
	touching bool
	touchAt  [2]uint32
}

var (
	_ Keyboard = (*State)(nil)
	_ Motion   = (*State)(nil)
	_ Touch    = (*State)(nil)
)

// NewState returns an empty input state.
func NewState() *State {
	return &State{keys: make(map[gpucontext.Key]gpucontext.Modifiers)}
}

func (s *State) PressKey(key gpucontext.Key, mods gpucontext.Modifiers) {
	s.mu.Lock()
	s.keys[key] = mods
	s.mu.Unlock()
}

func (s *State) ReleaseKey(key gpucontext.Key) {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
}

func (s *State) ReleaseAllKeys() {
	s.mu.Lock()
	clear(s.keys)
	s.mu.Unlock()
}

// Held reports whether key is down.
func (s *State) Held(key gpucontext.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[key]
	return ok
}

// HeldCount returns the number of keys down.
func (s *State) HeldCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

func (s *State) BeginTilt(x, y int) {
	s.mu.Lock()
	s.tilting = true
	s.tiltFrom = [2]int{x, y}
	s.tiltTo = s.tiltFrom
	s.mu.Unlock()
}

func (s *State) Tilt(x, y int) {
	s.mu.Lock()
	if s.tilting {
		s.tiltTo = [2]int{x, y}
	}
	s.mu.Unlock()
}

func (s *State) EndTilt() {
	s.mu.Lock()
	s.tilting = false
	s.mu.Unlock()
}

// TiltDelta returns the drag distance of an active tilt.
func (s *State) TiltDelta() (dx, dy int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.tilting {
		return 0, 0, false
	}
	return s.tiltTo[0] - s.tiltFrom[0], s.tiltTo[1] - s.tiltFrom[1], true
}

func (s *State) TouchPressed(x, y uint32) {
	s.mu.Lock()
	s.touching = true
	s.touchAt = [2]uint32{x, y}
	s.mu.Unlock()
}

func (s *State) TouchMoved(x, y uint32) {
	s.mu.Lock()
	if s.touching {
		s.touchAt = [2]uint32{x, y}
	}
	s.mu.Unlock()
}

func (s *State) TouchReleased() {
	s.mu.Lock()
	s.touching = false
	s.mu.Unlock()
}

// TouchPosition returns the current touch, if any.
func (s *State) TouchPosition() (x, y uint32, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchAt[0], s.touchAt[1], s.touching
}
