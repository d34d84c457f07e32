// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package osthread identifies the operating-system thread a goroutine is
// running on.
//
// The value is only stable while the calling goroutine is locked to its
// thread with runtime.LockOSThread. Graphics contexts are bound to OS
// threads, so every caller that tracks context affinity must lock first.
package osthread

import "strconv"

// ID identifies an OS thread. The zero ID means "no thread".
type ID uint64

// None is the zero ID.
const None ID = 0

// Current returns the ID of the OS thread running the caller.
func Current() ID {
	return current()
}

// String returns the decimal thread ID, or "none".
func (id ID) String() string {
	if id == None {
		return "none"
	}
	return strconv.FormatUint(uint64(id), 10)
}
