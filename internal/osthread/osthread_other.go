// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !linux && !windows

package osthread

import (
	"bytes"
	"runtime"
	"strconv"
)

// current falls back to the goroutine ID. Callers lock their goroutine to
// a thread, so the goroutine identifies the thread for as long as the lock
// is held.
func current() ID {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	n, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return None
	}
	return ID(n)
}
