// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build linux

package osthread

import "golang.org/x/sys/unix"

func current() ID {
	return ID(unix.Gettid())
}
