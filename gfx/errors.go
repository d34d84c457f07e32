// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import "errors"

// Package errors.
var (
	// ErrContextCreation is returned when a native context cannot be created.
	// It usually means the driver lacks a required capability; it is never
	// retried.
	ErrContextCreation = errors.New("gfx: context creation failed")

	// ErrCurrentElsewhere is returned when a context is made current on one
	// thread while it is still current on another.
	ErrCurrentElsewhere = errors.New("gfx: context is current on another thread")

	// ErrNotCurrent is returned by operations that require the context to be
	// current on the calling thread.
	ErrNotCurrent = errors.New("gfx: context is not current on this thread")

	// ErrClosed is returned when a closed context is used.
	ErrClosed = errors.New("gfx: context is closed")

	// ErrNilContext is returned when a nil context is passed where one is
	// required.
	ErrNilContext = errors.New("gfx: nil context")

	// ErrForeignContext is returned when a driver is handed a native context
	// created by a different driver.
	ErrForeignContext = errors.New("gfx: context belongs to another driver")

	// ErrDriverNotFound is returned by Open for unregistered driver names.
	ErrDriverNotFound = errors.New("gfx: driver not registered")
)
