// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package window

import (
	"errors"
	"strings"
)

var (
	// ErrNoRenderTarget is returned when an operation needs a render target
	// and InitRenderTarget has not succeeded.
	ErrNoRenderTarget = errors.New("window: no render target")

	// ErrNoRenderer is returned by CaptureScreenshot before SetRenderer.
	ErrNoRenderer = errors.New("window: no renderer attached")
)

// InitError is a render target initialization failure meant to be shown to
// the user.
type InitError struct {
	Title   string
	Message string

	// Missing lists required extensions the driver does not support.
	Missing []string

	// Err is the underlying cause, if any.
	Err error
}

func (e *InitError) Error() string {
	var b strings.Builder
	b.WriteString(e.Title)
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Missing) > 0 {
		b.WriteString(" Unsupported extensions: ")
		b.WriteString(strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *InitError) Unwrap() error { return e.Err }
