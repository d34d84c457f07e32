// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package video defines the renderer boundary consumed by the execution
// thread and by screenshot capture.
package video

import (
	"context"

	"github.com/gogpu/emuhost/layout"
)

// LoadStage identifies a phase of disk resource loading.
type LoadStage uint8

const (
	// LoadPrepare is reported before loading begins.
	LoadPrepare LoadStage = iota
	// LoadBuild is reported while cached resources are built.
	LoadBuild
	// LoadComplete is reported once loading has finished.
	LoadComplete
)

// String returns the stage name.
func (s LoadStage) String() string {
	switch s {
	case LoadPrepare:
		return "prepare"
	case LoadBuild:
		return "build"
	case LoadComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ProgressFunc receives load progress. value counts up to total.
type ProgressFunc func(stage LoadStage, value, total int)

// Renderer is the part of the renderer this module drives.
type Renderer interface {
	// LoadDiskResources loads cached resources such as shaders. It returns
	// early when ctx is cancelled.
	LoadDiskResources(ctx context.Context, progress ProgressFunc) error

	// RequestScreenshot asks the renderer to fill buf with the next frame,
	// rendered at fb, as 4-byte BGRX pixels, bottom row first. done is
	// called exactly once from the render path when buf is filled.
	RequestScreenshot(buf []byte, done func(), fb layout.Framebuffer)

	// ResolutionScaleFactor returns the active integer resolution scale.
	ResolutionScaleFactor() uint32
}
