// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package window

import (
	"github.com/gogpu/emuhost/gfx"
	"github.com/gogpu/emuhost/input"
	"github.com/gogpu/emuhost/settings"
)

// RequiredGLExtensions must all be supported by the OpenGL backend.
var RequiredGLExtensions = []string{
	"ARB_buffer_storage",
	"ARB_direct_state_access",
	"ARB_vertex_type_10f_11f_11f_rev",
	"ARB_texture_mirror_clamp_to_edge",
	"ARB_multi_bind",
	"ARB_clip_control",
	// Texture formats.
	"EXT_texture_compression_s3tc",
	"ARB_texture_compression_rgtc",
	"ARB_depth_buffer_float",
}

// Option configures a RenderWindow.
type Option func(*options)

type options struct {
	drivers  map[settings.Backend]gfx.Driver
	share    gfx.Native
	required []string
	keyboard input.Keyboard
	motion   input.Motion
	touch    input.Touch
}

func defaultOptions() options {
	return options{
		drivers:  make(map[settings.Backend]gfx.Driver),
		required: RequiredGLExtensions,
	}
}

// WithDriver uses d for backend b instead of looking a driver up by name.
func WithDriver(b settings.Backend, d gfx.Driver) Option {
	return func(o *options) {
		o.drivers[b] = d
	}
}

// WithShareSource imports the namespace of n, a context created by the
// host, into every OpenGL main context.
func WithShareSource(n gfx.Native) Option {
	return func(o *options) {
		o.share = n
	}
}

// WithRequiredExtensions replaces RequiredGLExtensions.
func WithRequiredExtensions(ext ...string) Option {
	return func(o *options) {
		o.required = ext
	}
}

// WithKeyboard routes key events to k.
func WithKeyboard(k input.Keyboard) Option {
	return func(o *options) {
		o.keyboard = k
	}
}

// WithMotion routes tilt gestures to m.
func WithMotion(m input.Motion) Option {
	return func(o *options) {
		o.motion = m
	}
}

// WithTouch routes touch to t.
func WithTouch(t input.Touch) Option {
	return func(o *options) {
		o.touch = t
	}
}
