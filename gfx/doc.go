// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gfx manages graphics contexts and the GPU object namespaces they
// share.
//
// A [Context] is a handle to one native context. It is bound to at most one
// OS thread at a time, and a thread has at most one current context.
// Callers bind with [Context.MakeCurrent] from a goroutine that holds
// runtime.LockOSThread.
//
// Contexts come from a [Factory]. The factory creates a primary context,
// optionally importing the namespace of an externally created share source,
// and derives secondary contexts that share the primary's [Namespace]:
//
//	f := gfx.NewFactory(driver, gfx.WithShareSource(hostContext))
//	primary, err := f.CreatePrimary(info)
//	if err != nil {
//	    return err
//	}
//	child, err := f.CreateShared(primary, &info)
//
// Derived contexts are always destroyed before their primary. Closing a
// primary closes every derived context that is still open.
//
// Native context APIs plug in through [Driver] and [Native]. Drivers
// register by name with [Register]; see gfx/software and gfx/wgpu.
package gfx
