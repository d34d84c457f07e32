// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package notify carries state-change events from the execution thread to
// the interactive thread.
//
// Producers call [Notifier.Notify] from any goroutine. A [Queue] delivers
// events on a channel in the order they were produced, so the consumer can
// select on it from its event loop.
package notify

import (
	"fmt"

	"github.com/gogpu/emuhost/video"
)

// EventType identifies an event.
type EventType uint8

const (
	// LoadProgress reports disk resource loading progress.
	LoadProgress EventType = iota + 1
	// DebugModeEntered is sent after execution pauses following at least
	// one completed run step.
	DebugModeEntered
	// DebugModeLeft is sent when execution resumes after such a pause.
	DebugModeLeft
	// ErrorThrown reports a failed run or pause step.
	ErrorThrown
	// Closed is sent when the execution thread or the window closes.
	Closed
	// FirstFrameDisplayed is sent once per render target lifetime.
	FirstFrameDisplayed
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case LoadProgress:
		return "LoadProgress"
	case DebugModeEntered:
		return "DebugModeEntered"
	case DebugModeLeft:
		return "DebugModeLeft"
	case ErrorThrown:
		return "ErrorThrown"
	case Closed:
		return "Closed"
	case FirstFrameDisplayed:
		return "FirstFrameDisplayed"
	default:
		return fmt.Sprintf("EventType(%d)", uint8(t))
	}
}

// Result is the engine result code carried by ErrorThrown.
type Result interface {
	fmt.Stringer
}

// Event is one notification. Only the fields relevant to Type are set.
type Event struct {
	Type EventType

	// LoadProgress
	Stage video.LoadStage
	Value int
	Total int

	// ErrorThrown
	Result  Result
	Details string
}

// String formats the event for logs.
func (e Event) String() string {
	switch e.Type {
	case LoadProgress:
		return fmt.Sprintf("%s(%s %d/%d)", e.Type, e.Stage, e.Value, e.Total)
	case ErrorThrown:
		return fmt.Sprintf("%s(%v: %s)", e.Type, e.Result, e.Details)
	default:
		return e.Type.String()
	}
}

// Notifier receives events. Implementations must be safe for concurrent use
// and must not block for long: Notify is called from the execution thread.
type Notifier interface {
	Notify(Event)
}

// Func adapts a function to Notifier.
type Func func(Event)

// Notify calls f(e).
func (f Func) Notify(e Event) { f(e) }

// Discard drops every event.
var Discard Notifier = Func(func(Event) {})

// Multi fans an event out to several notifiers in order.
func Multi(ns ...Notifier) Notifier {
	return Func(func(e Event) {
		for _, n := range ns {
			n.Notify(e)
		}
	})
}
