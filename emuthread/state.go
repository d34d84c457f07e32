// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package emuthread

// State is the controller's run state.
//
//	Idle ──Start──▶ Running ──Pause──▶ PauseRequested ──ack──▶ Idle
//	                   │                      │
//	                   └─failed step─▶ Errored ◀┘
//
// Start is accepted from Idle, PauseRequested and Errored. Stop moves any
// state to Stopped, which is terminal.
type State uint8

const (
	StateIdle State = iota
	StateRunning
	StatePauseRequested
	StateErrored
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePauseRequested:
		return "pause-requested"
	case StateErrored:
		return "errored"
	case StateStopped:
		return "stopped"
	default:
		return "invalid"
	}
}
