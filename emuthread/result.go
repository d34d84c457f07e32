// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package emuthread

import "fmt"

// Result is the outcome of an engine run or pause step.
type Result uint8

const (
	ResultSuccess Result = iota
	ResultErrorGeneric
	ResultErrorNotInitialized
	ResultErrorGetLoader
	ResultErrorSystemFiles
	ResultErrorSharedFont
	ResultErrorVideoCore
	ResultErrorUnknown
	ResultErrorLoader
)

// OK reports whether r is ResultSuccess.
func (r Result) OK() bool { return r == ResultSuccess }

// String returns a human-readable name for r.
func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultErrorGeneric:
		return "generic error"
	case ResultErrorNotInitialized:
		return "not initialized"
	case ResultErrorGetLoader:
		return "no loader for file"
	case ResultErrorSystemFiles:
		return "missing system files"
	case ResultErrorSharedFont:
		return "missing shared font"
	case ResultErrorVideoCore:
		return "video core error"
	case ResultErrorUnknown:
		return "unknown error"
	case ResultErrorLoader:
		return "loader error"
	default:
		return fmt.Sprintf("Result(%d)", uint8(r))
	}
}
