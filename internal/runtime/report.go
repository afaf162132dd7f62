// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusSkipped Status = "skipped"

	// ReasonUnresolved marks a block whose language has no runtime.
	ReasonUnresolved = "unresolved language"
	// ReasonAborted marks blocks after a failure under fail-fast.
	ReasonAborted = "aborted after failure"
	// ReasonCanceled marks blocks that never started because the run was canceled.
	ReasonCanceled = "canceled"
	// ReasonDryRun marks blocks that were resolved but not started.
	ReasonDryRun = "dry run"
)

type (
	// Status is the result class of one block.
	Status string

	// Outcome is the result of one code block.
	Outcome struct {
		// Index is the zero-based position of the block in its section.
		Index    int
		Language string
		Status   Status
		// ExitCode is set for failures.
		ExitCode ExitCode
		// Reason is set for skipped blocks.
		Reason string
		// Err is the spawn, I/O or cancellation error behind a failure. It is
		// nil when the interpreter simply exited non-zero.
		Err error
		// Mode and Argv describe the resolved invocation. In file mode the last
		// argument is the temporary file (a pattern in dry runs).
		Mode ExecutionMode
		Argv []string
	}

	// Report collects the outcomes of one task run in block order.
	Report struct {
		Task     string
		Outcomes []Outcome
		// Strict makes unresolved languages count as failures.
		Strict bool
	}
)

// CommandLine renders Argv as a shell-quoted string.
func (o Outcome) CommandLine() string {
	parts := make([]string, 0, len(o.Argv))
	for _, arg := range o.Argv {
		quoted, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			quoted = strconv.Quote(arg)
		}
		parts = append(parts, quoted)
	}
	return strings.Join(parts, " ")
}

// Unresolved reports whether the block was skipped for lack of a runtime.
func (o Outcome) Unresolved() bool {
	return o.Status == StatusSkipped && o.Reason == ReasonUnresolved
}

// Success reports whether no block failed and, in strict mode, every block
// had a runtime.
func (r *Report) Success() bool {
	for _, o := range r.Outcomes {
		if o.Status == StatusFailure {
			return false
		}
		if r.Strict && o.Unresolved() {
			return false
		}
		if o.Status == StatusSkipped && o.Reason == ReasonCanceled {
			return false
		}
	}
	return true
}

// ExitCode is the code of the first failed block. Without failures a
// canceled run yields ExitCanceled and a strict run with unresolved blocks
// yields ExitFailure.
func (r *Report) ExitCode() ExitCode {
	var canceled, unresolved bool
	for _, o := range r.Outcomes {
		switch {
		case o.Status == StatusFailure:
			if o.ExitCode == ExitSuccess {
				return ExitFailure
			}
			return o.ExitCode
		case o.Status == StatusSkipped && o.Reason == ReasonCanceled:
			canceled = true
		case o.Unresolved():
			unresolved = true
		}
	}
	switch {
	case canceled:
		return ExitCanceled
	case r.Strict && unresolved:
		return ExitFailure
	default:
		return ExitSuccess
	}
}

// Count returns the number of outcomes with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// FirstFailure returns the first failed outcome.
func (r *Report) FirstFailure() (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Status == StatusFailure {
			return o, true
		}
	}
	return Outcome{}, false
}
