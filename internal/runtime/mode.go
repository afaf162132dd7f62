// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
)

const (
	// ModeStdin pipes the block body to the interpreter's standard input.
	ModeStdin ExecutionMode = "stdin"
	// ModeFile writes the block body to a temporary file and appends its path to argv.
	ModeFile ExecutionMode = "file"
	// ModeArg appends the block body to argv as a single argument.
	ModeArg ExecutionMode = "arg"
)

// ErrInvalidExecutionMode is returned when an ExecutionMode value is not recognized.
var ErrInvalidExecutionMode = errors.New("invalid execution mode")

type (
	// ExecutionMode selects how a code block reaches its interpreter.
	ExecutionMode string

	// InvalidExecutionModeError is returned when an ExecutionMode value is not recognized.
	// It wraps ErrInvalidExecutionMode for errors.Is() compatibility.
	InvalidExecutionModeError struct {
		Value ExecutionMode
	}
)

// ParseExecutionMode converts user input to an ExecutionMode. The empty
// string selects ModeStdin.
func ParseExecutionMode(s string) (ExecutionMode, error) {
	if s == "" {
		return ModeStdin, nil
	}
	m := ExecutionMode(s)
	if valid, errs := m.IsValid(); !valid {
		return "", errs[0]
	}
	return m, nil
}

// Error implements the error interface for InvalidExecutionModeError.
func (e *InvalidExecutionModeError) Error() string {
	return fmt.Sprintf("invalid execution mode %q (valid: stdin, file, arg)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidExecutionModeError) Unwrap() error { return ErrInvalidExecutionMode }

// String returns the string representation of the ExecutionMode.
func (m ExecutionMode) String() string { return string(m) }

// IsValid returns whether the ExecutionMode is one of the defined modes,
// and a list of validation errors if it is not.
func (m ExecutionMode) IsValid() (bool, []error) {
	switch m {
	case ModeStdin, ModeFile, ModeArg:
		return true, nil
	default:
		return false, []error{&InvalidExecutionModeError{Value: m}}
	}
}
