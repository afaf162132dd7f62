// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

const (
	// ExitSuccess is the exit code of a successful block.
	ExitSuccess ExitCode = 0
	// ExitFailure is used when no interpreter exit status is available.
	ExitFailure ExitCode = 1
	// ExitCanceled follows the shell convention for SIGINT (128 + 2).
	ExitCanceled ExitCode = 130
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// IsValid returns whether the ExitCode is in the valid range (0-255),
// and a list of validation errors if it is not.
func (c ExitCode) IsValid() (bool, []error) {
	if c < 0 || c > 255 {
		return false, []error{&InvalidExitCodeError{Value: c}}
	}
	return true, nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// exitStatus maps the result of cmd.Run to an exit code. A nil error is
// ExitSuccess. A process that exited on its own yields its status and a nil
// error. Killed processes and spawn failures yield ExitFailure (or
// ExitCanceled when ctx is done) and the cause.
func exitStatus(ctx context.Context, err error) (ExitCode, error) {
	if err == nil {
		return ExitSuccess, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ExitCanceled, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := ExitCode(exitErr.ExitCode())
		if valid, errs := code.IsValid(); !valid {
			// -1 means the process was terminated by a signal.
			return ExitFailure, fmt.Errorf("%w: %w", err, errs[0])
		}
		return code, nil
	}

	return ExitFailure, err
}
