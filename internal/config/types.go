// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

const (
	// ModeStdin pipes the block body to the interpreter's standard input.
	// Defined locally to avoid coupling config to internal/runtime;
	// the orchestrator casts to runtime.ExecutionMode at the boundary.
	ModeStdin ExecutionMode = "stdin"
	// ModeFile writes the block body to a temporary file passed as the last argument.
	ModeFile ExecutionMode = "file"
	// ModeArg passes the block body as a single command-line argument.
	ModeArg ExecutionMode = "arg"

	// MinHeadingLevel is the shallowest Markdown heading.
	MinHeadingLevel HeadingLevel = 1
	// MaxHeadingLevel is the deepest Markdown heading.
	MaxHeadingLevel HeadingLevel = 6
	// DefaultHeadingLevel selects "## Title" sections as tasks.
	DefaultHeadingLevel HeadingLevel = 2

	// DefaultDocument is the task document read when no file is configured.
	DefaultDocument DocumentPath = "README.md"
)

var (
	// ErrInvalidExecutionMode is returned when an ExecutionMode value is not recognized.
	ErrInvalidExecutionMode = errors.New("invalid execution mode")
	// ErrInvalidHeadingLevel is returned when a HeadingLevel is outside 1-6.
	ErrInvalidHeadingLevel = errors.New("invalid heading level")
	// ErrInvalidDocumentPath is returned when a DocumentPath is empty or whitespace-only.
	ErrInvalidDocumentPath = errors.New("invalid document path")
	// ErrInvalidRuntimeCommand is returned when a RuntimeCommand is empty or whitespace-only.
	ErrInvalidRuntimeCommand = errors.New("invalid runtime command")
	// ErrInvalidRuntimeEntry is the sentinel error wrapped by InvalidRuntimeEntryError.
	ErrInvalidRuntimeEntry = errors.New("invalid runtime entry")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ExecutionMode selects how a code block reaches its interpreter.
	ExecutionMode string

	// InvalidExecutionModeError is returned when an ExecutionMode value is not recognized.
	// It wraps ErrInvalidExecutionMode for errors.Is() compatibility.
	InvalidExecutionModeError struct {
		Value ExecutionMode
	}

	// HeadingLevel is the Markdown heading depth whose sections are tasks.
	HeadingLevel int

	// InvalidHeadingLevelError is returned when a HeadingLevel is outside 1-6.
	InvalidHeadingLevelError struct {
		Value HeadingLevel
	}

	// DocumentPath is the path of the Markdown task document.
	DocumentPath string

	// InvalidDocumentPathError is returned when a DocumentPath is empty or whitespace-only.
	InvalidDocumentPathError struct {
		Value DocumentPath
	}

	// RuntimeCommand is an interpreter invocation, possibly with leading
	// arguments (e.g. "go run").
	RuntimeCommand string

	// InvalidRuntimeCommandError is returned when a RuntimeCommand is empty or whitespace-only.
	InvalidRuntimeCommandError struct {
		Value RuntimeCommand
	}

	// RuntimeEntry is a detailed [runtimes.<lang>] table.
	RuntimeEntry struct {
		// Command is the interpreter invocation.
		Command RuntimeCommand `json:"command" mapstructure:"command" toml:"command"`
		// ExecutionMode selects code delivery. Empty means stdin.
		ExecutionMode ExecutionMode `json:"execution_mode,omitempty" mapstructure:"execution_mode" toml:"execution_mode,omitempty"`
	}

	// InvalidRuntimeEntryError is returned when a RuntimeEntry has invalid fields.
	// It wraps ErrInvalidRuntimeEntry for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidRuntimeEntryError struct {
		Language    string
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// HeadingLevel selects which heading depth names tasks.
		HeadingLevel HeadingLevel `json:"heading_level" mapstructure:"heading_level"`
		// FailFast skips the remaining blocks of a task after the first failure.
		FailFast bool `json:"fail_fast" mapstructure:"fail_fast"`
		// Strict makes blocks in an unresolved language fail the run.
		Strict bool `json:"strict" mapstructure:"strict"`
		// File is the Markdown task document.
		File DocumentPath `json:"file" mapstructure:"file"`
		// Runtimes holds simple "lang = command" entries. Their mode is stdin.
		Runtimes map[string]RuntimeCommand `json:"runtimes,omitempty" mapstructure:"-"`
		// RuntimeDetails holds [runtimes.<lang>] tables.
		RuntimeDetails map[string]RuntimeEntry `json:"-" mapstructure:"-"`
		// Source is the file the configuration was read from, empty for defaults.
		Source string `json:"-" mapstructure:"-"`
	}
)

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

// Error implements the error interface for InvalidHeadingLevelError.
func (e *InvalidHeadingLevelError) Error() string {
	return fmt.Sprintf("invalid heading level %d (valid: %d-%d)", e.Value, MinHeadingLevel, MaxHeadingLevel)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidHeadingLevelError) Unwrap() error { return ErrInvalidHeadingLevel }

// Int returns the level as a plain int.
func (l HeadingLevel) Int() int { return int(l) }

// IsValid returns whether the level is between 1 and 6.
func (l HeadingLevel) IsValid() (bool, []error) {
	if l < MinHeadingLevel || l > MaxHeadingLevel {
		return false, []error{&InvalidHeadingLevelError{Value: l}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDocumentPathError.
func (e *InvalidDocumentPathError) Error() string {
	return fmt.Sprintf("invalid document path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidDocumentPath for errors.Is() compatibility.
func (e *InvalidDocumentPathError) Unwrap() error { return ErrInvalidDocumentPath }

// String returns the string representation of the DocumentPath.
func (p DocumentPath) String() string { return string(p) }

// IsValid returns whether the DocumentPath is non-empty and not whitespace-only.
func (p DocumentPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidDocumentPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidRuntimeCommandError.
func (e *InvalidRuntimeCommandError) Error() string {
	return fmt.Sprintf("invalid runtime command %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidRuntimeCommand for errors.Is() compatibility.
func (e *InvalidRuntimeCommandError) Unwrap() error { return ErrInvalidRuntimeCommand }

// String returns the string representation of the RuntimeCommand.
func (c RuntimeCommand) String() string { return string(c) }

// IsValid returns whether the RuntimeCommand is non-empty and not whitespace-only.
func (c RuntimeCommand) IsValid() (bool, []error) {
	if strings.TrimSpace(string(c)) == "" {
		return false, []error{&InvalidRuntimeCommandError{Value: c}}
	}
	return true, nil
}

// Mode returns the entry's execution mode, defaulting to stdin.
func (e RuntimeEntry) Mode() ExecutionMode {
	if e.ExecutionMode == "" {
		return ModeStdin
	}
	return e.ExecutionMode
}

// IsValid returns whether the RuntimeEntry has a command and a known mode.
// An empty ExecutionMode is valid and means stdin.
func (e RuntimeEntry) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := e.Command.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := e.Mode().IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidRuntimeEntryError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidRuntimeEntryError.
func (e *InvalidRuntimeEntryError) Error() string {
	if e.Language != "" {
		return fmt.Sprintf("invalid runtime %q: %d field error(s)", e.Language, len(e.FieldErrors))
	}
	return fmt.Sprintf("invalid runtime entry: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidRuntimeEntry for errors.Is() compatibility.
func (e *InvalidRuntimeEntryError) Unwrap() error { return ErrInvalidRuntimeEntry }

// IsValid returns whether the Config has valid fields.
// It delegates to HeadingLevel, File and every runtime entry.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.HeadingLevel.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.File.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, lang := range slices.Sorted(maps.Keys(c.Runtimes)) {
		if valid, fieldErrs := c.Runtimes[lang].IsValid(); !valid {
			errs = append(errs, &InvalidRuntimeEntryError{Language: lang, FieldErrors: fieldErrs})
		}
	}
	for _, lang := range slices.Sorted(maps.Keys(c.RuntimeDetails)) {
		if valid, fieldErrs := c.RuntimeDetails[lang].IsValid(); !valid {
			errs = append(errs, &InvalidRuntimeEntryError{Language: lang, FieldErrors: fieldErrs})
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration. Runtime tables are empty;
// the built-in interpreters live in BuiltinRuntimes.
func DefaultConfig() *Config {
	return &Config{
		HeadingLevel:   DefaultHeadingLevel,
		FailFast:       false,
		Strict:         false,
		File:           DefaultDocument,
		Runtimes:       map[string]RuntimeCommand{},
		RuntimeDetails: map[string]RuntimeEntry{},
	}
}

// BuiltinRuntimes returns the interpreters mx knows without configuration.
// Every call returns a fresh map.
func BuiltinRuntimes() map[string]RuntimeEntry {
	return map[string]RuntimeEntry{
		"bash":       {Command: "bash", ExecutionMode: ModeStdin},
		"sh":         {Command: "sh", ExecutionMode: ModeStdin},
		"python":     {Command: "python3", ExecutionMode: ModeStdin},
		"ruby":       {Command: "ruby", ExecutionMode: ModeStdin},
		"node":       {Command: "node", ExecutionMode: ModeStdin},
		"javascript": {Command: "node", ExecutionMode: ModeStdin},
		"js":         {Command: "node", ExecutionMode: ModeStdin},
		// go run cannot read a program from stdin.
		"go":     {Command: "go run", ExecutionMode: ModeFile},
		"golang": {Command: "go run", ExecutionMode: ModeFile},
		"php":    {Command: "php", ExecutionMode: ModeStdin},
		"perl":   {Command: "perl", ExecutionMode: ModeStdin},
		"jq":     {Command: "jq", ExecutionMode: ModeStdin},
		"mq":     {Command: "mq", ExecutionMode: ModeStdin},
	}
}
