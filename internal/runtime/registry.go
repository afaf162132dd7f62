// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

var (
	// ErrEmptyCommand is returned when a Definition's command splits into no words.
	ErrEmptyCommand = errors.New("runtime command is empty")
	// ErrInvalidOverride is the sentinel error wrapped by InvalidOverrideError.
	ErrInvalidOverride = errors.New("invalid runtime override")
)

type (
	// Definition is how one language is run: an interpreter command, which may
	// carry leading arguments ("go run"), and the code delivery mode.
	Definition struct {
		Command string
		Mode    ExecutionMode
	}

	// Registry maps case-sensitive language identifiers to Definitions.
	// It is immutable once built and safe for concurrent reads.
	Registry struct {
		defs map[string]Definition
	}

	// Availability reports whether a language's interpreter is on PATH.
	Availability struct {
		Language   string
		Definition Definition
		// Path is the resolved executable, empty when not found.
		Path string
		Err  error
	}

	// InvalidOverrideError is returned for a --runtime value that is not "lang:command".
	// It wraps ErrInvalidOverride for errors.Is() compatibility.
	InvalidOverrideError struct {
		Spec   string
		Reason string
	}
)

// NewRegistry merges layers in order; a language defined in a later layer
// replaces any earlier definition. Definitions with an empty mode get ModeStdin.
func NewRegistry(layers ...map[string]Definition) *Registry {
	defs := make(map[string]Definition)
	for _, layer := range layers {
		for lang, def := range layer {
			if def.Mode == "" {
				def.Mode = ModeStdin
			}
			defs[lang] = def
		}
	}
	return &Registry{defs: defs}
}

// Resolve returns the Definition for lang. The empty language never resolves.
func (r *Registry) Resolve(lang string) (Definition, bool) {
	if r == nil || lang == "" {
		return Definition{}, false
	}
	def, ok := r.defs[lang]
	return def, ok
}

// Languages returns the registered languages in sorted order.
func (r *Registry) Languages() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.defs))
}

// Len returns the number of registered languages.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.defs)
}

// Check looks up the interpreter of every language with lookPath
// (usually exec.LookPath), in Languages order.
func (r *Registry) Check(lookPath func(string) (string, error)) []Availability {
	langs := r.Languages()
	out := make([]Availability, 0, len(langs))
	for _, lang := range langs {
		def := r.defs[lang]
		a := Availability{Language: lang, Definition: def}
		argv, err := def.Argv()
		if err != nil {
			a.Err = err
		} else {
			a.Path, a.Err = lookPath(argv[0])
		}
		out = append(out, a)
	}
	return out
}

// Available reports whether the interpreter was found.
func (a Availability) Available() bool {
	return a.Err == nil && a.Path != ""
}

// Argv splits Command into words using shell quoting rules, so
// `node --input-type=module` and `"/opt/my tools/lua"` both work.
func (d Definition) Argv() ([]string, error) {
	words, err := shell.Fields(d.Command, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid runtime command %q: %w", d.Command, err)
	}
	if len(words) == 0 {
		return nil, ErrEmptyCommand
	}
	return words, nil
}

// ParseOverrides parses --runtime values of the form "lang:command". Every
// override gets mode; an empty mode means ModeStdin. The command may itself
// contain colons.
func ParseOverrides(specs []string, mode ExecutionMode) (map[string]Definition, error) {
	if mode == "" {
		mode = ModeStdin
	}
	if valid, errs := mode.IsValid(); !valid {
		return nil, errs[0]
	}

	overrides := make(map[string]Definition, len(specs))
	for _, spec := range specs {
		lang, command, found := strings.Cut(spec, ":")
		if !found {
			return nil, &InvalidOverrideError{Spec: spec, Reason: "missing ':' separator"}
		}
		lang = strings.TrimSpace(lang)
		command = strings.TrimSpace(command)
		if lang == "" {
			return nil, &InvalidOverrideError{Spec: spec, Reason: "language is empty"}
		}
		if command == "" {
			return nil, &InvalidOverrideError{Spec: spec, Reason: "command is empty"}
		}
		overrides[lang] = Definition{Command: command, Mode: mode}
	}
	return overrides, nil
}

// Error implements the error interface for InvalidOverrideError.
func (e *InvalidOverrideError) Error() string {
	return fmt.Sprintf("invalid runtime override %q: %s (expected lang:command)", e.Spec, e.Reason)
}

// Unwrap returns ErrInvalidOverride for errors.Is() compatibility.
func (e *InvalidOverrideError) Unwrap() error { return ErrInvalidOverride }
