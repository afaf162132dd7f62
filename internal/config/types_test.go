// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestExecutionMode_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode ExecutionMode
		want bool
	}{
		{ModeStdin, true},
		{ModeFile, true},
		{ModeArg, true},
		{"", false},
		{"STDIN", false},
		{"pipe", false},
	}

	for _, tt := range tests {
		got, errs := tt.mode.IsValid()
		if got != tt.want {
			t.Errorf("ExecutionMode(%q).IsValid() = %v, want %v", tt.mode, got, tt.want)
		}
		if !tt.want {
			if len(errs) == 0 || !errors.Is(errs[0], ErrInvalidExecutionMode) {
				t.Errorf("ExecutionMode(%q).IsValid() errors = %v, want ErrInvalidExecutionMode", tt.mode, errs)
			}
		}
	}
}

func TestHeadingLevel_IsValid(t *testing.T) {
	t.Parallel()

	for level := HeadingLevel(-1); level <= 8; level++ {
		want := level >= 1 && level <= 6
		got, errs := level.IsValid()
		if got != want {
			t.Errorf("HeadingLevel(%d).IsValid() = %v, want %v", level, got, want)
		}
		if !want && !errors.Is(errs[0], ErrInvalidHeadingLevel) {
			t.Errorf("HeadingLevel(%d).IsValid() error = %v, want ErrInvalidHeadingLevel", level, errs[0])
		}
	}
}

func TestRuntimeEntry_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry RuntimeEntry
		want  bool
	}{
		{"command only", RuntimeEntry{Command: "python3"}, true},
		{"file mode", RuntimeEntry{Command: "go run", ExecutionMode: ModeFile}, true},
		{"blank command", RuntimeEntry{Command: "  "}, false},
		{"bad mode", RuntimeEntry{Command: "node", ExecutionMode: "socket"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, errs := tt.entry.IsValid()
			if got != tt.want {
				t.Fatalf("IsValid() = %v, want %v (errs: %v)", got, tt.want, errs)
			}
			if !tt.want && !errors.Is(errs[0], ErrInvalidRuntimeEntry) {
				t.Errorf("IsValid() error = %v, want ErrInvalidRuntimeEntry", errs[0])
			}
		})
	}
}

func TestRuntimeEntry_ModeDefaultsToStdin(t *testing.T) {
	t.Parallel()

	if got := (RuntimeEntry{Command: "ruby"}).Mode(); got != ModeStdin {
		t.Errorf("Mode() = %q, want %q", got, ModeStdin)
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	if valid, errs := DefaultConfig().IsValid(); !valid {
		t.Fatalf("DefaultConfig().IsValid() = false: %v", errs)
	}

	cfg := DefaultConfig()
	cfg.HeadingLevel = 0
	cfg.Runtimes["lua"] = ""
	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("IsValid() = true for level 0 and an empty runtime command")
	}

	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("IsValid() error = %T, want *InvalidConfigError", errs[0])
	}
	if len(cfgErr.FieldErrors) != 2 {
		t.Errorf("FieldErrors = %v, want 2 entries", cfgErr.FieldErrors)
	}
	var rtErr *InvalidRuntimeEntryError
	if !errors.As(cfgErr.FieldErrors[1], &rtErr) || rtErr.Language != "lua" {
		t.Errorf("second field error = %v, want runtime error for lua", cfgErr.FieldErrors[1])
	}
}

func TestBuiltinRuntimes(t *testing.T) {
	t.Parallel()

	builtins := BuiltinRuntimes()
	want := map[string]RuntimeEntry{
		"bash":       {Command: "bash", ExecutionMode: ModeStdin},
		"python":     {Command: "python3", ExecutionMode: ModeStdin},
		"javascript": {Command: "node", ExecutionMode: ModeStdin},
		"go":         {Command: "go run", ExecutionMode: ModeFile},
		"mq":         {Command: "mq", ExecutionMode: ModeStdin},
	}
	for lang, entry := range want {
		if got := builtins[lang]; got != entry {
			t.Errorf("BuiltinRuntimes()[%q] = %+v, want %+v", lang, got, entry)
		}
	}

	for lang, entry := range builtins {
		if valid, errs := entry.IsValid(); !valid {
			t.Errorf("builtin %q invalid: %v", lang, errs)
		}
	}

	builtins["bash"] = RuntimeEntry{Command: "zsh"}
	if BuiltinRuntimes()["bash"].Command != "bash" {
		t.Error("BuiltinRuntimes() must return a fresh map on every call")
	}
}
