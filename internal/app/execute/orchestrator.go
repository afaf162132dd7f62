// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/mxrun/mx/internal/config"
	"github.com/mxrun/mx/internal/document"
	"github.com/mxrun/mx/internal/issue"
	"github.com/mxrun/mx/internal/runtime"
)

// ErrTaskNotFound is the sentinel error wrapped by TaskNotFoundError.
var ErrTaskNotFound = errors.New("task not found")

type (
	// TaskNotFoundError is returned when no section at the requested level has
	// the requested title. Available lists the titles that do exist, in
	// document order.
	TaskNotFoundError struct {
		Name      string
		Level     int
		Available []string
	}

	// Task is a runnable section as shown by `mx list`.
	Task struct {
		Title       string
		Description string
		Blocks      int
	}
)

// Error implements the error interface for TaskNotFoundError.
func (e *TaskNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("task '%s' not found (no level %d headings in the document)", e.Name, e.Level)
	}
	return fmt.Sprintf("task '%s' not found (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// Unwrap returns ErrTaskNotFound for errors.Is() compatibility.
func (e *TaskNotFoundError) Unwrap() error { return ErrTaskNotFound }

// Suggestions returns available titles that differ from the requested name
// only in case or surrounding text.
func (e *TaskNotFoundError) Suggestions() []string {
	want := strings.ToLower(strings.TrimSpace(e.Name))
	if want == "" {
		return nil
	}
	var out []string
	for _, title := range e.Available {
		lower := strings.ToLower(title)
		if (lower == want || strings.Contains(lower, want)) && !slices.Contains(out, title) {
			out = append(out, title)
		}
	}
	return out
}

// ParseDocument parses Markdown text into a section tree.
func ParseDocument(text string) (*document.Section, error) {
	return document.Parse([]byte(text))
}

// LoadDocument reads and parses the task document at path. Failures carry
// the matching issue catalog entry.
func LoadDocument(path string) (*document.Section, error) {
	root, err := document.LoadFile(path)
	if err == nil {
		return root, nil
	}

	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, issue.NewErrorContext().
			WithOperation("load task document").
			WithResource(path).
			WithSuggestion("Pass --file to choose another document").
			WithSuggestion("Set 'file' in mx.toml").
			WithIssue(issue.DocumentNotFoundId).
			Wrap(err).
			BuildError()
	case errors.Is(err, os.ErrPermission):
		return nil, issue.NewErrorContext().
			WithOperation("load task document").
			WithResource(path).
			WithIssue(issue.PermissionDeniedId).
			Wrap(err).
			BuildError()
	default:
		return nil, issue.NewErrorContext().
			WithOperation("parse task document").
			WithResource(path).
			WithIssue(issue.DocumentParseErrorId).
			Wrap(err).
			BuildError()
	}
}

// LoadRegistry layers runtime definitions, lowest precedence first: built-in
// defaults, simple [runtimes] entries, detailed [runtimes.<lang>] tables and
// finally overrides (usually from --runtime). A nil cfg uses the defaults only.
func LoadRegistry(cfg *config.Config, overrides map[string]runtime.Definition) *runtime.Registry {
	layers := []map[string]runtime.Definition{fromEntries(config.BuiltinRuntimes())}

	if cfg != nil {
		simple := make(map[string]runtime.Definition, len(cfg.Runtimes))
		for lang, command := range cfg.Runtimes {
			simple[lang] = runtime.Definition{Command: string(command), Mode: runtime.ModeStdin}
		}
		layers = append(layers, simple, fromEntries(cfg.RuntimeDetails))
	}

	layers = append(layers, overrides)
	return runtime.NewRegistry(layers...)
}

// fromEntries converts config runtime entries at the package boundary.
func fromEntries(entries map[string]config.RuntimeEntry) map[string]runtime.Definition {
	defs := make(map[string]runtime.Definition, len(entries))
	for lang, entry := range entries {
		defs[lang] = runtime.Definition{
			Command: string(entry.Command),
			Mode:    runtime.ExecutionMode(entry.Mode()),
		}
	}
	return defs
}

// ListTasks returns the task titles at level, in document order.
func ListTasks(root *document.Section, level int) []string {
	return document.List(root, level)
}

// DescribeTasks returns the tasks at level with their descriptions and block
// counts, in document order.
func DescribeTasks(root *document.Section, level int) []Task {
	sections := document.Sections(root, level)
	tasks := make([]Task, 0, len(sections))
	for _, s := range sections {
		tasks = append(tasks, Task{Title: s.Title, Description: s.Description, Blocks: len(s.CodeBlocks)})
	}
	return tasks
}

// RunTask resolves name at level and runs its blocks with engine. When the
// task does not exist nothing is started and a *TaskNotFoundError is returned.
func RunTask(ctx context.Context, root *document.Section, name string, level int, engine *runtime.Engine) (*runtime.Report, error) {
	sec, ok := document.Find(root, name, level)
	if !ok {
		return nil, &TaskNotFoundError{
			Name:      strings.TrimSpace(name),
			Level:     level,
			Available: ListTasks(root, level),
		}
	}
	return engine.Run(ctx, sec), nil
}
