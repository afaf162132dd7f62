// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mxrun/mx/internal/document"
	"github.com/mxrun/mx/internal/testutil"

	"github.com/charmbracelet/log"
)

func section(blocks ...document.CodeBlock) *document.Section {
	return &document.Section{Title: "Task", Level: 2, CodeBlocks: blocks}
}

func block(lang, body string) document.CodeBlock {
	return document.CodeBlock{Language: lang, Body: body}
}

func shRegistry(mode ExecutionMode) *Registry {
	return NewRegistry(map[string]Definition{"sh": {Command: "sh", Mode: mode}})
}

func TestEngine_StdinMode(t *testing.T) {
	t.Parallel()
	testutil.RequireInterpreters(t, "sh")

	var stdout bytes.Buffer
	engine := NewEngine(shRegistry(ModeStdin), EngineOptions{Stdout: &stdout})

	report := engine.Run(context.Background(), section(
		block("sh", "echo hello\n"),
		block("sh", "echo world\n"),
	))

	if !report.Success() || report.ExitCode() != 0 {
		t.Fatalf("Run() = %+v, want success", report.Outcomes)
	}
	if got := stdout.String(); got != "hello\nworld\n" {
		t.Errorf("stdout = %q, want blocks in document order", got)
	}
	if report.Task != "Task" {
		t.Errorf("Report.Task = %q", report.Task)
	}
}

func TestEngine_FileMode(t *testing.T) {
	t.Parallel()
	testutil.RequireInterpreters(t, "sh")

	tmp := t.TempDir()
	var stdout bytes.Buffer
	engine := NewEngine(shRegistry(ModeFile), EngineOptions{Stdout: &stdout, TempDir: tmp})

	report := engine.Run(context.Background(), section(block("sh", "echo \"$0\"\n")))
	if !report.Success() {
		t.Fatalf("Run() = %+v, want success", report.Outcomes)
	}

	path := strings.TrimSpace(stdout.String())
	if filepath.Dir(path) != tmp || filepath.Ext(path) != ".sh" {
		t.Errorf("script path = %q, want a .sh file in %s", path, tmp)
	}
	if argv := report.Outcomes[0].Argv; argv[len(argv)-1] != path {
		t.Errorf("Outcome.Argv = %v, want trailing %s", argv, path)
	}

	if entries := testutil.MustReadDir(t, tmp); len(entries) != 0 {
		t.Errorf("temp dir has %d entries after run, want 0", len(entries))
	}
}

func TestEngine_ArgMode(t *testing.T) {
	t.Parallel()
	testutil.RequireInterpreters(t, "sh")

	tmp := t.TempDir()
	var stdout bytes.Buffer
	reg := NewRegistry(map[string]Definition{"sh": {Command: "sh -c", Mode: ModeArg}})
	engine := NewEngine(reg, EngineOptions{Stdout: &stdout, TempDir: tmp})

	report := engine.Run(context.Background(), section(block("sh", "read x || echo no-stdin\n")))
	if !report.Success() {
		t.Fatalf("Run() = %+v, want success", report.Outcomes)
	}
	if got := stdout.String(); got != "no-stdin\n" {
		t.Errorf("stdout = %q, want code passed as argument with empty stdin", got)
	}
	if entries := testutil.MustReadDir(t, tmp); len(entries) != 0 {
		t.Errorf("arg mode wrote %d files, want none", len(entries))
	}
}

func TestEngine_ContinuesAfterFailure(t *testing.T) {
	t.Parallel()
	testutil.RequireInterpreters(t, "sh")

	var stdout bytes.Buffer
	engine := NewEngine(shRegistry(ModeStdin), EngineOptions{Stdout: &stdout})

	report := engine.Run(context.Background(), section(
		block("sh", "exit 3\n"),
		block("sh", "echo after\n"),
		block("sh", "exit 4\n"),
	))

	if report.Success() {
		t.Error("Success() = true, want false")
	}
	if got := report.ExitCode(); got != 3 {
		t.Errorf("ExitCode() = %d, want first failure's code 3", got)
	}
	if got := stdout.String(); got != "after\n" {
		t.Errorf("stdout = %q, want later blocks to run", got)
	}
	if report.Count(StatusFailure) != 2 || report.Count(StatusSuccess) != 1 {
		t.Errorf("outcomes = %+v", report.Outcomes)
	}
	if report.Outcomes[0].Err != nil {
		t.Errorf("Outcome.Err = %v, want nil for a plain non-zero exit", report.Outcomes[0].Err)
	}
}

func TestEngine_FailFast(t *testing.T) {
	t.Parallel()
	testutil.RequireInterpreters(t, "sh")

	var stdout bytes.Buffer
	engine := NewEngine(shRegistry(ModeStdin), EngineOptions{Stdout: &stdout, FailFast: true})

	report := engine.Run(context.Background(), section(
		block("sh", "exit 2\n"),
		block("sh", "echo never\n"),
	))

	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing after the failure", stdout.String())
	}
	if got := report.Outcomes[1]; got.Status != StatusSkipped || got.Reason != ReasonAborted {
		t.Errorf("second outcome = %+v, want skipped as aborted", got)
	}
	if report.ExitCode() != 2 {
		t.Errorf("ExitCode() = %d, want 2", report.ExitCode())
	}
}

func TestEngine_UnresolvedLanguage(t *testing.T) {
	t.Parallel()
	testutil.RequireInterpreters(t, "sh")

	blocks := section(
		block("", "no language\n"),
		block("cobol", "DISPLAY 'HI'.\n"),
		block("sh", "true\n"),
	)

	lenient := NewEngine(shRegistry(ModeStdin), EngineOptions{}).Run(context.Background(), blocks)
	if !lenient.Success() || lenient.ExitCode() != 0 {
		t.Errorf("lenient run = %+v, want success", lenient.Outcomes)
	}
	for _, o := range lenient.Outcomes[:2] {
		if o.Status != StatusSkipped || o.Reason != ReasonUnresolved {
			t.Errorf("outcome = %+v, want skipped as unresolved", o)
		}
	}
	if lenient.Outcomes[2].Status != StatusSuccess {
		t.Errorf("resolved block = %+v, want success", lenient.Outcomes[2])
	}

	strict := NewEngine(shRegistry(ModeStdin), EngineOptions{Strict: true}).Run(context.Background(), blocks)
	if strict.Success() || strict.ExitCode() != 1 {
		t.Errorf("strict run: Success() = %v, ExitCode() = %d; want false, 1", strict.Success(), strict.ExitCode())
	}
	if strict.Outcomes[2].Status != StatusSuccess {
		t.Errorf("strict mode should still run resolved blocks, got %+v", strict.Outcomes[2])
	}
}

func TestEngine_DryRun(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	reg := NewRegistry(map[string]Definition{
		"x":   {Command: "definitely-not-installed-mx --flag", Mode: ModeStdin},
		"y":   {Command: "also-missing", Mode: ModeFile},
		"arg": {Command: "missing -c", Mode: ModeArg},
	})
	engine := NewEngine(reg, EngineOptions{DryRun: true, TempDir: tmp})

	report := engine.Run(context.Background(), section(
		block("x", "one\n"),
		block("y", "two\n"),
		block("arg", "three"),
	))

	if !report.Success() {
		t.Fatalf("dry run = %+v, want success", report.Outcomes)
	}
	for _, o := range report.Outcomes {
		if o.Status != StatusSkipped || o.Reason != ReasonDryRun {
			t.Errorf("outcome = %+v, want dry-run skip", o)
		}
	}

	if got := report.Outcomes[0].CommandLine(); got != "definitely-not-installed-mx --flag" {
		t.Errorf("stdin plan = %q", got)
	}
	if got := report.Outcomes[1].Argv; got[1] != filepath.Join(tmp, "mx-*.y") {
		t.Errorf("file plan = %v, want temp pattern", got)
	}
	if got := report.Outcomes[2].Argv; got[len(got)-1] != "three" {
		t.Errorf("arg plan = %v, want body as last argument", got)
	}

	if entries := testutil.MustReadDir(t, tmp); len(entries) != 0 {
		t.Errorf("dry run created %d files", len(entries))
	}
}

func TestEngine_SpawnError(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(map[string]Definition{"x": {Command: "definitely-not-installed-mx"}})
	report := NewEngine(reg, EngineOptions{}).Run(context.Background(), section(block("x", "")))

	o := report.Outcomes[0]
	if o.Status != StatusFailure || o.ExitCode != ExitFailure {
		t.Errorf("outcome = %+v, want failure with exit 1", o)
	}
	if !errors.Is(o.Err, exec.ErrNotFound) {
		t.Errorf("Outcome.Err = %v, want exec.ErrNotFound", o.Err)
	}
}

func TestEngine_FileModeSpawnErrorRemovesScript(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	reg := NewRegistry(map[string]Definition{"x": {Command: "definitely-not-installed-mx", Mode: ModeFile}})
	report := NewEngine(reg, EngineOptions{TempDir: tmp}).Run(context.Background(), section(block("x", "echo hi\n")))

	o := report.Outcomes[0]
	if o.Status != StatusFailure || !errors.Is(o.Err, exec.ErrNotFound) {
		t.Errorf("outcome = %+v, want exec.ErrNotFound failure", o)
	}
	if entries := testutil.MustReadDir(t, tmp); len(entries) != 0 {
		t.Errorf("temp dir has %d entries after spawn failure, want 0", len(entries))
	}
}

func TestEngine_CleanupFailureIsLogged(t *testing.T) {
	t.Parallel()
	testutil.RequireInterpreters(t, "sh")

	tmp := t.TempDir()
	var logs bytes.Buffer
	logger := log.New(&logs)
	logger.SetLevel(log.WarnLevel)
	engine := NewEngine(shRegistry(ModeFile), EngineOptions{TempDir: tmp, Logger: logger})

	// The script swaps itself for a non-empty directory so it cannot be removed.
	report := engine.Run(context.Background(), section(block("sh", "rm \"$0\" && mkdir \"$0\" && touch \"$0/keep\"\n")))
	if !report.Success() {
		t.Fatalf("Run() = %+v, want success", report.Outcomes)
	}
	if !strings.Contains(logs.String(), "temp script left behind") {
		t.Errorf("logger output = %q, want a cleanup warning", logs.String())
	}
}

func TestEngine_EmptyCommand(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(map[string]Definition{"x": {Command: "  "}})
	report := NewEngine(reg, EngineOptions{}).Run(context.Background(), section(block("x", "")))

	if o := report.Outcomes[0]; o.Status != StatusFailure || !errors.Is(o.Err, ErrEmptyCommand) {
		t.Errorf("outcome = %+v, want ErrEmptyCommand failure", o)
	}
}

func TestEngine_Environment(t *testing.T) {
	t.Parallel()
	testutil.RequireInterpreters(t, "sh")

	var stdout bytes.Buffer
	engine := NewEngine(shRegistry(ModeStdin), EngineOptions{
		Stdout: &stdout,
		Args:   []string{"prod", "eu west"},
		Env:    map[string]string{"STAGE": "from-dotenv"},
		HostEnv: func() []string {
			return []string{"PATH=" + os.Getenv("PATH"), "MX_ARG_5=stale"}
		},
	})

	report := engine.Run(context.Background(), section(block("sh",
		"echo \"$MX_ARGS|$MX_ARG_0|$MX_ARG_1|${MX_ARG_5:-unset}|$STAGE\"\n")))
	if !report.Success() {
		t.Fatalf("Run() = %+v", report.Outcomes)
	}

	want := "prod eu west|prod|eu west|unset|from-dotenv\n"
	if got := stdout.String(); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestEngine_NoArgsLeavesMXArgsUnset(t *testing.T) {
	t.Parallel()
	testutil.RequireInterpreters(t, "sh")

	var stdout bytes.Buffer
	engine := NewEngine(shRegistry(ModeStdin), EngineOptions{
		Stdout:  &stdout,
		HostEnv: func() []string { return []string{"PATH=" + os.Getenv("PATH")} },
	})

	engine.Run(context.Background(), section(block("sh", "echo \"${MX_ARGS-unset}\"\n")))
	if got := stdout.String(); got != "unset\n" {
		t.Errorf("stdout = %q, want MX_ARGS unset", got)
	}
}

func TestEngine_Cancellation(t *testing.T) {
	t.Parallel()
	testutil.RequireInterpreters(t, "sh", "sleep")

	tmp := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	engine := NewEngine(shRegistry(ModeFile), EngineOptions{TempDir: tmp})

	start := time.Now()
	report := engine.Run(ctx, section(
		block("sh", "exec sleep 5\n"),
		block("sh", "echo never\n"),
		block("sh", "echo never\n"),
	))

	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Errorf("Run() took %s, want the interpreter killed promptly", elapsed)
	}
	if got := report.ExitCode(); got != ExitCanceled {
		t.Errorf("ExitCode() = %d, want %d", got, ExitCanceled)
	}
	if o := report.Outcomes[0]; o.Status != StatusFailure || !errors.Is(o.Err, context.DeadlineExceeded) {
		t.Errorf("first outcome = %+v, want failure with context error", o)
	}
	for _, o := range report.Outcomes[1:] {
		if o.Status != StatusSkipped || o.Reason != ReasonCanceled {
			t.Errorf("outcome = %+v, want skipped as canceled", o)
		}
	}

	if entries := testutil.MustReadDir(t, tmp); len(entries) != 0 {
		t.Errorf("temp dir has %d entries after cancellation, want 0", len(entries))
	}
}

func TestEngine_CanceledBeforeStart(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := NewEngine(shRegistry(ModeStdin), EngineOptions{}).Run(ctx, section(block("sh", "true\n")))
	if o := report.Outcomes[0]; o.Status != StatusSkipped || o.Reason != ReasonCanceled {
		t.Errorf("outcome = %+v, want skipped as canceled", o)
	}
	if report.ExitCode() != ExitCanceled {
		t.Errorf("ExitCode() = %d, want %d", report.ExitCode(), ExitCanceled)
	}
}
