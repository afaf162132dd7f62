// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mxrun/mx/internal/document"

	"github.com/charmbracelet/log"
)

// waitDelay bounds how long a killed interpreter's output pipes may stay
// open, e.g. held by a background grandchild.
const waitDelay = 2 * time.Second

type (
	// EngineOptions configures an Engine. The zero value runs blocks with no
	// stdin, discards output and inherits the host environment.
	EngineOptions struct {
		// Stdout and Stderr receive interpreter output.
		Stdout io.Writer
		Stderr io.Writer
		// Stdin feeds interpreters in file and arg mode. In stdin mode the
		// block body replaces it.
		Stdin io.Reader
		// Env is layered over the host environment (typically dotenv values).
		Env map[string]string
		// Args are the task arguments exported as MX_ARGS and MX_ARG_<i>.
		Args []string
		// Dir is the working directory of interpreters, empty for the current one.
		Dir string
		// TempDir receives file-mode scripts, empty for os.TempDir.
		TempDir string
		// FailFast skips the remaining blocks after the first failure.
		FailFast bool
		// Strict counts unresolved languages as failures in the Report.
		Strict bool
		// DryRun resolves every block without starting anything.
		DryRun bool
		// Logger receives one debug entry per dispatch. Nil discards.
		Logger *log.Logger
		// HostEnv returns the inherited environment, os.Environ when nil.
		HostEnv func() []string
	}

	// Engine runs the code blocks of a section against a Registry.
	Engine struct {
		registry *Registry
		opts     EngineOptions
	}
)

// NewEngine creates an Engine. The registry is shared, never copied.
func NewEngine(registry *Registry, opts EngineOptions) *Engine {
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.HostEnv == nil {
		opts.HostEnv = os.Environ
	}
	return &Engine{registry: registry, opts: opts}
}

// Registry returns the registry the engine resolves languages against.
func (e *Engine) Registry() *Registry { return e.registry }

// Run executes the blocks of sec in document order and reports one Outcome
// per block. Blocks never run concurrently. Once ctx is done the running
// interpreter is killed and the remaining blocks are skipped.
func (e *Engine) Run(ctx context.Context, sec *document.Section) *Report {
	report := &Report{Task: sec.Title, Strict: e.opts.Strict}

	var stopReason string
	for i, block := range sec.CodeBlocks {
		if stopReason == "" && ctx.Err() != nil {
			stopReason = ReasonCanceled
		}
		if stopReason != "" {
			report.Outcomes = append(report.Outcomes, Outcome{
				Index:    i,
				Language: block.Language,
				Status:   StatusSkipped,
				Reason:   stopReason,
			})
			continue
		}

		outcome := e.runBlock(ctx, i, block)
		report.Outcomes = append(report.Outcomes, outcome)

		if outcome.Status == StatusFailure {
			switch {
			case ctx.Err() != nil:
				stopReason = ReasonCanceled
			case e.opts.FailFast:
				stopReason = ReasonAborted
			}
		}
	}

	return report
}

// runBlock resolves and dispatches a single block.
func (e *Engine) runBlock(ctx context.Context, index int, block document.CodeBlock) Outcome {
	outcome := Outcome{Index: index, Language: block.Language}

	def, ok := e.registry.Resolve(block.Language)
	if !ok {
		e.opts.Logger.Debug("no runtime for block", "index", index, "language", block.Language)
		outcome.Status = StatusSkipped
		outcome.Reason = ReasonUnresolved
		return outcome
	}
	outcome.Mode = def.Mode

	argv, err := def.Argv()
	if err != nil {
		outcome.Status = StatusFailure
		outcome.ExitCode = ExitFailure
		outcome.Err = err
		return outcome
	}

	if e.opts.DryRun {
		outcome.Argv = e.plannedArgv(argv, def.Mode, block)
		outcome.Status = StatusSkipped
		outcome.Reason = ReasonDryRun
		return outcome
	}

	outcome.Argv, outcome.ExitCode, outcome.Err = e.dispatch(ctx, argv, def.Mode, block)
	if outcome.ExitCode.IsSuccess() && outcome.Err == nil {
		outcome.Status = StatusSuccess
	} else {
		outcome.Status = StatusFailure
	}
	return outcome
}

// dispatch starts the interpreter for one block and waits for it.
func (e *Engine) dispatch(ctx context.Context, argv []string, mode ExecutionMode, block document.CodeBlock) ([]string, ExitCode, error) {
	stdin := e.opts.Stdin

	switch mode {
	case ModeStdin:
		stdin = strings.NewReader(block.Body)
	case ModeFile:
		path, cleanup, err := writeTempScript(e.opts.TempDir, block.Language, block.Body)
		if err != nil {
			return argv, ExitFailure, err
		}
		defer func() {
			if err := cleanup(); err != nil {
				e.opts.Logger.Warn("temp script left behind", "path", path, "error", err)
			}
		}()
		argv = append(argv, path)
	case ModeArg:
		argv = append(argv, block.Body)
	default:
		return argv, ExitFailure, &InvalidExecutionModeError{Value: mode}
	}

	e.opts.Logger.Debug("running block",
		"language", block.Language,
		"mode", mode,
		"argv", argv,
	)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = e.opts.Dir
	cmd.Env = buildEnv(e.opts.HostEnv(), e.opts.Env, e.opts.Args)
	cmd.Stdin = stdin
	cmd.Stdout = e.opts.Stdout
	cmd.Stderr = e.opts.Stderr
	cmd.WaitDelay = waitDelay

	code, err := exitStatus(ctx, cmd.Run())
	return argv, code, err
}

// plannedArgv is the argv a dry run reports. File mode shows the temp file
// pattern since no file is created.
func (e *Engine) plannedArgv(argv []string, mode ExecutionMode, block document.CodeBlock) []string {
	switch mode {
	case ModeFile:
		dir := e.opts.TempDir
		if dir == "" {
			dir = os.TempDir()
		}
		return append(argv, filepath.Join(dir, tempPattern(block.Language)))
	case ModeArg:
		return append(argv, block.Body)
	default:
		return argv
	}
}
