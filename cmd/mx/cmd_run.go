// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"

	appexec "github.com/mxrun/mx/internal/app/execute"
	"github.com/mxrun/mx/internal/issue"
	"github.com/mxrun/mx/internal/runtime"

	"github.com/spf13/cobra"
)

// runFlagValues are the flags that shape a task run. They are bound both to
// `mx run` and to the root shorthand.
type runFlagValues struct {
	runtimes      []string
	executionMode string
	envFiles      []string
	failFast      bool
	strict        bool
	dryRun        bool
	watch         bool
}

func bindRunFlags(cmd *cobra.Command, f *runFlagValues) {
	fs := cmd.Flags()
	fs.StringArrayVarP(&f.runtimes, "runtime", "r", nil, "override a runtime as lang:command (repeatable)")
	fs.StringVarP(&f.executionMode, "execution-mode", "e", "", "execution mode for --runtime overrides: stdin, file or arg")
	fs.StringArrayVar(&f.envFiles, "env-file", nil, "load variables from a dotenv file (repeatable, suffix '?' if optional)")
	fs.BoolVar(&f.failFast, "fail-fast", false, "skip the remaining blocks after the first failure")
	fs.BoolVar(&f.strict, "strict", false, "fail when a block's language has no runtime")
	fs.BoolVar(&f.dryRun, "dry-run", false, "show what would run without running it")
	fs.BoolVarP(&f.watch, "watch", "w", false, "re-run the task when the document changes")
}

// newRunCommand creates the `mx run` command.
func newRunCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &runFlagValues{}
	runCmd := &cobra.Command{
		Use:   "run [flags] task [args...]",
		Short: "Run a task",
		Long: `Run the code blocks under a heading.

Blocks run one after another in document order. Arguments after the task
name are exported to every block as MX_ARGS (space-joined) and MX_ARG_0,
MX_ARG_1, ... Flags must come before the task name.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeTaskNames(app, rootFlags),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(cmd, app, rootFlags, flags, args)
		},
	}
	runCmd.Flags().SetInterspersed(false)
	bindRunFlags(runCmd, flags)
	return runCmd
}

// runTask runs args[0] with args[1:] as task arguments, or starts watch mode.
func runTask(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, flags *runFlagValues, args []string) error {
	sess, err := app.loadSession(cmd.Context(), rootFlags)
	if err != nil {
		return err
	}

	if flags.watch {
		return runWatchMode(cmd.Context(), app, sess, flags, args)
	}

	engine, err := app.newEngine(sess, flags, args[1:])
	if err != nil {
		return err
	}
	return executeTask(cmd.Context(), app, sess, engine, flags.dryRun, args[0])
}

// newEngine builds the registry and engine for one run from the session and
// the run flags.
func (a *App) newEngine(sess *session, flags *runFlagValues, taskArgs []string) (*runtime.Engine, error) {
	mode, err := runtime.ParseExecutionMode(flags.executionMode)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse --execution-mode").
			WithResource(flags.executionMode).
			WithIssue(issue.InvalidExecutionModeId).
			Wrap(err).
			BuildError()
	}

	overrides, err := runtime.ParseOverrides(flags.runtimes, mode)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse --runtime").
			WithIssue(issue.InvalidRuntimeOverrideId).
			Wrap(err).
			BuildError()
	}

	env, err := runtime.LoadEnvFiles(flags.envFiles)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load env files").
			WithSuggestion("Append '?' to the path to make a file optional: --env-file .env.local?").
			Wrap(err).
			BuildError()
	}

	registry := appexec.LoadRegistry(sess.cfg, overrides)
	a.logger.Debug("runtime registry", "languages", registry.Len(), "overrides", len(overrides))

	return runtime.NewEngine(registry, runtime.EngineOptions{
		Stdout:   a.stdout,
		Stderr:   a.stderr,
		Stdin:    a.stdin,
		Env:      env,
		Args:     taskArgs,
		FailFast: flags.failFast || sess.cfg.FailFast,
		Strict:   flags.strict || sess.cfg.Strict,
		DryRun:   flags.dryRun,
		Logger:   a.logger,
	}), nil
}

// executeTask loads the document, runs the task and renders the result.
// A failed run returns an *ExitError carrying the report's exit code.
func executeTask(ctx context.Context, app *App, sess *session, engine *runtime.Engine, dryRun bool, name string) error {
	root, err := appexec.LoadDocument(sess.document)
	if err != nil {
		return err
	}

	report, err := appexec.RunTask(ctx, root, name, sess.level, engine)
	if err != nil {
		var notFound *appexec.TaskNotFoundError
		if errors.As(err, &notFound) {
			return newServiceError(err, issue.TaskNotFoundId, renderTaskNotFound(notFound, sess.document))
		}
		return err
	}

	if dryRun {
		renderDryRun(app.stdout, report, sess.document)
		if report.Count(runtime.StatusFailure) > 0 {
			return &ExitError{Code: report.ExitCode()}
		}
		return nil
	}

	renderSummary(app.stderr, report, app.verbose)
	if !report.Success() {
		// A non-zero exit is explained by the script's own output.
		if id := classifyFailure(report); id != issue.ScriptExecutionFailedId || app.verbose {
			app.renderIssue(app.stderr, id)
		}
		return &ExitError{Code: report.ExitCode()}
	}
	return nil
}
