// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues are the persistent flags shared by every subcommand.
type rootFlagValues struct {
	file       string
	configPath string
	level      int
	verbose    bool
}

// NewRootCommand builds the mx command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootFlags := &rootFlagValues{}
	runFlags := &runFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "mx [flags] [task [args...]]",
		Short: "Run the code blocks of a Markdown section",
		Long: TitleStyle.Render("mx") + SubtitleStyle.Render(" - run the code blocks of a Markdown section") + `

mx treats every heading of a Markdown document (## by default) as a task.
Running a task executes the fenced code blocks under that heading in order,
each with the interpreter configured for its language.

` + SubtitleStyle.Render("Examples:") + `
  mx                        List the tasks in README.md
  mx Build                  Run the "## Build" section
  mx Deploy prod            Run "## Deploy" with MX_ARGS=prod, MX_ARG_0=prod
  mx -f TASKS.md -l 3 Lint  Run "### Lint" from TASKS.md
  mx run --dry-run Build    Show what would run
  mx init                   Write a default mx.toml`,
		Args:              cobra.ArbitraryArgs,
		ValidArgsFunction: completeTaskNames(app, rootFlags),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			app.setVerbose(rootFlags.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return listTasks(cmd, app, rootFlags)
			}
			return runTask(cmd, app, rootFlags, runFlags, args)
		},
	}
	// Everything after the task name belongs to the task.
	rootCmd.Flags().SetInterspersed(false)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rootFlags.file, "file", "f", "", "Markdown task document (default: 'file' from mx.toml, then README.md)")
	pf.StringVarP(&rootFlags.configPath, "config", "c", "", "config file (default: ./mx.toml)")
	pf.IntVarP(&rootFlags.level, "level", "l", 0, "heading level of task sections, 1-6 (default: from mx.toml, then 2)")
	pf.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "enable debug logging")

	bindRunFlags(rootCmd, runFlags)

	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(
		newRunCommand(app, rootFlags),
		newListCommand(app, rootFlags),
		newInitCommand(app),
		newConfigCommand(app, rootFlags),
		newRuntimesCommand(app, rootFlags),
		newCompletionCommand(app),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs mx with the process's standard streams and exits with the
// task's exit code. It is called by main.main.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.renderError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}
