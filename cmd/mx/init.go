// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mxrun/mx/internal/config"
	"github.com/mxrun/mx/internal/issue"

	"github.com/spf13/cobra"
)

var errConfigExists = errors.New("config file already exists")

// newInitCommand creates the `mx init` command.
func newInitCommand(app *App) *cobra.Command {
	var (
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default mx.toml",
		Long: `Write an mx.toml holding the default settings and every built-in runtime,
ready to be edited.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(app, output, force)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", config.ConfigFileName, "path of the file to write")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func runInit(app *App, output string, force bool) error {
	if !force {
		if _, err := os.Stat(output); err == nil {
			return issue.NewErrorContext().
				WithOperation("write config").
				WithResource(output).
				WithIssue(issue.ConfigExistsId).
				Wrap(errConfigExists).
				BuildError()
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("check %s: %w", output, err)
		}
	}

	content, err := config.GenerateTOML(config.InitConfig())
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, []byte(content), 0o644); err != nil {
		return issue.NewErrorContext().
			WithOperation("write config").
			WithResource(output).
			Wrap(err).
			BuildError()
	}

	fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), output)
	return nil
}
