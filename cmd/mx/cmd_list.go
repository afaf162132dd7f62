// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	appexec "github.com/mxrun/mx/internal/app/execute"
	"github.com/mxrun/mx/internal/issue"

	"github.com/spf13/cobra"
)

var errNoTasks = errors.New("no tasks found")

// newListCommand creates the `mx list` command.
func newListCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the tasks in the document",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listTasks(cmd, app, rootFlags)
		},
	}
}

// listTasks prints one line per task: its title and, when the section opens
// with a paragraph, " - description".
func listTasks(cmd *cobra.Command, app *App, rootFlags *rootFlagValues) error {
	sess, err := app.loadSession(cmd.Context(), rootFlags)
	if err != nil {
		return err
	}

	root, err := appexec.LoadDocument(sess.document)
	if err != nil {
		return err
	}

	tasks := appexec.DescribeTasks(root, sess.level)
	if len(tasks) == 0 {
		return issue.NewErrorContext().
			WithOperation("list tasks").
			WithResource(sess.document).
			WithSuggestion(fmt.Sprintf("Add a level %d heading, or pass --level to match the document", sess.level)).
			WithIssue(issue.NoTasksFoundId).
			Wrap(errNoTasks).
			BuildError()
	}

	for _, t := range tasks {
		line := CmdStyle.Render(t.Title)
		if t.Description != "" {
			line += SubtitleStyle.Render(" - " + t.Description)
		}
		fmt.Fprintln(app.stdout, line)
	}
	return nil
}
