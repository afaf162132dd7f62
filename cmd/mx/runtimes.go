// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	appexec "github.com/mxrun/mx/internal/app/execute"

	"github.com/spf13/cobra"
)

// newRuntimesCommand creates the `mx runtimes` command.
func newRuntimesCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "runtimes",
		Short: "List the configured runtimes and whether they are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := app.loadSession(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}

			registry := appexec.LoadRegistry(sess.cfg, nil)
			for _, a := range registry.Check(app.lookPath) {
				status := SuccessStyle.Render(a.Path)
				if !a.Available() {
					status = WarningStyle.Render("not found")
				}
				fmt.Fprintf(app.stdout, "%s %-20s %-6s %s\n",
					CmdStyle.Render(fmt.Sprintf("%-12s", a.Language)), a.Definition.Command, a.Definition.Mode, status)
			}
			return nil
		},
	}
}
