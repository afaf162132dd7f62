// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/mxrun/mx/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `mx config` command group.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration mx would use, after mx.toml and MX_* environment
variables are applied, as TOML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: rootFlags.configPath})
			if err != nil {
				return err
			}

			source := cfg.Source
			if source == "" {
				source = "(defaults)"
			}
			fmt.Fprintf(app.stdout, "# source: %s\n", source)

			content, err := config.GenerateTOML(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, content)
			return nil
		},
	})

	return cfgCmd
}
