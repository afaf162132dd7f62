// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"

	appexec "github.com/mxrun/mx/internal/app/execute"

	"github.com/spf13/cobra"
)

// newCompletionCommand creates the `mx completion` command.
func newCompletionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for mx. Task names are completed from
the document in the current directory.

` + SubtitleStyle.Render("Bash:") + `
  eval "$(mx completion bash)"

` + SubtitleStyle.Render("Zsh:") + `
  eval "$(mx completion zsh)"

` + SubtitleStyle.Render("Fish:") + `
  mx completion fish > ~/.config/fish/completions/mx.fish

` + SubtitleStyle.Render("PowerShell:") + `
  mx completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(app.stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(app.stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(app.stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(app.stdout)
			}
			return nil
		},
	}
}

// completeTaskNames completes the first positional argument with task titles
// (and descriptions, for shells that show them). Later arguments belong to
// the task and get no completion.
func completeTaskNames(app *App, rootFlags *rootFlagValues) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		sess, err := app.loadSession(cmd.Context(), rootFlags)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		root, err := appexec.LoadDocument(sess.document)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		var out []cobra.Completion
		seen := make(map[string]bool)
		for _, t := range appexec.DescribeTasks(root, sess.level) {
			if seen[t.Title] || !strings.HasPrefix(t.Title, toComplete) {
				continue
			}
			seen[t.Title] = true
			out = append(out, cobra.CompletionWithDesc(t.Title, t.Description))
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
