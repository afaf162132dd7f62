// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	appexec "github.com/mxrun/mx/internal/app/execute"
	"github.com/mxrun/mx/internal/runtime"
)

// renderSummary prints every skipped or failed block followed by a totals
// line. A clean run prints nothing unless verbose is set.
func renderSummary(w io.Writer, report *runtime.Report, verbose bool) {
	clean := report.Count(runtime.StatusSuccess) == len(report.Outcomes)
	if clean && !verbose {
		return
	}

	for _, o := range report.Outcomes {
		switch o.Status {
		case runtime.StatusFailure:
			detail := "exit status " + o.ExitCode.String()
			if o.Err != nil {
				detail = o.Err.Error()
			}
			fmt.Fprintf(w, "%s %s %s\n", ErrorStyle.Render("✗"), blockLabel(o), VerboseStyle.Render(detail))
		case runtime.StatusSkipped:
			fmt.Fprintf(w, "%s %s %s\n", WarningStyle.Render("-"), blockLabel(o), VerboseStyle.Render("skipped: "+o.Reason))
		case runtime.StatusSuccess:
			if verbose {
				fmt.Fprintf(w, "%s %s %s\n", SuccessStyle.Render("✓"), blockLabel(o), VerboseStyle.Render(o.CommandLine()))
			}
		}
	}

	totals := fmt.Sprintf("%s: %d succeeded, %d failed, %d skipped",
		report.Task,
		report.Count(runtime.StatusSuccess),
		report.Count(runtime.StatusFailure),
		report.Count(runtime.StatusSkipped),
	)
	if report.Success() {
		fmt.Fprintln(w, SuccessStyle.Render(totals))
	} else {
		fmt.Fprintln(w, ErrorStyle.Render(totals))
	}
}

// renderDryRun prints the planned invocation of every block.
func renderDryRun(w io.Writer, report *runtime.Report, document string) {
	fmt.Fprintln(w, TitleStyle.Render("Dry Run"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s\n", summaryLabelStyle.Render("Task:"), report.Task)
	fmt.Fprintf(w, "  %s %s\n", summaryLabelStyle.Render("Document:"), document)
	fmt.Fprintln(w)

	if len(report.Outcomes) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("  (no code blocks)"))
		return
	}

	for _, o := range report.Outcomes {
		if o.Unresolved() {
			fmt.Fprintf(w, "  %s %s\n", blockLabel(o), WarningStyle.Render("no runtime, would be skipped"))
			continue
		}
		if o.Status == runtime.StatusFailure {
			fmt.Fprintf(w, "  %s %s\n", blockLabel(o), ErrorStyle.Render(o.Err.Error()))
			continue
		}
		fmt.Fprintf(w, "  %s %s\n", blockLabel(o), SubtitleStyle.Render("("+o.Mode.String()+")"))
		fmt.Fprintf(w, "      $ %s\n", o.CommandLine())
	}
	fmt.Fprintln(w)
}

// renderTaskNotFound builds the styled message for a missing task.
func renderTaskNotFound(err *appexec.TaskNotFoundError, document string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s task %s not found in %s\n",
		ErrorStyle.Render("Error:"), CmdStyle.Render(quoteTask(err.Name)), document)

	if suggestions := err.Suggestions(); len(suggestions) > 0 {
		quoted := make([]string, len(suggestions))
		for i, s := range suggestions {
			quoted[i] = quoteTask(s)
		}
		fmt.Fprintf(&sb, "\nDid you mean %s?\n", strings.Join(quoted, " or "))
	}

	if len(err.Available) == 0 {
		fmt.Fprintf(&sb, "\n%s\n", SubtitleStyle.Render(fmt.Sprintf("No level %d headings found.", err.Level)))
		return sb.String()
	}

	fmt.Fprintf(&sb, "\n%s\n", SubtitleStyle.Render("Available tasks:"))
	for _, title := range uniqueTitles(err.Available) {
		fmt.Fprintf(&sb, "  %s\n", CmdStyle.Render(title))
	}
	return sb.String()
}

// blockLabel identifies a block as "[n] lang" with a one-based index.
func blockLabel(o runtime.Outcome) string {
	lang := o.Language
	if lang == "" {
		lang = "(none)"
	}
	return summaryLabelStyle.Render(fmt.Sprintf("[%d] %s", o.Index+1, lang))
}

func quoteTask(name string) string {
	return "'" + name + "'"
}

// uniqueTitles drops repeated titles; only the first of a duplicate is runnable.
func uniqueTitles(titles []string) []string {
	seen := make(map[string]bool, len(titles))
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
