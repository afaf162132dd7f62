// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Palette for mx output. Styles degrade to plain text when the output is not
// a color terminal.
const (
	colorAccent = lipgloss.Color("#7C3AED") // titles
	colorDim    = lipgloss.Color("#6B7280") // descriptions, hints
	colorOK     = lipgloss.Color("#10B981") // succeeded blocks
	colorFail   = lipgloss.Color("#EF4444") // failed blocks, errors
	colorWarn   = lipgloss.Color("#F59E0B") // skipped blocks
	colorTask   = lipgloss.Color("#3B82F6") // task names, block labels
	colorDetail = lipgloss.Color("#9CA3AF") // commands and reasons
)

var (
	// TitleStyle renders headers such as "Dry Run".
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	// SubtitleStyle renders task descriptions and secondary text.
	SubtitleStyle = lipgloss.NewStyle().Foreground(colorDim)
	// SuccessStyle marks succeeded blocks and created files.
	SuccessStyle = lipgloss.NewStyle().Foreground(colorOK)
	// ErrorStyle marks failures.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorFail)
	// WarningStyle marks skipped blocks and missing interpreters.
	WarningStyle = lipgloss.NewStyle().Foreground(colorWarn)
	// CmdStyle renders task and language names.
	CmdStyle = lipgloss.NewStyle().Foreground(colorTask)
	// VerboseStyle renders commands and reasons in run summaries.
	VerboseStyle = lipgloss.NewStyle().Foreground(colorDetail)

	summaryLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorTask)
)
