// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mxrun/mx/internal/issue"

	"github.com/charmbracelet/fang"
	"golang.org/x/term"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer: a pre-styled message shown instead of the plain error text
// and an issue catalog entry rendered below it. Always create via
// newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// renderError is the fang error handler. It prints the error, its
// suggestions and the matching issue catalog entry to w.
func (a *App) renderError(w io.Writer, _ fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	var (
		svcErr  *ServiceError
		issueID issue.Id
	)
	if errors.As(err, &svcErr) && svcErr.StyledMessage != "" {
		fmt.Fprint(w, svcErr.StyledMessage)
	} else {
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.verbose))
	}

	if svcErr != nil && svcErr.IssueID != 0 {
		issueID = svcErr.IssueID
	} else if id, ok := issue.IssueOf(err); ok {
		issueID = id
	}
	a.renderIssue(w, issueID)
}

// renderIssue renders a catalog entry. Non-terminal output gets the plain
// "notty" style so logs and pipes stay free of escape codes.
func (a *App) renderIssue(w io.Writer, id issue.Id) {
	if id == 0 {
		return
	}
	entry := issue.Get(id)
	if entry == nil {
		return
	}

	style := "notty"
	if isTerminal(a.stderr) {
		style = "dark"
	}
	rendered, err := entry.Render(style)
	if err != nil {
		a.logger.Warn("failed to render issue catalog entry", "issueID", id, "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}

// formatErrorForDisplay uses ActionableError.Format when available, which
// adds suggestions and, in verbose mode, the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
