// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io/fs"
	"os/exec"

	"github.com/mxrun/mx/internal/issue"
	"github.com/mxrun/mx/internal/runtime"
)

// classifyFailure maps the first problem of a failed report to an issue
// catalog ID. It returns zero when there is nothing to explain, as for a
// canceled run.
func classifyFailure(report *runtime.Report) issue.Id {
	if o, ok := report.FirstFailure(); ok {
		switch {
		case errors.Is(o.Err, context.Canceled), errors.Is(o.Err, context.DeadlineExceeded):
			return 0
		case errors.Is(o.Err, exec.ErrNotFound), errors.Is(o.Err, fs.ErrNotExist):
			return issue.RuntimeNotFoundId
		case errors.Is(o.Err, fs.ErrPermission):
			return issue.PermissionDeniedId
		default:
			return issue.ScriptExecutionFailedId
		}
	}

	if report.Strict {
		for _, o := range report.Outcomes {
			if o.Unresolved() {
				return issue.UnresolvedLanguageId
			}
		}
	}
	return 0
}
