// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	DocumentNotFoundId Id = iota + 1
	DocumentParseErrorId
	TaskNotFoundId
	NoTasksFoundId
	UnresolvedLanguageId
	RuntimeNotFoundId
	ScriptExecutionFailedId
	ConfigLoadFailedId
	InvalidExecutionModeId
	InvalidRuntimeOverrideId
	ConfigExistsId
	PermissionDeniedId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is the Markdown body of an issue.
	MarkdownMsg string

	// HttpLink is an external reference shown under "See also".
	HttpLink string

	// Renderer renders Markdown for a glamour style (e.g. "dark", "notty").
	Renderer func(in string, stylePath string) (string, error)

	// Issue is a catalog entry: guidance shown when a known failure happens.
	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		extLinks []HttpLink  // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the message with its "See also" links appended.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range i.extLinks {
			sb.WriteString("- <")
			sb.WriteString(string(link))
			sb.WriteString(">\n")
		}
	}
	return sb.String()
}

// Render renders the issue with the given glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render Renderer = glamour.Render

	documentNotFoundIssue = &Issue{
		id: DocumentNotFoundId,
		mdMsg: `
# Task document not found!

mx reads tasks from a Markdown file, README.md in the current directory by default.

## Things you can try:
- Point mx at another document:
~~~
$ mx --file TASKS.md
~~~
- Set a default document in mx.toml:
~~~toml
file = "docs/TASKS.md"
~~~`,
	}

	documentParseErrorIssue = &Issue{
		id: DocumentParseErrorId,
		mdMsg: `
# Failed to read the task document!

The document could not be read or is not valid UTF-8 text.

## Things you can try:
- Check the file permissions
- Re-save the file with UTF-8 encoding`,
		extLinks: []HttpLink{"https://spec.commonmark.org/"},
	}

	taskNotFoundIssue = &Issue{
		id: TaskNotFoundId,
		mdMsg: `
# Task not found!

A task is a heading at the configured level (## by default) whose title matches exactly.
Titles are case-sensitive.

## Things you can try:
- List the available tasks:
~~~
$ mx list
~~~
- Select another heading level if your tasks use a different depth:
~~~
$ mx --level 3 list
~~~`,
	}

	noTasksFoundIssue = &Issue{
		id: NoTasksFoundId,
		mdMsg: `
# No tasks found!

The document has no headings at the configured level.

## Example task:
~~~markdown
## Build

Compile the project.

` + "```bash" + `
go build ./...
` + "```" + `
~~~`,
	}

	unresolvedLanguageIssue = &Issue{
		id: UnresolvedLanguageId,
		mdMsg: `
# Code block language has no runtime!

mx skips fences whose language has no configured interpreter. With strict mode enabled
the run fails instead.

## Things you can try:
- Label the fence with a known language, e.g. ` + "`bash`" + ` or ` + "`python`" + `
- Register an interpreter in mx.toml:
~~~toml
[runtimes]
lua = "lua -"
~~~
- Or override it for one run:
~~~
$ mx --runtime lua:"lua -" build
~~~`,
	}

	runtimeNotFoundIssue = &Issue{
		id: RuntimeNotFoundId,
		mdMsg: `
# Interpreter not found!

The command configured for this language is not on your PATH.

## Things you can try:
- See which interpreters mx can find:
~~~
$ mx runtimes
~~~
- Install the interpreter, or point the language at another command in mx.toml`,
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# A code block failed!

The interpreter exited with a non-zero status. Its output is shown above.

## Things you can try:
- Preview what mx would run without running it:
~~~
$ mx run --dry-run build
~~~
- Stop at the first failing block:
~~~
$ mx run --fail-fast build
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

mx.toml could not be read or does not match the expected schema.

## Things you can try:
- Generate a fresh configuration and compare:
~~~
$ mx init --output /tmp/mx.toml
~~~
- Check MX_HEADING_LEVEL, MX_FILE, MX_FAIL_FAST and MX_STRICT in your environment`,
		extLinks: []HttpLink{"https://toml.io/en/v1.0.0"},
	}

	invalidExecutionModeIssue = &Issue{
		id: InvalidExecutionModeId,
		mdMsg: `
# Invalid execution mode!

Valid execution modes are:
- ` + "`stdin`" + ` pipes the code to the interpreter
- ` + "`file`" + ` writes the code to a temporary file and passes its path
- ` + "`arg`" + ` passes the code as a single argument`,
	}

	invalidRuntimeOverrideIssue = &Issue{
		id: InvalidRuntimeOverrideId,
		mdMsg: `
# Invalid runtime override!

Runtime overrides take the form ` + "`language:command`" + `.

## Example:
~~~
$ mx --runtime python:python3.12 --runtime go:"go run" --execution-mode file build
~~~`,
	}

	configExistsIssue = &Issue{
		id: ConfigExistsId,
		mdMsg: `
# Configuration file already exists!

mx init never overwrites an existing file unless asked to.

## Things you can try:
- Overwrite it:
~~~
$ mx init --force
~~~
- Write somewhere else:
~~~
$ mx init --output mx.example.toml
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

mx could not read a file or start an interpreter.

## Things you can try:
- Check the permissions of the document and of the interpreter binary
- Make sure the temporary directory is writable (file mode writes code there)`,
	}

	issues = map[Id]*Issue{
		documentNotFoundIssue.Id():       documentNotFoundIssue,
		documentParseErrorIssue.Id():     documentParseErrorIssue,
		taskNotFoundIssue.Id():           taskNotFoundIssue,
		noTasksFoundIssue.Id():           noTasksFoundIssue,
		unresolvedLanguageIssue.Id():     unresolvedLanguageIssue,
		runtimeNotFoundIssue.Id():        runtimeNotFoundIssue,
		scriptExecutionFailedIssue.Id():  scriptExecutionFailedIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		invalidExecutionModeIssue.Id():   invalidExecutionModeIssue,
		invalidRuntimeOverrideIssue.Id(): invalidRuntimeOverrideIssue,
		configExistsIssue.Id():           configExistsIssue,
		permissionDeniedIssue.Id():       permissionDeniedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
}

func Get(id Id) *Issue {
	return issues[id]
}
