// SPDX-License-Identifier: MPL-2.0

// Package execute is the boundary between the mx CLI and the core packages.
// It parses task documents, layers runtime definitions from built-in
// defaults, configuration and command-line overrides, and resolves and runs
// a task by name.
package execute
