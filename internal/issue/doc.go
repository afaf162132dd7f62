// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of Markdown guidance
// for the failures mx users run into (missing documents, unknown tasks,
// unresolved languages, bad configuration). The CLI renders catalog entries
// with glamour.
package issue
