// SPDX-License-Identifier: MPL-2.0

// Package document turns a Markdown file into a tree of sections.
//
// Parsing happens in two steps. Nodes walks the goldmark AST and flattens it into
// the block-level nodes mx cares about (headings, fenced code blocks and top-level
// paragraphs). Build then folds that flat sequence into a Section tree using a stack
// of open headings, so a section owns every code block between its heading and the
// next heading of the same or a shallower level.
//
// The root returned by Build and Parse is synthetic (level 0). It collects code
// blocks that appear before the first heading and is never selectable as a task.
package document
