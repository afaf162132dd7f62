// SPDX-License-Identifier: MPL-2.0

package document

type (
	// CodeBlock is a single fenced code block.
	CodeBlock struct {
		// Language is the first word of the fence info string. Empty when the fence has none.
		Language string
		// Body is the raw fence content, including its trailing newline.
		Body string
	}

	// Section is a heading together with the content scoped beneath it.
	Section struct {
		// Title is the trimmed heading text.
		Title string
		// Level is the heading depth (1-6). The synthetic root has level 0.
		Level int
		// Description is the first paragraph under the heading, if it precedes any
		// code block or child heading.
		Description string
		// CodeBlocks are the blocks that appear directly under this heading.
		CodeBlocks []CodeBlock
		// Children are nested sections of a deeper level, in document order.
		Children []*Section
	}
)

// IsRoot reports whether s is the synthetic document root.
func (s *Section) IsRoot() bool { return s.Level == 0 }

// Walk visits every descendant of s depth-first in document order. The section
// itself is not visited. Returning false from fn stops the walk; Walk reports
// whether it ran to completion.
func (s *Section) Walk(fn func(*Section) bool) bool {
	for _, child := range s.Children {
		if !fn(child) {
			return false
		}
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}
