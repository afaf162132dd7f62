// SPDX-License-Identifier: MPL-2.0

package document

import "strings"

const (
	// NodeHeading is an ATX or setext heading.
	NodeHeading NodeKind = iota + 1
	// NodeCodeBlock is a fenced code block.
	NodeCodeBlock
	// NodeParagraph is a paragraph that is a direct child of the document.
	NodeParagraph
)

type (
	// NodeKind identifies the kind of a flattened Markdown node.
	NodeKind int

	// Node is one block-level element of a Markdown document, in document order.
	// Only the fields relevant to Kind are populated.
	Node struct {
		Kind NodeKind
		// Level is the heading depth (NodeHeading).
		Level int
		// Text is the heading title (NodeHeading) or paragraph text (NodeParagraph).
		Text string
		// Language is the fence language (NodeCodeBlock).
		Language string
		// Body is the fence content (NodeCodeBlock).
		Body string
	}
)

// Build folds a flat node sequence into a section tree rooted at a synthetic
// level-0 section.
func Build(nodes []Node) *Section {
	root := &Section{}
	stack := []*Section{root}

	for _, n := range nodes {
		switch n.Kind {
		case NodeHeading:
			if n.Level < 1 {
				continue
			}
			// Close every open section at the same or a deeper level.
			for len(stack) > 1 && stack[len(stack)-1].Level >= n.Level {
				stack = stack[:len(stack)-1]
			}
			sec := &Section{Title: strings.TrimSpace(n.Text), Level: n.Level}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, sec)
			stack = append(stack, sec)

		case NodeCodeBlock:
			top := stack[len(stack)-1]
			top.CodeBlocks = append(top.CodeBlocks, CodeBlock{
				Language: strings.TrimSpace(n.Language),
				Body:     n.Body,
			})

		case NodeParagraph:
			top := stack[len(stack)-1]
			if top.IsRoot() || top.Description != "" || len(top.CodeBlocks) > 0 || len(top.Children) > 0 {
				continue
			}
			top.Description = strings.TrimSpace(n.Text)
		}
	}

	return root
}
