// SPDX-License-Identifier: MPL-2.0

package document

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ErrParse is the sentinel error matched by ParseError.
var ErrParse = errors.New("document parse error")

// markdown is a CommonMark parser without extensions. Task documents only need
// headings, fences and paragraphs.
var markdown = goldmark.New()

// ParseError reports a Markdown document that could not be read or parsed.
// It matches ErrParse via errors.Is and unwraps to the underlying cause.
type ParseError struct {
	// Path is the document path, or "<input>" for in-memory sources.
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Err }

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// LoadFile reads and parses the Markdown document at path.
func LoadFile(path string) (*Section, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	root, err := Parse(src)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return root, nil
}

// Parse parses Markdown source into a section tree.
func Parse(src []byte) (*Section, error) {
	nodes, err := Nodes(src)
	if err != nil {
		return nil, err
	}
	return Build(nodes), nil
}

// Nodes flattens Markdown source into headings, fenced code blocks and
// top-level paragraphs, in document order. Fences nested in lists or block
// quotes are included; nested paragraphs are not.
func Nodes(src []byte) ([]Node, error) {
	if !utf8.Valid(src) {
		return nil, &ParseError{Path: "<input>", Err: errors.New("document is not valid UTF-8")}
	}

	doc := markdown.Parser().Parse(text.NewReader(src))

	var nodes []Node
	walkErr := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := n.(type) {
		case *ast.Heading:
			nodes = append(nodes, Node{Kind: NodeHeading, Level: n.Level, Text: inlineText(n, src)})
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			nodes = append(nodes, Node{
				Kind:     NodeCodeBlock,
				Language: string(n.Language(src)),
				Body:     blockBody(n, src),
			})
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			if parent := n.Parent(); parent != nil && parent.Kind() == ast.KindDocument {
				nodes = append(nodes, Node{Kind: NodeParagraph, Text: inlineText(n, src)})
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if walkErr != nil {
		return nil, &ParseError{Path: "<input>", Err: walkErr}
	}

	return nodes, nil
}

// inlineText concatenates the literal text of n's inline children.
func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	writeInline(&sb, n, src)
	return strings.TrimSpace(sb.String())
}

func writeInline(sb *strings.Builder, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(src))
			if c.SoftLineBreak() || c.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(c.Value)
		case *ast.AutoLink:
			sb.Write(c.Label(src))
		case *ast.RawHTML:
			// markup is not part of the title
		default:
			writeInline(sb, c, src)
		}
	}
}

// blockBody returns the raw content lines of a fenced code block.
func blockBody(n *ast.FencedCodeBlock, src []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return sb.String()
}
