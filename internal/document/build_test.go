// SPDX-License-Identifier: MPL-2.0

package document

import (
	"slices"
	"testing"
)

func heading(level int, title string) Node {
	return Node{Kind: NodeHeading, Level: level, Text: title}
}

func fence(lang, body string) Node {
	return Node{Kind: NodeCodeBlock, Language: lang, Body: body}
}

func TestBuild_NestsByLevel(t *testing.T) {
	root := Build([]Node{
		heading(1, "Project"),
		heading(2, "Build"),
		fence("bash", "make\n"),
		heading(3, "Details"),
		fence("sh", "echo nested\n"),
		heading(2, "Test"),
		fence("bash", "make test\n"),
	})

	if len(root.Children) != 1 {
		t.Fatalf("root children = %d, want 1", len(root.Children))
	}
	project := root.Children[0]
	if project.Title != "Project" || project.Level != 1 {
		t.Fatalf("first child = %q (level %d), want Project (level 1)", project.Title, project.Level)
	}
	if len(project.Children) != 2 {
		t.Fatalf("Project children = %d, want 2", len(project.Children))
	}

	build := project.Children[0]
	if len(build.CodeBlocks) != 1 || build.CodeBlocks[0].Body != "make\n" {
		t.Errorf("Build code blocks = %+v, want only the make block", build.CodeBlocks)
	}
	if len(build.Children) != 1 || build.Children[0].Title != "Details" {
		t.Fatalf("Build children = %+v, want [Details]", build.Children)
	}
	if got := build.Children[0].CodeBlocks[0].Language; got != "sh" {
		t.Errorf("Details block language = %q, want sh", got)
	}

	test := project.Children[1]
	if test.Title != "Test" || len(test.CodeBlocks) != 1 {
		t.Errorf("Test section = %+v, want one code block", test)
	}
}

func TestBuild_BlocksBeforeFirstHeadingAttachToRoot(t *testing.T) {
	root := Build([]Node{
		fence("bash", "echo preamble\n"),
		heading(2, "Build"),
		fence("bash", "echo build\n"),
	})

	if !root.IsRoot() {
		t.Fatal("Build() root should be the synthetic level-0 section")
	}
	if len(root.CodeBlocks) != 1 || root.CodeBlocks[0].Body != "echo preamble\n" {
		t.Errorf("root code blocks = %+v, want the preamble block", root.CodeBlocks)
	}
	if got := root.Children[0].CodeBlocks; len(got) != 1 || got[0].Body != "echo build\n" {
		t.Errorf("Build code blocks = %+v", got)
	}
}

func TestBuild_ShallowerHeadingClosesDeeperSections(t *testing.T) {
	root := Build([]Node{
		heading(3, "Deep"),
		heading(2, "Shallow"),
		fence("bash", "x\n"),
	})

	if len(root.Children) != 2 {
		t.Fatalf("root children = %d, want 2 siblings", len(root.Children))
	}
	if len(root.Children[0].CodeBlocks) != 0 {
		t.Errorf("Deep should own no blocks, got %d", len(root.Children[0].CodeBlocks))
	}
	if len(root.Children[1].CodeBlocks) != 1 {
		t.Errorf("Shallow should own one block, got %d", len(root.Children[1].CodeBlocks))
	}
}

func TestBuild_Description(t *testing.T) {
	root := Build([]Node{
		Node{Kind: NodeParagraph, Text: "ignored on root"},
		heading(2, "Build"),
		Node{Kind: NodeParagraph, Text: "  Compile everything.  "},
		Node{Kind: NodeParagraph, Text: "Second paragraph."},
		fence("bash", "make\n"),
		heading(2, "Test"),
		fence("bash", "make test\n"),
		Node{Kind: NodeParagraph, Text: "After the code."},
	})

	if root.Description != "" {
		t.Errorf("root description = %q, want empty", root.Description)
	}
	if got := root.Children[0].Description; got != "Compile everything." {
		t.Errorf("Build description = %q, want %q", got, "Compile everything.")
	}
	if got := root.Children[1].Description; got != "" {
		t.Errorf("Test description = %q, want empty (paragraph follows code)", got)
	}
}

func TestBuild_TrimsTitlesAndLanguages(t *testing.T) {
	root := Build([]Node{
		heading(2, "  Build  "),
		fence(" bash ", "make\n"),
	})

	if got := root.Children[0].Title; got != "Build" {
		t.Errorf("title = %q, want %q", got, "Build")
	}
	if got := root.Children[0].CodeBlocks[0].Language; got != "bash" {
		t.Errorf("language = %q, want %q", got, "bash")
	}
}

func TestSection_WalkOrder(t *testing.T) {
	root := Build([]Node{
		heading(1, "A"),
		heading(2, "A.1"),
		heading(3, "A.1.a"),
		heading(2, "A.2"),
		heading(1, "B"),
	})

	var visited []string
	root.Walk(func(s *Section) bool {
		visited = append(visited, s.Title)
		return true
	})

	want := []string{"A", "A.1", "A.1.a", "A.2", "B"}
	if !slices.Equal(visited, want) {
		t.Errorf("Walk() order = %v, want %v", visited, want)
	}

	var stopped []string
	completed := root.Walk(func(s *Section) bool {
		stopped = append(stopped, s.Title)
		return s.Title != "A.1"
	})
	if completed {
		t.Error("Walk() should report an early stop")
	}
	if !slices.Equal(stopped, []string{"A", "A.1"}) {
		t.Errorf("Walk() visited %v before stopping, want [A A.1]", stopped)
	}
}
