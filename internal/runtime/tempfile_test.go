// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtensionFor(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"go":         ".go",
		"golang":     ".go",
		"python":     ".py",
		"ruby":       ".rb",
		"javascript": ".js",
		"js":         ".js",
		"typescript": ".ts",
		"ts":         ".ts",
		"lua":        ".lua",
		"c++":        ".c++",
		"../etc":     ".etc",
		"":           "",
	}
	for lang, want := range tests {
		if got := extensionFor(lang); got != want {
			t.Errorf("extensionFor(%q) = %q, want %q", lang, got, want)
		}
	}
}

func TestWriteTempScript(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, cleanup, err := writeTempScript(dir, "python", "print('hi')\n")
	if err != nil {
		t.Fatalf("writeTempScript() error: %v", err)
	}

	if filepath.Dir(path) != dir {
		t.Errorf("script dir = %q, want %q", filepath.Dir(path), dir)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "mx-") || !strings.HasSuffix(base, ".py") {
		t.Errorf("script name = %q, want mx-*.py", base)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "print('hi')\n" {
		t.Errorf("script content = %q, %v", data, err)
	}

	if err := cleanup(); err != nil {
		t.Errorf("cleanup() error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("cleanup() left %s behind", path)
	}
	if err := cleanup(); err != nil {
		t.Errorf("second cleanup() error = %v, want nil for a removed file", err)
	}
}

func TestWriteTempScript_BadDir(t *testing.T) {
	t.Parallel()

	if _, _, err := writeTempScript(filepath.Join(t.TempDir(), "missing"), "sh", "true"); err == nil {
		t.Error("writeTempScript() should fail for a missing directory")
	}
}
