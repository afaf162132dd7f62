// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// RequireInterpreters skips the test in -short mode or when any of names is
// not on PATH. Tests that spawn processes call it first.
func RequireInterpreters(t testing.TB, names ...string) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping interpreter test in short mode")
	}
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not available: %v", name, err)
		}
	}
}

// MustWriteFile writes content to path, creating parent directories.
// The test fails immediately if the write fails.
func MustWriteFile(t testing.TB, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WriteDocument writes a task document named README.md into a fresh temp
// directory and returns its path.
func WriteDocument(t testing.TB, content string) string {
	t.Helper()
	return MustWriteFile(t, filepath.Join(t.TempDir(), "README.md"), content)
}

// MustReadDir lists dir. The test fails immediately if it cannot be read.
func MustReadDir(t testing.TB, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read directory %s: %v", dir, err)
	}
	return entries
}
