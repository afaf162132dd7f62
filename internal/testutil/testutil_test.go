// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMustWriteFile_CreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "mx.toml")
	MustWriteFile(t, path, "strict = true\n")

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "strict = true\n" {
		t.Errorf("ReadFile() = %q, %v", data, err)
	}
}

func TestWriteDocument(t *testing.T) {
	t.Parallel()

	path := WriteDocument(t, "## Build\n")
	if filepath.Base(path) != "README.md" {
		t.Errorf("WriteDocument() = %s, want README.md", path)
	}
	if entries := MustReadDir(t, filepath.Dir(path)); len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}
