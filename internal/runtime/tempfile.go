// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"os"
	"strings"
	"unicode"
)

// tempPrefix names every script file mx writes.
const tempPrefix = "mx-"

// extensions maps fence languages to the file extension their interpreter
// expects. Other languages use the language itself.
var extensions = map[string]string{
	"go":         "go",
	"golang":     "go",
	"python":     "py",
	"ruby":       "rb",
	"javascript": "js",
	"js":         "js",
	"node":       "js",
	"typescript": "ts",
	"ts":         "ts",
	"bash":       "sh",
	"sh":         "sh",
	"perl":       "pl",
}

// extensionFor returns ".ext" for lang, keeping only characters that are safe
// in a file name.
func extensionFor(lang string) string {
	if ext, ok := extensions[lang]; ok {
		return "." + ext
	}
	ext := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '+' {
			return r
		}
		return -1
	}, lang)
	if ext == "" {
		return ""
	}
	return "." + ext
}

// tempPattern is the os.CreateTemp pattern used for lang.
func tempPattern(lang string) string {
	return tempPrefix + "*" + extensionFor(lang)
}

// writeTempScript writes body to a new file in dir (os.TempDir when empty)
// and returns its path with a cleanup function that removes it. Cleanup
// reports removal failures other than the file already being gone.
func writeTempScript(dir, lang, body string) (string, func() error, error) {
	f, err := os.CreateTemp(dir, tempPattern(lang))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp script file: %w", err)
	}
	path := f.Name()

	cleanup := func() error {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove temp script: %w", err)
		}
		return nil
	}

	if _, err := f.WriteString(body); err != nil {
		_ = f.Close() // Best-effort close on error path
		_ = cleanup()
		return "", nil, fmt.Errorf("failed to write temp script: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = cleanup()
		return "", nil, fmt.Errorf("failed to close temp script: %w", err)
	}

	return path, cleanup, nil
}
