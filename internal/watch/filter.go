// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultIgnores are never watched: VCS metadata, dependency caches, editor
// swap files and OS metadata. mx's own temp scripts live outside the tree.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/__pycache__/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

// matcher decides which paths, relative to the base directory, trigger a run.
type matcher struct {
	patterns []string
	ignores  []string
}

// newMatcher validates every pattern eagerly so a typo fails at startup
// rather than silently never matching.
func newMatcher(patterns, ignores []string) (*matcher, error) {
	if err := validatePatterns(patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(ignores, "ignore"); err != nil {
		return nil, err
	}
	return &matcher{
		patterns: slices.Clone(patterns),
		ignores:  slices.Concat(defaultIgnores, ignores),
	}, nil
}

// ignored reports whether rel matches an ignore pattern.
func (m *matcher) ignored(rel string) bool {
	return matchAny(m.ignores, rel)
}

// selected reports whether rel triggers a run. With no patterns every
// non-ignored path does.
func (m *matcher) selected(rel string) bool {
	if m.ignored(rel) {
		return false
	}
	return len(m.patterns) == 0 || matchAny(m.patterns, rel)
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

func matchAny(patterns []string, rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, normalized); err == nil && matched {
			return true
		}
	}
	return false
}

func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if pat == "" {
			return fmt.Errorf("%w: empty %s pattern", ErrInvalidConfig, label)
		}
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("%w: invalid %s pattern %q", ErrInvalidConfig, label, pat)
		}
	}
	return nil
}
