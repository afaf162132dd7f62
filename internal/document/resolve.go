// SPDX-License-Identifier: MPL-2.0

package document

import "strings"

// Find returns the first section in document order whose level equals level and
// whose title equals the trimmed name. Titles are compared exactly and
// case-sensitively; sections at other levels are never candidates, and neither
// is the synthetic root.
func Find(root *Section, name string, level int) (*Section, bool) {
	if root == nil || level < 1 {
		return nil, false
	}

	want := strings.TrimSpace(name)
	var found *Section
	root.Walk(func(s *Section) bool {
		if s.Level == level && s.Title == want {
			found = s
			return false
		}
		return true
	})

	return found, found != nil
}
