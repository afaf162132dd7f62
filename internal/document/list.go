// SPDX-License-Identifier: MPL-2.0

package document

// List returns the titles of every section at exactly level, in document order.
// Duplicate titles are preserved.
func List(root *Section, level int) []string {
	sections := Sections(root, level)
	titles := make([]string, 0, len(sections))
	for _, s := range sections {
		titles = append(titles, s.Title)
	}
	return titles
}

// Sections returns every section at exactly level, in document order.
func Sections(root *Section, level int) []*Section {
	if root == nil || level < 1 {
		return nil
	}

	var out []*Section
	root.Walk(func(s *Section) bool {
		if s.Level == level {
			out = append(out, s)
		}
		return true
	})
	return out
}
