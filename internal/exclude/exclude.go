// Package exclude matches module paths against Ant-style exclusion globs.
package exclude

import (
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher tests root-relative paths against a fixed set of normalized patterns
type Matcher struct {
	patterns []string
}

// Build normalizes the patterns to the platform separator. A pattern ending
// in a separator matches everything below that directory.
func Build(patterns []string) *Matcher {
	m := &Matcher{}
	seen := make(map[string]bool)

	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = normalize(p)
		if strings.HasSuffix(p, string(os.PathSeparator)) {
			p += "**"
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		m.patterns = append(m.patterns, p)
	}

	return m
}

// Patterns returns the normalized patterns
func (m *Matcher) Patterns() []string {
	return m.patterns
}

// Matches reports whether any pattern matches path.
// Invalid patterns never match.
func (m *Matcher) Matches(path string) bool {
	if m == nil || len(m.patterns) == 0 {
		return false
	}
	path = normalize(path)
	for _, p := range m.patterns {
		if ok, err := doublestar.PathMatch(p, path); err == nil && ok {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	sep := string(os.PathSeparator)
	s = strings.ReplaceAll(s, "\\", sep)
	return strings.ReplaceAll(s, "/", sep)
}
