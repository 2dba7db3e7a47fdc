package identifier

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Matcher selects identifiers by glob pattern. Patterns use '.' as the
// separator, so T:Acme.* matches the types of namespace Acme and M:Acme.**
// matches every method below it. Brace and bracket characters are glob
// syntax and must be escaped with a backslash to match literally.
type Matcher struct {
	globs []glob.Glob
}

// NewMatcher compiles patterns. A matcher with no patterns matches
// everything.
func NewMatcher(patterns ...string) (*Matcher, error) {
	m := &Matcher{globs: make([]glob.Glob, 0, len(patterns))}
	for _, p := range patterns {
		g, err := glob.Compile(p, '.')
		if err != nil {
			return nil, fmt.Errorf("compiling filter %q: %w", p, err)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// Match reports whether id matches any pattern.
func (m *Matcher) Match(id string) bool {
	if m == nil || len(m.globs) == 0 {
		return true
	}
	for _, g := range m.globs {
		if g.Match(id) {
			return true
		}
	}
	return false
}
