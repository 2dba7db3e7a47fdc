package identifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher(t *testing.T) {
	m, err := NewMatcher("T:Acme.*", "M:Acme.Widget.**")
	require.NoError(t, err)

	assert.True(t, m.Match("T:Acme.Widget"))
	assert.False(t, m.Match("T:Acme.Box`1.Color"))
	assert.True(t, m.Match("M:Acme.Widget.DoWork(System.Int32,System.String)"))
	assert.False(t, m.Match("F:Acme.Widget.Count"))
	assert.False(t, m.Match("T:System.Int32"))
}

func TestMatcherEmptyMatchesAll(t *testing.T) {
	m, err := NewMatcher()
	require.NoError(t, err)
	assert.True(t, m.Match("T:anything"))

	var nilMatcher *Matcher
	assert.True(t, nilMatcher.Match("T:anything"))
}

func TestMatcherInvalidPattern(t *testing.T) {
	_, err := NewMatcher("T:Acme.[")
	assert.Error(t, err)
}
