package docs

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *MemoryStore {
	t.Helper()
	f, err := os.Open("testdata/acme.xml")
	require.NoError(t, err)
	defer f.Close()

	store, err := ParseXML(f)
	require.NoError(t, err)
	return store
}

func TestParseXML_Members(t *testing.T) {
	store := loadFixture(t)
	assert.Equal(t, []string{
		"T:Acme.Widget",
		"M:Acme.Widget.DoWork(System.Int32,System.String)",
		"P:Acme.Widget.Name",
		"T:Acme.Box`1",
	}, store.IDs())
}

func TestParseXML_FirstEntryWins(t *testing.T) {
	store := loadFixture(t)
	b, ok := store.TryFind("T:Acme.Widget")
	require.True(t, ok)
	assert.NotContains(t, b.Summary, "Duplicate")
}

func TestParseXML_Type(t *testing.T) {
	store := loadFixture(t)
	b, ok := store.TryFind("T:Acme.Widget")
	require.True(t, ok)

	assert.Equal(t,
		"A widget that does [DoWork](cref:M%3AAcme.Widget.DoWork%28System.Int32%2CSystem.String%29) work.",
		b.Summary)
	assert.Equal(t, "First paragraph.\n\nUses `Count` and `null`.", b.Remarks)
	assert.Equal(t, []string{"T:Acme.Gadget"}, b.SeeAlso)
}

func TestParseXML_Method(t *testing.T) {
	store := loadFixture(t)
	b, ok := store.TryFind("M:Acme.Widget.DoWork(System.Int32,System.String)")
	require.True(t, ok)

	assert.Equal(t, "Does work with `count`.", b.Summary)
	assert.Equal(t, "How many.", b.Parameter("count"))
	assert.Equal(t, "The [label](https://example.com).", b.Parameter("label"))
	assert.Equal(t, "", b.Parameter("missing"))
	assert.Equal(t, "Nothing.", b.Returns)
	assert.Equal(t, []ExceptionBlock{
		{Cref: "T:System.ArgumentException", Text: "When `count` is negative."},
	}, b.Exceptions)
}

func TestParseXML_ListAndCode(t *testing.T) {
	store := loadFixture(t)
	b, ok := store.TryFind("P:Acme.Widget.Name")
	require.True(t, ok)

	assert.Equal(t, "Options:\n\n1. **A**: first\n2. second", b.Summary)
	assert.Equal(t, "The name.", b.Value)
	require.Len(t, b.Examples, 1)
	assert.Equal(t, "```\nvar w = new Widget();\nw.Name = \"x\";\n```", b.Examples[0])
}

func TestParseXML_TypeParameters(t *testing.T) {
	store := loadFixture(t)
	b, ok := store.TryFind("T:Acme.Box`1")
	require.True(t, ok)

	assert.Equal(t, "Holds a `T`. See [Missing](cref:%21%3AMissing).", b.Summary)
	assert.Equal(t, "The boxed type.", b.TypeParameter("T"))
}

func TestParseXML_Malformed(t *testing.T) {
	_, err := ParseXML(strings.NewReader("<doc><members><member name=\"T:A\">"))
	require.Error(t, err)
}

func TestCrefLabel(t *testing.T) {
	tests := []struct {
		cref string
		want string
	}{
		{"T:Acme.Widget", "Widget"},
		{"M:Acme.Widget.DoWork(System.Int32)", "DoWork"},
		{"!:Missing", "Missing"},
		{"Plain", "Plain"},
	}
	for _, tt := range tests {
		t.Run(tt.cref, func(t *testing.T) {
			assert.Equal(t, tt.want, crefLabel(tt.cref))
		})
	}
}
