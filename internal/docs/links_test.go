package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrefDestination_RoundTrip(t *testing.T) {
	crefs := []string{
		"T:Acme.Widget",
		"M:Acme.Widget.DoWork(System.Int32,System.String)",
		"M:Acme.Box`1.Get``1(`0,``0)",
		"T:Acme.Box{System.Int32}",
		"!:Missing Thing",
	}
	for _, cref := range crefs {
		t.Run(cref, func(t *testing.T) {
			dest := CrefDestination(cref)
			assert.NotContains(t, dest, "(")
			assert.NotContains(t, dest, " ")
			got, ok := ParseCrefDestination(dest)
			assert.True(t, ok)
			assert.Equal(t, cref, got)
		})
	}
}

func TestParseCrefDestination_Other(t *testing.T) {
	for _, dest := range []string{"https://example.com", "cref:", "", "CREF:T%3AA"} {
		_, ok := ParseCrefDestination(dest)
		assert.False(t, ok, dest)
	}
}

func TestIsCompilerUnresolved(t *testing.T) {
	assert.True(t, IsCompilerUnresolved("!:Missing"))
	assert.False(t, IsCompilerUnresolved("T:Acme.Widget"))
}

func TestCrefs(t *testing.T) {
	b := &BlockSet{
		Summary: "See [Gadget](" + CrefDestination("T:Acme.Gadget") + ") and [web](https://example.com).",
		Remarks: "Again [Gadget](" + CrefDestination("T:Acme.Gadget") + ").",
		Parameters: []NamedBlock{
			{Name: "x", Text: "A [Box](" + CrefDestination("T:Acme.Box`1") + ")."},
		},
		Exceptions: []ExceptionBlock{
			{Cref: "T:System.ArgumentException", Text: "Thrown by [DoWork](" + CrefDestination("M:Acme.Widget.DoWork(System.Int32)") + ")."},
		},
		SeeAlso: []string{"T:Acme.Gadget", "T:Acme.Node`1"},
	}

	assert.Equal(t, []string{
		"T:Acme.Gadget",
		"T:Acme.Box`1",
		"M:Acme.Widget.DoWork(System.Int32)",
		"T:System.ArgumentException",
		"T:Acme.Node`1",
	}, Crefs(b))
	assert.Nil(t, Crefs(nil))
	assert.Empty(t, Crefs(Empty))
}

func TestRewriteCrefs(t *testing.T) {
	md := "Use [Gadget](" + CrefDestination("T:Acme.Gadget") + "), not [Thing](" +
		CrefDestination("!:Thing") + ") or [web](https://example.com)."

	got := RewriteCrefs(md, func(cref string) (string, bool) {
		if IsCompilerUnresolved(cref) {
			return "", false
		}
		return "codemap://" + cref, true
	})
	assert.Equal(t, "Use [Gadget](codemap://T:Acme.Gadget), not [Thing]("+
		CrefDestination("!:Thing")+") or [web](https://example.com).", got)
}
