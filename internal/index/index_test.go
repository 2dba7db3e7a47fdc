package index

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gopkg.in/yaml.v3"

	"github.com/Andrei15193/CodeMap-sub002/internal/cas"
	"github.com/Andrei15193/CodeMap-sub002/internal/db"
	"github.com/Andrei15193/CodeMap-sub002/internal/docs"
	"github.com/Andrei15193/CodeMap-sub002/internal/refgraph"
	"github.com/Andrei15193/CodeMap-sub002/internal/testutil"
)

func buildGraph(t *testing.T) *refgraph.Graph {
	t.Helper()
	store := docs.NewMemoryStore()
	store.Add("T:Acme.Widget", &docs.BlockSet{
		Summary: "Pairs with [Gadget](" + docs.CrefDestination("T:Acme.Gadget") + ").",
		SeeAlso: []string{"!:Missing"},
	})
	store.Add("M:Acme.Widget.DoWork(System.Int32)", &docs.BlockSet{Summary: "Works."})

	a := testutil.NewAcme()
	g, err := refgraph.BuildReferenceGraph(a.Assembly.Types, a.Universe, store)
	require.NoError(t, err)
	return g
}

func TestURI(t *testing.T) {
	ids := []string{
		"T:Acme.Widget",
		"M:Acme.Widget.DoWork(System.Int32,System.String)",
		"M:Acme.Box`1.Get``1(`0,``0)",
		"T:System.IEquatable{Acme.Circle}",
	}
	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			uri := URI(id)
			assert.True(t, strings.HasPrefix(uri, Scheme))
			assert.NotContains(t, uri, "(")
			got, err := ParseURI(uri)
			require.NoError(t, err)
			assert.Equal(t, id, got)
		})
	}

	_, err := ParseURI("https://example.com")
	assert.Error(t, err)
	_, err = ParseURI(Scheme)
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	g := buildGraph(t)
	e, ok := g.Lookup("T:Acme.Widget")
	require.True(t, ok)

	md := Render(e)
	require.True(t, strings.HasPrefix(md, "---\n"))
	parts := strings.SplitN(md, "---\n", 3)
	require.Len(t, parts, 3)

	var front map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &front))
	assert.Equal(t, "T:Acme.Widget", front["identifier"])
	assert.Equal(t, "type", front["kind"])
	assert.Equal(t, "class", front["category"])
	assert.Equal(t, "Acme", front["assembly"])
	assert.Equal(t, "public", front["access"])

	assert.Contains(t, md, "[Gadget]("+URI("T:Acme.Gadget")+")")
	assert.Contains(t, md, "- Missing\n")
	assert.NotContains(t, md, "cref:")

	member, ok := g.Lookup("M:Acme.Widget.DoWork(System.Int32)")
	require.True(t, ok)
	md = Render(member)
	assert.Contains(t, md, "kind: \"method\"")
	assert.Contains(t, md, "declaring_type: \"T:Acme.Widget\"")
	assert.Contains(t, md, "Works.")
}

func TestRender_UnresolvedCrefs(t *testing.T) {
	store := docs.NewMemoryStore()
	store.Add("M:Acme.Widget.DoWork(System.Int32)", &docs.BlockSet{
		Summary:    "Defers to [Nope](" + docs.CrefDestination("T:Acme.Nope") + ") and [Gadget](" + docs.CrefDestination("T:Acme.Gadget") + ").",
		Exceptions: []docs.ExceptionBlock{{Cref: "T:Acme.NoSuchException", Text: "Never."}},
		SeeAlso:    []string{"T:Acme.Gone"},
	})
	a := testutil.NewAcme()
	g, err := refgraph.BuildReferenceGraph(a.Assembly.Types, a.Universe, store)
	require.NoError(t, err)

	e, ok := g.Lookup("M:Acme.Widget.DoWork(System.Int32)")
	require.True(t, ok)
	md := Render(e)
	assert.NotContains(t, md, "cref:")
	assert.NotContains(t, md, "](codemap://T%3AAcme.NoSuchException")
	assert.Contains(t, md, "Defers to Nope and [Gadget]("+URI("T:Acme.Gadget")+").")
	assert.Contains(t, md, "- NoSuchException: Never.")
	assert.Contains(t, md, "- Gone\n")
	assert.Empty(t, e.(*refgraph.MemberEntry).Exceptions)
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	database, err := db.New(filepath.Join(dir, "index.db"))
	require.NoError(t, err)
	defer database.Close()
	store := cas.Open(filepath.Join(dir, "cas"))

	g := buildGraph(t)
	ix := New(database, store, zaptest.NewLogger(t))
	require.NoError(t, ix.Save(g, "acme.yaml"))

	build, err := database.GetLatestBuild()
	require.NoError(t, err)
	require.NotNil(t, build)
	assert.Equal(t, g.ID, build.ID)
	assert.Equal(t, g.Len(), build.EntityCount)

	entities, err := database.ListEntities(g.ID, "")
	require.NoError(t, err)
	require.Len(t, entities, g.Len())
	assert.Equal(t, g.IDs()[0], entities[0].Identifier)

	widget, err := database.GetEntity(g.ID, "t:acme.widget")
	require.NoError(t, err)
	require.NotNil(t, widget)
	assert.Equal(t, "T", widget.Kind)
	assert.Equal(t, "Widget", widget.Name)

	content, err := store.Read(widget.ContentHash)
	require.NoError(t, err)
	e, _ := g.Lookup("T:Acme.Widget")
	assert.Equal(t, Render(e), content)

	links, err := database.GetLinks(g.ID, "T:Acme.Widget")
	require.NoError(t, err)
	assert.Equal(t, []db.Link{{Source: "T:Acme.Widget", Cref: "T:Acme.Gadget", Target: "T:Acme.Gadget"}}, links)

	color, err := database.GetEntity(g.ID, "T:Acme.Box`1.Color")
	require.NoError(t, err)
	require.NotNil(t, color)
	assert.Equal(t, "T:Acme.Box`1", color.DeclaringType)

	red, err := database.GetEntity(g.ID, "F:Acme.Box`1.Color.Red")
	require.NoError(t, err)
	require.NotNil(t, red)
	assert.Equal(t, "F", red.Kind)
	assert.Equal(t, "T:Acme.Box`1.Color", red.DeclaringType)
}
