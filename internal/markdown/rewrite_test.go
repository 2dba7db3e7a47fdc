package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDestinations(t *testing.T) {
	t.Parallel()
	src := "Calls [DoWork](cref:M%3AAcme.Widget.DoWork) then [Box][b] and [DoWork](cref:M%3AAcme.Widget.DoWork) again.\n\n[b]: cref:T%3AAcme.Box%601"
	got := Destinations(src)
	assert.Equal(t, []string{"cref:M%3AAcme.Widget.DoWork", "cref:T%3AAcme.Box%601"}, got)
}

func TestDestinations_NoLinks(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Destinations("Plain text with `code`."))
}

func TestRewriteLinks_InlineLinks(t *testing.T) {
	t.Parallel()
	src := "See [Widget](cref:T%3AAcme.Widget) for details."
	got := RewriteMap(src, map[string]string{"cref:T%3AAcme.Widget": "codemap://T%3AAcme.Widget"})
	assert.Equal(t, "See [Widget](codemap://T%3AAcme.Widget) for details.", got)
}

func TestRewriteLinks_ReferenceStyleLinks(t *testing.T) {
	t.Parallel()
	src := "See [Widget][ref] for details.\n\n[ref]: old/path"
	got := RewriteMap(src, map[string]string{"old/path": "codemap://new"})
	assert.Contains(t, got, "[ref]: codemap://new")
}

func TestRewriteLinks_EmptyMap(t *testing.T) {
	t.Parallel()
	src := "Hello [world](url)."
	assert.Equal(t, src, RewriteMap(src, nil))
	assert.Equal(t, src, RewriteMap(src, map[string]string{}))
}

func TestRewriteLinks_NoMatchingLinks(t *testing.T) {
	t.Parallel()
	src := "Check [this](keep-me) out."
	assert.Equal(t, src, RewriteMap(src, map[string]string{"other": "codemap://x"}))
}

func TestRewriteLinks_Func(t *testing.T) {
	t.Parallel()
	src := "[A](cref:a) and [B](https://example.com) together."
	got := RewriteLinks(src, func(dest string) (string, bool) {
		if strings.HasPrefix(dest, "cref:") {
			return "codemap://" + strings.TrimPrefix(dest, "cref:"), true
		}
		return "", false
	})
	assert.Contains(t, got, "(codemap://a)")
	assert.Contains(t, got, "(https://example.com)")
}

func TestStripLinks(t *testing.T) {
	t.Parallel()
	src := "Uses [Gadget](cref:T%3AAcme.Gadget) and [the [old] one](cref:T%3AAcme.Gone) twice: [Gone](cref:T%3AAcme.Gone).\n\n- [Gone](cref:T%3AAcme.Gone)\n"
	got := StripLinks(src, func(dest string) bool { return dest == "cref:T%3AAcme.Gone" })
	assert.Equal(t, "Uses [Gadget](cref:T%3AAcme.Gadget) and the [old] one twice: Gone.\n\n- Gone\n", got)
}

func TestStripLinks_NothingToStrip(t *testing.T) {
	t.Parallel()
	src := "See [Widget](cref:T%3AAcme.Widget)."
	assert.Equal(t, src, StripLinks(src, func(string) bool { return false }))
}

func TestAddFrontMatter(t *testing.T) {
	t.Parallel()

	t.Run("basic", func(t *testing.T) {
		got := AddFrontMatter("# Doc", map[string]string{"id": "T:Acme.Box`1"})
		require.True(t, strings.HasPrefix(got, "---\n"))
		assert.True(t, strings.HasSuffix(got, "# Doc"))

		parts := strings.SplitN(got, "---\n", 3)
		require.Len(t, parts, 3)
		var fields map[string]string
		require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fields))
		assert.Equal(t, "T:Acme.Box`1", fields["id"])
	})

	t.Run("sorted_keys", func(t *testing.T) {
		got := AddFrontMatter("body", map[string]string{
			"kind": "type",
			"id":   "T:Acme.Widget",
		})
		assert.Less(t, strings.Index(got, "id:"), strings.Index(got, "kind:"))
	})

	t.Run("empty_map", func(t *testing.T) {
		assert.Equal(t, "body", AddFrontMatter("body", nil))
	})
}
