package docs

import (
	"net/url"
	"strings"

	"github.com/Andrei15193/CodeMap-sub002/internal/markdown"
)

// crefScheme prefixes link destinations that carry a cross reference.
const crefScheme = "cref:"

// CrefDestination encodes a cross reference as a markdown link destination.
func CrefDestination(cref string) string {
	return crefScheme + url.QueryEscape(cref)
}

// ParseCrefDestination decodes a destination made by CrefDestination.
// Returns false for any other destination.
func ParseCrefDestination(dest string) (string, bool) {
	if !strings.HasPrefix(dest, crefScheme) {
		return "", false
	}
	cref, err := url.QueryUnescape(strings.TrimPrefix(dest, crefScheme))
	if err != nil || cref == "" {
		return "", false
	}
	return cref, true
}

// IsCompilerUnresolved reports whether cref is a reference the compiler could
// not bind (written as !:Name). Such references never resolve.
func IsCompilerUnresolved(cref string) bool {
	return strings.HasPrefix(cref, "!:")
}

// Crefs returns every cross reference of b in document order, without
// duplicates: links in text blocks, then exceptions, then see-also entries.
func Crefs(b *BlockSet) []string {
	if b == nil {
		return nil
	}
	seen := make(map[string]bool)
	var crefs []string
	add := func(cref string) {
		if cref != "" && !seen[cref] {
			seen[cref] = true
			crefs = append(crefs, cref)
		}
	}
	for _, text := range b.texts() {
		for _, dest := range markdown.Destinations(text) {
			if cref, ok := ParseCrefDestination(dest); ok {
				add(cref)
			}
		}
	}
	for _, e := range b.Exceptions {
		add(e.Cref)
	}
	for _, cref := range b.SeeAlso {
		add(cref)
	}
	return crefs
}

// texts lists every markdown block of b.
func (b *BlockSet) texts() []string {
	texts := []string{b.Summary, b.Remarks, b.Returns, b.Value}
	for _, p := range b.Parameters {
		texts = append(texts, p.Text)
	}
	for _, p := range b.TypeParameters {
		texts = append(texts, p.Text)
	}
	for _, e := range b.Exceptions {
		texts = append(texts, e.Text)
	}
	return append(texts, b.Examples...)
}

// RewriteCrefs rewrites cref: destinations in md using target, which returns
// the new destination for a cross reference or false to leave it as is.
func RewriteCrefs(md string, target func(cref string) (string, bool)) string {
	return markdown.RewriteLinks(md, func(dest string) (string, bool) {
		cref, ok := ParseCrefDestination(dest)
		if !ok {
			return "", false
		}
		return target(cref)
	})
}

// StripCrefs replaces every remaining cref: link in md with its label.
func StripCrefs(md string) string {
	return markdown.StripLinks(md, func(dest string) bool {
		return strings.HasPrefix(dest, crefScheme)
	})
}
