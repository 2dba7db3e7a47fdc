package index

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Andrei15193/CodeMap-sub002/internal/markdown"
	"github.com/Andrei15193/CodeMap-sub002/internal/refgraph"
)

// Scheme prefixes the URIs entries are addressed by.
const Scheme = "codemap://"

// URI returns the address of an identifier.
func URI(id string) string {
	return Scheme + url.PathEscape(id)
}

// ParseURI extracts the identifier from a codemap:// URI.
func ParseURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, Scheme) {
		return "", fmt.Errorf("not a codemap URI: %s", uri)
	}
	id, err := url.PathUnescape(strings.TrimPrefix(uri, Scheme))
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", uri, err)
	}
	if id == "" {
		return "", fmt.Errorf("empty identifier in %s", uri)
	}
	return id, nil
}

// AddFrontMatter prepends the identifying fields of e to md.
func AddFrontMatter(md string, e refgraph.Entry) string {
	fields := map[string]string{
		"identifier": e.EntryID(),
		"uri":        URI(e.EntryID()),
	}
	switch e := e.(type) {
	case *refgraph.TypeEntry:
		fields["kind"] = "type"
		fields["category"] = e.Ref.Category.String()
		fields["assembly"] = e.Ref.Assembly
		fields["access"] = e.Access.String()
		if e.Ref.DeclaringType != nil {
			fields["declaring_type"] = e.Ref.DeclaringType.ID
		}
	case *refgraph.MemberEntry:
		fields["kind"] = e.Ref.Kind.String()
		fields["access"] = e.Access.String()
		fields["declaring_type"] = e.Ref.DeclaringType.ID
	}
	return markdown.AddFrontMatter(md, fields)
}
