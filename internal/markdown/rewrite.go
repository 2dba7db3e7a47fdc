package markdown

import (
	"fmt"
	"sort"
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmparser "github.com/gomarkdown/markdown/parser"
)

func parse(src string) ast.Node {
	return gm.Parse([]byte(src), gmparser.NewWithExtensions(
		gmparser.CommonExtensions|gmparser.Autolink,
	))
}

// Destinations returns the unique link destinations of src in document order.
func Destinations(src string) []string {
	if !strings.Contains(src, "](") && !strings.Contains(src, "]:") {
		return nil
	}
	seen := make(map[string]bool)
	var dests []string
	ast.WalkFunc(parse(src), func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if link, ok := node.(*ast.Link); ok {
			dest := string(link.Destination)
			if dest != "" && !seen[dest] {
				seen[dest] = true
				dests = append(dests, dest)
			}
		}
		return ast.GoToNext
	})
	return dests
}

// RewriteLinks rewrites link destinations for which rewrite returns true.
// Destinations are found through the AST, then replaced textually so the
// original formatting survives.
func RewriteLinks(src string, rewrite func(dest string) (string, bool)) string {
	type replacement struct {
		oldDest string
		newDest string
	}
	var replacements []replacement
	for _, dest := range Destinations(src) {
		if newDest, ok := rewrite(dest); ok && newDest != dest {
			replacements = append(replacements, replacement{dest, newDest})
		}
	}
	if len(replacements) == 0 {
		return src
	}

	result := src

	// Inline links: [text](destination)
	for _, r := range replacements {
		result = strings.ReplaceAll(result, "]("+r.oldDest+")", "]("+r.newDest+")")
	}

	// Reference-style definitions: [ref]: destination
	refMap := make(map[string]string, len(replacements))
	for _, r := range replacements {
		refMap["]: "+r.oldDest] = "]: " + r.newDest
	}
	lines := strings.Split(result, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		for oldSuffix, newSuffix := range refMap {
			if strings.HasSuffix(trimmed, oldSuffix) {
				lines[i] = strings.Replace(line, oldSuffix, newSuffix, 1)
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

// StripLinks replaces inline links whose destination satisfies strip with
// their label text.
func StripLinks(src string, strip func(dest string) bool) string {
	for _, dest := range Destinations(src) {
		if !strip(dest) {
			continue
		}
		marker := "](" + dest + ")"
		var b strings.Builder
		rest := src
		for {
			i := strings.Index(rest, marker)
			if i < 0 {
				b.WriteString(rest)
				break
			}
			if open := labelStart(rest[:i]); open >= 0 {
				b.WriteString(rest[:open])
				b.WriteString(rest[open+1 : i])
			} else {
				b.WriteString(rest[:i+len(marker)])
			}
			rest = rest[i+len(marker):]
		}
		src = b.String()
	}
	return src
}

// labelStart returns the index of the '[' opening the label that ends s.
func labelStart(s string) int {
	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ']':
			depth++
		case '[':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// RewriteMap is RewriteLinks over a fixed destination map.
func RewriteMap(src string, linkMap map[string]string) string {
	if len(linkMap) == 0 {
		return src
	}
	return RewriteLinks(src, func(dest string) (string, bool) {
		newDest, ok := linkMap[dest]
		return newDest, ok
	})
}

// AddFrontMatter prepends a YAML front-matter block with the given fields,
// sorted by key.
func AddFrontMatter(src string, fields map[string]string) string {
	if len(fields) == 0 {
		return src
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("---\n")
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("%s: %q\n", k, fields[k]))
	}
	b.WriteString("---\n\n")
	b.WriteString(src)
	return b.String()
}
