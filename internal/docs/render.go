package docs

import (
	"fmt"
	"strings"
)

// Markdown renders the documentation of id as a single markdown document.
// Cross references stay cref: links; use RewriteCrefs to retarget them.
func Markdown(id string, b *BlockSet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# `%s`\n\n", id)
	if b.IsEmpty() {
		sb.WriteString("_No documentation._\n")
		return sb.String()
	}

	section := func(title, text string) {
		if text == "" {
			return
		}
		fmt.Fprintf(&sb, "## %s\n\n%s\n\n", title, text)
	}
	named := func(title string, blocks []NamedBlock) {
		if len(blocks) == 0 {
			return
		}
		fmt.Fprintf(&sb, "## %s\n\n", title)
		for _, nb := range blocks {
			fmt.Fprintf(&sb, "- `%s`: %s\n", nb.Name, indentContinuation(nb.Text))
		}
		sb.WriteString("\n")
	}

	if b.Summary != "" {
		sb.WriteString(b.Summary + "\n\n")
	}
	named("Type parameters", b.TypeParameters)
	named("Parameters", b.Parameters)
	section("Returns", b.Returns)
	section("Value", b.Value)

	if len(b.Exceptions) > 0 {
		sb.WriteString("## Exceptions\n\n")
		for _, e := range b.Exceptions {
			fmt.Fprintf(&sb, "- [%s](%s): %s\n", crefLabel(e.Cref), CrefDestination(e.Cref), indentContinuation(e.Text))
		}
		sb.WriteString("\n")
	}

	section("Remarks", b.Remarks)
	for i, ex := range b.Examples {
		title := "Example"
		if len(b.Examples) > 1 {
			title = fmt.Sprintf("Example %d", i+1)
		}
		section(title, ex)
	}

	if len(b.SeeAlso) > 0 {
		sb.WriteString("## See also\n\n")
		for _, cref := range b.SeeAlso {
			fmt.Fprintf(&sb, "- [%s](%s)\n", crefLabel(cref), CrefDestination(cref))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func indentContinuation(text string) string {
	return strings.ReplaceAll(text, "\n", "\n  ")
}
