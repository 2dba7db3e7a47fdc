package docs

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"
)

type xmlDoc struct {
	Assembly string      `xml:"assembly>name"`
	Members  []xmlMember `xml:"members>member"`
}

type xmlMember struct {
	Name     string       `xml:"name,attr"`
	Children []xmlElement `xml:",any"`
}

type xmlElement struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   string     `xml:",innerxml"`
}

func (e xmlElement) attr(name string) string {
	return attr(e.Attrs, name)
}

func attr(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// ParseXML reads a compiler-generated documentation file
// (<doc><members><member name="...">) into a store keyed by member name.
// Comment markup is converted to markdown; <see cref> and <seealso cref>
// become links with cref: destinations.
func ParseXML(r io.Reader) (*MemoryStore, error) {
	var doc xmlDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding documentation XML: %w", err)
	}

	store := NewMemoryStore()
	for _, m := range doc.Members {
		if m.Name == "" {
			continue
		}
		b, err := parseMember(m)
		if err != nil {
			return nil, fmt.Errorf("parsing documentation of %s: %w", m.Name, err)
		}
		store.Add(m.Name, b)
	}
	return store, nil
}

func parseMember(m xmlMember) (*BlockSet, error) {
	b := &BlockSet{}
	for _, child := range m.Children {
		text, err := renderMarkdown(child.Inner)
		if err != nil {
			return nil, fmt.Errorf("<%s>: %w", child.XMLName.Local, err)
		}
		switch child.XMLName.Local {
		case "summary":
			b.Summary = appendBlock(b.Summary, text)
		case "remarks":
			b.Remarks = appendBlock(b.Remarks, text)
		case "returns":
			b.Returns = appendBlock(b.Returns, text)
		case "value":
			b.Value = appendBlock(b.Value, text)
		case "param":
			b.Parameters = append(b.Parameters, NamedBlock{Name: child.attr("name"), Text: text})
		case "typeparam":
			b.TypeParameters = append(b.TypeParameters, NamedBlock{Name: child.attr("name"), Text: text})
		case "exception":
			b.Exceptions = append(b.Exceptions, ExceptionBlock{Cref: child.attr("cref"), Text: text})
		case "example":
			b.Examples = append(b.Examples, text)
		case "seealso":
			if cref := child.attr("cref"); cref != "" {
				b.SeeAlso = append(b.SeeAlso, cref)
			}
		}
	}
	return b, nil
}

func appendBlock(existing, text string) string {
	if existing == "" {
		return text
	}
	if text == "" {
		return existing
	}
	return existing + "\n\n" + text
}

// renderMarkdown converts the inner XML of a documentation element.
func renderMarkdown(inner string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(inner))
	var b strings.Builder
	if err := renderContent(dec, &b); err != nil {
		return "", err
	}
	return tidy(b.String()), nil
}

// renderContent writes tokens until the end of the enclosing element.
func renderContent(dec *xml.Decoder, b *strings.Builder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			writeText(b, string(t))
		case xml.StartElement:
			if err := renderElement(dec, b, t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func renderChild(dec *xml.Decoder) (string, error) {
	var sub strings.Builder
	if err := renderContent(dec, &sub); err != nil {
		return "", err
	}
	return strings.TrimSpace(sub.String()), nil
}

func renderElement(dec *xml.Decoder, b *strings.Builder, start xml.StartElement) error {
	switch start.Name.Local {
	case "see", "seealso":
		text, err := renderChild(dec)
		if err != nil {
			return err
		}
		switch {
		case attr(start.Attr, "cref") != "":
			cref := attr(start.Attr, "cref")
			if text == "" {
				text = crefLabel(cref)
			}
			b.WriteString("[" + text + "](" + CrefDestination(cref) + ")")
		case attr(start.Attr, "href") != "":
			href := attr(start.Attr, "href")
			if text == "" {
				text = href
			}
			b.WriteString("[" + text + "](" + href + ")")
		case attr(start.Attr, "langword") != "":
			b.WriteString("`" + attr(start.Attr, "langword") + "`")
		default:
			b.WriteString(text)
		}
	case "paramref", "typeparamref":
		if err := dec.Skip(); err != nil {
			return err
		}
		b.WriteString("`" + attr(start.Attr, "name") + "`")
	case "c":
		raw, err := collectText(dec)
		if err != nil {
			return err
		}
		b.WriteString("`" + strings.TrimSpace(raw) + "`")
	case "code":
		raw, err := collectText(dec)
		if err != nil {
			return err
		}
		b.WriteString("\n\n```\n" + dedent(raw) + "\n```\n\n")
	case "para":
		text, err := renderChild(dec)
		if err != nil {
			return err
		}
		b.WriteString("\n\n" + text + "\n\n")
	case "br":
		if err := dec.Skip(); err != nil {
			return err
		}
		b.WriteString("\n")
	case "b", "strong":
		text, err := renderChild(dec)
		if err != nil {
			return err
		}
		b.WriteString("**" + text + "**")
	case "i", "em":
		text, err := renderChild(dec)
		if err != nil {
			return err
		}
		b.WriteString("*" + text + "*")
	case "list":
		return renderList(dec, b, attr(start.Attr, "type"))
	default:
		return renderContent(dec, b)
	}
	return nil
}

func renderList(dec *xml.Decoder, b *strings.Builder, kind string) error {
	b.WriteString("\n\n")
	n := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "item" {
				if err := dec.Skip(); err != nil {
					return err
				}
				continue
			}
			term, desc, err := renderItem(dec)
			if err != nil {
				return err
			}
			n++
			if kind == "number" {
				fmt.Fprintf(b, "%d. ", n)
			} else {
				b.WriteString("- ")
			}
			if term != "" {
				b.WriteString("**" + term + "**")
				if desc != "" {
					b.WriteString(": ")
				}
			}
			b.WriteString(desc + "\n")
		case xml.EndElement:
			b.WriteString("\n")
			return nil
		}
	}
}

func renderItem(dec *xml.Decoder) (term, desc string, err error) {
	var rest strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			writeText(&rest, string(t))
		case xml.StartElement:
			switch t.Name.Local {
			case "term":
				if term, err = renderChild(dec); err != nil {
					return "", "", err
				}
			case "description":
				if desc, err = renderChild(dec); err != nil {
					return "", "", err
				}
			default:
				if err := renderElement(dec, &rest, t); err != nil {
					return "", "", err
				}
			}
		case xml.EndElement:
			if desc == "" {
				desc = strings.TrimSpace(rest.String())
			}
			return term, desc, nil
		}
	}
}

// collectText returns the raw character data up to the end of the current
// element, nested markup included.
func collectText(dec *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return b.String(), nil
			}
			depth--
		}
	}
}

var spaceRun = regexp.MustCompile(`\s+`)

func writeText(b *strings.Builder, s string) {
	s = spaceRun.ReplaceAllString(s, " ")
	if b.Len() == 0 || strings.HasSuffix(b.String(), "\n") {
		s = strings.TrimLeft(s, " ")
	}
	b.WriteString(s)
}

var blankRun = regexp.MustCompile(`\n{3,}`)

// tidy trims trailing spaces on every line and collapses blank-line runs.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	s = strings.Join(lines, "\n")
	s = blankRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// dedent strips the common leading indentation of code blocks.
func dedent(s string) string {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			lines[i] = line[indent:]
		}
	}
	return strings.TrimRight(strings.Join(lines, "\n"), " \t\n")
}

// crefLabel is the link text for a bare <see cref>: the simple name of the
// referenced entity.
func crefLabel(cref string) string {
	name := cref
	if len(name) > 2 && name[1] == ':' {
		name = name[2:]
	}
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 && i+1 < len(name) {
		name = name[i+1:]
	}
	return name
}
