package identifier

import (
	"strconv"
	"strings"

	"github.com/Andrei15193/CodeMap-sub002/internal/metadata"
)

// Format returns the canonical identifier of an entity. Generic parameters
// have no identifier of their own and format to their positional placeholder,
// which is only meaningful relative to the declaring type or method.
func Format(e metadata.Entity) string {
	var b strings.Builder
	switch e := e.(type) {
	case *metadata.Type:
		if e.IsGenericParameter() {
			writeType(&b, e, '.')
			return b.String()
		}
		b.WriteString("T:")
		writeType(&b, e, '.')
	case *metadata.Field:
		writeMember(&b, KindField, e)
	case *metadata.Event:
		writeMember(&b, KindEvent, e)
	case *metadata.Property:
		writeMember(&b, KindProperty, e)
		writeParameters(&b, e.Parameters)
	case *metadata.Constructor:
		writeMember(&b, KindMethod, e)
		writeParameters(&b, e.Parameters)
	case *metadata.Method:
		writeMember(&b, KindMethod, e)
		if n := len(e.GenericParameters); n > 0 {
			b.WriteString("``")
			b.WriteString(strconv.Itoa(n))
		}
		writeParameters(&b, e.Parameters)
		if e.IsConversionOperator() && e.ReturnType != nil {
			b.WriteByte('~')
			writeType(&b, e.ReturnType, '.')
		}
	}
	return b.String()
}

// FormatType returns the identifier of t without the kind tag, in the form
// used for parameter lists and generic arguments.
func FormatType(t *metadata.Type) string {
	var b strings.Builder
	writeType(&b, t, '.')
	return b.String()
}

// KindOf returns the tag an entity's identifier starts with.
func KindOf(e metadata.Entity) Kind {
	switch e.Kind() {
	case metadata.KindField:
		return KindField
	case metadata.KindEvent:
		return KindEvent
	case metadata.KindProperty:
		return KindProperty
	case metadata.KindMethod, metadata.KindConstructor:
		return KindMethod
	default:
		return KindType
	}
}

// MemberName returns the name segment of a member identifier. Explicit
// interface implementations are named after the interface they implement,
// with # in place of dots: Acme#IShape#Area.
func MemberName(m metadata.Member) string {
	owner := m.Owner()
	if m.Accessibility() != metadata.AccessPrivate || owner == nil {
		return m.MemberName()
	}
	for _, mapping := range owner.InterfaceMaps {
		for _, target := range mapping.TargetMembers {
			if target != m {
				continue
			}
			var b strings.Builder
			writeType(&b, mapping.Interface, '#')
			b.WriteByte('#')
			b.WriteString(unqualified(m.MemberName()))
			return b.String()
		}
	}
	return m.MemberName()
}

func unqualified(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func writeMember(b *strings.Builder, kind Kind, m metadata.Member) {
	b.WriteByte(byte(kind))
	b.WriteByte(':')
	writeType(b, m.Owner(), '.')
	b.WriteByte('.')
	b.WriteString(MemberName(m))
}

func writeParameters(b *strings.Builder, params []*metadata.Parameter) {
	if len(params) == 0 {
		return
	}
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		writeType(b, p.Type, '.')
	}
	b.WriteByte(')')
}

// writeType writes the type expression of t. A type-level placeholder carries
// its position among all generic parameters in scope, enclosing types included.
func writeType(b *strings.Builder, t *metadata.Type, sep byte) {
	switch t.Form {
	case metadata.FormByRef:
		writeType(b, t.Element, sep)
		b.WriteByte('@')
	case metadata.FormPointer:
		writeType(b, t.Element, sep)
		b.WriteByte('*')
	case metadata.FormArray:
		writeType(b, t.Element, sep)
		writeRank(b, t.Rank)
	case metadata.FormGenericTypeParameter:
		b.WriteByte('`')
		b.WriteString(strconv.Itoa(t.Position))
	case metadata.FormGenericMethodParameter:
		b.WriteString("``")
		b.WriteString(strconv.Itoa(t.Position))
	case metadata.FormDynamic:
		b.WriteString("System")
		b.WriteByte(sep)
		b.WriteString("Object")
	case metadata.FormConstructed:
		writeNamed(b, t.Definition, t.Arguments, sep)
	default:
		writeNamed(b, t, nil, sep)
	}
}

// writeNamed renders the nesting chain of def. With args, every level that
// introduces generic parameters is written as Name{...} holding only the
// arguments for its own parameters; inherited ones belong to the outer level.
func writeNamed(b *strings.Builder, def *metadata.Type, args []*metadata.Type, sep byte) {
	var chain []*metadata.Type
	for t := def; t != nil; t = t.DeclaringType {
		chain = append(chain, t)
	}
	outer := chain[len(chain)-1]
	if outer.Namespace != "" {
		writeSeparated(b, outer.Namespace, sep)
		b.WriteByte(sep)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		level := chain[i]
		if i < len(chain)-1 {
			b.WriteByte(sep)
		}
		own := len(level.GenericParameters)
		offset := level.InheritedArity()
		if args == nil || own == 0 || offset+own > len(args) {
			b.WriteString(level.Name)
			continue
		}
		b.WriteString(stripArity(level.Name))
		b.WriteByte('{')
		for j, a := range args[offset : offset+own] {
			if j > 0 {
				b.WriteByte(',')
			}
			writeType(b, a, sep)
		}
		b.WriteByte('}')
	}
}

func writeSeparated(b *strings.Builder, dotted string, sep byte) {
	if sep == '.' {
		b.WriteString(dotted)
		return
	}
	b.WriteString(strings.ReplaceAll(dotted, ".", string(sep)))
}

func stripArity(name string) string {
	if i := strings.LastIndexByte(name, '`'); i >= 0 {
		return name[:i]
	}
	return name
}
