package identifier

import (
	"strconv"
	"strings"
)

// Kind is the one-letter tag that starts every identifier.
type Kind byte

const (
	KindType     Kind = 'T'
	KindField    Kind = 'F'
	KindEvent    Kind = 'E'
	KindProperty Kind = 'P'
	KindMethod   Kind = 'M'
)

func (k Kind) String() string { return string(k) }

// IsMember reports whether the tag names a member of a type.
func (k Kind) IsMember() bool { return k != KindType }

// ExprForm discriminates parsed type expressions.
type ExprForm int

const (
	ExprNamed ExprForm = iota
	ExprArray
	ExprPointer
	ExprByRef
	ExprTypeParameter
	ExprMethodParameter
)

// Segment is one dotted component of a named type path. Arguments is set when
// the segment was written as a constructed generic, Name{A,B}.
type Segment struct {
	Name      string
	Arguments []*TypeExpr
}

// TypeExpr is the parsed form of a type inside an identifier.
type TypeExpr struct {
	Form ExprForm

	// Segments is the dotted path of a named type, namespace included.
	Segments []Segment

	// Element is the wrapped type of arrays, pointers and by-refs.
	Element *TypeExpr
	Rank    int

	// Position of a `N or ``N placeholder.
	Position int
}

// IsPlaceholder reports whether e is a positional generic parameter.
func (e *TypeExpr) IsPlaceholder() bool {
	return e.Form == ExprTypeParameter || e.Form == ExprMethodParameter
}

// OpenName returns the path of the generic definition a named expression
// refers to: constructed segments are rewritten with their arity suffix, so
// Acme.Box{System.Int32}.Cell{`0} becomes Acme.Box`1.Cell`1.
func (e *TypeExpr) OpenName() string {
	var b strings.Builder
	for i, s := range e.Segments {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Name)
		if len(s.Arguments) > 0 {
			b.WriteByte('`')
			b.WriteString(strconv.Itoa(len(s.Arguments)))
		}
	}
	return b.String()
}

// Arguments flattens the generic arguments of every segment, outermost first.
func (e *TypeExpr) Arguments() []*TypeExpr {
	var args []*TypeExpr
	for _, s := range e.Segments {
		args = append(args, s.Arguments...)
	}
	return args
}

func (e *TypeExpr) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e *TypeExpr) write(b *strings.Builder) {
	switch e.Form {
	case ExprArray:
		e.Element.write(b)
		writeRank(b, e.Rank)
	case ExprPointer:
		e.Element.write(b)
		b.WriteByte('*')
	case ExprByRef:
		e.Element.write(b)
		b.WriteByte('@')
	case ExprTypeParameter:
		b.WriteByte('`')
		b.WriteString(strconv.Itoa(e.Position))
	case ExprMethodParameter:
		b.WriteString("``")
		b.WriteString(strconv.Itoa(e.Position))
	default:
		for i, s := range e.Segments {
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(s.Name)
			if len(s.Arguments) > 0 {
				b.WriteByte('{')
				for j, a := range s.Arguments {
					if j > 0 {
						b.WriteByte(',')
					}
					a.write(b)
				}
				b.WriteByte('}')
			}
		}
	}
}

func writeRank(b *strings.Builder, rank int) {
	if rank <= 1 {
		b.WriteString("[]")
		return
	}
	b.WriteByte('[')
	for i := 0; i < rank; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString("0:")
	}
	b.WriteByte(']')
}

// Identifier is the structural description of a parsed identifier.
type Identifier struct {
	Kind Kind
	// Type is the type itself for KindType, otherwise the declaring type.
	Type *TypeExpr
	// Member is the member name exactly as written, #ctor and explicit
	// interface names included.
	Member string
	// Arity is the method generic arity from a ``N suffix.
	Arity int
	// Parameters is the parameter list; HasParameters distinguishes an
	// empty () from no list at all.
	Parameters    []*TypeExpr
	HasParameters bool
	// Return is the ~Return suffix of conversion operators.
	Return *TypeExpr
}

// String renders the identifier canonically.
func (id *Identifier) String() string {
	var b strings.Builder
	b.WriteByte(byte(id.Kind))
	b.WriteByte(':')
	id.Type.write(&b)
	if id.Kind == KindType {
		return b.String()
	}
	b.WriteByte('.')
	b.WriteString(id.Member)
	if id.Arity > 0 {
		b.WriteString("``")
		b.WriteString(strconv.Itoa(id.Arity))
	}
	if len(id.Parameters) > 0 {
		b.WriteByte('(')
		for i, p := range id.Parameters {
			if i > 0 {
				b.WriteByte(',')
			}
			p.write(&b)
		}
		b.WriteByte(')')
	}
	if id.Return != nil {
		b.WriteByte('~')
		id.Return.write(&b)
	}
	return b.String()
}
