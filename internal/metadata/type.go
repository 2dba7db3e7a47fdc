package metadata

import (
	"fmt"
	"strings"
)

// TypeForm discriminates the shapes a *Type can take.
type TypeForm int

const (
	FormDefinition TypeForm = iota
	FormConstructed
	FormArray
	FormPointer
	FormByRef
	FormGenericTypeParameter
	FormGenericMethodParameter
	FormVoid
	FormDynamic
)

func (f TypeForm) String() string {
	switch f {
	case FormDefinition:
		return "definition"
	case FormConstructed:
		return "constructed"
	case FormArray:
		return "array"
	case FormPointer:
		return "pointer"
	case FormByRef:
		return "byref"
	case FormGenericTypeParameter:
		return "generic-type-parameter"
	case FormGenericMethodParameter:
		return "generic-method-parameter"
	case FormVoid:
		return "void"
	case FormDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Type is every type-shaped entity: definitions, constructed generics, type
// wrappers and open generic parameters. Which fields are meaningful depends on
// Form.
type Type struct {
	Form      TypeForm
	Assembly  string
	Namespace string
	// Name carries the `N arity suffix when the definition introduces N
	// generic parameters ("Box`1"). For generic parameters it is the declared
	// parameter name.
	Name     string
	Category Category
	Access   Access

	// DeclaringType is the enclosing type of a nested definition, or the type
	// that introduces a generic parameter.
	DeclaringType *Type
	// DeclaringMethod owns a generic method parameter.
	DeclaringMethod *Method
	// Position of a generic parameter. Type-level positions index the full
	// inherited-inclusive list of the introducing type; method-level positions
	// index the method's own list.
	Position    int
	Constraints []*Type

	// GenericParameters are the parameters introduced at this nesting level.
	GenericParameters []*Type

	// Definition and Arguments describe a constructed generic. Arguments is
	// the full list, inherited enclosing-type arguments first.
	Definition *Type
	Arguments  []*Type

	// Element is the item type of arrays and the referent of pointers and
	// by-ref wrappers.
	Element *Type
	Rank    int

	BaseType      *Type
	Interfaces    []*Type
	InterfaceMaps []InterfaceMapping
	Attributes    []*Type

	Fields       []*Field
	Events       []*Event
	Properties   []*Property
	Methods      []*Method
	Constructors []*Constructor
	NestedTypes  []*Type
}

// NewType creates an empty type definition.
func NewType(namespace, name string, category Category) *Type {
	return &Type{Form: FormDefinition, Namespace: namespace, Name: name, Category: category}
}

func (t *Type) Kind() Kind {
	switch t.Form {
	case FormGenericTypeParameter:
		return KindGenericTypeParameter
	case FormGenericMethodParameter:
		return KindGenericMethodParameter
	default:
		return KindType
	}
}

func (*Type) entity() {}

// IsNamed reports whether the type is addressed by a dotted name path.
func (t *Type) IsNamed() bool {
	return t.Form == FormDefinition || t.Form == FormConstructed || t.Form == FormVoid
}

// IsGenericParameter reports whether t is an open type- or method-level parameter.
func (t *Type) IsGenericParameter() bool {
	return t.Form == FormGenericTypeParameter || t.Form == FormGenericMethodParameter
}

// AllGenericParameters returns the enclosing types' parameters followed by
// the ones introduced by t. Only meaningful for definitions.
func (t *Type) AllGenericParameters() []*Type {
	if t == nil || t.Form != FormDefinition {
		return nil
	}
	if t.DeclaringType == nil {
		return t.GenericParameters
	}
	inherited := t.DeclaringType.AllGenericParameters()
	if len(inherited) == 0 {
		return t.GenericParameters
	}
	all := make([]*Type, 0, len(inherited)+len(t.GenericParameters))
	all = append(all, inherited...)
	return append(all, t.GenericParameters...)
}

// InheritedArity is the number of generic parameters t inherits from its
// enclosing types.
func (t *Type) InheritedArity() int {
	if t == nil || t.DeclaringType == nil {
		return 0
	}
	return len(t.DeclaringType.AllGenericParameters())
}

// Nest declares child as a nested type of t and renumbers the child's own
// generic parameters after the inherited ones.
func (t *Type) Nest(child *Type) *Type {
	child.DeclaringType = t
	if child.Assembly == "" {
		child.Assembly = t.Assembly
	}
	if child.Namespace == "" {
		child.Namespace = t.Namespace
	}
	offset := len(t.AllGenericParameters())
	for i, p := range child.GenericParameters {
		p.Position = offset + i
	}
	t.NestedTypes = append(t.NestedTypes, child)
	return child
}

// DefineGenericParameter introduces a new type-level parameter on t.
func (t *Type) DefineGenericParameter(name string) *Type {
	p := &Type{
		Form:          FormGenericTypeParameter,
		Name:          name,
		DeclaringType: t,
		Position:      len(t.AllGenericParameters()),
	}
	t.GenericParameters = append(t.GenericParameters, p)
	return p
}

func (t *Type) AddField(f *Field) *Field {
	f.DeclaringType = t
	t.Fields = append(t.Fields, f)
	return f
}

func (t *Type) AddEvent(e *Event) *Event {
	e.DeclaringType = t
	t.Events = append(t.Events, e)
	return e
}

func (t *Type) AddProperty(p *Property) *Property {
	p.DeclaringType = t
	t.Properties = append(t.Properties, p)
	return p
}

func (t *Type) AddMethod(m *Method) *Method {
	m.DeclaringType = t
	for _, p := range m.GenericParameters {
		p.DeclaringType = t
	}
	t.Methods = append(t.Methods, m)
	return m
}

func (t *Type) AddConstructor(c *Constructor) *Constructor {
	c.DeclaringType = t
	t.Constructors = append(t.Constructors, c)
	return c
}

// MapInterface records that target implements member of iface.
func (t *Type) MapInterface(iface *Type, member, target Member) {
	for i := range t.InterfaceMaps {
		if t.InterfaceMaps[i].Interface == iface {
			t.InterfaceMaps[i].InterfaceMembers = append(t.InterfaceMaps[i].InterfaceMembers, member)
			t.InterfaceMaps[i].TargetMembers = append(t.InterfaceMaps[i].TargetMembers, target)
			return
		}
	}
	t.InterfaceMaps = append(t.InterfaceMaps, InterfaceMapping{
		Interface:        iface,
		InterfaceMembers: []Member{member},
		TargetMembers:    []Member{target},
	})
}

// Members returns every member of t in declaration-group order.
func (t *Type) Members() []Member {
	var members []Member
	for _, f := range t.Fields {
		members = append(members, f)
	}
	for _, e := range t.Events {
		members = append(members, e)
	}
	for _, p := range t.Properties {
		members = append(members, p)
	}
	for _, c := range t.Constructors {
		members = append(members, c)
	}
	for _, m := range t.Methods {
		members = append(members, m)
	}
	return members
}

func (t *Type) String() string {
	switch t.Form {
	case FormConstructed:
		args := make([]string, len(t.Arguments))
		for i, a := range t.Arguments {
			args[i] = a.String()
		}
		return t.Definition.String() + "[" + strings.Join(args, ", ") + "]"
	case FormArray:
		return t.Element.String() + "[" + strings.Repeat(",", t.Rank-1) + "]"
	case FormPointer:
		return t.Element.String() + "*"
	case FormByRef:
		return t.Element.String() + "&"
	case FormGenericTypeParameter, FormGenericMethodParameter:
		return t.Name
	case FormDynamic:
		return "dynamic"
	}
	if t.DeclaringType != nil {
		return t.DeclaringType.String() + "+" + t.Name
	}
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// InterfaceMapping pairs interface members with the members of the
// implementing type that satisfy them.
type InterfaceMapping struct {
	Interface        *Type
	InterfaceMembers []Member
	TargetMembers    []Member
}

// ArrayOf returns an array type with the given element type and rank.
func ArrayOf(elem *Type, rank int) *Type {
	if rank < 1 {
		rank = 1
	}
	return &Type{Form: FormArray, Element: elem, Rank: rank}
}

// PointerTo returns a pointer to elem.
func PointerTo(elem *Type) *Type {
	return &Type{Form: FormPointer, Element: elem}
}

// ByRefOf returns a by-reference wrapper around elem.
func ByRefOf(elem *Type) *Type {
	return &Type{Form: FormByRef, Element: elem}
}

// Construct instantiates a generic definition with its full argument list.
func Construct(def *Type, args []*Type) (*Type, error) {
	if def == nil || def.Form != FormDefinition {
		return nil, fmt.Errorf("constructing generic: %v is not a type definition", def)
	}
	want := len(def.AllGenericParameters())
	if want == 0 {
		return nil, fmt.Errorf("constructing generic: %s is not generic", def)
	}
	if len(args) != want {
		return nil, fmt.Errorf("constructing generic: %s takes %d arguments, got %d", def, want, len(args))
	}
	return &Type{
		Form:       FormConstructed,
		Assembly:   def.Assembly,
		Namespace:  def.Namespace,
		Name:       def.Name,
		Category:   def.Category,
		Definition: def,
		Arguments:  append([]*Type(nil), args...),
	}, nil
}

// Dynamic is the sentinel used for dynamically typed values.
var Dynamic = &Type{Form: FormDynamic, Namespace: "System", Name: "Object"}

// Unwrap strips by-reference wrappers.
func Unwrap(t *Type) *Type {
	for t != nil && t.Form == FormByRef {
		t = t.Element
	}
	return t
}

// Equal reports whether a and b denote the same type structurally.
func Equal(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Form == FormDynamic || b.Form == FormDynamic {
		// dynamic is System.Object in signatures.
		return isObject(a) && isObject(b)
	}
	if a.Form != b.Form {
		return false
	}
	switch a.Form {
	case FormConstructed:
		if a.Definition != b.Definition || len(a.Arguments) != len(b.Arguments) {
			return false
		}
		for i := range a.Arguments {
			if !Equal(a.Arguments[i], b.Arguments[i]) {
				return false
			}
		}
		return true
	case FormArray:
		return a.Rank == b.Rank && Equal(a.Element, b.Element)
	case FormPointer, FormByRef:
		return Equal(a.Element, b.Element)
	default:
		// Definitions, generic parameters and void are identity-compared.
		return false
	}
}

func isObject(t *Type) bool {
	if t.Form == FormDynamic {
		return true
	}
	return t.Form == FormDefinition && t.DeclaringType == nil && t.Namespace == "System" && t.Name == "Object"
}
