package metadata

// Entity is implemented by *Type, *Field, *Event, *Property, *Method and
// *Constructor only.
type Entity interface {
	Kind() Kind
	entity()
}

// Member is an entity owned by a declaring type.
type Member interface {
	Entity
	MemberName() string
	Owner() *Type
	Accessibility() Access
}

// Parameter is one entry of a method, constructor or indexer parameter list.
type Parameter struct {
	Name string
	Type *Type
}

type Field struct {
	Name          string
	DeclaringType *Type
	Type          *Type
	Access        Access
	IsStatic      bool
	Attributes    []*Type
}

func (*Field) Kind() Kind { return KindField }
func (*Field) entity() {}
func (f *Field) MemberName() string { return f.Name }
func (f *Field) Owner() *Type { return f.DeclaringType }
func (f *Field) Accessibility() Access { return f.Access }
func (f *Field) String() string { return f.DeclaringType.String() + "." + f.Name }

type Event struct {
	Name          string
	DeclaringType *Type
	Type          *Type
	Access        Access
	IsStatic      bool
	Attributes    []*Type
}

func (*Event) Kind() Kind { return KindEvent }
func (*Event) entity() {}
func (e *Event) MemberName() string { return e.Name }
func (e *Event) Owner() *Type { return e.DeclaringType }
func (e *Event) Accessibility() Access { return e.Access }
func (e *Event) String() string { return e.DeclaringType.String() + "." + e.Name }

// Property is a property or, when Parameters is non-empty, an indexer.
type Property struct {
	Name          string
	DeclaringType *Type
	Type          *Type
	Parameters    []*Parameter
	Access        Access
	IsStatic      bool
	Attributes    []*Type
}

func (*Property) Kind() Kind { return KindProperty }
func (*Property) entity() {}
func (p *Property) MemberName() string { return p.Name }
func (p *Property) Owner() *Type { return p.DeclaringType }
func (p *Property) Accessibility() Access { return p.Access }
func (p *Property) String() string { return p.DeclaringType.String() + "." + p.Name }

type Method struct {
	Name              string
	DeclaringType     *Type
	ReturnType        *Type
	Parameters        []*Parameter
	GenericParameters []*Type
	Access            Access
	IsStatic          bool
	Attributes        []*Type
}

func (*Method) Kind() Kind { return KindMethod }
func (*Method) entity() {}
func (m *Method) MemberName() string { return m.Name }
func (m *Method) Owner() *Type { return m.DeclaringType }
func (m *Method) Accessibility() Access { return m.Access }
func (m *Method) String() string { return m.DeclaringType.String() + "." + m.Name }

// DefineGenericParameter introduces a new method-level generic parameter.
func (m *Method) DefineGenericParameter(name string) *Type {
	p := &Type{
		Form:            FormGenericMethodParameter,
		Name:            name,
		DeclaringType:   m.DeclaringType,
		DeclaringMethod: m,
		Position:        len(m.GenericParameters),
	}
	m.GenericParameters = append(m.GenericParameters, p)
	return p
}

// IsConversionOperator reports whether the return type is part of the
// method's identity.
func (m *Method) IsConversionOperator() bool {
	return m.Name == "op_Implicit" || m.Name == "op_Explicit"
}

type Constructor struct {
	DeclaringType *Type
	Parameters    []*Parameter
	Access        Access
	IsStatic      bool
	Attributes    []*Type
}

func (*Constructor) Kind() Kind { return KindConstructor }
func (*Constructor) entity() {}
func (c *Constructor) Owner() *Type { return c.DeclaringType }
func (c *Constructor) Accessibility() Access { return c.Access }

// MemberName returns the identifier spelling of the constructor name.
func (c *Constructor) MemberName() string {
	if c.IsStatic {
		return "#cctor"
	}
	return "#ctor"
}

func (c *Constructor) String() string { return c.DeclaringType.String() + "." + c.MemberName() }

// ParametersOf returns the parameter list of callable members and indexers.
func ParametersOf(m Member) []*Parameter {
	switch m := m.(type) {
	case *Method:
		return m.Parameters
	case *Constructor:
		return m.Parameters
	case *Property:
		return m.Parameters
	default:
		return nil
	}
}

// AttributesOf returns the attribute types applied to an entity.
func AttributesOf(e Entity) []*Type {
	switch e := e.(type) {
	case *Type:
		return e.Attributes
	case *Field:
		return e.Attributes
	case *Event:
		return e.Attributes
	case *Property:
		return e.Attributes
	case *Method:
		return e.Attributes
	case *Constructor:
		return e.Attributes
	default:
		return nil
	}
}
