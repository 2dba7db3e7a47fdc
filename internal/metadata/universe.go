package metadata

// Assembly is a named container of top-level type definitions.
type Assembly struct {
	Name  string
	Types []*Type
}

// AddType declares t as a top-level type of the assembly.
func (a *Assembly) AddType(t *Type) *Type {
	t.Assembly = a.Name
	a.Types = append(a.Types, t)
	return t
}

// Lookup returns the top-level type with the given namespace-qualified name.
func (a *Assembly) Lookup(fullName string) *Type {
	for _, t := range a.Types {
		if t.String() == fullName {
			return t
		}
	}
	return nil
}

// Universe is an ordered set of assemblies searched by the resolver. It is
// read-only once built.
type Universe struct {
	Assemblies []*Assembly
}

// NewUniverse returns a universe over the given assemblies, in search order.
func NewUniverse(assemblies ...*Assembly) *Universe {
	return &Universe{Assemblies: assemblies}
}

// WalkTypes visits every type definition, nested types included, in
// assembly order and pre-order. Returning false from fn stops the walk.
func (u *Universe) WalkTypes(fn func(*Type) bool) {
	for _, a := range u.Assemblies {
		for _, t := range a.Types {
			if !walkType(t, fn) {
				return
			}
		}
	}
}

func walkType(t *Type, fn func(*Type) bool) bool {
	if !fn(t) {
		return false
	}
	for _, nested := range t.NestedTypes {
		if !walkType(nested, fn) {
			return false
		}
	}
	return true
}

// Instantiate constructs def with the given full argument list.
func (u *Universe) Instantiate(def *Type, args []*Type) (*Type, error) {
	return Construct(def, args)
}

// Types returns the top-level types of every assembly.
func (u *Universe) Types() []*Type {
	var types []*Type
	for _, a := range u.Assemblies {
		types = append(types, a.Types...)
	}
	return types
}

// Assembly returns the assembly with the given name.
func (u *Universe) Assembly(name string) (*Assembly, bool) {
	for _, a := range u.Assemblies {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}
