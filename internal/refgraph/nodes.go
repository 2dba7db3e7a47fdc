package refgraph

import "github.com/Andrei15193/CodeMap-sub002/internal/metadata"

// Ref is a shared reference node. Every distinct entity reachable during a
// build has exactly one Ref.
type Ref interface {
	// Identifier is the canonical identifier of the referenced entity, or the
	// positional placeholder for generic parameters.
	Identifier() string
	ref()
}

// TypeRef is a named type: a definition, or a constructed generic when
// Definition is set.
type TypeRef struct {
	ID        string
	Name      string
	Namespace string
	Assembly  string
	Category  metadata.Category

	DeclaringType     *TypeRef
	GenericParameters []*GenericTypeParameterRef

	Definition       *TypeRef
	GenericArguments []Ref

	BaseType   Ref
	Interfaces []Ref
}

func (r *TypeRef) Identifier() string { return r.ID }
func (*TypeRef) ref() {}

// IsConstructed reports whether r is a constructed generic.
func (r *TypeRef) IsConstructed() bool { return r.Definition != nil }

type ArrayRef struct {
	ID       string
	ItemType Ref
	Rank     int
}

func (r *ArrayRef) Identifier() string { return r.ID }
func (*ArrayRef) ref() {}

type PointerRef struct {
	ID           string
	ReferentType Ref
}

func (r *PointerRef) Identifier() string { return r.ID }
func (*PointerRef) ref() {}

type GenericTypeParameterRef struct {
	ID            string
	Name          string
	Position      int
	DeclaringType *TypeRef
	Constraints   []Ref
}

func (r *GenericTypeParameterRef) Identifier() string { return r.ID }
func (*GenericTypeParameterRef) ref() {}

type GenericMethodParameterRef struct {
	ID              string
	Name            string
	Position        int
	DeclaringMethod *MemberRef
	Constraints     []Ref
}

func (r *GenericMethodParameterRef) Identifier() string { return r.ID }
func (*GenericMethodParameterRef) ref() {}

type VoidRef struct {
	ID string
}

func (r *VoidRef) Identifier() string { return r.ID }
func (*VoidRef) ref() {}

type DynamicRef struct {
	ID string
}

func (r *DynamicRef) Identifier() string { return r.ID }
func (*DynamicRef) ref() {}

// ParameterRef is one parameter of a member. By-ref-ness lives here rather
// than on the type node, which is shared with non-by-ref uses.
type ParameterRef struct {
	Name  string
	Type  Ref
	ByRef bool
}

// MemberRef is a field, event, property, method or constructor.
type MemberRef struct {
	ID            string
	Name          string
	Kind          metadata.Kind
	IsStatic      bool
	DeclaringType *TypeRef
	// Type is the field, event or property type, or the method return type.
	Type              Ref
	Parameters        []ParameterRef
	GenericParameters []*GenericMethodParameterRef
}

func (r *MemberRef) Identifier() string { return r.ID }
func (*MemberRef) ref() {}

// newShell allocates the empty node variant matching t.
func newShell(t *metadata.Type) Ref {
	switch t.Form {
	case metadata.FormArray:
		return &ArrayRef{}
	case metadata.FormPointer:
		return &PointerRef{}
	case metadata.FormGenericTypeParameter:
		return &GenericTypeParameterRef{}
	case metadata.FormGenericMethodParameter:
		return &GenericMethodParameterRef{}
	case metadata.FormVoid:
		return &VoidRef{}
	case metadata.FormDynamic:
		return &DynamicRef{}
	default:
		return &TypeRef{}
	}
}
