package refgraph

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Andrei15193/CodeMap-sub002/internal/docs"
	"github.com/Andrei15193/CodeMap-sub002/internal/identifier"
	"github.com/Andrei15193/CodeMap-sub002/internal/metadata"
	"github.com/Andrei15193/CodeMap-sub002/internal/resolver"
)

type Option func(*builder)

func WithLogger(logger *zap.Logger) Option {
	return func(b *builder) { b.logger = logger }
}

// WithResolver resolves documentation cross references with r instead of a
// default resolver over the build universe.
func WithResolver(r *resolver.Resolver) Option {
	return func(b *builder) { b.resolver = r }
}

type builder struct {
	graph    *Graph
	store    docs.Store
	resolver *resolver.Resolver
	logger   *zap.Logger

	visited map[*metadata.Type]bool
	crefs   map[string]Ref
}

// BuildReferenceGraph documents roots and everything nested in them. Every
// entity reached from the roots (base types, parameter types, constraints,
// cross reference targets) gets exactly one shared reference node, also when
// the references form cycles.
//
// Cross references that do not resolve are dropped. A malformed cross
// reference fails the build with a *identifier.FormatError.
func BuildReferenceGraph(roots []*metadata.Type, universe resolver.Universe, store docs.Store, opts ...Option) (*Graph, error) {
	b := &builder{
		graph:   newGraph(),
		store:   store,
		logger:  zap.NewNop(),
		visited: make(map[*metadata.Type]bool),
		crefs:   make(map[string]Ref),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.resolver == nil {
		b.resolver = resolver.New(universe, resolver.WithLogger(b.logger))
	}

	for _, root := range roots {
		if root == nil || b.visited[root] {
			continue
		}
		if root.Form != metadata.FormDefinition {
			return nil, fmt.Errorf("building reference graph: %s is not a type definition", root)
		}
		entry, err := b.typeEntry(root)
		if err != nil {
			return nil, err
		}
		b.graph.Types = append(b.graph.Types, entry)
	}

	b.logger.Debug("built reference graph",
		zap.String("build", b.graph.ID.String()),
		zap.Int("entries", b.graph.Len()),
		zap.Int("type_refs", b.graph.TypeRefCount()),
		zap.Int("member_refs", b.graph.MemberRefCount()))
	return b.graph, nil
}

// --- Reference nodes ---

// typeKey is the structural identity of a type. By-ref wrappers share the
// key of their referent.
func typeKey(t *metadata.Type) string {
	t = metadata.Unwrap(t)
	switch t.Form {
	case metadata.FormConstructed:
		key := fmt.Sprintf("C%p{", t.Definition)
		for i, a := range t.Arguments {
			if i > 0 {
				key += ","
			}
			key += typeKey(a)
		}
		return key + "}"
	case metadata.FormArray:
		return fmt.Sprintf("A%d[%s]", t.Rank, typeKey(t.Element))
	case metadata.FormPointer:
		return "P[" + typeKey(t.Element) + "]"
	case metadata.FormVoid:
		return "void"
	case metadata.FormDynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("D%p", t)
	}
}

func (b *builder) typeRef(t *metadata.Type) Ref {
	t = metadata.Unwrap(t)
	if t == nil {
		return nil
	}
	return b.graph.types.GetOrCreate(typeKey(t),
		func(string) Ref { return newShell(t) },
		func(_ string, r Ref) { b.initType(t, r) })
}

func (b *builder) namedRef(t *metadata.Type) *TypeRef {
	if t == nil {
		return nil
	}
	r, _ := b.typeRef(t).(*TypeRef)
	return r
}

func (b *builder) typeRefs(types []*metadata.Type) []Ref {
	if len(types) == 0 {
		return nil
	}
	refs := make([]Ref, len(types))
	for i, t := range types {
		refs[i] = b.typeRef(t)
	}
	return refs
}

func (b *builder) initType(t *metadata.Type, r Ref) {
	switch r := r.(type) {
	case *TypeRef:
		r.ID = identifier.Format(t)
		r.Name = t.Name
		r.Namespace = t.Namespace
		r.Assembly = t.Assembly
		r.Category = t.Category
		if t.Form == metadata.FormConstructed {
			r.Definition = b.namedRef(t.Definition)
			r.DeclaringType = b.namedRef(t.Definition.DeclaringType)
			r.GenericArguments = b.typeRefs(t.Arguments)
			return
		}
		r.DeclaringType = b.namedRef(t.DeclaringType)
		for _, p := range t.GenericParameters {
			if pr, ok := b.typeRef(p).(*GenericTypeParameterRef); ok {
				r.GenericParameters = append(r.GenericParameters, pr)
			}
		}
		if t.BaseType != nil {
			r.BaseType = b.typeRef(t.BaseType)
		}
		r.Interfaces = b.typeRefs(t.Interfaces)
	case *ArrayRef:
		r.ID = identifier.FormatType(t)
		r.Rank = t.Rank
		r.ItemType = b.typeRef(t.Element)
	case *PointerRef:
		r.ID = identifier.FormatType(t)
		r.ReferentType = b.typeRef(t.Element)
	case *GenericTypeParameterRef:
		r.ID = identifier.FormatType(t)
		r.Name = t.Name
		r.Position = t.Position
		r.DeclaringType = b.namedRef(t.DeclaringType)
		r.Constraints = b.typeRefs(t.Constraints)
	case *GenericMethodParameterRef:
		r.ID = identifier.FormatType(t)
		r.Name = t.Name
		r.Position = t.Position
		if t.DeclaringMethod != nil {
			r.DeclaringMethod = b.memberRef(t.DeclaringMethod)
		}
		r.Constraints = b.typeRefs(t.Constraints)
	case *VoidRef:
		r.ID = identifier.FormatType(t)
	case *DynamicRef:
		r.ID = identifier.FormatType(t)
	}
}

func (b *builder) memberRef(m metadata.Member) *MemberRef {
	return b.graph.members.GetOrCreate(m,
		func(metadata.Member) *MemberRef { return &MemberRef{} },
		b.initMember)
}

func (b *builder) initMember(m metadata.Member, r *MemberRef) {
	r.ID = identifier.Format(m)
	r.Name = m.MemberName()
	r.Kind = m.Kind()
	r.DeclaringType = b.namedRef(m.Owner())

	switch m := m.(type) {
	case *metadata.Field:
		r.IsStatic = m.IsStatic
		r.Type = b.typeRef(m.Type)
	case *metadata.Event:
		r.IsStatic = m.IsStatic
		r.Type = b.typeRef(m.Type)
	case *metadata.Property:
		r.IsStatic = m.IsStatic
		r.Type = b.typeRef(m.Type)
	case *metadata.Constructor:
		r.IsStatic = m.IsStatic
	case *metadata.Method:
		r.IsStatic = m.IsStatic
		for _, p := range m.GenericParameters {
			if pr, ok := b.typeRef(p).(*GenericMethodParameterRef); ok {
				r.GenericParameters = append(r.GenericParameters, pr)
			}
		}
		r.Type = b.typeRef(m.ReturnType)
	}

	for _, p := range metadata.ParametersOf(m) {
		r.Parameters = append(r.Parameters, ParameterRef{
			Name:  p.Name,
			Type:  b.typeRef(p.Type),
			ByRef: p.Type != nil && p.Type.Form == metadata.FormByRef,
		})
	}
}

func (b *builder) entityRef(e metadata.Entity) Ref {
	switch e := e.(type) {
	case *metadata.Type:
		return b.typeRef(e)
	case metadata.Member:
		return b.memberRef(e)
	}
	return nil
}

// resolveCref returns the node a cross reference points at, or nil when it
// names nothing in the universe.
func (b *builder) resolveCref(cref string) (Ref, error) {
	if r, ok := b.crefs[cref]; ok {
		return r, nil
	}
	if docs.IsCompilerUnresolved(cref) {
		b.logger.Debug("dropping unresolved cross reference", zap.String("cref", cref))
		b.crefs[cref] = nil
		return nil, nil
	}

	e, err := b.resolver.Resolve(cref)
	if errors.Is(err, resolver.ErrNotFound) {
		b.logger.Debug("dropping cross reference", zap.String("cref", cref), zap.Error(err))
		b.crefs[cref] = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolving cross reference %q: %w", cref, err)
	}

	r := b.entityRef(e)
	b.crefs[cref] = r
	return r, nil
}

// --- Documentation entries ---

func (b *builder) typeEntry(t *metadata.Type) (*TypeEntry, error) {
	b.visited[t] = true
	ref := b.namedRef(t)
	blocks := docs.MergeDocumentation(t, ref.ID, b.store)

	entry := &TypeEntry{
		Ref:        ref,
		Access:     t.Access,
		Docs:       blocks,
		Attributes: b.typeRefs(t.Attributes),
	}
	for _, p := range ref.GenericParameters {
		entry.TypeParameters = append(entry.TypeParameters, TypeParameterEntry{
			Ref:         p,
			Description: blocks.TypeParameter(p.Name),
		})
	}
	links, err := b.links(blocks)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref.ID, err)
	}
	entry.Links = links
	b.graph.add(entry)

	for _, m := range t.Members() {
		me, err := b.memberEntry(m)
		if err != nil {
			return nil, err
		}
		entry.Members = append(entry.Members, me)
	}
	for _, nested := range t.NestedTypes {
		if b.visited[nested] {
			continue
		}
		ne, err := b.typeEntry(nested)
		if err != nil {
			return nil, err
		}
		entry.NestedTypes = append(entry.NestedTypes, ne)
	}
	return entry, nil
}

func (b *builder) memberEntry(m metadata.Member) (*MemberEntry, error) {
	ref := b.memberRef(m)
	blocks := docs.MergeDocumentation(m, ref.ID, b.store)

	entry := &MemberEntry{
		Ref:        ref,
		Access:     m.Accessibility(),
		Docs:       blocks,
		Attributes: b.typeRefs(metadata.AttributesOf(m)),
	}
	for _, p := range ref.GenericParameters {
		entry.TypeParameters = append(entry.TypeParameters, TypeParameterEntry{
			Ref:         p,
			Description: blocks.TypeParameter(p.Name),
		})
	}
	for _, p := range ref.Parameters {
		entry.Parameters = append(entry.Parameters, ParameterEntry{
			Name:        p.Name,
			Type:        p.Type,
			ByRef:       p.ByRef,
			Description: blocks.Parameter(p.Name),
		})
	}
	for _, e := range blocks.Exceptions {
		target, err := b.resolveCref(e.Cref)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref.ID, err)
		}
		if target == nil {
			continue
		}
		entry.Exceptions = append(entry.Exceptions, ExceptionEntry{
			Cref:        e.Cref,
			Type:        target,
			Description: e.Text,
		})
	}
	links, err := b.links(blocks)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref.ID, err)
	}
	entry.Links = links
	b.graph.add(entry)
	return entry, nil
}

func (b *builder) links(blocks *docs.BlockSet) ([]Link, error) {
	var links []Link
	for _, cref := range docs.Crefs(blocks) {
		target, err := b.resolveCref(cref)
		if err != nil {
			return nil, err
		}
		if target != nil {
			links = append(links, Link{Cref: cref, Target: target})
		}
	}
	return links, nil
}
