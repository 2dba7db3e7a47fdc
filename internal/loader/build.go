package loader

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Andrei15193/CodeMap-sub002/internal/identifier"
	"github.com/Andrei15193/CodeMap-sub002/internal/metadata"
	"github.com/Andrei15193/CodeMap-sub002/internal/resolver"
)

// LoadUniverse reads a descriptor file and builds its universe.
func LoadUniverse(path string, opts ...Option) (*metadata.Universe, error) {
	d, err := ReadDescriptor(path)
	if err != nil {
		return nil, err
	}
	u, err := Build(d, opts...)
	if err != nil {
		return nil, fmt.Errorf("building universe from %s: %w", path, err)
	}
	return u, nil
}

// pending pairs a created shell with the descriptor it still has to apply.
type pending struct {
	typ  *metadata.Type
	desc *TypeDescriptor
}

type universeBuilder struct {
	universe *metadata.Universe
	resolver *resolver.Resolver
	logger   *zap.Logger
	types    []pending
}

// Build turns a descriptor into a universe. The core library comes first in
// search order unless the descriptor defines its own.
//
// Types are built in three passes so references may point forward or form
// cycles: shells with their generic parameters, then signatures, then
// interface implementation maps.
func Build(d *Descriptor, opts ...Option) (*metadata.Universe, error) {
	o := newOptions(opts)
	b := &universeBuilder{universe: metadata.NewUniverse(), logger: o.logger}

	if !d.definesCoreLibrary() {
		b.universe.Assemblies = append(b.universe.Assemblies, metadata.CoreLibrary())
	}
	for i := range d.Assemblies {
		ad := &d.Assemblies[i]
		asm := &metadata.Assembly{Name: ad.Name}
		b.universe.Assemblies = append(b.universe.Assemblies, asm)
		for j := range ad.Types {
			td := &ad.Types[j]
			if err := b.declare(asm, nil, td); err != nil {
				return nil, err
			}
		}
	}

	// Exact lookups only: a descriptor must spell its references correctly.
	b.resolver = resolver.New(b.universe, resolver.WithCaseInsensitiveFallback(false), resolver.WithLogger(o.logger))
	for _, p := range b.types {
		if err := b.define(p.typ, p.desc); err != nil {
			return nil, fmt.Errorf("%s: %w", p.typ, err)
		}
	}
	for _, p := range b.types {
		if err := b.implement(p.typ, p.desc); err != nil {
			return nil, fmt.Errorf("%s: %w", p.typ, err)
		}
	}

	b.logger.Debug("built universe",
		zap.Int("assemblies", len(b.universe.Assemblies)),
		zap.Int("types", len(b.types)))
	return b.universe, nil
}

func (d *Descriptor) definesCoreLibrary() bool {
	for _, a := range d.Assemblies {
		if a.Name == metadata.CoreLibraryName {
			return true
		}
	}
	return false
}

// --- Pass 1: shells ---

func (b *universeBuilder) declare(asm *metadata.Assembly, parent *metadata.Type, td *TypeDescriptor) error {
	category := metadata.CategoryClass
	if td.Category != "" {
		c, ok := metadata.ParseCategory(td.Category)
		if !ok {
			return fmt.Errorf("type %s: unknown category %q", td.Name, td.Category)
		}
		category = c
	}
	access, err := parseAccess(td.Access)
	if err != nil {
		return fmt.Errorf("type %s: %w", td.Name, err)
	}

	name := td.Name
	if n := len(td.GenericParameters); n > 0 && !strings.Contains(name, "`") {
		name += "`" + strconv.Itoa(n)
	}
	t := metadata.NewType(td.Namespace, name, category)
	t.Access = access
	if parent == nil {
		asm.AddType(t)
	} else {
		parent.Nest(t)
	}
	for _, gp := range td.GenericParameters {
		t.DefineGenericParameter(gp.Name)
	}
	b.types = append(b.types, pending{typ: t, desc: td})

	for i := range td.Nested {
		if err := b.declare(asm, t, &td.Nested[i]); err != nil {
			return err
		}
	}
	return nil
}

// --- Pass 2: signatures ---

func (b *universeBuilder) define(t *metadata.Type, td *TypeDescriptor) error {
	scope := resolver.Scope{Type: t}
	var err error

	if td.Base != "" {
		if t.BaseType, err = b.resolveType(td.Base, scope); err != nil {
			return fmt.Errorf("base type: %w", err)
		}
	}
	if t.Interfaces, err = b.resolveTypes(td.Interfaces, scope); err != nil {
		return fmt.Errorf("interfaces: %w", err)
	}
	if t.Attributes, err = b.resolveTypes(td.Attributes, scope); err != nil {
		return fmt.Errorf("attributes: %w", err)
	}
	for i, gp := range td.GenericParameters {
		p := t.GenericParameters[i]
		if p.Constraints, err = b.resolveTypes(gp.Constraints, scope); err != nil {
			return fmt.Errorf("constraints of %s: %w", gp.Name, err)
		}
	}

	for _, fd := range td.Fields {
		f, err := b.field(fd, scope)
		if err != nil {
			return fmt.Errorf("field %s: %w", fd.Name, err)
		}
		t.AddField(&metadata.Field{Name: f.Name, Type: f.Type, Access: f.Access, IsStatic: f.IsStatic, Attributes: f.Attributes})
	}
	for _, ed := range td.Events {
		f, err := b.field(ed, scope)
		if err != nil {
			return fmt.Errorf("event %s: %w", ed.Name, err)
		}
		t.AddEvent(&metadata.Event{Name: f.Name, Type: f.Type, Access: f.Access, IsStatic: f.IsStatic, Attributes: f.Attributes})
	}
	for _, pd := range td.Properties {
		p, err := b.property(pd, scope)
		if err != nil {
			return fmt.Errorf("property %s: %w", pd.Name, err)
		}
		t.AddProperty(p)
	}
	for i, cd := range td.Constructors {
		c, err := b.constructor(cd, scope)
		if err != nil {
			return fmt.Errorf("constructor %d: %w", i, err)
		}
		t.AddConstructor(c)
	}
	for _, md := range td.Methods {
		if err := b.method(t, md); err != nil {
			return fmt.Errorf("method %s: %w", md.Name, err)
		}
	}
	return nil
}

func (b *universeBuilder) field(fd FieldDescriptor, scope resolver.Scope) (*metadata.Field, error) {
	access, err := parseAccess(fd.Access)
	if err != nil {
		return nil, err
	}
	typ, err := b.resolveType(fd.Type, scope)
	if err != nil {
		return nil, err
	}
	attrs, err := b.resolveTypes(fd.Attributes, scope)
	if err != nil {
		return nil, err
	}
	return &metadata.Field{Name: fd.Name, Type: typ, Access: access, IsStatic: fd.Static, Attributes: attrs}, nil
}

func (b *universeBuilder) property(pd PropertyDescriptor, scope resolver.Scope) (*metadata.Property, error) {
	access, err := parseAccess(pd.Access)
	if err != nil {
		return nil, err
	}
	typ, err := b.resolveType(pd.Type, scope)
	if err != nil {
		return nil, err
	}
	params, err := b.parameters(pd.Parameters, scope)
	if err != nil {
		return nil, err
	}
	attrs, err := b.resolveTypes(pd.Attributes, scope)
	if err != nil {
		return nil, err
	}
	return &metadata.Property{
		Name:       pd.Name,
		Type:       typ,
		Parameters: params,
		Access:     access,
		IsStatic:   pd.Static,
		Attributes: attrs,
	}, nil
}

func (b *universeBuilder) constructor(cd ConstructorDescriptor, scope resolver.Scope) (*metadata.Constructor, error) {
	access, err := parseAccess(cd.Access)
	if err != nil {
		return nil, err
	}
	params, err := b.parameters(cd.Parameters, scope)
	if err != nil {
		return nil, err
	}
	attrs, err := b.resolveTypes(cd.Attributes, scope)
	if err != nil {
		return nil, err
	}
	return &metadata.Constructor{Parameters: params, Access: access, IsStatic: cd.Static, Attributes: attrs}, nil
}

// method adds the method before resolving its signature so ``N placeholders
// and constraints can refer to its own generic parameters.
func (b *universeBuilder) method(t *metadata.Type, md MethodDescriptor) error {
	access, err := parseAccess(md.Access)
	if err != nil {
		return err
	}
	m := &metadata.Method{Name: md.Name, Access: access, IsStatic: md.Static}
	for _, gp := range md.GenericParameters {
		m.DefineGenericParameter(gp.Name)
	}
	t.AddMethod(m)

	scope := resolver.Scope{Type: t, Method: m}
	for i, gp := range md.GenericParameters {
		if m.GenericParameters[i].Constraints, err = b.resolveTypes(gp.Constraints, scope); err != nil {
			return fmt.Errorf("constraints of %s: %w", gp.Name, err)
		}
	}
	returns := md.Returns
	if returns == "" {
		returns = "System.Void"
	}
	if m.ReturnType, err = b.resolveType(returns, scope); err != nil {
		return fmt.Errorf("return type: %w", err)
	}
	if m.Parameters, err = b.parameters(md.Parameters, scope); err != nil {
		return err
	}
	if m.Attributes, err = b.resolveTypes(md.Attributes, scope); err != nil {
		return err
	}
	return nil
}

func (b *universeBuilder) parameters(pds []ParameterDescriptor, scope resolver.Scope) ([]*metadata.Parameter, error) {
	if len(pds) == 0 {
		return nil, nil
	}
	params := make([]*metadata.Parameter, len(pds))
	for i, pd := range pds {
		typ, err := b.resolveType(pd.Type, scope)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", pd.Name, err)
		}
		params[i] = &metadata.Parameter{Name: pd.Name, Type: typ}
	}
	return params, nil
}

func (b *universeBuilder) resolveType(s string, scope resolver.Scope) (*metadata.Type, error) {
	if s == "dynamic" {
		return metadata.Dynamic, nil
	}
	expr, err := identifier.ParseType(s)
	if err != nil {
		return nil, err
	}
	return b.resolver.ResolveType(expr, scope)
}

func (b *universeBuilder) resolveTypes(ss []string, scope resolver.Scope) ([]*metadata.Type, error) {
	if len(ss) == 0 {
		return nil, nil
	}
	types := make([]*metadata.Type, len(ss))
	for i, s := range ss {
		t, err := b.resolveType(s, scope)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

// --- Pass 3: interface maps ---

func (b *universeBuilder) implement(t *metadata.Type, td *TypeDescriptor) error {
	for i, md := range td.Methods {
		for _, target := range md.Implements {
			if err := b.mapInterface(t, t.Methods[i], target); err != nil {
				return fmt.Errorf("method %s: %w", md.Name, err)
			}
		}
	}
	for i, pd := range td.Properties {
		for _, target := range pd.Implements {
			if err := b.mapInterface(t, t.Properties[i], target); err != nil {
				return fmt.Errorf("property %s: %w", pd.Name, err)
			}
		}
	}
	return nil
}

// mapInterface records that impl implements the interface member named by
// target. The interface keeps its constructed form; the member is looked up
// on its definition, where `N placeholders bind to the interface's own
// parameters.
func (b *universeBuilder) mapInterface(t *metadata.Type, impl metadata.Member, target string) error {
	id, err := identifier.Parse(target)
	if err != nil {
		return err
	}
	if !id.Kind.IsMember() {
		return fmt.Errorf("implements %s: not a member identifier", target)
	}
	iface, err := b.resolver.ResolveType(id.Type, resolver.Scope{Type: t})
	if err != nil {
		return fmt.Errorf("implements %s: %w", target, err)
	}
	def := iface
	if def.Form == metadata.FormConstructed {
		def = def.Definition
	}

	lookup := *id
	lookup.Type = definitionExpr(def)
	e, err := b.resolver.ResolveIdentifier(&lookup)
	if err != nil {
		return fmt.Errorf("implements %s: %w", target, err)
	}
	member, ok := e.(metadata.Member)
	if !ok {
		return fmt.Errorf("implements %s: not a member", target)
	}
	t.MapInterface(iface, member, impl)
	return nil
}

// definitionExpr names an open generic definition by its arity-suffixed
// path, System.IEquatable`1.
func definitionExpr(def *metadata.Type) *identifier.TypeExpr {
	parts := strings.Split(identifier.FormatType(def), ".")
	expr := &identifier.TypeExpr{Form: identifier.ExprNamed, Segments: make([]identifier.Segment, len(parts))}
	for i, p := range parts {
		expr.Segments[i] = identifier.Segment{Name: p}
	}
	return expr
}

func parseAccess(s string) (metadata.Access, error) {
	if s == "" {
		return metadata.AccessPublic, nil
	}
	a, ok := metadata.ParseAccess(s)
	if !ok {
		return 0, fmt.Errorf("unknown access %q", s)
	}
	return a, nil
}
