package resolver

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Andrei15193/CodeMap-sub002/internal/identifier"
	"github.com/Andrei15193/CodeMap-sub002/internal/metadata"
)

// ErrNotFound is returned for a well-formed identifier that names nothing in
// the search universe.
var ErrNotFound = errors.New("identifier not found")

// Universe is the search space a Resolver walks.
type Universe interface {
	// WalkTypes visits every type definition, nested types included, until
	// fn returns false.
	WalkTypes(fn func(*metadata.Type) bool)
	// Instantiate constructs a generic definition from its full argument list.
	Instantiate(def *metadata.Type, args []*metadata.Type) (*metadata.Type, error)
}

// Scope binds positional generic placeholders: `N against Type and ``N
// against Method.
type Scope struct {
	Type   *metadata.Type
	Method *metadata.Method
}

type Option func(*Resolver)

// WithCaseInsensitiveFallback controls whether a lookup with no exact match
// falls back to the first case-insensitive one. Enabled by default.
func WithCaseInsensitiveFallback(enabled bool) Option {
	return func(r *Resolver) { r.fallback = enabled }
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// Resolver maps identifiers back to entities. It indexes the universe on
// first use; a universe must not change after that.
type Resolver struct {
	universe Universe
	fallback bool
	logger   *zap.Logger

	exact  map[string]*metadata.Type
	folded map[string]*metadata.Type
}

func New(universe Universe, opts ...Option) *Resolver {
	r := &Resolver{universe: universe, fallback: true, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve parses s and resolves it against universe with default options.
func Resolve(s string, universe Universe) (metadata.Entity, error) {
	return New(universe).Resolve(s)
}

// Resolve parses and resolves an identifier. Malformed input yields a
// *identifier.FormatError, a miss yields an error wrapping ErrNotFound.
func (r *Resolver) Resolve(s string) (metadata.Entity, error) {
	id, err := identifier.Parse(s)
	if err != nil {
		return nil, err
	}
	return r.ResolveIdentifier(id)
}

// ResolveIdentifier resolves an already parsed identifier.
func (r *Resolver) ResolveIdentifier(id *identifier.Identifier) (metadata.Entity, error) {
	if id.Kind == identifier.KindType {
		return r.ResolveType(id.Type, Scope{})
	}

	declaring, err := r.ResolveType(id.Type, Scope{})
	if err != nil {
		return nil, err
	}
	def := declaring
	if def.Form == metadata.FormConstructed {
		def = def.Definition
	}
	if def.Form != metadata.FormDefinition {
		return nil, fmt.Errorf("%s: %s has no members: %w", id, declaring, ErrNotFound)
	}

	candidates := membersOf(def, id.Kind)
	if m := r.matchMember(id, def, candidates, false); m != nil {
		return m, nil
	}
	if r.fallback {
		if m := r.matchMember(id, def, candidates, true); m != nil {
			r.logger.Debug("case-insensitive member match",
				zap.String("id", id.String()),
				zap.String("member", m.MemberName()))
			return m, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
}

func membersOf(t *metadata.Type, kind identifier.Kind) []metadata.Member {
	var members []metadata.Member
	switch kind {
	case identifier.KindField:
		for _, f := range t.Fields {
			members = append(members, f)
		}
	case identifier.KindEvent:
		for _, e := range t.Events {
			members = append(members, e)
		}
	case identifier.KindProperty:
		for _, p := range t.Properties {
			members = append(members, p)
		}
	case identifier.KindMethod:
		for _, c := range t.Constructors {
			members = append(members, c)
		}
		for _, m := range t.Methods {
			members = append(members, m)
		}
	}
	return members
}

func (r *Resolver) matchMember(id *identifier.Identifier, def *metadata.Type, candidates []metadata.Member, fold bool) metadata.Member {
	for _, m := range candidates {
		name := identifier.MemberName(m)
		if fold {
			if !strings.EqualFold(name, id.Member) {
				continue
			}
		} else if name != id.Member {
			continue
		}
		if r.signatureMatches(id, def, m) {
			return m
		}
	}
	return nil
}

// signatureMatches compares arity, parameter types and, for conversion
// operators, the return type. Parameter types must be exactly equal after
// placeholders are bound to def and the candidate method.
func (r *Resolver) signatureMatches(id *identifier.Identifier, def *metadata.Type, m metadata.Member) bool {
	scope := Scope{Type: def}
	arity := 0
	var ret *metadata.Type
	if method, ok := m.(*metadata.Method); ok {
		scope.Method = method
		arity = len(method.GenericParameters)
		if method.IsConversionOperator() {
			ret = method.ReturnType
		}
	}
	if arity != id.Arity {
		return false
	}

	params := metadata.ParametersOf(m)
	if len(params) != len(id.Parameters) {
		return false
	}
	for i, p := range params {
		t, err := r.ResolveType(id.Parameters[i], scope)
		if err != nil || !metadata.Equal(t, p.Type) {
			return false
		}
	}

	if id.Return != nil {
		if ret == nil {
			return false
		}
		t, err := r.ResolveType(id.Return, scope)
		return err == nil && metadata.Equal(t, ret)
	}
	return true
}

// ResolveType resolves a parsed type expression. Placeholders bind against
// scope; named types are looked up by their open name and instantiated when
// the expression carries generic arguments.
func (r *Resolver) ResolveType(expr *identifier.TypeExpr, scope Scope) (*metadata.Type, error) {
	switch expr.Form {
	case identifier.ExprByRef:
		elem, err := r.ResolveType(expr.Element, scope)
		if err != nil {
			return nil, err
		}
		return metadata.ByRefOf(elem), nil
	case identifier.ExprPointer:
		elem, err := r.ResolveType(expr.Element, scope)
		if err != nil {
			return nil, err
		}
		return metadata.PointerTo(elem), nil
	case identifier.ExprArray:
		elem, err := r.ResolveType(expr.Element, scope)
		if err != nil {
			return nil, err
		}
		return metadata.ArrayOf(elem, expr.Rank), nil
	case identifier.ExprTypeParameter:
		owner := scope.Type
		if owner != nil && owner.Form == metadata.FormConstructed {
			owner = owner.Definition
		}
		params := owner.AllGenericParameters()
		if expr.Position >= len(params) {
			return nil, fmt.Errorf("type parameter %s: %w", expr, ErrNotFound)
		}
		return params[expr.Position], nil
	case identifier.ExprMethodParameter:
		if scope.Method == nil || expr.Position >= len(scope.Method.GenericParameters) {
			return nil, fmt.Errorf("method parameter %s: %w", expr, ErrNotFound)
		}
		return scope.Method.GenericParameters[expr.Position], nil
	}

	name := expr.OpenName()
	def := r.lookupType(name)
	if def == nil {
		return nil, fmt.Errorf("type %s: %w", name, ErrNotFound)
	}
	exprArgs := expr.Arguments()
	if len(exprArgs) == 0 {
		return def, nil
	}
	args := make([]*metadata.Type, len(exprArgs))
	for i, a := range exprArgs {
		t, err := r.ResolveType(a, scope)
		if err != nil {
			return nil, err
		}
		args[i] = t
	}
	t, err := r.universe.Instantiate(def, args)
	if err != nil {
		return nil, fmt.Errorf("type %s: %v: %w", expr, err, ErrNotFound)
	}
	return t, nil
}

func (r *Resolver) lookupType(name string) *metadata.Type {
	if r.exact == nil {
		r.index()
	}
	if t, ok := r.exact[name]; ok {
		return t
	}
	if !r.fallback {
		return nil
	}
	t, ok := r.folded[strings.ToLower(name)]
	if ok {
		r.logger.Debug("case-insensitive type match",
			zap.String("name", name),
			zap.String("type", t.String()))
	}
	return t
}

// index records the first type per exact key and per case-folded key, in
// universe scan order.
func (r *Resolver) index() {
	r.exact = make(map[string]*metadata.Type)
	r.folded = make(map[string]*metadata.Type)
	r.universe.WalkTypes(func(t *metadata.Type) bool {
		key := identifier.FormatType(t)
		if _, ok := r.exact[key]; !ok {
			r.exact[key] = t
		}
		folded := strings.ToLower(key)
		if _, ok := r.folded[folded]; !ok {
			r.folded[folded] = t
		}
		return true
	})
	r.logger.Debug("indexed universe", zap.Int("types", len(r.exact)))
}

// Reindex drops the type index so the next lookup sees the current universe.
func (r *Resolver) Reindex() {
	r.exact = nil
	r.folded = nil
}
