package refgraph

import (
	"github.com/google/uuid"

	"github.com/Andrei15193/CodeMap-sub002/internal/docs"
	"github.com/Andrei15193/CodeMap-sub002/internal/metadata"
)

// Link is a resolved cross reference found in documentation.
type Link struct {
	Cref   string
	Target Ref
}

// ParameterEntry documents one parameter of a member.
type ParameterEntry struct {
	Name        string
	Type        Ref
	ByRef       bool
	Description string
}

// ExceptionEntry documents an exception a member may raise. Exceptions whose
// cref does not resolve are not recorded.
type ExceptionEntry struct {
	Cref        string
	Type        Ref
	Description string
}

// TypeParameterEntry documents one generic parameter introduced by a type or
// method.
type TypeParameterEntry struct {
	Ref         Ref
	Description string
}

// Entry is a documented node of the graph: a type or a member.
type Entry interface {
	EntryID() string
	Reference() Ref
	Documentation() *docs.BlockSet
	Crossrefs() []Link
}

type TypeEntry struct {
	Ref            *TypeRef
	Access         metadata.Access
	Docs           *docs.BlockSet
	TypeParameters []TypeParameterEntry
	Attributes     []Ref
	Members        []*MemberEntry
	NestedTypes    []*TypeEntry
	Links          []Link
}

func (e *TypeEntry) EntryID() string { return e.Ref.ID }
func (e *TypeEntry) Reference() Ref { return e.Ref }
func (e *TypeEntry) Documentation() *docs.BlockSet { return e.Docs }
func (e *TypeEntry) Crossrefs() []Link { return e.Links }

type MemberEntry struct {
	Ref            *MemberRef
	Access         metadata.Access
	Docs           *docs.BlockSet
	TypeParameters []TypeParameterEntry
	Attributes     []Ref
	Parameters     []ParameterEntry
	Exceptions     []ExceptionEntry
	Links          []Link
}

func (e *MemberEntry) EntryID() string { return e.Ref.ID }
func (e *MemberEntry) Reference() Ref { return e.Ref }
func (e *MemberEntry) Documentation() *docs.BlockSet { return e.Docs }
func (e *MemberEntry) Crossrefs() []Link { return e.Links }

// Graph is the result of one build: documented entries over shared
// reference nodes.
type Graph struct {
	ID    uuid.UUID
	Types []*TypeEntry

	entries map[string]Entry
	ids     []string

	types   *Cache[string, Ref]
	members *Cache[metadata.Member, *MemberRef]
}

func newGraph() *Graph {
	return &Graph{
		ID:      uuid.New(),
		entries: make(map[string]Entry),
		types:   NewCache[string, Ref](),
		members: NewCache[metadata.Member, *MemberRef](),
	}
}

func (g *Graph) add(e Entry) {
	id := e.EntryID()
	if _, ok := g.entries[id]; ok {
		return
	}
	g.entries[id] = e
	g.ids = append(g.ids, id)
}

// Lookup returns the entry with the given canonical identifier.
func (g *Graph) Lookup(id string) (Entry, bool) {
	e, ok := g.entries[id]
	return e, ok
}

// IDs returns the identifiers of every entry in build order.
func (g *Graph) IDs() []string {
	return g.ids
}

// Len is the number of documented entries.
func (g *Graph) Len() int {
	return len(g.entries)
}

// Walk visits entries pre-order: each type, then its members, then its
// nested types. Returning false from fn stops the walk.
func (g *Graph) Walk(fn func(Entry) bool) {
	for _, t := range g.Types {
		if !walkEntry(t, fn) {
			return
		}
	}
}

func walkEntry(t *TypeEntry, fn func(Entry) bool) bool {
	if !fn(t) {
		return false
	}
	for _, m := range t.Members {
		if !fn(m) {
			return false
		}
	}
	for _, n := range t.NestedTypes {
		if !walkEntry(n, fn) {
			return false
		}
	}
	return true
}

// TypeRefCount is the number of distinct type-shaped reference nodes.
func (g *Graph) TypeRefCount() int {
	return g.types.Len()
}

// MemberRefCount is the number of distinct member reference nodes.
func (g *Graph) MemberRefCount() int {
	return g.members.Len()
}

// RefOf returns the reference node built for e, if the build reached it.
func (g *Graph) RefOf(e metadata.Entity) (Ref, bool) {
	switch e := e.(type) {
	case *metadata.Type:
		return g.types.Get(typeKey(e))
	case metadata.Member:
		r, ok := g.members.Get(e)
		if !ok {
			return nil, false
		}
		return r, true
	}
	return nil, false
}
