package docs

// NamedBlock is the text attached to a named parameter or type parameter.
type NamedBlock struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// ExceptionBlock documents an exception a member may raise.
type ExceptionBlock struct {
	Cref string `json:"cref"`
	Text string `json:"text"`
}

// BlockSet is the documentation attached to one identifier. Text is markdown
// in which cross references are links with cref: destinations.
//
// A BlockSet is read-only once its store is built.
type BlockSet struct {
	Summary        string           `json:"summary,omitempty"`
	Remarks        string           `json:"remarks,omitempty"`
	Returns        string           `json:"returns,omitempty"`
	Value          string           `json:"value,omitempty"`
	Parameters     []NamedBlock     `json:"parameters,omitempty"`
	TypeParameters []NamedBlock     `json:"type_parameters,omitempty"`
	Exceptions     []ExceptionBlock `json:"exceptions,omitempty"`
	Examples       []string         `json:"examples,omitempty"`
	SeeAlso        []string         `json:"see_also,omitempty"`
}

// Empty is returned for every identifier without documentation. It is shared
// and must not be modified.
var Empty = &BlockSet{}

// IsEmpty reports whether b carries no documentation at all.
func (b *BlockSet) IsEmpty() bool {
	return b == nil || (b.Summary == "" && b.Remarks == "" && b.Returns == "" && b.Value == "" &&
		len(b.Parameters) == 0 && len(b.TypeParameters) == 0 && len(b.Exceptions) == 0 &&
		len(b.Examples) == 0 && len(b.SeeAlso) == 0)
}

// Parameter returns the description of the named parameter.
func (b *BlockSet) Parameter(name string) string {
	return find(b.Parameters, name)
}

// TypeParameter returns the description of the named generic parameter.
func (b *BlockSet) TypeParameter(name string) string {
	return find(b.TypeParameters, name)
}

func find(blocks []NamedBlock, name string) string {
	for _, nb := range blocks {
		if nb.Name == name {
			return nb.Text
		}
	}
	return ""
}

// Store looks up documentation by canonical identifier.
type Store interface {
	TryFind(id string) (*BlockSet, bool)
}

// MemoryStore is a Store backed by a map. Entries are added while the store
// is built and only read afterwards.
type MemoryStore struct {
	entries map[string]*BlockSet
	ids     []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*BlockSet)}
}

// Add stores b under id. A repeated id keeps the first entry.
func (s *MemoryStore) Add(id string, b *BlockSet) {
	if _, ok := s.entries[id]; ok {
		return
	}
	s.entries[id] = b
	s.ids = append(s.ids, id)
}

func (s *MemoryStore) TryFind(id string) (*BlockSet, bool) {
	if s == nil {
		return nil, false
	}
	b, ok := s.entries[id]
	return b, ok
}

// IDs returns the stored identifiers in insertion order.
func (s *MemoryStore) IDs() []string {
	return s.ids
}

func (s *MemoryStore) Len() int {
	return len(s.entries)
}

type combined []Store

func (c combined) TryFind(id string) (*BlockSet, bool) {
	for _, s := range c {
		if b, ok := s.TryFind(id); ok {
			return b, true
		}
	}
	return nil, false
}

// Combine returns a Store that searches stores in order.
func Combine(stores ...Store) Store {
	var c combined
	for _, s := range stores {
		if s != nil {
			c = append(c, s)
		}
	}
	return c
}
