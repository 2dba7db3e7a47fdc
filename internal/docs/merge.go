package docs

import (
	"github.com/Andrei15193/CodeMap-sub002/internal/identifier"
	"github.com/Andrei15193/CodeMap-sub002/internal/metadata"
)

// MergeDocumentation returns the documentation stored for an entity, or the
// shared Empty block set when there is none. When id is empty it is derived
// from e. Lookup is exact: no partial or case-insensitive matching.
func MergeDocumentation(e metadata.Entity, id string, store Store) *BlockSet {
	if id == "" && e != nil {
		id = identifier.Format(e)
	}
	if store == nil || id == "" {
		return Empty
	}
	if b, ok := store.TryFind(id); ok && b != nil {
		return b
	}
	return Empty
}
