// Package index persists built reference graphs: rendered markdown goes to
// the content-addressable store, identifiers and resolved links to DuckDB.
package index

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Andrei15193/CodeMap-sub002/internal/cas"
	"github.com/Andrei15193/CodeMap-sub002/internal/db"
	"github.com/Andrei15193/CodeMap-sub002/internal/docs"
	"github.com/Andrei15193/CodeMap-sub002/internal/identifier"
	"github.com/Andrei15193/CodeMap-sub002/internal/refgraph"
)

// Indexer writes graphs into a database and a content store.
type Indexer struct {
	db     *db.DB
	cas    *cas.Store
	logger *zap.Logger
}

func New(database *db.DB, store *cas.Store, logger *zap.Logger) *Indexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{db: database, cas: store, logger: logger}
}

// Save records every entry of g under the build g.ID. The build is only
// marked finished once all entries and links are written.
func (ix *Indexer) Save(g *refgraph.Graph, universe string) error {
	if err := ix.db.InsertBuild(g.ID, universe); err != nil {
		return err
	}

	var saveErr error
	count := 0
	seen := make(map[string]bool, g.Len())
	g.Walk(func(e refgraph.Entry) bool {
		if seen[e.EntryID()] {
			ix.logger.Debug("skipping duplicate identifier", zap.String("id", e.EntryID()))
			return true
		}
		seen[e.EntryID()] = true
		if saveErr = ix.saveEntry(g, e); saveErr != nil {
			return false
		}
		count++
		return true
	})
	if saveErr != nil {
		if err := ix.db.DeleteBuild(g.ID); err != nil {
			ix.logger.Warn("removing partial build", zap.String("build", g.ID.String()), zap.Error(err))
		}
		return fmt.Errorf("saving build %s: %w", g.ID, saveErr)
	}

	if err := ix.db.FinishBuild(g.ID, count); err != nil {
		return fmt.Errorf("finishing build %s: %w", g.ID, err)
	}
	ix.logger.Info("indexed build",
		zap.String("build", g.ID.String()),
		zap.String("universe", universe),
		zap.Int("entities", count))
	return nil
}

func (ix *Indexer) saveEntry(g *refgraph.Graph, e refgraph.Entry) error {
	id := e.EntryID()
	hash, err := ix.cas.Write(Render(e))
	if err != nil {
		return fmt.Errorf("storing %s: %w", id, err)
	}

	entity := &db.Entity{
		BuildID:     g.ID,
		Identifier:  id,
		ContentHash: hash,
	}
	switch e := e.(type) {
	case *refgraph.TypeEntry:
		entity.Kind = string(identifier.KindType)
		entity.Name = e.Ref.Name
		if e.Ref.DeclaringType != nil {
			entity.DeclaringType = e.Ref.DeclaringType.ID
		}
	case *refgraph.MemberEntry:
		entity.Kind = id[:1]
		entity.Name = e.Ref.Name
		entity.DeclaringType = e.Ref.DeclaringType.ID
	}
	if err := ix.db.InsertEntity(entity); err != nil {
		return err
	}

	for _, l := range e.Crossrefs() {
		if err := ix.db.InsertLink(g.ID, db.Link{Source: id, Cref: l.Cref, Target: l.Target.Identifier()}); err != nil {
			return err
		}
	}
	return nil
}

// Render returns the markdown stored for an entry: its documentation with
// front matter, cross references retargeted to codemap:// links. Links whose
// cross reference did not resolve are reduced to their label.
func Render(e refgraph.Entry) string {
	targets := make(map[string]string, len(e.Crossrefs()))
	for _, l := range e.Crossrefs() {
		targets[l.Cref] = URI(l.Target.Identifier())
	}
	md := docs.Markdown(e.EntryID(), e.Documentation())
	md = docs.RewriteCrefs(md, func(cref string) (string, bool) {
		target, ok := targets[cref]
		return target, ok
	})
	return AddFrontMatter(docs.StripCrefs(md), e)
}
