package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Andrei15193/CodeMap-sub002/internal/loader"
	"github.com/Andrei15193/CodeMap-sub002/internal/refgraph"
	"github.com/Andrei15193/CodeMap-sub002/internal/resolver"
)

var (
	docSources []string
	noCache    bool
)

// addDocsFlags registers the documentation source flags shared by commands
// that build a reference graph.
func addDocsFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&docSources, "docs", nil, "XML documentation file or URL (repeatable, first wins)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not read or write the parsed documentation cache")
}

func newResolver(ws *loader.Workspace) *resolver.Resolver {
	return resolver.New(ws.Universe,
		resolver.WithCaseInsensitiveFallback(cfg.Resolver.CaseInsensitiveFallback),
		resolver.WithLogger(logger))
}

// buildGraph loads a workspace and builds the reference graph of its roots.
func buildGraph(ctx context.Context, universePath string) (*loader.Workspace, *refgraph.Graph, *resolver.Resolver, error) {
	ws, err := loader.LoadWorkspace(ctx, universePath, docSources,
		loader.WithLogger(logger),
		loader.WithStoreCache(!noCache))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading workspace: %w", err)
	}
	r := newResolver(ws)
	g, err := refgraph.BuildReferenceGraph(ws.Roots, ws.Universe, ws.Docs,
		refgraph.WithLogger(logger),
		refgraph.WithResolver(r))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building reference graph: %w", err)
	}
	return ws, g, r, nil
}
