package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/Andrei15193/CodeMap-sub002/internal/docs"
	"github.com/Andrei15193/CodeMap-sub002/internal/identifier"
	"github.com/Andrei15193/CodeMap-sub002/internal/index"
	"github.com/Andrei15193/CodeMap-sub002/internal/loader"
	"github.com/Andrei15193/CodeMap-sub002/internal/refgraph"
	"github.com/Andrei15193/CodeMap-sub002/internal/resolver"
)

//go:embed instructions.md
var instructions string

const defaultListLimit = 200

type Server struct {
	mcpServer *server.MCPServer
	workspace *loader.Workspace
	graph     *refgraph.Graph
	resolver  *resolver.Resolver
	logger    *zap.Logger
}

// NewServer serves the documentation of one built graph.
func NewServer(ws *loader.Workspace, g *refgraph.Graph, r *resolver.Resolver, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{workspace: ws, graph: g, resolver: r, logger: logger}

	mcpServer := server.NewMCPServer(
		"codemap",
		"0.1.0",
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("resolve_identifier",
			mcp.WithDescription("Resolve a documentation identifier (T:, F:, E:, P:, M:) to its canonical spelling. Lookups fall back to case-insensitive matching when no exact match exists."),
			mcp.WithString("identifier",
				mcp.Description("Identifier to resolve, e.g. M:Acme.Widget.DoWork(System.Int32,System.String)"),
				mcp.Required(),
			),
		),
		s.handleResolveIdentifier,
	)

	mcpServer.AddTool(
		mcp.NewTool("get_documentation",
			mcp.WithDescription("Return the documentation of an identifier as markdown. Cross references are codemap:// URIs that can be read as resources."),
			mcp.WithString("identifier",
				mcp.Description("Identifier of a type or member"),
				mcp.Required(),
			),
		),
		s.handleGetDocumentation,
	)

	mcpServer.AddTool(
		mcp.NewTool("list_identifiers",
			mcp.WithDescription("List the canonical identifiers of every documented type and member. Use `filter` glob patterns such as `M:Acme.Widget.*` or `T:Acme.**` to narrow the list."),
			mcp.WithArray("filter",
				mcp.Description("Optional glob patterns; an identifier is listed when any pattern matches"),
				mcp.Items(map[string]interface{}{"type": "string"}),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results (default 200)"),
			),
		),
		s.handleListIdentifiers,
	)
}

func (s *Server) registerResources(mcpServer *server.MCPServer) {
	mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			index.Scheme+"{id}",
			"Documented type or member",
			mcp.WithTemplateDescription("Read the documentation of an identifier. Documentation links use these URIs."),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		s.handleReadResource,
	)
}

type resolveResult struct {
	Input      string `json:"input"`
	Identifier string `json:"identifier"`
	Kind       string `json:"kind"`
	URI        string `json:"uri"`
	Documented bool   `json:"documented"`
}

func (s *Server) handleResolveIdentifier(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	input, _ := args["identifier"].(string)
	if input == "" {
		return mcp.NewToolResultError("missing required parameter: identifier"), nil
	}

	e, err := s.resolver.Resolve(input)
	if err != nil {
		return mcp.NewToolResultError(describeError(err)), nil
	}
	id := identifier.Format(e)
	_, documented := s.graph.Lookup(id)

	resultJSON, _ := json.MarshalIndent(resolveResult{
		Input:      input,
		Identifier: id,
		Kind:       e.Kind().String(),
		URI:        index.URI(id),
		Documented: documented,
	}, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleGetDocumentation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	input, _ := args["identifier"].(string)
	if input == "" {
		return mcp.NewToolResultError("missing required parameter: identifier"), nil
	}

	md, err := s.document(input)
	if err != nil {
		return mcp.NewToolResultError(describeError(err)), nil
	}
	return mcp.NewToolResultText(md), nil
}

func (s *Server) handleListIdentifiers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	var patterns []string
	if filterRaw, ok := args["filter"]; ok {
		filterJSON, _ := json.Marshal(filterRaw)
		if err := json.Unmarshal(filterJSON, &patterns); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid filter parameter: %v", err)), nil
		}
	}
	limit := defaultListLimit
	if l, ok := args["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	m, err := identifier.NewMatcher(patterns...)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ids := []string{}
	for _, id := range s.graph.IDs() {
		if !m.Match(id) {
			continue
		}
		if len(ids) == limit {
			break
		}
		ids = append(ids, id)
	}

	resultJSON, _ := json.MarshalIndent(ids, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	id, err := index.ParseURI(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid resource URI: %w", err)
	}

	md, err := s.document(id)
	if err != nil {
		return nil, fmt.Errorf("getting documentation: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     md,
		},
	}, nil
}

// document renders the documentation of an identifier. Entities outside the
// graph, such as core library types, are documented from the store directly.
func (s *Server) document(input string) (string, error) {
	e, err := s.resolver.Resolve(input)
	if err != nil {
		return "", err
	}
	id := identifier.Format(e)
	if entry, ok := s.graph.Lookup(id); ok {
		return index.Render(entry), nil
	}
	s.logger.Debug("documenting entity outside the graph", zap.String("id", id))
	md := docs.Markdown(id, docs.MergeDocumentation(e, id, s.workspace.Docs))
	md = docs.RewriteCrefs(md, func(cref string) (string, bool) {
		if docs.IsCompilerUnresolved(cref) {
			return "", false
		}
		target, err := s.resolver.Resolve(cref)
		if err != nil {
			return "", false
		}
		return index.URI(identifier.Format(target)), true
	})
	return docs.StripCrefs(md), nil
}

func describeError(err error) string {
	var fe *identifier.FormatError
	switch {
	case errors.As(err, &fe):
		return fmt.Sprintf("malformed identifier: %v", err)
	case errors.Is(err, resolver.ErrNotFound):
		return fmt.Sprintf("no such entity: %v", err)
	default:
		return err.Error()
	}
}

func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) Shutdown(_ context.Context) error {
	return nil
}
