package cmd

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/Andrei15193/CodeMap-sub002/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp <universe>",
	Short: "Serve a universe's documentation as an MCP stdio server",
	Example: `  codemap mcp acme.yaml --docs Acme.xml`,
	Args:  cobra.ExactArgs(1),
	Run:   runMCP,
}

func init() {
	addDocsFlags(mcpCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) {
	ws, g, r, err := buildGraph(context.Background(), args[0])
	if err != nil {
		log.Fatalf("failed to build graph: %v", err)
	}

	server := mcp.NewServer(ws, g, r, logger)

	errCh := make(chan error)
	go func() { errCh <- server.Run() }()

	if err := waitForSignal(errCh); err != nil {
		log.Fatalf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}
