package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Andrei15193/CodeMap-sub002/internal/cas"
	"github.com/Andrei15193/CodeMap-sub002/internal/config"
	"github.com/Andrei15193/CodeMap-sub002/internal/db"
	"github.com/Andrei15193/CodeMap-sub002/internal/index"
	"github.com/Andrei15193/CodeMap-sub002/internal/refgraph"
)

var buildCmd = &cobra.Command{
	Use:   "build <universe>",
	Short: "Build the documentation reference graph of a universe",
	Long: `Load a universe and its XML documentation, resolve every cross reference
and report the resulting graph. With --index the graph is saved as a new
build that "get" and "links" read from.`,
	Example: `  codemap build acme.yaml --docs Acme.xml
  codemap build acme.yaml --docs Acme.xml --docs https://example.com/System.xml.zst --index
  codemap build acme.yaml --docs Acme.xml --print`,
	Args: cobra.ExactArgs(1),
	Run:  runBuild,
}

var (
	buildIndex bool
	buildPrint bool
)

func init() {
	addDocsFlags(buildCmd)
	buildCmd.Flags().BoolVar(&buildIndex, "index", false, "save the graph as a new indexed build")
	buildCmd.Flags().BoolVar(&buildPrint, "print", false, "print the rendered documentation of every entry")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) {
	_, g, _, err := buildGraph(context.Background(), args[0])
	if err != nil {
		log.Fatalf("build failed: %v", err)
	}

	if buildPrint {
		g.Walk(func(e refgraph.Entry) bool {
			fmt.Println(index.Render(e))
			return true
		})
	}

	bold := color.New(color.Bold, color.FgCyan)
	bold.Printf("build %s\n", g.ID)
	fmt.Printf("  %d documented entries\n", g.Len())
	fmt.Printf("  %d type references, %d member references\n", g.TypeRefCount(), g.MemberRefCount())

	if !buildIndex {
		return
	}
	database, err := db.New(config.DBPath())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()
	if err := index.New(database, cas.Default(), logger).Save(g, args[0]); err != nil {
		log.Fatalf("indexing failed: %v", err)
	}
	color.New(color.FgGreen).Println("  indexed")
}
