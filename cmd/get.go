package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/Andrei15193/CodeMap-sub002/internal/cas"
	"github.com/Andrei15193/CodeMap-sub002/internal/config"
	"github.com/Andrei15193/CodeMap-sub002/internal/db"
	"github.com/Andrei15193/CodeMap-sub002/internal/index"
)

var getCmd = &cobra.Command{
	Use:   "get <identifier|codemap://identifier>",
	Short: "Read the documentation of an identifier from the latest indexed build",
	Example: `  codemap get T:Acme.Widget
  codemap get 'M:Acme.Widget.DoWork(System.Int32,System.String)'
  codemap get codemap://T:Acme.Widget`,
	Args: cobra.ExactArgs(1),
	Run:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

// identifierArg accepts a bare identifier or a codemap:// URI.
func identifierArg(arg string) string {
	if id, err := index.ParseURI(arg); err == nil {
		return id
	}
	return arg
}

// openLatest opens the index and returns its latest finished build.
func openLatest() (*db.DB, *db.Build) {
	database, err := db.New(config.DBPath())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	build, err := database.GetLatestBuild()
	if err != nil {
		log.Fatalf("failed to read builds: %v", err)
	}
	if build == nil {
		log.Fatalf("nothing indexed yet; run codemap build --index first")
	}
	return database, build
}

func runGet(cmd *cobra.Command, args []string) {
	id := identifierArg(args[0])
	database, build := openLatest()
	defer database.Close()

	entity, err := database.GetEntity(build.ID, id)
	if err != nil {
		log.Fatalf("lookup failed: %v", err)
	}
	if entity == nil {
		log.Fatalf("%s is not documented in build %s", id, build.ID)
	}

	md, err := cas.Default().Read(entity.ContentHash)
	if err != nil {
		log.Fatalf("reading documentation: %v", err)
	}
	fmt.Print(md)
}
