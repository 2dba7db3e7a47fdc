package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Andrei15193/CodeMap-sub002/internal/db"
	"github.com/Andrei15193/CodeMap-sub002/internal/index"
)

var linksCmd = &cobra.Command{
	Use:   "links <identifier|codemap://identifier>",
	Short: "Show the cross references of an identifier in the latest indexed build",
	Example: `  codemap links T:Acme.Widget
  codemap links --backlinks 'M:Acme.Widget.DoWork(System.Int32,System.String)'`,
	Args: cobra.ExactArgs(1),
	Run:  runLinks,
}

var (
	linksBack bool
	linksJSON bool
)

func init() {
	linksCmd.Flags().BoolVarP(&linksBack, "backlinks", "b", false, "show entries linking to the identifier instead")
	linksCmd.Flags().BoolVar(&linksJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(linksCmd)
}

func runLinks(cmd *cobra.Command, args []string) {
	database, build := openLatest()
	defer database.Close()

	id := identifierArg(args[0])
	if entity, err := database.GetEntity(build.ID, id); err == nil && entity != nil {
		id = entity.Identifier
	}

	var links []db.Link
	var err error
	if linksBack {
		links, err = database.GetBacklinks(build.ID, id)
	} else {
		links, err = database.GetLinks(build.ID, id)
	}
	if err != nil {
		log.Fatalf("reading links: %v", err)
	}

	if linksJSON {
		out, _ := json.MarshalIndent(links, "", "  ")
		fmt.Println(string(out))
		return
	}
	if len(links) == 0 {
		fmt.Println("no links")
		return
	}

	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	for _, l := range links {
		other := l.Target
		if linksBack {
			other = l.Source
		}
		cyan.Printf("  %s\n", other)
		gray.Printf("    %s (cref %s)\n", index.URI(other), l.Cref)
	}
}
