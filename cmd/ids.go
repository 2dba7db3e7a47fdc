package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/Andrei15193/CodeMap-sub002/internal/identifier"
	"github.com/Andrei15193/CodeMap-sub002/internal/loader"
	"github.com/Andrei15193/CodeMap-sub002/internal/metadata"
)

var idsCmd = &cobra.Command{
	Use:   "ids <universe>",
	Short: "List the canonical identifiers of a universe",
	Example: `  codemap ids acme.yaml
  codemap ids acme.yaml --filter 'T:Acme.*'
  codemap ids acme.json.zst --filter 'M:Acme.Widget.*' --json`,
	Args: cobra.ExactArgs(1),
	Run:  runIDs,
}

var (
	idsFilters []string
	idsCore    bool
	idsLimit   int
	idsJSON    bool
)

func init() {
	idsCmd.Flags().StringSliceVar(&idsFilters, "filter", nil, "glob pattern with '.' as separator (repeatable)")
	idsCmd.Flags().BoolVar(&idsCore, "core", false, "include the core library")
	idsCmd.Flags().IntVar(&idsLimit, "limit", 0, "max results (0 for all)")
	idsCmd.Flags().BoolVar(&idsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(idsCmd)
}

func runIDs(cmd *cobra.Command, args []string) {
	u, err := loader.LoadUniverse(args[0], loader.WithLogger(logger))
	if err != nil {
		log.Fatalf("failed to load universe: %v", err)
	}
	m, err := identifier.NewMatcher(idsFilters...)
	if err != nil {
		log.Fatalf("invalid filter: %v", err)
	}

	ids := []string{}
	add := func(id string) bool {
		if !m.Match(id) {
			return true
		}
		ids = append(ids, id)
		return idsLimit <= 0 || len(ids) < idsLimit
	}
	u.WalkTypes(func(t *metadata.Type) bool {
		if !idsCore && t.Assembly == metadata.CoreLibraryName {
			return true
		}
		if !add(identifier.Format(t)) {
			return false
		}
		for _, member := range t.Members() {
			if !add(identifier.Format(member)) {
				return false
			}
		}
		return true
	})

	if idsJSON {
		out, _ := json.MarshalIndent(ids, "", "  ")
		fmt.Println(string(out))
		return
	}
	if len(ids) == 0 {
		fmt.Println("no identifiers")
		return
	}
	for _, id := range ids {
		fmt.Println(id)
	}
}
