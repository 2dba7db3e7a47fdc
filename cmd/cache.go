package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Andrei15193/CodeMap-sub002/internal/cas"
	"github.com/Andrei15193/CodeMap-sub002/internal/config"
	"github.com/Andrei15193/CodeMap-sub002/internal/docs"
)

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Clear parsed documentation and rendered content caches",
	Run:   runClearCache,
}

var clearIndex bool

func init() {
	clearCacheCmd.Flags().BoolVar(&clearIndex, "index", false, "also delete the build index")
	rootCmd.AddCommand(clearCacheCmd)
}

func runClearCache(cmd *cobra.Command, args []string) {
	if err := docs.ClearStoreCache(); err != nil {
		log.Fatalf("failed to clear documentation cache: %v", err)
	}
	if err := cas.Default().Clear(); err != nil {
		log.Fatalf("failed to clear content store: %v", err)
	}
	if clearIndex {
		if err := os.Remove(config.DBPath()); err != nil && !os.IsNotExist(err) {
			log.Fatalf("failed to delete index: %v", err)
		}
		fmt.Println("caches and index cleared")
		return
	}
	fmt.Println("caches cleared")
}
