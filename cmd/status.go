package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Andrei15193/CodeMap-sub002/internal/config"
	"github.com/Andrei15193/CodeMap-sub002/internal/db"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show indexed builds",
	Run:   runStatus,
}

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	database, err := db.New(config.DBPath())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	builds, err := database.ListBuilds()
	if err != nil {
		log.Fatalf("status failed: %v", err)
	}

	if statusJSON {
		out, _ := json.MarshalIndent(builds, "", "  ")
		fmt.Println(string(out))
		return
	}

	if len(builds) == 0 {
		fmt.Println("no builds indexed")
		return
	}

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	for i, b := range builds {
		state := yellow.Sprint("incomplete")
		if b.FinishedAt != nil {
			state = green.Sprint("ready")
		}
		latest := ""
		if i == 0 && b.FinishedAt != nil {
			latest = " (latest)"
		}
		fmt.Printf("  %s %s [%s] %d entities, %s%s\n",
			b.ID, b.Universe, state, b.EntityCount, b.StartedAt.Format("2006-01-02 15:04:05"), latest)
	}
}
