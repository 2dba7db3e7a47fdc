package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Andrei15193/CodeMap-sub002/internal/identifier"
	"github.com/Andrei15193/CodeMap-sub002/internal/loader"
	"github.com/Andrei15193/CodeMap-sub002/internal/resolver"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <universe> <identifier>...",
	Short: "Resolve identifiers to their canonical spelling",
	Example: `  codemap resolve acme.yaml 'M:Acme.Widget.DoWork(System.Int32,System.String)'
  codemap resolve acme.yaml t:acme.widget 'T:Acme.Box{System.Int32}'`,
	Args: cobra.MinimumNArgs(2),
	Run:  runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) {
	u, err := loader.LoadUniverse(args[0], loader.WithLogger(logger))
	if err != nil {
		log.Fatalf("failed to load universe: %v", err)
	}
	r := resolver.New(u,
		resolver.WithCaseInsensitiveFallback(cfg.Resolver.CaseInsensitiveFallback),
		resolver.WithLogger(logger))

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	gray := color.New(color.FgHiBlack)

	failed := 0
	for _, input := range args[1:] {
		e, err := r.Resolve(input)
		if err != nil {
			failed++
			var fe *identifier.FormatError
			switch {
			case errors.As(err, &fe):
				red.Printf("  %s: malformed: %s\n", input, fe.Reason)
			case errors.Is(err, resolver.ErrNotFound):
				red.Printf("  %s: not found\n", input)
			default:
				red.Printf("  %s: %v\n", input, err)
			}
			continue
		}
		id := identifier.Format(e)
		green.Printf("  %s", id)
		gray.Printf(" (%s)", e.Kind())
		if id != input {
			gray.Printf(" from %s", input)
		}
		fmt.Println()
	}
	if failed > 0 {
		log.Fatalf("%d of %d identifiers did not resolve", failed, len(args)-1)
	}
}
