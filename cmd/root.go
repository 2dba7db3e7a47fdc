package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Andrei15193/CodeMap-sub002/internal/config"
	"github.com/Andrei15193/CodeMap-sub002/internal/docs"
	"github.com/Andrei15193/CodeMap-sub002/internal/logging"
)

var (
	debug  bool
	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "codemap",
	Short: "Canonical identifiers and cross-referenced documentation for .NET-style metadata",
	Long: `codemap resolves documentation identifiers (T:, F:, E:, P:, M:) against a
metadata universe, merges XML documentation comments into a cycle-safe
reference graph and serves the result over MCP.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")
}

// setup loads configuration and builds the logger shared by every command.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	if debug {
		c.Log.Level = zapcore.DebugLevel
	}
	l, err := logging.New(c.Log)
	if err != nil {
		return err
	}
	docs.SetFetchTimeout(c.Fetch.Timeout())
	cfg, logger = c, l
	return nil
}

func waitForSignal(errCh chan error) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Info("received signal", zap.String("signal", sig.String()))
		return nil
	case err := <-errCh:
		return err
	}
}
