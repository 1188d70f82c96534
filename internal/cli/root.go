// Package cli provides the command-line interface for chatlens.
package cli

import (
	"context"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/johns/chatlens/internal/config"
)

// Version is set at build time.
var Version = "0.1.0"

var (
	cfg       config.Config
	logger    *slog.Logger
	logClose  func() error
	verbosity string
)

var rootCmd = &cobra.Command{
	Use:   "chatlens",
	Short: "Batch-classify support chat transcripts with an LLM",
	Long: `Chatlens turns a directory of chat transcript CSV exports into
classified records and operational reports: frequency tables, a
problem reverse-index, markdown summaries, and an HTML dashboard.

Low-value conversations (greetings, cancellations, bot-only) are
filtered locally; everything else goes through a rate-limited
concurrent LLM pipeline.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "init" {
			return nil
		}

		// .env is optional; a missing file is not an error.
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		level := config.ParseLevel(cfg.Logging.Level)
		if verbosity != "" {
			level = config.ParseLevel(verbosity)
		}
		logger, logClose = config.SetupLogger(cfg.LogPath(), level)
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logClose != nil {
			logClose()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&verbosity, "log-level", "", "override log level (debug, info, warn, error)")
}

// ExecuteContext runs the CLI with the given base context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
