package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/johns/chatlens/internal/aggregate"
	"github.com/johns/chatlens/internal/record"
	"github.com/johns/chatlens/internal/store"
)

var (
	reportShort  bool
	reportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Regenerate reports and the dashboard from stored results",
	Long: `Rebuilds every report artifact from the results of the last
analysis without touching the LLM. Records come from the sqlite store
when present, falling back to per_chat.jsonl.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportOutput != "" {
			cfg.OutputDir = reportOutput
		}

		st, err := store.Open(cfg.DBPath())
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.Records()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			records, err = record.ReadJSONL(filepath.Join(cfg.OutputDir, aggregate.FileRecords))
			if err != nil {
				return fmt.Errorf("no stored records and no %s: %w", aggregate.FileRecords, err)
			}
		}
		if len(records) == 0 {
			return fmt.Errorf("nothing to report: run analyze first")
		}

		return writeOutputs(cfg.OutputDir, records, st, reportShort)
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportShort, "short", false, "one-page executive brief instead of the full report")
	reportCmd.Flags().StringVar(&reportOutput, "output", "", "output directory (overrides config)")
	rootCmd.AddCommand(reportCmd)
}
