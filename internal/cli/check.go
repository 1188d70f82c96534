package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johns/chatlens/internal/check"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the environment is ready for analysis",
	Long: `Runs diagnostic checks against the current configuration: config
file location, input directory and export count, output directory
writability, API key presence, and the results database. Exits non-zero
if any check fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report := check.Run(cfg)
		fmt.Fprint(cmd.OutOrStdout(), report.Format())
		if report.HasFailures() {
			return fmt.Errorf("environment checks failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
