package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johns/chatlens/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [input-dir]",
	Short: "Write a default config file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputDir := "./chats"
		if len(args) == 1 {
			inputDir = args[0]
		}
		path, err := config.WriteDefault(inputDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "config: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
