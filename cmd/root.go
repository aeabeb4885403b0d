package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "options-monitor",
	Short: "Options position monitor with automated sell-decision checks",
}

func Execute() error {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(runOnceCmd)
	rootCmd.AddCommand(migrateCmd)

	return rootCmd.Execute()
}
