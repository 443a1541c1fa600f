package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "capacity-api",
	Short: "Capacity analysis service for network fabrics",
}

func init() {
	migrateOpts.Bind(migrateCmd.Flags())
	runOpts.Bind(runCmd.Flags())

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(runCmd)
}
