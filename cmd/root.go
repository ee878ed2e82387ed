package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "forwarding",
	Short: "Freight forwarding back-office service",
	Long:  `Back-office service for air freight forwarding: jobs, house bills, arrival notices and GST accounting entries`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
