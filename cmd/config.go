package cmd

import (
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create config.toml",
	Long:  `Configuration utilities for the global config.toml.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
