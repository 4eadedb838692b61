// Package main is the entry point for the HTTP server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pokemon-agent-system",
	Short: "Pokemon multi-agent HTTP server",
	Long:  `Pokemon agent system answers pokemon questions through an oracle-routed set of research, battle analysis, and visualization capabilities.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
