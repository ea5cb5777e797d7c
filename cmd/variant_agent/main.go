// Package main provides the entry point for the variant-studio API server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "variant_agent",
	Short:        "Marketing copy variant generator",
	Long:         "variant_agent turns one creative brief into channel-ready copy variants with an A/B test plan, via REST API or from the command line.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
