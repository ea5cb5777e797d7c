package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/variant-studio/internal/config"
	"github.com/jonathan/variant-studio/internal/observability"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "List channels and goals",
	Long:  "Lists the channel and goal vocabulary, read from VOCABULARY_FILE when set.",
	RunE:  runChannels,
}

var channelsJSON bool

func init() {
	channelsCmd.Flags().BoolVar(&channelsJSON, "json", false, "Print the vocabulary as JSON")
	rootCmd.AddCommand(channelsCmd)
}

func runChannels(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c, err := cfg.Catalog()
	if err != nil {
		return fmt.Errorf("failed to load channel vocabulary: %w", err)
	}

	if channelsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"channels":    c.All(),
			"goals":       c.Goals(),
			"defaultGoal": c.DefaultGoal(),
		})
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintCatalog(c)
	return nil
}
