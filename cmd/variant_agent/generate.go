package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/variant-studio/internal/config"
	"github.com/jonathan/variant-studio/internal/logging"
	"github.com/jonathan/variant-studio/internal/observability"
	"github.com/jonathan/variant-studio/internal/pipeline"
	"github.com/jonathan/variant-studio/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate copy variants for a brief",
	Long:  "Generates one copy variant per channel for the given brief and prints them with an A/B test plan. Templates are used unless --ai is set and a model is configured.",
	RunE:  runGenerate,
}

var (
	genProduct  string
	genHeadline string
	genBody     string
	genCTA      string
	genAudience string
	genProof    string
	genGoal     string
	genChannels []string
	genCSV      bool
	genAI       bool
	genJSON     bool
	genVerbose  bool
)

func init() {
	generateCmd.Flags().StringVarP(&genProduct, "product", "p", "", "Product name (required)")
	generateCmd.Flags().StringVar(&genHeadline, "headline", "", "Headline")
	generateCmd.Flags().StringVar(&genBody, "body", "", "Body copy")
	generateCmd.Flags().StringVar(&genCTA, "cta", "", "Call to action")
	generateCmd.Flags().StringVar(&genAudience, "audience", "", "Target audience")
	generateCmd.Flags().StringVar(&genProof, "proof", "", "Proof point, e.g. a customer result")
	generateCmd.Flags().StringVarP(&genGoal, "goal", "g", "", "Campaign goal (defaults to the catalog default)")
	generateCmd.Flags().StringSliceVarP(&genChannels, "channels", "c", nil, "Channel keys, comma separated (defaults to the goal's channels)")
	generateCmd.Flags().BoolVar(&genCSV, "csv", false, "Write the variants to a CSV file in EXPORT_DIR")
	generateCmd.Flags().BoolVar(&genAI, "ai", false, "Use the configured model")
	generateCmd.Flags().BoolVar(&genJSON, "json", false, "Print the result as JSON")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print every pipeline stage")

	if err := generateCmd.MarkFlagRequired("product"); err != nil {
		panic(fmt.Sprintf("failed to mark product flag as required: %v", err))
	}

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.UseMock = !genAI

	level := "warn"
	if genVerbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{Level: level, Encoding: "console", OutputPath: "stderr"})
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx := contextOrBackground(cmd)
	a, err := newApp(ctx, cfg, logger, appOptions{export: genCSV})
	if err != nil {
		return err
	}
	defer a.Close()

	printer := observability.NewPrinter(cmd.OutOrStdout())
	var onProgress pipeline.ProgressCallback
	if genVerbose && !genJSON {
		onProgress = printer.PrintProgress
	}

	req := types.GenerateRequest{
		Brief: types.Brief{
			Product:  genProduct,
			Headline: genHeadline,
			Body:     genBody,
			CTA:      genCTA,
			Audience: genAudience,
			Proof:    genProof,
		},
		Channels: trimAll(genChannels),
		Goal:     genGoal,
		Export:   genCSV,
	}

	result, err := a.service.Generate(ctx, req, onProgress)
	if err != nil {
		return fmt.Errorf("failed to generate variants: %w", err)
	}

	if genJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printer.PrintResult(result)
	return nil
}

// trimAll drops blank entries from a comma separated flag value.
func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
