// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/variant-studio/internal/catalog"
	"github.com/jonathan/variant-studio/internal/pipeline"
	"github.com/jonathan/variant-studio/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 64
	// maxSpecsToShow is the number of format specs listed per channel
	maxSpecsToShow = 3
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content. Long lines are wrapped.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", inner, truncate(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, part := range wrap(line, inner) {
			fmt.Fprintf(p.out, "│ %-*s │\n", inner, part)
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to width runes, marking the cut with "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// wrap splits line into pieces of at most width runes, breaking at spaces where possible.
func wrap(line string, width int) []string {
	r := []rune(line)
	if len(r) <= width {
		return []string{line}
	}

	var parts []string
	for len(r) > width {
		cut := width
		for i := width; i > width/2; i-- {
			if r[i] == ' ' {
				cut = i
				break
			}
		}
		parts = append(parts, strings.TrimRight(string(r[:cut]), " "))
		r = r[cut:]
		for len(r) > 0 && r[0] == ' ' {
			r = r[1:]
		}
	}
	if len(r) > 0 {
		parts = append(parts, string(r))
	}
	return parts
}

// PrintVariants outputs one box per variant with its copy, specs and rationale.
func (p *Printer) PrintVariants(variants []types.Variant) {
	for i, v := range variants {
		var sb strings.Builder
		sb.WriteString(v.Copy)
		sb.WriteString("\n\n")
		if len(v.Specs) > 0 {
			sb.WriteString(fmt.Sprintf("Specs:     %s\n", strings.Join(v.Specs, "; ")))
		}
		sb.WriteString(fmt.Sprintf("Length:    %d chars\n", len([]rune(v.Copy))))
		sb.WriteString(fmt.Sprintf("Rationale: %s", v.Rationale))

		p.printBox(fmt.Sprintf("VARIANT %d/%d: %s", i+1, len(variants), strings.ToUpper(v.Channel)), sb.String())
	}
}

// PrintABPlan outputs the A/B test recommendation.
func (p *Printer) PrintABPlan(plan *types.ABPlan) {
	if plan == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Hypothesis: %s\n\n", plan.Hypothesis))
	sb.WriteString(fmt.Sprintf("A: %s\n", plan.VariantA))
	sb.WriteString(fmt.Sprintf("B: %s\n\n", plan.VariantB))
	sb.WriteString(fmt.Sprintf("Metric:     %s\n", plan.Metric))
	sb.WriteString(fmt.Sprintf("Run:        %s", plan.Run))

	p.printBox("A/B TEST PLAN", sb.String())
}

// PrintResult outputs the variants, the plan and the result links.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintResult(result types.GenerationResult) {
	mode := "templates"
	if result.AIUsed {
		mode = "model"
	}
	fmt.Fprintf(p.out, "Request %s (goal %s, generated by %s)\n", result.RequestID, result.Goal, mode)

	p.PrintVariants(result.Variants)
	p.PrintABPlan(result.ABPlan)

	if result.CSVURL != "" {
		fmt.Fprintf(p.out, "CSV:   %s\n", result.CSVURL)
	}
	if result.ShareURL != "" {
		fmt.Fprintf(p.out, "Share: %s\n", result.ShareURL)
	}
}

// PrintCatalog outputs the channel and goal vocabulary.
func (p *Printer) PrintCatalog(c *catalog.Catalog) {
	if c == nil {
		return
	}

	var sb strings.Builder
	for _, ch := range c.All() {
		sb.WriteString(fmt.Sprintf("%-12s %-18s max %d chars\n", ch.Key, ch.Label, ch.MaxChars))
		count := min(len(ch.FormatSpecs), maxSpecsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", ch.FormatSpecs[i]))
		}
		if len(ch.FormatSpecs) > maxSpecsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(ch.FormatSpecs)-maxSpecsToShow))
		}
	}
	p.printBox("CHANNELS", strings.TrimSuffix(sb.String(), "\n"))

	sb.Reset()
	for _, g := range c.Goals() {
		marker := ""
		if g.Key == c.DefaultGoal() {
			marker = " (default)"
		}
		sb.WriteString(fmt.Sprintf("%s%s: %s\n", g.Key, marker, strings.Join(g.Channels, ", ")))
		if g.Metric != "" {
			sb.WriteString(fmt.Sprintf("  Metric: %s\n", g.Metric))
		}
	}
	p.printBox("GOALS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProgress outputs one line per stage.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(event pipeline.ProgressEvent) {
	fmt.Fprintf(p.out, "[%s] %-18s %s\n", event.Category, event.Stage, event.Message)
}
