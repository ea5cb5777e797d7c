// Package abtest derives the A/B test plan that accompanies a set of variants.
package abtest

import (
	"fmt"

	"github.com/jonathan/variant-studio/internal/types"
)

// DefaultMetric is used when the goal carries no metric of its own.
const DefaultMetric = "Click-through rate"

const (
	conservativeVariant = "Conservative: keep original hook and straightforward CTA."
	boldVariant         = "Bold: punchy hook + time-bound CTA in the first line."
	runRecommendation   = "3–7 days with even spend; declare winner at practical uplift."
)

// Plan builds the test plan for a brief and its resolved goal. It never fails.
func Plan(brief types.Brief, goal types.GoalRule) types.ABPlan {
	metric := goal.Metric
	if metric == "" {
		metric = DefaultMetric
	}

	audience := brief.Audience
	if audience == "" {
		audience = "your audience"
	}

	return types.ABPlan{
		Hypothesis: fmt.Sprintf("A stronger hook referencing “%s” increases %s by 15–25%%.", audience, metric),
		VariantA:   conservativeVariant,
		VariantB:   boldVariant,
		Metric:     metric,
		Run:        runRecommendation,
	}
}
