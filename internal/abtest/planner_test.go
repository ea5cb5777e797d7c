package abtest

import (
	"testing"

	"github.com/jonathan/variant-studio/internal/catalog"
	"github.com/jonathan/variant-studio/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPlan(t *testing.T) {
	c := catalog.Default()

	tests := []struct {
		name       string
		brief      types.Brief
		goal       string
		metric     string
		hypothesis string
	}{
		{
			name:       "ctr with audience",
			brief:      types.Brief{Product: "Acme Tool", Audience: "ops teams"},
			goal:       "CTR",
			metric:     "Click-through rate",
			hypothesis: "A stronger hook referencing “ops teams” increases Click-through rate by 15–25%.",
		},
		{
			name:       "watch time without audience",
			brief:      types.Brief{Product: "Acme Tool"},
			goal:       "Watch Time",
			metric:     "3s views & avg % viewed",
			hypothesis: "A stronger hook referencing “your audience” increases 3s views & avg % viewed by 15–25%.",
		},
		{
			name:       "leads",
			brief:      types.Brief{Product: "Acme Tool", Audience: "CFOs"},
			goal:       "Leads",
			metric:     "Form submit rate / demo requests",
			hypothesis: "A stronger hook referencing “CFOs” increases Form submit rate / demo requests by 15–25%.",
		},
		{
			name:       "unknown goal uses default",
			brief:      types.Brief{Product: "Acme Tool"},
			goal:       "Engagement",
			metric:     "Click-through rate",
			hypothesis: "A stronger hook referencing “your audience” increases Click-through rate by 15–25%.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Plan(tt.brief, c.Goal(tt.goal))
			assert.Equal(t, tt.metric, plan.Metric)
			assert.Equal(t, tt.hypothesis, plan.Hypothesis)
			assert.Equal(t, conservativeVariant, plan.VariantA)
			assert.Equal(t, boldVariant, plan.VariantB)
			assert.Equal(t, runRecommendation, plan.Run)
		})
	}
}

func TestPlan_MissingMetric(t *testing.T) {
	plan := Plan(types.Brief{Product: "x"}, types.GoalRule{Key: "Custom"})
	assert.Equal(t, DefaultMetric, plan.Metric)
}
