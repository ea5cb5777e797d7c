package catalog

import (
	"errors"
	"testing"

	"github.com/jonathan/variant-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ChannelOrder(t *testing.T) {
	c := Default()
	assert.Equal(t, []string{"instagram", "youtube", "linkedin"}, c.Keys())
	assert.Equal(t, "CTR", c.DefaultGoal())
}

func TestGet_UnknownChannel(t *testing.T) {
	c := Default()

	_, err := c.Get("tiktok")
	require.Error(t, err)

	var unknown *UnknownChannelError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "tiktok", unknown.Key)
}

func TestGet_ReturnsCopy(t *testing.T) {
	c := Default()

	rule, err := c.Get("instagram")
	require.NoError(t, err)
	rule.FormatSpecs[0] = "mutated"

	again, err := c.Get("instagram")
	require.NoError(t, err)
	assert.Equal(t, "Image 1080×1350 (4:5)", again.FormatSpecs[0])
}

func TestResolveChannels(t *testing.T) {
	c := Default()

	tests := []struct {
		name     string
		explicit []string
		goal     string
		expected []string
	}{
		{"leads ordering", nil, "Leads", []string{"linkedin", "instagram", "youtube"}},
		{"watch time ordering", nil, "Watch Time", []string{"youtube", "instagram", "linkedin"}},
		{"ctr ordering", nil, "CTR", []string{"instagram", "linkedin", "youtube"}},
		{"unknown goal falls back", nil, "Engagement", []string{"instagram", "linkedin", "youtube"}},
		{"explicit wins over goal", []string{"youtube"}, "Leads", []string{"youtube"}},
		{"empty explicit uses goal", []string{}, "Leads", []string{"linkedin", "instagram", "youtube"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.ResolveChannels(tt.explicit, tt.goal))
		})
	}
}

func TestByLabel(t *testing.T) {
	c := Default()

	rule, ok := c.ByLabel("LinkedIn")
	require.True(t, ok)
	assert.Equal(t, "linkedin", rule.Key)

	rule, ok = c.ByLabel("youtube shorts")
	require.True(t, ok)
	assert.Equal(t, 800, rule.MaxChars)

	rule, ok = c.ByLabel("instagram")
	require.True(t, ok)
	assert.Equal(t, "Instagram Feed", rule.Label)

	_, ok = c.ByLabel("Threads")
	assert.False(t, ok)
	assert.Equal(t, DefaultMaxChars, c.MaxCharsFor("Threads"))
}

func TestNew_Invariants(t *testing.T) {
	channels := []types.ChannelRule{{Key: "a", Label: "A", MaxChars: 10}}

	tests := []struct {
		name     string
		channels []types.ChannelRule
		goals    []types.GoalRule
		def      string
	}{
		{"no channels", nil, []types.GoalRule{{Key: "g", Channels: []string{"a"}}}, ""},
		{"no goals", channels, nil, ""},
		{"empty goal ordering", channels, []types.GoalRule{{Key: "g"}}, ""},
		{"goal references unknown channel", channels, []types.GoalRule{{Key: "g", Channels: []string{"b"}}}, ""},
		{"zero budget", []types.ChannelRule{{Key: "a", Label: "A"}}, []types.GoalRule{{Key: "g", Channels: []string{"a"}}}, ""},
		{"missing default goal", channels, []types.GoalRule{{Key: "g", Channels: []string{"a"}}}, "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.channels, tt.goals, tt.def)
			var invalid *InvalidCatalogError
			assert.True(t, errors.As(err, &invalid), "expected InvalidCatalogError, got %v", err)
		})
	}
}

func TestNew_DefaultGoalFromFirstEntry(t *testing.T) {
	c, err := New(
		[]types.ChannelRule{{Key: "reels", Label: "Instagram Reels", Family: "youtube", MaxChars: 500}},
		[]types.GoalRule{{Key: "Engagement", Channels: []string{"reels"}}},
		"",
	)
	require.NoError(t, err)
	assert.Equal(t, "Engagement", c.DefaultGoal())
	assert.Equal(t, "Engagement", c.Goal("whatever").Key)

	rule, err := c.Get("reels")
	require.NoError(t, err)
	assert.Equal(t, "youtube", rule.TemplateFamily())
}
