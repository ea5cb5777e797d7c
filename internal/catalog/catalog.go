// Package catalog provides the static registry of channel formatting rules and goal orderings.
package catalog

import (
	"fmt"
	"strings"

	"github.com/jonathan/variant-studio/internal/types"
)

// DefaultMaxChars is the character budget applied to channels the catalog does not know.
const DefaultMaxChars = 900

// DefaultGoal is the goal used when a request names none, or an unknown one.
const DefaultGoal = "CTR"

// Catalog is an immutable registry of channels and goals. It is safe for concurrent use.
type Catalog struct {
	channels    []types.ChannelRule
	byKey       map[string]int
	goals       []types.GoalRule
	goalByKey   map[string]int
	defaultGoal string
}

// DefaultChannels returns the built-in channel vocabulary.
func DefaultChannels() []types.ChannelRule {
	return []types.ChannelRule{
		{
			Key:   "instagram",
			Label: "Instagram Feed",
			FormatSpecs: []string{
				"Image 1080×1350 (4:5)",
				"Primary text ≤125 chars ideal",
				"1 CTA; 5–10 hashtags optional",
			},
			MaxChars: 300,
		},
		{
			Key:         "youtube",
			Label:       "YouTube Shorts",
			FormatSpecs: []string{"≤60s; vertical; hook in first 2s", "5-beat outline"},
			MaxChars:    800,
		},
		{
			Key:         "linkedin",
			Label:       "LinkedIn",
			FormatSpecs: []string{"700–900 chars", "3–5 short paragraphs", "≤3 hashtags or none"},
			MaxChars:    900,
		},
	}
}

// DefaultGoals returns the built-in goal vocabulary.
func DefaultGoals() []types.GoalRule {
	return []types.GoalRule{
		{
			Key:       "CTR",
			Channels:  []string{"instagram", "linkedin", "youtube"},
			Metric:    "Click-through rate",
			Rationale: "Punchy hook + skimmable benefits to raise CTR.",
		},
		{
			Key:       "Watch Time",
			Channels:  []string{"youtube", "instagram", "linkedin"},
			Metric:    "3s views & avg % viewed",
			Rationale: "Hook early; tight beats sustain viewing.",
		},
		{
			Key:       "Leads",
			Channels:  []string{"linkedin", "instagram", "youtube"},
			Metric:    "Form submit rate / demo requests",
			Rationale: "Outcome-focused copy + clear CTA to drive form fills.",
		},
	}
}

// Default returns a catalog built from the built-in vocabulary.
func Default() *Catalog {
	c, err := New(DefaultChannels(), DefaultGoals(), DefaultGoal)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

// New builds a catalog, checking that every goal maps to a non-empty list of known channels.
func New(channels []types.ChannelRule, goals []types.GoalRule, defaultGoal string) (*Catalog, error) {
	if len(channels) == 0 {
		return nil, &InvalidCatalogError{Message: "at least one channel is required"}
	}
	if len(goals) == 0 {
		return nil, &InvalidCatalogError{Message: "at least one goal is required"}
	}

	c := &Catalog{
		byKey:     make(map[string]int, len(channels)),
		goalByKey: make(map[string]int, len(goals)),
	}

	for _, ch := range channels {
		if ch.Key == "" || ch.Label == "" {
			return nil, &InvalidCatalogError{Message: "channel key and label are required"}
		}
		if ch.MaxChars <= 0 {
			return nil, &InvalidCatalogError{Message: fmt.Sprintf("channel %q must have a positive max_chars", ch.Key)}
		}
		if _, dup := c.byKey[ch.Key]; dup {
			return nil, &InvalidCatalogError{Message: fmt.Sprintf("duplicate channel %q", ch.Key)}
		}
		ch.FormatSpecs = append([]string(nil), ch.FormatSpecs...)
		c.byKey[ch.Key] = len(c.channels)
		c.channels = append(c.channels, ch)
	}

	for _, g := range goals {
		if g.Key == "" {
			return nil, &InvalidCatalogError{Message: "goal key is required"}
		}
		if len(g.Channels) == 0 {
			return nil, &InvalidCatalogError{Message: fmt.Sprintf("goal %q must map to at least one channel", g.Key)}
		}
		for _, key := range g.Channels {
			if _, ok := c.byKey[key]; !ok {
				return nil, &InvalidCatalogError{Message: fmt.Sprintf("goal %q references unknown channel %q", g.Key, key)}
			}
		}
		if _, dup := c.goalByKey[g.Key]; dup {
			return nil, &InvalidCatalogError{Message: fmt.Sprintf("duplicate goal %q", g.Key)}
		}
		g.Channels = append([]string(nil), g.Channels...)
		c.goalByKey[g.Key] = len(c.goals)
		c.goals = append(c.goals, g)
	}

	if defaultGoal == "" {
		defaultGoal = goals[0].Key
	}
	if _, ok := c.goalByKey[defaultGoal]; !ok {
		return nil, &InvalidCatalogError{Message: fmt.Sprintf("default goal %q is not defined", defaultGoal)}
	}
	c.defaultGoal = defaultGoal

	return c, nil
}

// Get returns the rule for a channel key.
func (c *Catalog) Get(key string) (types.ChannelRule, error) {
	idx, ok := c.byKey[key]
	if !ok {
		return types.ChannelRule{}, &UnknownChannelError{Key: key}
	}
	return cloneRule(c.channels[idx]), nil
}

// Has reports whether the channel key is registered.
func (c *Catalog) Has(key string) bool {
	_, ok := c.byKey[key]
	return ok
}

// All returns every channel rule in catalog order.
func (c *Catalog) All() []types.ChannelRule {
	out := make([]types.ChannelRule, len(c.channels))
	for i, ch := range c.channels {
		out[i] = cloneRule(ch)
	}
	return out
}

// Keys returns every channel key in catalog order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.channels))
	for i, ch := range c.channels {
		keys[i] = ch.Key
	}
	return keys
}

// ByLabel finds a channel by its label, falling back to its key. Matching ignores case.
func (c *Catalog) ByLabel(label string) (types.ChannelRule, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return types.ChannelRule{}, false
	}
	for _, ch := range c.channels {
		if strings.EqualFold(ch.Label, label) {
			return cloneRule(ch), true
		}
	}
	for _, ch := range c.channels {
		if strings.EqualFold(ch.Key, label) {
			return cloneRule(ch), true
		}
	}
	return types.ChannelRule{}, false
}

// MaxCharsFor returns the budget for a channel label or key, or DefaultMaxChars.
func (c *Catalog) MaxCharsFor(labelOrKey string) int {
	if rule, ok := c.ByLabel(labelOrKey); ok {
		return rule.MaxChars
	}
	return DefaultMaxChars
}

// Goal resolves a goal key. Unknown or empty keys resolve to the default goal.
func (c *Catalog) Goal(key string) types.GoalRule {
	if idx, ok := c.goalByKey[key]; ok {
		return cloneGoal(c.goals[idx])
	}
	return cloneGoal(c.goals[c.goalByKey[c.defaultGoal]])
}

// Goals returns every goal in catalog order.
func (c *Catalog) Goals() []types.GoalRule {
	out := make([]types.GoalRule, len(c.goals))
	for i, g := range c.goals {
		out[i] = cloneGoal(g)
	}
	return out
}

// DefaultGoal returns the key of the fallback goal.
func (c *Catalog) DefaultGoal() string {
	return c.defaultGoal
}

// ResolveChannels returns the explicit list when non-empty, otherwise the goal's default ordering.
func (c *Catalog) ResolveChannels(explicit []string, goal string) []string {
	if len(explicit) > 0 {
		return append([]string(nil), explicit...)
	}
	return c.Goal(goal).Channels
}

func cloneRule(r types.ChannelRule) types.ChannelRule {
	r.FormatSpecs = append([]string(nil), r.FormatSpecs...)
	return r
}

func cloneGoal(g types.GoalRule) types.GoalRule {
	g.Channels = append([]string(nil), g.Channels...)
	return g
}
