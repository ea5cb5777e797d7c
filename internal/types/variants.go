// Package types provides type definitions for structured data used throughout the variant-studio system.
package types

import "time"

// Brief is the structured creative input for one generation request.
type Brief struct {
	Product  string `json:"product" validate:"required"`
	Headline string `json:"headline,omitempty"`
	Body     string `json:"body,omitempty"`
	CTA      string `json:"cta,omitempty"`
	Audience string `json:"audience,omitempty"`
	Proof    string `json:"proof,omitempty"`
}

// ChannelRule describes the formatting rules of one publishing channel.
type ChannelRule struct {
	Key         string   `json:"key"`
	Label       string   `json:"label"`
	Family      string   `json:"family,omitempty"` // Template family; defaults to Key
	FormatSpecs []string `json:"specs"`
	MaxChars    int      `json:"max_chars"`
}

// TemplateFamily returns the template family used to render copy for the channel.
func (r ChannelRule) TemplateFamily() string {
	if r.Family != "" {
		return r.Family
	}
	return r.Key
}

// GoalRule maps a campaign goal to its default channel ordering, metric and rationale.
type GoalRule struct {
	Key       string   `json:"key"`
	Channels  []string `json:"channels"`
	Metric    string   `json:"metric"`
	Rationale string   `json:"rationale"`
}

// Variant is one channel-specific rendering of a brief.
type Variant struct {
	Channel    string   `json:"channel"`
	ChannelKey string   `json:"channel_key,omitempty"`
	Copy       string   `json:"copy"`
	Specs      []string `json:"specs"`
	Rationale  string   `json:"rationale"`
}

// ABPlan is the A/B test recommendation attached to a generation.
type ABPlan struct {
	Hypothesis string `json:"hypothesis"`
	VariantA   string `json:"variantA"`
	VariantB   string `json:"variantB"`
	Metric     string `json:"metric"`
	Run        string `json:"run"`
}

// GenerationResult is the stored outcome of one generation request.
type GenerationResult struct {
	RequestID   string    `json:"request_id"`
	Goal        string    `json:"goal"`
	Variants    []Variant `json:"variants"`
	ABPlan      *ABPlan   `json:"abplan,omitempty"`
	AIAvailable bool      `json:"aiAvailable"`
	AIUsed      bool      `json:"ai_used"`
	CSVURL      string    `json:"csv_url,omitempty"`
	ShareURL    string    `json:"share_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
