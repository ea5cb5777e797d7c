// Package generation wraps the single model call that produces AI-written variants.
// Every failure except an upstream transport error degrades to a synthesized fallback.
package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/variant-studio/internal/catalog"
	"github.com/jonathan/variant-studio/internal/llm"
	"github.com/jonathan/variant-studio/internal/prompts"
	"github.com/jonathan/variant-studio/internal/rendering"
	"github.com/jonathan/variant-studio/internal/types"
	"go.uber.org/zap"
)

const (
	// MaxVariants caps how many variants one model call contributes.
	MaxVariants = 3
	// MaxRationaleChars bounds the rationale kept from the model.
	MaxRationaleChars = 240

	temperature = 0.2
	maxTokens   = 600
)

// Outcomes reported to the Recorder.
const (
	OutcomeOK          = "ok"
	OutcomeUpstream    = "upstream_error"
	OutcomeUnavailable = "error"
)

// Recorder receives one outcome per model call.
type Recorder interface {
	LLMCall(operation, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) LLMCall(string, string) {}

// Request describes one AI generation. Either Text or Brief supplies the source material.
type Request struct {
	Text      string
	Brief     *types.Brief
	Goal      string
	Channels  []string
	KBContext string
}

// source returns the plain-text source used in fallback copy.
func (r Request) source() string {
	if r.Text != "" || r.Brief == nil {
		return r.Text
	}
	parts := []string{r.Brief.Product}
	if r.Brief.Headline != "" {
		parts = append(parts, r.Brief.Headline)
	}
	return strings.Join(parts, ": ")
}

// Adapter turns one model call into channel-compliant variants.
type Adapter struct {
	client   llm.Client
	catalog  *catalog.Catalog
	recorder Recorder
	logger   *zap.Logger
}

// NewAdapter creates an adapter. A nil client makes the adapter unavailable.
func NewAdapter(client llm.Client, c *catalog.Catalog, recorder Recorder, logger *zap.Logger) *Adapter {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		client:   client,
		catalog:  c,
		recorder: recorder,
		logger:   logger.Named("generation"),
	}
}

// Available reports whether a model client is configured.
func (a *Adapter) Available() bool {
	return a != nil && a.client != nil
}

// Generate calls the model once and returns at most MaxVariants variants.
// It returns llm.ErrNotConfigured without a client and *llm.UpstreamError when the
// endpoint cannot be reached or answers with a non-success status. Malformed replies
// and any other failure yield fallback variants instead of an error.
func (a *Adapter) Generate(ctx context.Context, req Request) ([]types.Variant, error) {
	if !a.Available() {
		return nil, llm.ErrNotConfigured
	}

	channels := req.Channels
	if len(channels) == 0 {
		channels = a.catalog.Keys()
	}

	prompt, err := a.buildPrompt(req, channels)
	if err != nil {
		a.logger.Error("failed to build prompt", zap.Error(err))
		a.recorder.LLMCall("generate", OutcomeUnavailable)
		return a.Fallback(req.source(), channels), nil
	}

	reply, err := a.client.Complete(ctx, prompt)
	if err != nil {
		var upstream *llm.UpstreamError
		if errors.As(err, &upstream) {
			a.logger.Warn("model call failed",
				zap.Int("status", upstream.StatusCode),
				zap.String("body", upstream.Body),
				zap.Error(upstream.Cause))
			a.recorder.LLMCall("generate", OutcomeUpstream)
			return nil, err
		}
		a.logger.Error("model call raised an unexpected error", zap.Error(err))
		a.recorder.LLMCall("generate", OutcomeUnavailable)
		return a.Fallback(req.source(), channels), nil
	}

	result := ParseReply(strings.TrimSpace(reply))
	switch result.Kind {
	case ParseOK:
		a.recorder.LLMCall("generate", OutcomeOK)
		return a.fromPayload(result.Payload), nil
	case ParseFailed, ShapeInvalid:
		var malformed *MalformedResponseError
		snippet := ""
		if errors.As(result.Err, &malformed) {
			snippet = malformed.Snippet()
		}
		a.logger.Warn("bad JSON from model",
			zap.String("kind", result.Kind.String()),
			zap.String("reply", snippet),
			zap.Error(result.Err))
		a.recorder.LLMCall("generate", result.Kind.String())
		return a.Fallback(req.source(), channels), nil
	default:
		a.recorder.LLMCall("generate", OutcomeUnavailable)
		return a.Fallback(req.source(), channels), nil
	}
}

// Fallback synthesizes variants for up to the first MaxVariants channels from the source text.
func (a *Adapter) Fallback(source string, channels []string) []types.Variant {
	if len(channels) > MaxVariants {
		channels = channels[:MaxVariants]
	}

	variants := make([]types.Variant, 0, len(channels))
	for _, key := range channels {
		rule, err := a.catalog.Get(key)
		if err != nil {
			continue
		}
		variants = append(variants, types.Variant{
			Channel:    rule.Label,
			ChannelKey: rule.Key,
			Copy:       rendering.Sanitize(fmt.Sprintf("%s — optimized for %s", source, rule.Label), rule.MaxChars),
			Specs:      rule.FormatSpecs,
			Rationale:  fmt.Sprintf("Matches %s norms.", rule.Label),
		})
	}
	return variants
}

func (a *Adapter) fromPayload(payload Payload) []types.Variant {
	raw := payload.Variants
	if len(raw) > MaxVariants {
		raw = raw[:MaxVariants]
	}

	variants := make([]types.Variant, 0, len(raw))
	for _, rv := range raw {
		maxChars := catalog.DefaultMaxChars
		label := strings.TrimSpace(rv.Platform)
		key := ""
		specs := []string{}

		if rule, ok := a.catalog.ByLabel(label); ok {
			maxChars = rule.MaxChars
			label = rule.Label
			key = rule.Key
			specs = rule.FormatSpecs
		} else if label == "" {
			label = "Unknown"
		}

		variants = append(variants, types.Variant{
			Channel:    label,
			ChannelKey: key,
			Copy:       rendering.Sanitize(rv.Copy, maxChars),
			Specs:      specs,
			Rationale:  rendering.Cut(rv.Rationale, MaxRationaleChars),
		})
	}
	return variants
}

type userPayload struct {
	Goal          string       `json:"goal"`
	Text          string       `json:"text,omitempty"`
	Brief         *types.Brief `json:"brief,omitempty"`
	PlatformRules []string     `json:"platform_rules"`
	Platforms     []string     `json:"platforms"`
	KnowledgeBase string       `json:"knowledge_base,omitempty"`
}

func (a *Adapter) buildPrompt(req Request, channels []string) (llm.Request, error) {
	system, err := prompts.Render("copywriting.json", "generate-system", nil)
	if err != nil {
		return llm.Request{}, err
	}

	payload := userPayload{
		Goal:          a.catalog.Goal(req.Goal).Key,
		Text:          req.Text,
		Brief:         req.Brief,
		KnowledgeBase: req.KBContext,
	}
	for _, key := range channels {
		rule, err := a.catalog.Get(key)
		if err != nil {
			return llm.Request{}, err
		}
		payload.PlatformRules = append(payload.PlatformRules,
			fmt.Sprintf("%s: %s (max %d chars)", rule.Label, strings.Join(rule.FormatSpecs, "; "), rule.MaxChars))
		payload.Platforms = append(payload.Platforms, rule.Label)
	}

	user, err := json.Marshal(payload)
	if err != nil {
		return llm.Request{}, err
	}

	return llm.Request{
		System:      system,
		User:        string(user),
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Tier:        llm.TierStandard,
	}, nil
}
