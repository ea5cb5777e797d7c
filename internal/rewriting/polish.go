// Package rewriting provides the best-effort polish pass over already generated variants.
package rewriting

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/variant-studio/internal/catalog"
	"github.com/jonathan/variant-studio/internal/llm"
	"github.com/jonathan/variant-studio/internal/prompts"
	"github.com/jonathan/variant-studio/internal/rendering"
	"github.com/jonathan/variant-studio/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTimeout bounds a whole polish pass.
	DefaultTimeout = 5 * time.Second
	// DefaultConcurrency bounds the number of in-flight model calls per pass.
	DefaultConcurrency = 4

	temperature = 0.2
	maxTokens   = 240
)

// NotConfiguredMessage explains why nothing was polished.
const NotConfiguredMessage = "AI key not configured; using rule engine only."

// Recorder receives one outcome per model call.
type Recorder interface {
	LLMCall(operation, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) LLMCall(string, string) {}

// Options configures a Polisher.
type Options struct {
	Timeout     time.Duration
	Concurrency int
}

// Result is the outcome of one polish pass.
type Result struct {
	// Available is false when no model client is configured. Variants is then nil.
	Available bool
	// Variants holds every submitted variant in order, polished where the model succeeded.
	Variants []types.PolishVariant
	// Polished marks which indexes of Variants were changed by the model.
	Polished []bool
	// Attempted is the number of variants sent to the model.
	Attempted int
}

// Failures counts the variants that were sent to the model but kept their original copy.
func (r Result) Failures() int {
	return r.Attempted - r.count()
}

func (r Result) count() int {
	n := 0
	for _, ok := range r.Polished {
		if ok {
			n++
		}
	}
	return n
}

// Polisher improves variant copy one model call per variant.
type Polisher struct {
	client   llm.Client
	catalog  *catalog.Catalog
	recorder Recorder
	logger   *zap.Logger
	opts     Options
}

// NewPolisher creates a polisher. A nil client makes every pass a no-op.
func NewPolisher(client llm.Client, c *catalog.Catalog, recorder Recorder, logger *zap.Logger, opts Options) *Polisher {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Polisher{
		client:   client,
		catalog:  c,
		recorder: recorder,
		logger:   logger.Named("polish"),
		opts:     opts,
	}
}

// Available reports whether a model client is configured.
func (p *Polisher) Available() bool {
	return p != nil && p.client != nil
}

// Polish refines every variant, or only the first when PolishOnlyOne is set.
// A variant whose call fails, times out or returns nothing keeps its original copy;
// failures never affect sibling variants and are never returned as errors.
func (p *Polisher) Polish(ctx context.Context, req types.PolishRequest) Result {
	if !p.Available() {
		return Result{Available: false}
	}

	out := make([]types.PolishVariant, len(req.Variants))
	polished := make([]bool, len(req.Variants))
	for i, v := range req.Variants {
		out[i] = clonePolishVariant(v)
	}

	targets := len(req.Variants)
	if req.Context.PolishOnlyOne && targets > 1 {
		targets = 1
	}

	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for i := 0; i < targets; i++ {
		g.Go(func() error {
			text, ok := p.polishOne(gctx, req.Context, req.Variants[i], req.Feedback)
			if ok {
				out[i].Copy = text
				polished[i] = true
			}
			return nil
		})
	}
	_ = g.Wait()

	return Result{Available: true, Variants: out, Polished: polished, Attempted: targets}
}

func (p *Polisher) polishOne(ctx context.Context, pc types.PolishContext, v types.PolishVariant, feedback string) (string, bool) {
	maxChars := p.catalog.MaxCharsFor(v.Channel)

	reply, err := p.client.Complete(ctx, llm.Request{
		User:        p.buildPrompt(pc, v, maxChars, feedback),
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Tier:        llm.TierLite,
	})
	if err != nil {
		outcome := "error"
		if llm.IsUpstream(err) {
			outcome = "upstream_error"
		}
		if ctx.Err() != nil {
			outcome = "timeout"
		}
		p.logger.Warn("polish failed; keeping original copy",
			zap.String("channel", v.Channel),
			zap.String("outcome", outcome),
			zap.Error(err))
		p.recorder.LLMCall("polish", outcome)
		return "", false
	}

	text := rendering.Clamp(strings.TrimSpace(rendering.StripEmoji(parsePolishResponse(reply))), maxChars)
	if strings.TrimSpace(text) == "" {
		p.logger.Warn("polish returned empty copy; keeping original", zap.String("channel", v.Channel))
		p.recorder.LLMCall("polish", "empty")
		return "", false
	}

	p.recorder.LLMCall("polish", "ok")
	return text, true
}

func (p *Polisher) buildPrompt(pc types.PolishContext, v types.PolishVariant, maxChars int, feedback string) string {
	feedbackLine := ""
	if feedback = strings.TrimSpace(feedback); feedback != "" {
		feedbackLine = prompts.Fill(prompts.MustLookup("copywriting.json", "polish-feedback"), prompts.Vars{
			"Feedback": feedback,
		})
	}

	goal := pc.Goal
	if goal == "" {
		goal = p.catalog.DefaultGoal()
	}

	return prompts.Fill(prompts.MustLookup("copywriting.json", "polish-variant"), prompts.Vars{
		"Channel":  v.Channel,
		"MaxChars": strconv.Itoa(maxChars),
		"Specs":    strings.Join(v.Specs, "; "),
		"Product":  pc.Product,
		"Audience": pc.Audience,
		"Goal":     goal,
		"Feedback": feedbackLine,
		"Copy":     v.Copy,
	})
}

// parsePolishResponse extracts the improved copy from a reply.
// The model should return only the text, but fenced blocks and surrounding quotes are removed.
func parsePolishResponse(reply string) string {
	text := strings.TrimSpace(reply)

	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 0 && strings.HasPrefix(lines[0], "```") {
			lines = lines[1:]
		}
		if len(lines) > 0 && strings.HasPrefix(lines[len(lines)-1], "```") {
			lines = lines[:len(lines)-1]
		}
		text = strings.TrimSpace(strings.Join(lines, "\n"))
	}

	if len(text) >= 2 {
		if unquoted, err := strconv.Unquote(text); err == nil && strings.HasPrefix(text, `"`) {
			text = unquoted
		}
	}

	return strings.TrimSpace(text)
}

func clonePolishVariant(v types.PolishVariant) types.PolishVariant {
	v.Specs = append([]string(nil), v.Specs...)
	return v
}

// String describes the result for logs.
func (r Result) String() string {
	if !r.Available {
		return "polish unavailable"
	}
	return fmt.Sprintf("polished %d of %d variants", r.count(), r.Attempted)
}
