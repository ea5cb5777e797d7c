package generation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jonathan/variant-studio/internal/catalog"
	"github.com/jonathan/variant-studio/internal/llm"
	"github.com/jonathan/variant-studio/internal/rendering"
	"github.com/jonathan/variant-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	reply    string
	err      error
	requests []llm.Request
}

func (f *fakeClient) Complete(_ context.Context, req llm.Request) (string, error) {
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error                  { return nil }

type countingRecorder struct {
	mu    sync.Mutex
	calls map[string]int
}

func (r *countingRecorder) LLMCall(operation, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = make(map[string]int)
	}
	r.calls[operation+"/"+outcome]++
}

func newAdapter(client llm.Client, rec Recorder) *Adapter {
	return NewAdapter(client, catalog.Default(), rec, nil)
}

func TestGenerate_NotConfigured(t *testing.T) {
	a := newAdapter(nil, nil)
	assert.False(t, a.Available())

	_, err := a.Generate(context.Background(), Request{Text: "hello"})
	assert.ErrorIs(t, err, llm.ErrNotConfigured)
}

func TestGenerate_ParsesAndClamps(t *testing.T) {
	reply := map[string]any{
		"variants": []map[string]any{
			{"platform": "instagram feed", "copy": strings.Repeat("Big news 🎉 ", 60), "spec": map[string]any{"ratio": "4:5"}, "rationale": strings.Repeat("r", 500)},
			{"platform": "LinkedIn", "copy": "Short post", "rationale": "Fits."},
			{"platform": "Threads", "copy": strings.Repeat("t", 1200), "spec": []string{"≤500 chars"}},
			{"platform": "YouTube Shorts", "copy": "dropped"},
		},
	}
	raw, err := json.Marshal(reply)
	require.NoError(t, err)

	rec := &countingRecorder{}
	client := &fakeClient{reply: string(raw)}
	a := newAdapter(client, rec)

	variants, err := a.Generate(context.Background(), Request{Text: "Launch day", Goal: "CTR"})
	require.NoError(t, err)
	require.Len(t, variants, MaxVariants)

	ig := variants[0]
	assert.Equal(t, "Instagram Feed", ig.Channel)
	assert.Equal(t, "instagram", ig.ChannelKey)
	assert.Equal(t, 300, rendering.Length(ig.Copy))
	assert.True(t, strings.HasSuffix(ig.Copy, rendering.Ellipsis))
	assert.NotContains(t, ig.Copy, "🎉")
	assert.Equal(t, 3, len(ig.Specs))
	assert.Equal(t, MaxRationaleChars, rendering.Length(ig.Rationale))

	assert.Equal(t, "LinkedIn", variants[1].Channel)
	assert.Equal(t, "Short post", variants[1].Copy)

	unknown := variants[2]
	assert.Equal(t, "Threads", unknown.Channel)
	assert.Empty(t, unknown.ChannelKey)
	assert.Equal(t, catalog.DefaultMaxChars, rendering.Length(unknown.Copy))
	assert.Equal(t, []string{}, unknown.Specs, "model-supplied specs are ignored for unmatched platforms")

	assert.Equal(t, 1, rec.calls["generate/ok"])

	require.Len(t, client.requests, 1)
	sent := client.requests[0]
	assert.InDelta(t, 0.2, sent.Temperature, 0.0001)
	assert.Equal(t, 600, sent.MaxTokens)
	assert.Contains(t, sent.System, "STRICT JSON")
	assert.Contains(t, sent.User, `"goal":"CTR"`)
	assert.Contains(t, sent.User, "Instagram Feed: Image 1080×1350 (4:5)")
}

func TestGenerate_MissingPlatformIsUnknown(t *testing.T) {
	client := &fakeClient{reply: `{"variants":[{"copy":"Hello"}]}`}
	variants, err := newAdapter(client, nil).Generate(context.Background(), Request{Text: "x"})
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, "Unknown", variants[0].Channel)
	assert.Equal(t, []string{}, variants[0].Specs)
}

func TestGenerate_UnmatchedPlatformSpecs(t *testing.T) {
	client := &fakeClient{reply: `{"variants":[{"platform":"Threads","copy":"Hello","spec":["x"]},{"platform":"LinkedIn","copy":"Hi","spec":["y"]}]}`}
	variants, err := newAdapter(client, nil).Generate(context.Background(), Request{Text: "x"})
	require.NoError(t, err)
	require.Len(t, variants, 2)

	assert.Equal(t, "Threads", variants[0].Channel)
	assert.NotNil(t, variants[0].Specs)
	assert.Empty(t, variants[0].Specs)

	assert.Equal(t, catalog.Default().All()[2].FormatSpecs, variants[1].Specs)
}

func TestGenerate_RecoversFromProse(t *testing.T) {
	client := &fakeClient{reply: "Sure! Here is the JSON you asked for:\n{\"variants\":[{\"platform\":\"LinkedIn\",\"copy\":\"Post\",\"rationale\":\"ok\"}]}\nEnjoy."}
	variants, err := newAdapter(client, nil).Generate(context.Background(), Request{Text: "x"})
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, "Post", variants[0].Copy)
}

func TestGenerate_FailOpen(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		err     error
		outcome string
	}{
		{"not json", "I cannot help with that.", nil, "parse_failed"},
		{"broken json", `{"variants": [ {"platform": "LinkedIn", `, nil, "parse_failed"},
		{"variants not a list", `{"variants": "nope"}`, nil, "shape_invalid"},
		{"empty variants", `{"variants": []}`, nil, "shape_invalid"},
		{"json array", `[1, 2, 3]`, nil, "shape_invalid"},
		{"unexpected client error", "", errors.New("boom"), OutcomeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &countingRecorder{}
			a := newAdapter(&fakeClient{reply: tt.reply, err: tt.err}, rec)

			variants, err := a.Generate(context.Background(), Request{Text: "Launch day", Goal: "Leads"})
			require.NoError(t, err)
			require.NotEmpty(t, variants)
			assert.LessOrEqual(t, len(variants), MaxVariants)

			for _, v := range variants {
				assert.Equal(t, "Launch day — optimized for "+v.Channel, v.Copy)
				assert.Equal(t, "Matches "+v.Channel+" norms.", v.Rationale)
			}
			assert.Equal(t, 1, rec.calls["generate/"+tt.outcome])
		})
	}
}

func TestGenerate_UpstreamErrorPropagates(t *testing.T) {
	upstream := &llm.UpstreamError{Provider: llm.ProviderOpenAI, StatusCode: 502, Body: "bad gateway"}
	rec := &countingRecorder{}
	a := newAdapter(&fakeClient{err: upstream}, rec)

	variants, err := a.Generate(context.Background(), Request{Text: "x"})
	assert.Nil(t, variants)

	var got *llm.UpstreamError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 502, got.StatusCode)
	assert.Equal(t, 1, rec.calls["generate/"+OutcomeUpstream])
}

func TestGenerate_BriefSourceAndKnowledge(t *testing.T) {
	client := &fakeClient{reply: "nope"}
	a := newAdapter(client, nil)
	brief := &types.Brief{Product: "Acme Tool", Headline: "Triage in seconds"}

	variants, err := a.Generate(context.Background(), Request{
		Brief:     brief,
		Goal:      "Leads",
		Channels:  []string{"linkedin"},
		KBContext: "SOC 2 certified",
	})
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, "Acme Tool: Triage in seconds — optimized for LinkedIn", variants[0].Copy)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(client.requests[0].User), &sent))
	assert.Equal(t, "Leads", sent["goal"])
	assert.Equal(t, "SOC 2 certified", sent["knowledge_base"])
	assert.Equal(t, []any{"LinkedIn"}, sent["platforms"])
}

func TestFallback_CapsAndClamps(t *testing.T) {
	a := newAdapter(nil, nil)

	variants := a.Fallback(strings.Repeat("word ", 200), []string{"instagram", "youtube", "linkedin", "instagram"})
	require.Len(t, variants, MaxVariants)
	assert.Equal(t, 300, rendering.Length(variants[0].Copy))

	variants = a.Fallback("x", []string{"tiktok", "linkedin"})
	require.Len(t, variants, 1)
	assert.Equal(t, "LinkedIn", variants[0].Channel)
}

func TestParseReply_Kinds(t *testing.T) {
	assert.Equal(t, ParseOK, ParseReply("```json\n{\"variants\":[{\"copy\":\"a\"}]}\n```").Kind)
	assert.Equal(t, ParseFailed, ParseReply("").Kind)
	assert.Equal(t, ShapeInvalid, ParseReply(`{"foo":1}`).Kind)
	assert.Equal(t, "shape_invalid", ShapeInvalid.String())
}
