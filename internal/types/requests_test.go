package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func known(keys ...string) func(string) bool {
	return func(k string) bool {
		for _, key := range keys {
			if key == k {
				return true
			}
		}
		return false
	}
}

func TestGenerateRequest_Validate(t *testing.T) {
	tests := []struct {
		name       string
		req        GenerateRequest
		wantIssues []string
	}{
		{
			name: "minimal",
			req:  GenerateRequest{Brief: Brief{Product: "Acme"}},
		},
		{
			name: "known channels",
			req:  GenerateRequest{Brief: Brief{Product: "Acme"}, Channels: []string{"linkedin", "instagram"}},
		},
		{
			name:       "blank product",
			req:        GenerateRequest{Brief: Brief{Product: "   "}},
			wantIssues: []string{"product required"},
		},
		{
			name:       "unknown and empty channels",
			req:        GenerateRequest{Brief: Brief{Product: "Acme"}, Channels: []string{"tiktok", ""}},
			wantIssues: []string{"channels[1] required", `unknown channel "tiktok"`},
		},
		{
			name:       "empty channel list",
			req:        GenerateRequest{Brief: Brief{}, Channels: []string{}},
			wantIssues: []string{"product required", "channels must contain at least 1 item(s)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(known("linkedin", "instagram", "youtube"))
			if len(tt.wantIssues) == 0 {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.ElementsMatch(t, tt.wantIssues, verr.Messages())
		})
	}
}

func TestGenerateRequest_ValidateNormalizes(t *testing.T) {
	req := GenerateRequest{
		Brief: Brief{Product: "  Acme  ", Headline: " Ship faster\n", Audience: "\tops "},
		Goal:  " Leads ",
	}
	require.NoError(t, req.Validate(nil))

	assert.Equal(t, "Acme", req.Product)
	assert.Equal(t, "Ship faster", req.Headline)
	assert.Equal(t, "ops", req.Audience)
	assert.Equal(t, "Leads", req.Goal)
}

func TestTextRequest_Validate(t *testing.T) {
	req := TextRequest{Text: "  launch day  ", Goal: " CTR"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "launch day", req.Text)
	assert.Equal(t, "CTR", req.Goal)

	err := (&TextRequest{Text: " \n "}).Validate()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"text required"}, verr.Messages())
}

func TestPolishRequest_Validate(t *testing.T) {
	valid := PolishRequest{
		Context:  PolishContext{Product: "Acme"},
		Variants: []PolishVariant{{Channel: "LinkedIn", Copy: "Hello"}},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		req  PolishRequest
		want string
	}{
		{"no variants", PolishRequest{Context: PolishContext{Product: "Acme"}}, "variants required"},
		{"missing product", PolishRequest{Variants: valid.Variants}, "context.product required"},
		{"missing channel", PolishRequest{Context: valid.Context, Variants: []PolishVariant{{Copy: "x"}}}, "variants[0].channel required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *ValidationError
			require.True(t, errors.As(tt.req.Validate(), &verr))
			assert.Contains(t, verr.Messages(), tt.want)
		})
	}
}

func TestExportRequest_Validate(t *testing.T) {
	assert.NoError(t, (&ExportRequest{Variants: []ExportVariant{{Channel: "LinkedIn", Content: "Hi"}}}).Validate())

	var verr *ValidationError
	require.True(t, errors.As((&ExportRequest{Variants: []ExportVariant{}}).Validate(), &verr))
	assert.Equal(t, []string{"variants must contain at least 1 item(s)"}, verr.Messages())
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Issues: []FieldIssue{
		{Field: "product", Message: "product required"},
		{Field: "channels[0]", Message: `unknown channel "x"`},
	}}
	assert.Equal(t, `validation failed: product required, unknown channel "x"`, err.Error())
}

func TestChannelRule_TemplateFamily(t *testing.T) {
	assert.Equal(t, "instagram", ChannelRule{Key: "instagram"}.TemplateFamily())
	assert.Equal(t, "generic", ChannelRule{Key: "x", Family: "generic"}.TemplateFamily())
}
