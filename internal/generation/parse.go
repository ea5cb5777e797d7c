package generation

import (
	"encoding/json"

	"github.com/jonathan/variant-studio/internal/llm"
	"github.com/jonathan/variant-studio/internal/schemas"
)

// ParseKind tags the outcome of parsing a model reply.
type ParseKind int

const (
	// ParseOK means the reply decoded into a payload with at least one variant.
	ParseOK ParseKind = iota
	// ParseFailed means neither the reply nor its recovered {...} span is JSON.
	ParseFailed
	// ShapeInvalid means the reply is JSON but not the {"variants":[...]} shape.
	ShapeInvalid
)

func (k ParseKind) String() string {
	switch k {
	case ParseOK:
		return "ok"
	case ParseFailed:
		return "parse_failed"
	case ShapeInvalid:
		return "shape_invalid"
	default:
		return "unknown"
	}
}

// RawVariant is one element of the model's variants array, before any clamping.
type RawVariant struct {
	Platform  string          `json:"platform"`
	Copy      string          `json:"copy"`
	Spec      json.RawMessage `json:"spec,omitempty"`
	Rationale string          `json:"rationale"`
}

// Payload is the decoded model reply.
type Payload struct {
	Variants []RawVariant `json:"variants"`
}

// ParseResult is the tagged outcome of ParseReply. Payload is set only for ParseOK.
type ParseResult struct {
	Kind    ParseKind
	Payload Payload
	Err     error
}

// ParseReply decodes a model reply. It tries the reply as-is (after removing markdown
// fences), then the span between the first '{' and the last '}'.
func ParseReply(raw string) ParseResult {
	candidate := llm.CleanJSONBlock(raw)
	if !json.Valid([]byte(candidate)) {
		recovered, ok := llm.RecoverJSONObject(candidate)
		if !ok || !json.Valid([]byte(recovered)) {
			return ParseResult{Kind: ParseFailed, Err: &MalformedResponseError{Message: "reply is not JSON", Raw: raw}}
		}
		candidate = recovered
	}

	if err := schemas.ValidateVariantPayload(candidate); err != nil {
		return ParseResult{Kind: ShapeInvalid, Err: &MalformedResponseError{Message: "reply has the wrong shape", Raw: raw, Cause: err}}
	}

	var payload Payload
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return ParseResult{Kind: ShapeInvalid, Err: &MalformedResponseError{Message: "reply could not be decoded", Raw: raw, Cause: err}}
	}

	return ParseResult{Kind: ParseOK, Payload: payload}
}
