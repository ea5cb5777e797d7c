package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// GenerateRequest is the brief-based generation request.
type GenerateRequest struct {
	Brief
	Channels []string `json:"channels,omitempty" validate:"omitempty,min=1,dive,required"`
	Goal     string   `json:"goal,omitempty"`
	Export   bool     `json:"export,omitempty"`
}

// GenerateResponse is returned by brief-based generation.
type GenerateResponse struct {
	RequestID   string    `json:"request_id"`
	Variants    []Variant `json:"variants"`
	ABPlan      ABPlan    `json:"abplan"`
	AIAvailable bool      `json:"aiAvailable"`
	CSVURL      string    `json:"csv_url,omitempty"`
	ShareURL    string    `json:"share_url,omitempty"`
	Version     string    `json:"version"`
}

// TextRequest asks for variants from a single block of source text.
type TextRequest struct {
	Text string `json:"text" validate:"required"`
	Goal string `json:"goal,omitempty"`
}

// TextResponse is returned by text-based generation.
type TextResponse struct {
	RequestID string    `json:"request_id"`
	Variants  []Variant `json:"variants"`
	CSVURL    string    `json:"csv_url,omitempty"`
	ShareURL  string    `json:"share_url,omitempty"`
	Version   string    `json:"version"`
	Mock      bool      `json:"mock"`
}

// PolishContext carries the campaign context for a polish pass.
type PolishContext struct {
	Product       string `json:"product" validate:"required"`
	Audience      string `json:"audience,omitempty"`
	Goal          string `json:"goal,omitempty"`
	PolishOnlyOne bool   `json:"polishOnlyOne,omitempty"`
}

// PolishVariant is one variant submitted for polishing.
type PolishVariant struct {
	Channel string   `json:"channel" validate:"required"`
	Copy    string   `json:"copy"`
	Specs   []string `json:"specs"`
}

// PolishRequest asks for a best-effort refinement of already generated variants.
type PolishRequest struct {
	Context  PolishContext   `json:"context"`
	Variants []PolishVariant `json:"variants" validate:"required,min=1,dive"`
	Feedback string          `json:"feedback,omitempty"`
}

// PolishResponse holds the polished variants, or nil with a message when AI is unavailable.
type PolishResponse struct {
	Polished []PolishVariant `json:"polished"`
	Message  string          `json:"message,omitempty"`
}

// ExportVariant is one row submitted to the export endpoint.
type ExportVariant struct {
	Channel   string `json:"channel" validate:"required"`
	Content   string `json:"content"`
	Reasoning string `json:"reasoning,omitempty"`
}

// ExportRequest asks for a CSV export of variants.
type ExportRequest struct {
	Variants        []ExportVariant `json:"variants" validate:"required,min=1,dive"`
	OriginalContent string          `json:"originalContent,omitempty"`
	Goal            string          `json:"goal,omitempty"`
}

// ExportResponse describes a written export file.
type ExportResponse struct {
	Success     bool   `json:"success"`
	DownloadURL string `json:"downloadUrl"`
	Filename    string `json:"filename"`
	ExportID    string `json:"exportId"`
}

// FieldIssue is a single violated constraint.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every constraint a request violated.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.Message
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

// Messages returns the human-readable message of each issue.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.Message
	}
	return msgs
}

// Normalize trims surrounding whitespace from every brief field.
func (b *Brief) Normalize() {
	b.Product = strings.TrimSpace(b.Product)
	b.Headline = strings.TrimSpace(b.Headline)
	b.Body = strings.TrimSpace(b.Body)
	b.CTA = strings.TrimSpace(b.CTA)
	b.Audience = strings.TrimSpace(b.Audience)
	b.Proof = strings.TrimSpace(b.Proof)
}

// Validate validates the GenerateRequest. knownChannel reports whether a channel key exists.
func (r *GenerateRequest) Validate(knownChannel func(string) bool) error {
	r.Brief.Normalize()
	r.Goal = strings.TrimSpace(r.Goal)

	issues := structIssues(r)
	for i, ch := range r.Channels {
		if ch != "" && knownChannel != nil && !knownChannel(ch) {
			issues = append(issues, FieldIssue{
				Field:   fmt.Sprintf("channels[%d]", i),
				Message: fmt.Sprintf("unknown channel %q", ch),
			})
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// Validate validates the TextRequest.
func (r *TextRequest) Validate() error {
	r.Text = strings.TrimSpace(r.Text)
	r.Goal = strings.TrimSpace(r.Goal)
	if issues := structIssues(r); len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// Validate validates the PolishRequest.
func (r *PolishRequest) Validate() error {
	if issues := structIssues(r); len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// Validate validates the ExportRequest.
func (r *ExportRequest) Validate() error {
	if issues := structIssues(r); len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

var validate = validator.New()

// structIssues runs the struct validator and converts its failures into FieldIssues.
func structIssues(s any) []FieldIssue {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldIssue{{Field: "(root)", Message: err.Error()}}
	}

	issues := make([]FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, FieldIssue{
			Field:   fieldPath(fe),
			Message: issueMessage(fe),
		})
	}
	return issues
}

// fieldPath turns "GenerateRequest.Brief.Product" into "product".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	parts := strings.Split(ns, ".")
	kept := make([]string, 0, len(parts))
	for i, p := range parts {
		if i == 0 || p == "Brief" {
			continue
		}
		kept = append(kept, lowerFirst(p))
	}
	if len(kept) == 0 {
		return lowerFirst(fe.Field())
	}
	return strings.Join(kept, ".")
}

func issueMessage(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return field + " required"
	case "min":
		return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s check", field, fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	switch s {
	case "CTA":
		return "cta"
	}
	return strings.ToLower(s[:1]) + s[1:]
}
