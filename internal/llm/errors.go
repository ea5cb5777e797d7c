package llm

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when a client is requested without credentials.
var ErrNotConfigured = errors.New("llm: provider not configured")

// maxErrorBody bounds the response body kept on an UpstreamError.
const maxErrorBody = 300

// UpstreamError represents a transport failure or non-success response from the model endpoint
type UpstreamError struct {
	Provider   Provider
	StatusCode int
	Body       string
	Cause      error
}

func newUpstreamError(provider Provider, status int, body string, cause error) *UpstreamError {
	if r := []rune(body); len(r) > maxErrorBody {
		body = string(r[:maxErrorBody])
	}
	return &UpstreamError{Provider: provider, StatusCode: status, Body: body, Cause: cause}
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s upstream error: status %d: %s", e.Provider, e.StatusCode, e.Body)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s upstream error: %v", e.Provider, e.Cause)
	}
	return fmt.Sprintf("%s upstream error: %s", e.Provider, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// IsUpstream reports whether err is an UpstreamError.
func IsUpstream(err error) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream)
}
