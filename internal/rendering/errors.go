package rendering

import "fmt"

// RenderError represents a failure to render a variant for a channel
type RenderError struct {
	Channel string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %s: %v", e.Channel, e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s: %s", e.Channel, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
