package generation

import "fmt"

// maxLoggedReply bounds how much of a bad reply is kept for logging.
const maxLoggedReply = 300

// MalformedResponseError describes a model reply that could not be used.
// It is logged and counted, never returned to callers of Generate.
type MalformedResponseError struct {
	Message string
	Raw     string
	Cause   error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed model response: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed model response: %s", e.Message)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// Snippet returns the start of the raw reply for logging.
func (e *MalformedResponseError) Snippet() string {
	r := []rune(e.Raw)
	if len(r) > maxLoggedReply {
		return string(r[:maxLoggedReply])
	}
	return e.Raw
}
