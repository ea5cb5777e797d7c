package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/variant-studio/internal/store"
	"github.com/jonathan/variant-studio/internal/types"
)

// ErrBadRequest indicates a body that could not be decoded
type ErrBadRequest struct {
	Message string
	Cause   error
}

func (e *ErrBadRequest) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("bad request: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("bad request: %s", e.Message)
}

func (e *ErrBadRequest) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validation *types.ValidationError
	var bad *ErrBadRequest
	switch {
	case errors.As(err, &validation), errors.As(err, &bad):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// publicError returns the message shown to the client. Internal errors never leak detail.
func publicError(err error) errorBody {
	var validation *types.ValidationError
	var bad *ErrBadRequest
	switch {
	case errors.As(err, &validation):
		return errorBody{Error: "validation failed", Details: validation.Messages()}
	case errors.As(err, &bad):
		return errorBody{Error: bad.Message}
	case errors.Is(err, store.ErrNotFound):
		return errorBody{Error: "not found"}
	default:
		return errorBody{Error: "internal server error"}
	}
}
