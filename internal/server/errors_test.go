package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/variant-studio/internal/store"
	"github.com/jonathan/variant-studio/internal/types"
)

func TestHTTPStatus(t *testing.T) {
	validation := &types.ValidationError{Issues: []types.FieldIssue{{Field: "product", Message: "product required"}}}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", validation, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("generate: %w", validation), http.StatusBadRequest},
		{"bad request", &ErrBadRequest{Message: "invalid JSON body"}, http.StatusBadRequest},
		{"not found", store.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", store.ErrNotFound), http.StatusNotFound},
		{"internal", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicError_HidesInternalDetail(t *testing.T) {
	body := publicError(errors.New("open /var/secret: permission denied"))
	assert.Equal(t, "internal server error", body.Error)
	assert.Empty(t, body.Details)

	body = publicError(&types.ValidationError{Issues: []types.FieldIssue{
		{Field: "product", Message: "product required"},
		{Field: "channels[0]", Message: `unknown channel "x"`},
	}})
	assert.Equal(t, "validation failed", body.Error)
	assert.Equal(t, []string{"product required", `unknown channel "x"`}, body.Details)
}

func TestErrBadRequest(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := &ErrBadRequest{Message: "invalid JSON body", Cause: cause}

	assert.Equal(t, "bad request: invalid JSON body: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "bad request: missing", (&ErrBadRequest{Message: "missing"}).Error())
}
