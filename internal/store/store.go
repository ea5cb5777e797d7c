// Package store keeps generation results addressable by request id for the share page.
package store

import (
	"context"
	"errors"

	"github.com/jonathan/variant-studio/internal/types"
)

// ErrNotFound is returned when no live result exists for an id.
var ErrNotFound = errors.New("result not found")

// ResultStore persists generation results. Implementations are safe for concurrent use.
type ResultStore interface {
	Save(ctx context.Context, result types.GenerationResult) error
	Get(ctx context.Context, id string) (types.GenerationResult, error)
	Close() error
}

func cloneResult(r types.GenerationResult) types.GenerationResult {
	if r.Variants != nil {
		variants := make([]types.Variant, len(r.Variants))
		for i, v := range r.Variants {
			v.Specs = append([]string(nil), v.Specs...)
			variants[i] = v
		}
		r.Variants = variants
	}
	if r.ABPlan != nil {
		plan := *r.ABPlan
		r.ABPlan = &plan
	}
	return r
}
