package orchestrator

import (
	"context"
	"fmt"

	"github.com/goliatone/go-mockgen/pkg/tabular"
)

// Transformer rewrites a generated table before it is returned, e.g. to
// derive columns from sampled ones. Implementations must not mutate the input.
type Transformer interface {
	Transform(ctx context.Context, table *tabular.Table) (*tabular.Table, error)
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, table *tabular.Table) (*tabular.Table, error)

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, table *tabular.Table) (*tabular.Table, error) {
	if fn == nil {
		return table, nil
	}
	return fn(ctx, table)
}

func (d *Dataset) applyTransformers(ctx context.Context, table *tabular.Table) (*tabular.Table, error) {
	for i, t := range d.transformers {
		out, err := t.Transform(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: transformer %d: %w", i, err)
		}
		if out == nil {
			return nil, fmt.Errorf("orchestrator: transformer %d returned no table", i)
		}
		table = out
	}
	return table, nil
}
