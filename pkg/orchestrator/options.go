package orchestrator

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-mockgen/pkg/backend"
)

// Option customises a Dataset.
type Option func(*Dataset)

// WithRegistry resolves backends from registry instead of backend.Default().
func WithRegistry(registry *backend.Registry) Option {
	return func(d *Dataset) {
		if registry != nil {
			d.registry = registry
		}
	}
}

// WithSeed fixes the dataset seed. Without it a seed is drawn once from the
// operating system when the specification is loaded.
func WithSeed(seed uint64) Option {
	return func(d *Dataset) {
		d.seed = seed
		d.seeded = true
	}
}

// WithLogger sets the logger used for debug traces.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dataset) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithConcurrency generates up to n columns in parallel. Values below 2 keep
// generation sequential.
func WithConcurrency(n int) Option {
	return func(d *Dataset) {
		d.concurrency = n
	}
}

// WithTransformers registers transformers that run, in order, on every
// generated table.
func WithTransformers(transformers ...Transformer) Option {
	return func(d *Dataset) {
		for _, t := range transformers {
			if t != nil {
				d.transformers = append(d.transformers, t)
			}
		}
	}
}
