package backend

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"
)

var (
	// ErrConfiguration marks malformed or contradictory backend options.
	ErrConfiguration = errors.New("configuration error")
	// ErrUnknownBackend marks a backend name missing from the registry.
	ErrUnknownBackend = errors.New("unknown backend")
	// ErrSampling marks numerical failures while drawing values.
	ErrSampling = errors.New("sampling error")

	errNilSource = errors.New("random source is required")
)

// Backend produces sample values honouring its configuration. Sample must
// return exactly n values or an error, never a partial result, and must draw
// randomness only from src.
type Backend interface {
	Sample(src rand.Source, n int) ([]any, error)
}

// Factory constructs a Backend from its configuration. Factories validate the
// configuration and fail with ErrConfiguration when it is unusable.
type Factory func(cfg Config) (Backend, error)

// Config holds backend options keyed by option name. Nested mappings decoded
// from specification documents keep their order as *orderedmap.OrderedMap.
type Config map[string]any

// Clone returns a shallow copy so callers cannot mutate options after
// construction.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

func configError(backend string, err error) error {
	return fmt.Errorf("backend: %s: %w: %w", backend, ErrConfiguration, err)
}

func configErrorf(backend, format string, args ...any) error {
	return fmt.Errorf("backend: %s: %w: %s", backend, ErrConfiguration, fmt.Sprintf(format, args...))
}

func samplingError(backend string, err error) error {
	return fmt.Errorf("backend: %s: %w: %w", backend, ErrSampling, err)
}

func checkSize(backend string, n int) error {
	if n < 0 {
		return samplingError(backend, fmt.Errorf("sample size must not be negative, got %d", n))
	}
	return nil
}
