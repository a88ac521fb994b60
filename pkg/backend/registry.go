package backend

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Registry maps backend names to factories. Registering an existing name
// replaces the previous factory; the latest registration wins.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	logger    *zap.Logger
}

// RegistryOption customises a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used to report registrations.
func WithLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates a registry pre-populated with the core backends.
func NewRegistry(options ...RegistryOption) *Registry {
	r := NewEmptyRegistry(options...)
	r.registerBuiltins()
	return r
}

// NewEmptyRegistry creates a registry without any backend registered.
func NewEmptyRegistry(options ...RegistryOption) *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Register associates name with factory, replacing any previous factory.
func (r *Registry) Register(name string, factory Factory) error {
	key := strings.TrimSpace(name)
	if key == "" {
		return fmt.Errorf("backend: %w: backend name is required", ErrConfiguration)
	}
	if factory == nil {
		return fmt.Errorf("backend: %w: factory for %q is required", ErrConfiguration, key)
	}

	r.mu.Lock()
	_, replaced := r.factories[key]
	r.factories[key] = factory
	r.mu.Unlock()

	if replaced {
		r.logger.Info("backend replaced", zap.String("backend", key))
	} else {
		r.logger.Debug("backend registered", zap.String("backend", key))
	}
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Resolve returns the factory registered under name.
func (r *Registry) Resolve(name string) (Factory, error) {
	key := strings.TrimSpace(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[key]
	if !ok {
		return nil, fmt.Errorf("backend: %w: %q", ErrUnknownBackend, name)
	}
	return factory, nil
}

// Construct resolves name and builds a backend from cfg. The configuration is
// copied before it reaches the factory.
func (r *Registry) Construct(name string, cfg Config) (Backend, error) {
	factory, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	b, err := factory(cfg.Clone())
	if err != nil {
		if errors.Is(err, ErrConfiguration) || errors.Is(err, ErrSampling) {
			return nil, err
		}
		return nil, fmt.Errorf("backend: %s: %w: %w", name, ErrConfiguration, err)
	}
	if b == nil {
		return nil, fmt.Errorf("backend: %s: %w: factory returned nil backend", name, ErrConfiguration)
	}
	return b, nil
}

// Has reports whether a backend is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[strings.TrimSpace(name)]
	return ok
}

// List returns a sorted list of backend names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) registerBuiltins() {
	r.MustRegister(BoundedNumericalName, func(cfg Config) (Backend, error) {
		return NewBoundedNumerical(cfg)
	})
	r.MustRegister(BoundedNumericalDatetimeName, func(cfg Config) (Backend, error) {
		return newBoundedDatetime(BoundedNumericalDatetimeName, cfg)
	})
	r.MustRegister(BoundedDatetimeName, func(cfg Config) (Backend, error) {
		return newBoundedDatetime(BoundedDatetimeName, cfg)
	})
	r.MustRegister(WeightedDiscreteName, func(cfg Config) (Backend, error) {
		return NewWeightedDiscrete(cfg)
	})
	r.MustRegister(LoremIpsumTextName, func(cfg Config) (Backend, error) {
		return NewLoremIpsumText(cfg)
	})
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry, initialised with the core
// backends at start-up.
func Default() *Registry {
	return defaultRegistry
}
