package orchestrator

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/keboola/go-utils/pkg/orderedmap"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-mockgen/pkg/backend"
	"github.com/goliatone/go-mockgen/pkg/spec"
	"github.com/goliatone/go-mockgen/pkg/tabular"
)

// Dataset is a validated plan: one backend per column, in document order.
// Backends are constructed on first use and reused across generation calls.
// A Dataset is safe for concurrent use.
type Dataset struct {
	registry     *backend.Registry
	logger       *zap.Logger
	seed         uint64
	seeded       bool
	concurrency  int
	transformers []Transformer

	plans []*columnPlan
	index map[string]int
}

type columnPlan struct {
	column  string
	backend string
	factory backend.Factory
	config  backend.Config

	once     sync.Once
	instance backend.Backend
	err      error
}

// LoadSpecification validates doc and resolves every backend name. Each column
// must name exactly one backend whose configuration is a mapping (or empty).
// Unknown backends fail with an error matching both spec.ErrSpecification and
// backend.ErrUnknownBackend.
func LoadSpecification(doc *spec.Document, options ...Option) (*Dataset, error) {
	d := &Dataset{
		registry: backend.Default(),
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}

	if doc == nil {
		return nil, fmt.Errorf("orchestrator: %w: document is nil", spec.ErrSpecification)
	}
	if doc.Len() == 0 {
		return nil, fmt.Errorf("orchestrator: %w: specification has no columns", spec.ErrSpecification)
	}

	if !d.seeded {
		seed, err := randomSeed()
		if err != nil {
			return nil, fmt.Errorf("orchestrator: seed: %w", err)
		}
		d.seed = seed
	}

	d.plans = make([]*columnPlan, 0, doc.Len())
	d.index = make(map[string]int, doc.Len())
	for _, column := range doc.Columns() {
		plan, err := d.plan(column)
		if err != nil {
			return nil, err
		}
		d.index[plan.column] = len(d.plans)
		d.plans = append(d.plans, plan)
	}

	d.logger.Debug("specification loaded",
		zap.Strings("columns", d.Columns()),
		zap.Uint64("seed", d.seed),
		zap.Bool("seeded", d.seeded))
	return d, nil
}

func (d *Dataset) plan(column spec.Column) (*columnPlan, error) {
	names := column.BackendNames()
	if len(names) != 1 {
		return nil, fmt.Errorf("orchestrator: column %q: %w: expected exactly one backend, got %d", column.Name, spec.ErrSpecification, len(names))
	}
	name := names[0]
	raw, _ := column.Backends.Get(name)

	cfg, err := toConfig(raw)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: column %q: %w: backend %s: %v", column.Name, spec.ErrSpecification, name, err)
	}
	factory, err := d.registry.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: column %q: %w: %w", column.Name, spec.ErrSpecification, err)
	}
	return &columnPlan{
		column:  column.Name,
		backend: name,
		factory: factory,
		config:  cfg,
	}, nil
}

func toConfig(raw any) (backend.Config, error) {
	switch v := raw.(type) {
	case nil:
		return backend.Config{}, nil
	case *orderedmap.OrderedMap:
		cfg := make(backend.Config, len(v.Keys()))
		for _, key := range v.Keys() {
			cfg[key], _ = v.Get(key)
		}
		return cfg, nil
	case *spec.LabeledMap:
		if v == nil || v.OrderedMap == nil {
			return nil, fmt.Errorf("configuration must be a mapping, got %T", raw)
		}
		return toConfig(v.OrderedMap)
	case map[string]any:
		return backend.Config(v).Clone(), nil
	case backend.Config:
		return v.Clone(), nil
	default:
		return nil, fmt.Errorf("configuration must be a mapping, got %T", raw)
	}
}

func randomSeed() (uint64, error) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// Columns returns the planned column names in document order.
func (d *Dataset) Columns() []string {
	names := make([]string, len(d.plans))
	for i, plan := range d.plans {
		names[i] = plan.column
	}
	return names
}

// Seed returns the seed column streams are derived from.
func (d *Dataset) Seed() uint64 {
	return d.seed
}

// Backend returns the constructed backend of column, constructing it if
// needed.
func (d *Dataset) Backend(column string) (backend.Backend, error) {
	i, ok := d.index[column]
	if !ok {
		return nil, fmt.Errorf("orchestrator: unknown column %q", column)
	}
	plan := d.plans[i]
	b, err := plan.construct()
	if err != nil {
		return nil, &ColumnError{Column: plan.column, Backend: plan.backend, Err: err}
	}
	return b, nil
}

func (p *columnPlan) construct() (backend.Backend, error) {
	p.once.Do(func() {
		b, err := p.factory(p.config.Clone())
		switch {
		case err != nil:
			if !errors.Is(err, backend.ErrConfiguration) && !errors.Is(err, backend.ErrSampling) {
				err = fmt.Errorf("%w: %w", backend.ErrConfiguration, err)
			}
			p.err = err
		case b == nil:
			p.err = fmt.Errorf("%w: factory returned nil backend", backend.ErrConfiguration)
		default:
			p.instance = b
		}
	})
	return p.instance, p.err
}

// stream returns a fresh source for column, derived from the dataset seed.
func (d *Dataset) stream(column string) rand.Source {
	return rand.NewSource(d.seed ^ xxhash.Sum64String(column))
}

// GenerateMockData samples nrows values for every column and assembles them
// into a table. The first failing column aborts the run.
func (d *Dataset) GenerateMockData(nrows int) (*tabular.Table, error) {
	return d.GenerateMockDataContext(context.Background(), nrows)
}

// GenerateMockDataContext is GenerateMockData with cancellation between
// columns.
func (d *Dataset) GenerateMockDataContext(ctx context.Context, nrows int) (*tabular.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if nrows <= 0 {
		return nil, fmt.Errorf("orchestrator: %w: nrows must be positive, got %d", spec.ErrSpecification, nrows)
	}

	started := time.Now()
	values := make([][]any, len(d.plans))

	if d.concurrency < 2 {
		for i, plan := range d.plans {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			column, err := d.generate(plan, nrows)
			if err != nil {
				return nil, err
			}
			values[i] = column
		}
	} else {
		group, gctx := errgroup.WithContext(ctx)
		group.SetLimit(d.concurrency)
		for i, plan := range d.plans {
			i, plan := i, plan
			group.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				column, err := d.generate(plan, nrows)
				if err != nil {
					return err
				}
				values[i] = column
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}
	}

	columns := make([]tabular.Column, len(d.plans))
	for i, plan := range d.plans {
		columns[i] = tabular.Column{Name: plan.column, Values: values[i]}
	}
	table, err := tabular.New(columns...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: assemble table: %w", err)
	}

	table, err = d.applyTransformers(ctx, table)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("dataset generated",
		zap.Int("rows", nrows),
		zap.Int("columns", len(d.plans)),
		zap.Duration("elapsed", time.Since(started)))
	return table, nil
}

func (d *Dataset) generate(plan *columnPlan, nrows int) ([]any, error) {
	b, err := plan.construct()
	if err != nil {
		return nil, &ColumnError{Column: plan.column, Backend: plan.backend, Err: err}
	}

	values, err := b.Sample(d.stream(plan.column), nrows)
	if err != nil {
		if !errors.Is(err, backend.ErrSampling) && !errors.Is(err, backend.ErrConfiguration) {
			err = fmt.Errorf("%w: %w", backend.ErrSampling, err)
		}
		return nil, &ColumnError{Column: plan.column, Backend: plan.backend, Err: err}
	}
	if len(values) != nrows {
		err := fmt.Errorf("%w: backend returned %d values, expected %d", backend.ErrSampling, len(values), nrows)
		return nil, &ColumnError{Column: plan.column, Backend: plan.backend, Err: err}
	}

	if s, ok := b.(fmt.Stringer); ok {
		d.logger.Debug("column sampled",
			zap.String("column", plan.column),
			zap.Stringer("backend", s),
			zap.Int("rows", nrows))
	}
	return values, nil
}
