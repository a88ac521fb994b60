package mockgen

import (
	"context"
	"embed"
	"io/fs"

	"github.com/goliatone/go-mockgen/pkg/backend"
	"github.com/goliatone/go-mockgen/pkg/orchestrator"
	"github.com/goliatone/go-mockgen/pkg/spec"
	"github.com/goliatone/go-mockgen/pkg/tabular"
)

// Backend aliases backend.Backend so callers implementing custom backends can
// depend on the root package alone.
type Backend = backend.Backend

// Factory aliases backend.Factory.
type Factory = backend.Factory

// Config aliases backend.Config.
type Config = backend.Config

// Dataset aliases orchestrator.Dataset.
type Dataset = orchestrator.Dataset

// Table aliases tabular.Table.
type Table = tabular.Table

// RegisterBackend makes factory available under name to every specification
// loaded against the default registry. Registering an existing name replaces
// it.
func RegisterBackend(name string, factory Factory) error {
	return backend.Default().Register(name, factory)
}

// LoadSpecification validates doc and plans one backend per column.
func LoadSpecification(doc *spec.Document, options ...orchestrator.Option) (*Dataset, error) {
	return orchestrator.LoadSpecification(doc, options...)
}

// Generate reads the specification at src and samples nrows rows from it.
func Generate(ctx context.Context, src spec.Source, nrows int, options ...orchestrator.Option) (*Table, error) {
	doc, err := ReadSpec(ctx, src)
	if err != nil {
		return nil, err
	}
	ds, err := orchestrator.LoadSpecification(doc, options...)
	if err != nil {
		return nil, err
	}
	return ds.GenerateMockDataContext(ctx, nrows)
}

//go:embed specs/*.yaml
var embeddedSpecs embed.FS

// ExampleSpecsFS exposes the bundled example specifications (people.yaml,
// applications.yaml) for use with spec.SourceFromFS.
func ExampleSpecsFS() fs.FS {
	sub, err := fs.Sub(embeddedSpecs, "specs")
	if err != nil {
		return embeddedSpecs
	}
	return sub
}
