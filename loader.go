package mockgen

import (
	"context"

	"go.uber.org/zap"

	internalLoader "github.com/goliatone/go-mockgen/internal/spec/loader"
	"github.com/goliatone/go-mockgen/pkg/spec"
)

// NewLoader constructs a specification loader while keeping the concrete type
// hidden from consumers.
func NewLoader(options ...spec.LoaderOption) spec.Loader {
	return internalLoader.New(spec.NewLoaderOptions(options...), nil)
}

// NewLoaderWithLogger is NewLoader with debug traces sent to logger.
func NewLoaderWithLogger(logger *zap.Logger, options ...spec.LoaderOption) spec.Loader {
	return internalLoader.New(spec.NewLoaderOptions(options...), logger)
}

// ReadSpec loads and parses the specification at src. Files are read from
// disk, SourceFromFS names resolve against the bundled examples unless a
// file system is supplied through options.
func ReadSpec(ctx context.Context, src spec.Source, options ...spec.LoaderOption) (*spec.Document, error) {
	opts := append([]spec.LoaderOption{spec.WithFileSystem(ExampleSpecsFS())}, options...)
	return NewLoader(opts...).Load(ctx, src)
}
