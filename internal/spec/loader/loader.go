package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/goburrow/cache"
	"go.uber.org/zap"

	"github.com/goliatone/go-mockgen/pkg/spec"
)

// Loader implements spec.Loader by delegating to file, fs.FS, or HTTP
// strategies and parsing the payload.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
	logger    *zap.Logger
	remote    cache.Cache
}

var _ spec.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options spec.LoaderOptions, logger *zap.Logger) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
		logger:    logger,
	}
	if options.RemoteCacheSize > 0 {
		l.remote = cache.New(cache.WithMaximumSize(options.RemoteCacheSize))
	}
	return l
}

// Load fetches a document from src and parses it.
func (l *Loader) Load(ctx context.Context, src spec.Source) (*spec.Document, error) {
	if src == nil {
		return nil, errors.New("spec loader: source is nil")
	}
	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case spec.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case spec.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case spec.SourceKindURL:
		if !l.allowHTTP {
			return nil, errors.New("spec loader: http support disabled")
		}
		data, err = l.loadRemote(ctx, src.Location())
	default:
		err = fmt.Errorf("spec loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return nil, fmt.Errorf("spec loader: %s: %w", src.Location(), err)
	}

	l.logger.Debug("specification loaded",
		zap.String("kind", string(src.Kind())),
		zap.String("location", src.Location()),
		zap.Int("bytes", len(data)))

	return spec.ParseFrom(src, data)
}

func (l *Loader) loadRemote(ctx context.Context, url string) ([]byte, error) {
	if l.remote != nil {
		if cached, ok := l.remote.GetIfPresent(url); ok {
			l.logger.Debug("specification served from cache", zap.String("location", url))
			return cached.([]byte), nil
		}
	}
	data, err := loadHTTP(ctx, l.http, url, l.timeout)
	if err != nil {
		return nil, err
	}
	if l.remote != nil {
		l.remote.Put(url, data)
	}
	return data, nil
}
