package loader_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mockgen/internal/spec/loader"
	"github.com/goliatone/go-mockgen/pkg/spec"
)

const document = `
age:
  BoundedNumerical:
    lower_bound: 18
    upper_bound: 99
name:
  LoremIpsumText: {}
`

func TestLoader_File(t *testing.T) {
	l := loader.New(spec.NewLoaderOptions(), nil)

	doc, err := l.Load(context.Background(), spec.SourceFromFile("../../../pkg/spec/testdata/example_spec.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"age", "employer", "income", "hispanic_or_latino"}
	if diff := cmp.Diff(want, doc.Names()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	if doc.Source().Kind() != spec.SourceKindFile {
		t.Fatalf("unexpected source kind %q", doc.Source().Kind())
	}
}

func TestLoader_MissingFile(t *testing.T) {
	l := loader.New(spec.NewLoaderOptions(), nil)
	if _, err := l.Load(context.Background(), spec.SourceFromFile("testdata/missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoader_FS(t *testing.T) {
	files := fstest.MapFS{
		"specs/people.yaml": {Data: []byte(document)},
	}
	l := loader.New(spec.NewLoaderOptions(spec.WithFileSystem(files)), nil)

	doc, err := l.Load(context.Background(), spec.SourceFromFS("specs/people.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"age", "name"}, doc.Names()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	if doc.Location() != "specs/people.yaml" {
		t.Fatalf("unexpected location %q", doc.Location())
	}
}

func TestLoader_FSWithoutFileSystem(t *testing.T) {
	l := loader.New(spec.NewLoaderOptions(), nil)
	if _, err := l.Load(context.Background(), spec.SourceFromFS("people.yaml")); err == nil {
		t.Fatalf("expected error without fs")
	}
}

func TestLoader_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/spec.yaml" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte(document))
	}))
	defer server.Close()

	l := loader.New(spec.NewLoaderOptions(spec.WithHTTPClient(server.Client())), nil)
	doc, err := l.Load(context.Background(), spec.SourceFromURL(server.URL+"/spec.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Len() != 2 {
		t.Fatalf("expected 2 columns, got %d", doc.Len())
	}

	if _, err := l.Load(context.Background(), spec.SourceFromURL(server.URL+"/other.yaml")); err == nil {
		t.Fatalf("expected error for 404 response")
	}
}

func TestLoader_HTTPRejectsOversizedDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte("a:\n  LoremIpsumText: {}\n"))
		filler := []byte(strings.Repeat("#", 1023) + "\n")
		for i := 0; i < 9<<10; i++ {
			_, _ = w.Write(filler)
		}
		_, _ = w.Write([]byte("b:\n  LoremIpsumText: {}\n"))
	}))
	defer server.Close()

	l := loader.New(spec.NewLoaderOptions(spec.WithHTTPClient(server.Client())), nil)
	doc, err := l.Load(context.Background(), spec.SourceFromURL(server.URL))
	if err == nil {
		t.Fatalf("expected size error, got columns %v", doc.Names())
	}
	if !strings.Contains(err.Error(), "exceeds 8 MiB") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestLoader_HTTPDisabledByDefault(t *testing.T) {
	l := loader.New(spec.NewLoaderOptions(), nil)
	_, err := l.Load(context.Background(), spec.SourceFromURL("https://example.com/spec.yaml"))
	if err == nil {
		t.Fatalf("expected http to be disabled")
	}
}

func TestLoader_HTTPFallbackTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	l := loader.New(spec.NewLoaderOptions(spec.WithHTTPFallback(50*time.Millisecond)), nil)
	if _, err := l.Load(context.Background(), spec.SourceFromURL(server.URL)); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := loader.New(spec.NewLoaderOptions(), nil)
	_, err := l.Load(ctx, spec.SourceFromFile("../../../pkg/spec/testdata/example_spec.yaml"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoader_ParseErrorsAreSpecificationErrors(t *testing.T) {
	files := fstest.MapFS{"bad.yaml": {Data: []byte("- not\n- a mapping\n")}}
	l := loader.New(spec.NewLoaderOptions(spec.WithFileSystem(files)), nil)

	_, err := l.Load(context.Background(), spec.SourceFromFS("bad.yaml"))
	if !errors.Is(err, spec.ErrSpecification) {
		t.Fatalf("expected ErrSpecification, got %v", err)
	}
}

func TestLoader_RemoteCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(document))
	}))
	defer server.Close()

	l := loader.New(spec.NewLoaderOptions(
		spec.WithHTTPClient(server.Client()),
		spec.WithRemoteCache(4),
	), nil)
	for i := 0; i < 3; i++ {
		if _, err := l.Load(context.Background(), spec.SourceFromURL(server.URL+"/spec.yaml")); err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("expected a single request, got %d", got)
	}
}
