package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	mockgen "github.com/goliatone/go-mockgen"
	"github.com/goliatone/go-mockgen/pkg/orchestrator"
	"github.com/goliatone/go-mockgen/pkg/spec"
	"github.com/goliatone/go-mockgen/pkg/tabular"
)

type snapshot struct {
	Spec    string     `json:"spec"`
	Seed    uint64     `json:"seed"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// snapshotWriter records the formatted table as JSON and passes it through.
type snapshotWriter struct {
	path string
	spec string
	seed uint64
}

func (w *snapshotWriter) Transform(_ context.Context, table *tabular.Table) (*tabular.Table, error) {
	records, err := table.Records()
	if err != nil {
		return nil, err
	}
	payload, err := json.MarshalIndent(snapshot{
		Spec:    w.spec,
		Seed:    w.seed,
		Columns: table.Columns(),
		Rows:    records,
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(w.path, payload, 0o644); err != nil {
		return nil, err
	}
	return table, nil
}

func main() {
	var (
		specName   = flag.String("spec", "people.yaml", "bundled example specification")
		rows       = flag.Int("rows", 10, "rows to snapshot")
		seed       = flag.Uint64("seed", 42, "sampling seed")
		outputPath = flag.String("output", "testdata/snapshot.json", "output path for the JSON snapshot")
	)
	flag.Parse()

	writer := &snapshotWriter{path: *outputPath, spec: *specName, seed: *seed}
	_, err := mockgen.Generate(context.Background(), spec.SourceFromFS(*specName), *rows,
		orchestrator.WithSeed(*seed),
		orchestrator.WithTransformers(writer),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to snapshot %s: %v\n", *specName, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *outputPath)
}
