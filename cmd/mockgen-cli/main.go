// Command mockgen-cli generates synthetic tabular datasets from YAML or JSON
// specifications and writes them as CSV.
//
//	mockgen-cli generate people.yaml --rows 1000 --seed 42 -o people.csv
//	mockgen-cli generate --example applications.yaml --preview 10
//	mockgen-cli validate people.yaml
//	mockgen-cli backends
//
// Every flag can also be set through a MOCKGEN_ prefixed environment variable
// (MOCKGEN_ROWS, MOCKGEN_SEED, ...) or a config file passed with --config.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCommand(newApp(os.Stdin, os.Stdout, os.Stderr))
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
