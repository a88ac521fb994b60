package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	mockgen "github.com/goliatone/go-mockgen"
	"github.com/goliatone/go-mockgen/pkg/backend"
	"github.com/goliatone/go-mockgen/pkg/orchestrator"
	"github.com/goliatone/go-mockgen/pkg/spec"
	"github.com/goliatone/go-mockgen/pkg/tabular"
)

type app struct {
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	prompt   PromptDriver
	registry *backend.Registry
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		in:       in,
		out:      out,
		errOut:   errOut,
		prompt:   surveyDriver{},
		registry: backend.Default(),
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           path.Base(os.Args[0]),
		Short:         "Generate synthetic tabular datasets from declarative specifications",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.String("config", "", "optional config file (yaml, json or toml) holding flag values")

	root.AddCommand(
		newGenerateCommand(a),
		newValidateCommand(a),
		newBackendsCommand(a),
	)
	return root
}

func addSourceFlags(flags *pflag.FlagSet) {
	flags.String("spec", "", "specification file path or http(s) URL")
	flags.String("example", "", "name of a bundled example specification, e.g. people.yaml")
	flags.Duration("http-timeout", 30*time.Second, "timeout for specifications fetched over HTTP")
}

func newGenerateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [spec]",
		Short: "Sample a dataset and write it as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Spec = args[0]
			}
			return a.generate(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	addSourceFlags(flags)
	flags.IntP("rows", "n", 100, "number of rows to generate")
	flags.Uint64("seed", 0, "seed for reproducible output, random when unset")
	flags.Int("concurrency", 1, "number of columns generated in parallel")
	flags.StringP("output", "o", "", "output file, stdout when empty or -")
	flags.BoolP("force", "f", false, "overwrite the output file if it exists")
	flags.BoolP("interactive", "i", false, "prompt for missing inputs and before overwriting files")
	flags.String("delimiter", ",", "field delimiter, use \\t for tabs")
	flags.Int("float-precision", 2, "decimals written for float values, -1 for shortest")
	flags.String("time-format", tabular.DefaultTimeFormat, "strftime pattern for datetime values")
	flags.Bool("index", false, "prepend a row index column")
	flags.Int("preview", 0, "print the first N rows as a table instead of CSV")
	return cmd
}

func newValidateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [spec]",
		Short: "Check a specification and construct every backend without sampling",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Spec = args[0]
			}
			return a.validate(cmd.Context(), cfg)
		},
	}
	addSourceFlags(cmd.Flags())
	return cmd
}

func newBackendsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List registered backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range a.registry.List() {
				if _, err := fmt.Fprintln(a.out, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) generate(ctx context.Context, cfg *config) error {
	logger, err := newLogger(a.errOut, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Interactive {
		if err := a.promptInputs(ctx, cfg); err != nil {
			return err
		}
	}
	if cfg.Rows <= 0 {
		return fmt.Errorf("rows must be positive, got %d", cfg.Rows)
	}

	ds, err := a.dataset(ctx, cfg, logger)
	if err != nil {
		return err
	}
	table, err := ds.GenerateMockDataContext(ctx, cfg.Rows)
	if err != nil {
		return err
	}

	format := []tabular.FormatOption{
		tabular.WithFloatPrecision(cfg.FloatPrecision),
		tabular.WithTimeFormat(cfg.TimeFormat),
	}
	if cfg.Preview > 0 {
		return tabular.WritePreview(a.out, table.Head(cfg.Preview), format...)
	}

	csvOptions := []tabular.CSVOption{
		tabular.WithFormat(format...),
		tabular.WithDelimiter(cfg.Delimiter),
		tabular.WithIndex(cfg.Index),
	}
	if cfg.Output == "" || cfg.Output == "-" {
		return tabular.WriteCSV(a.out, table, csvOptions...)
	}

	if err := a.checkOverwrite(ctx, cfg); err != nil {
		return err
	}
	file, err := os.Create(cfg.Output)
	if err != nil {
		return err
	}
	if err := tabular.WriteCSV(file, table, csvOptions...); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	logger.Info("dataset written",
		zap.String("path", cfg.Output),
		zap.Int("rows", table.Len()),
		zap.Int("columns", table.Width()),
		zap.Uint64("seed", ds.Seed()))
	return nil
}

func (a *app) validate(ctx context.Context, cfg *config) error {
	logger, err := newLogger(a.errOut, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ds, err := a.dataset(ctx, cfg, logger)
	if err != nil {
		return err
	}
	for _, column := range ds.Columns() {
		b, err := ds.Backend(column)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(a.out, "%s: %s\n", column, describe(b)); err != nil {
			return err
		}
	}
	return nil
}

func describe(b backend.Backend) string {
	if s, ok := b.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", b)
}

func (a *app) dataset(ctx context.Context, cfg *config, logger *zap.Logger) (*orchestrator.Dataset, error) {
	src, err := sourceFor(cfg)
	if err != nil {
		return nil, err
	}
	loader := mockgen.NewLoaderWithLogger(logger,
		spec.WithFileSystem(mockgen.ExampleSpecsFS()),
		spec.WithHTTPFallback(cfg.HTTPTimeout),
	)
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}

	options := []orchestrator.Option{
		orchestrator.WithRegistry(a.registry),
		orchestrator.WithLogger(logger),
		orchestrator.WithConcurrency(cfg.Concurrency),
	}
	if cfg.Seeded {
		options = append(options, orchestrator.WithSeed(cfg.Seed))
	}
	return orchestrator.LoadSpecification(doc, options...)
}

func sourceFor(cfg *config) (src spec.Source, err error) {
	location := strings.TrimSpace(cfg.Spec)
	example := strings.TrimSpace(cfg.Example)
	switch {
	case location != "" && example != "":
		return nil, errors.New("use either a specification path or --example, not both")
	case example != "":
		return spec.SourceFromFS(example), nil
	case location == "":
		return nil, errors.New("a specification path, URL or --example is required")
	case strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://"):
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("invalid specification URL %q: %v", location, r)
			}
		}()
		return spec.SourceFromURL(location), nil
	default:
		return spec.SourceFromFile(location), nil
	}
}

func (a *app) promptInputs(ctx context.Context, cfg *config) error {
	if strings.TrimSpace(cfg.Spec) == "" && strings.TrimSpace(cfg.Example) == "" {
		answer, err := a.prompt.Input(ctx, InputConfig{
			Message: "Specification file or URL",
			Help:    "YAML or JSON document mapping each column to one backend",
			Validator: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("a specification is required")
				}
				return nil
			},
		})
		if err != nil {
			return err
		}
		cfg.Spec = answer
	}

	answer, err := a.prompt.Input(ctx, InputConfig{
		Message:   "Number of rows",
		Default:   strconv.Itoa(cfg.Rows),
		Validator: validateRows,
	})
	if err != nil {
		return err
	}
	if err := validateRows(answer); err != nil {
		return err
	}
	cfg.Rows, _ = strconv.Atoi(strings.TrimSpace(answer))
	return nil
}

func validateRows(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("rows must be a positive integer, got %q", s)
	}
	return nil
}

func (a *app) checkOverwrite(ctx context.Context, cfg *config) error {
	if cfg.Force {
		return nil
	}
	if _, err := os.Stat(cfg.Output); errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	if !cfg.Interactive {
		return fmt.Errorf("%s already exists, use --force to overwrite", cfg.Output)
	}
	ok, err := a.prompt.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("%s already exists. Overwrite?", cfg.Output),
	})
	if err != nil {
		return err
	}
	if !ok {
		return errAborted
	}
	return nil
}
