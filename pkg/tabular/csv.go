package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVOption customises WriteCSV.
type CSVOption func(*csvConfig)

type csvConfig struct {
	format    []FormatOption
	delimiter rune
	header    bool
	index     bool
}

// WithFormat passes cell formatting options to the writer.
func WithFormat(options ...FormatOption) CSVOption {
	return func(c *csvConfig) {
		c.format = append(c.format, options...)
	}
}

// WithDelimiter sets the field delimiter, a comma by default.
func WithDelimiter(delimiter rune) CSVOption {
	return func(c *csvConfig) {
		c.delimiter = delimiter
	}
}

// WithHeader toggles the header row, written by default.
func WithHeader(enabled bool) CSVOption {
	return func(c *csvConfig) {
		c.header = enabled
	}
}

// WithIndex prepends a zero based row index column with an empty header.
func WithIndex(enabled bool) CSVOption {
	return func(c *csvConfig) {
		c.index = enabled
	}
}

// WriteCSV writes the table as delimited text.
func WriteCSV(w io.Writer, t *Table, options ...CSVOption) error {
	cfg := csvConfig{delimiter: ',', header: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	formatter, err := NewFormatter(cfg.format...)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	writer.Comma = cfg.delimiter

	if cfg.header {
		header := t.Columns()
		if cfg.index {
			header = append([]string{""}, header...)
		}
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("tabular: write header: %w", err)
		}
	}
	for i, record := range formatter.records(t) {
		if cfg.index {
			record = append([]string{fmt.Sprint(i)}, record...)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("tabular: write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("tabular: flush: %w", err)
	}
	return nil
}
