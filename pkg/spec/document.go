package spec

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/keboola/go-utils/pkg/orderedmap"
)

// ErrSpecification marks malformed specification documents.
var ErrSpecification = errors.New("specification error")

// Column binds an output column to its backend entries. A well formed column
// has exactly one entry mapping the backend name to its configuration; the
// check is left to the consumer so the document round-trips whatever was
// written.
type Column struct {
	Name     string
	Backends *orderedmap.OrderedMap
}

// BackendNames lists the backend keys of the column in document order.
func (c Column) BackendNames() []string {
	if c.Backends == nil {
		return nil
	}
	return append([]string(nil), c.Backends.Keys()...)
}

// Document is an ordered specification.
type Document struct {
	source  Source
	columns []Column
}

// New builds a document from columns, rejecting empty and duplicate names.
func New(columns ...Column) (*Document, error) {
	return newDocument(nil, columns)
}

func newDocument(src Source, columns []Column) (*Document, error) {
	seen := make(map[string]struct{}, len(columns))
	out := make([]Column, len(columns))
	for i, column := range columns {
		name := strings.TrimSpace(column.Name)
		if name == "" {
			return nil, specErrorf(src, "column %d has an empty name", i)
		}
		if _, dup := seen[name]; dup {
			return nil, specErrorf(src, "duplicate column %q", name)
		}
		seen[name] = struct{}{}
		backends := column.Backends
		if backends == nil {
			backends = orderedmap.New()
		}
		out[i] = Column{Name: name, Backends: backends}
	}
	return &Document{source: src, columns: out}, nil
}

// FromMap builds a document from a plain map. Go maps carry no order, so
// columns are sorted by name. Column values must be mappings of backend name
// to configuration.
func FromMap(raw map[string]any) (*Document, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	columns := make([]Column, 0, len(names))
	for _, name := range names {
		backends, err := toOrdered(raw[name])
		if err != nil {
			return nil, specErrorf(nil, "column %q: %v", name, err)
		}
		columns = append(columns, Column{Name: name, Backends: backends})
	}
	return New(columns...)
}

func toOrdered(value any) (*orderedmap.OrderedMap, error) {
	if m, ok := asOrdered(value); ok {
		return m, nil
	}
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := orderedmap.New()
		for _, k := range keys {
			out.Set(k, v[k])
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a mapping of backend name to configuration, got %T", value)
	}
}

// Source reports where the document was loaded from, nil when built in
// memory.
func (d *Document) Source() Source {
	return d.source
}

// Location returns the origin of the document, or an empty string.
func (d *Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Columns returns the columns in document order.
func (d *Document) Columns() []Column {
	return append([]Column(nil), d.columns...)
}

// Names returns the column names in document order.
func (d *Document) Names() []string {
	names := make([]string, len(d.columns))
	for i, column := range d.columns {
		names[i] = column.Name
	}
	return names
}

// Len returns the number of columns.
func (d *Document) Len() int {
	return len(d.columns)
}

func specErrorf(src Source, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if src != nil {
		return fmt.Errorf("spec: %s: %w: %s", src.Location(), ErrSpecification, msg)
	}
	return fmt.Errorf("spec: %w: %s", ErrSpecification, msg)
}
