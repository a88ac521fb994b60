package tabular

import (
	"fmt"
	"strconv"
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/spf13/cast"
)

// DefaultTimeFormat renders timestamps the way spreadsheet tools import them.
const DefaultTimeFormat = "%Y-%m-%d %H:%M:%S"

// Formatter converts cell values into text.
type Formatter struct {
	precision  int
	timeFormat string
	timeLayout *strftime.Strftime
	location   *time.Location
}

// FormatOption customises a Formatter.
type FormatOption func(*Formatter)

// WithFloatPrecision fixes the number of decimals of float cells. A negative
// precision uses the shortest representation.
func WithFloatPrecision(precision int) FormatOption {
	return func(f *Formatter) {
		f.precision = precision
	}
}

// WithTimeFormat sets the strftime pattern used for time cells.
func WithTimeFormat(pattern string) FormatOption {
	return func(f *Formatter) {
		if pattern != "" {
			f.timeFormat = pattern
		}
	}
}

// WithLocation converts time cells into loc before formatting.
func WithLocation(loc *time.Location) FormatOption {
	return func(f *Formatter) {
		if loc != nil {
			f.location = loc
		}
	}
}

// NewFormatter compiles the options. An invalid strftime pattern is an error.
func NewFormatter(options ...FormatOption) (*Formatter, error) {
	f := &Formatter{
		precision:  -1,
		timeFormat: DefaultTimeFormat,
		location:   time.UTC,
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	layout, err := strftime.New(f.timeFormat)
	if err != nil {
		return nil, fmt.Errorf("tabular: time format %q is invalid: %w", f.timeFormat, err)
	}
	f.timeLayout = layout
	return f, nil
}

// Format renders a single cell.
func (f *Formatter) Format(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', f.precision, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', f.precision, 32)
	case time.Time:
		return f.timeLayout.FormatString(v.In(f.location))
	case *time.Time:
		if v == nil {
			return ""
		}
		return f.timeLayout.FormatString(v.In(f.location))
	case fmt.Stringer:
		return v.String()
	}
	if s, err := cast.ToStringE(value); err == nil {
		return s
	}
	return fmt.Sprint(value)
}

func (f *Formatter) records(t *Table) [][]string {
	out := make([][]string, t.Len())
	for i := range out {
		row := make([]string, t.Width())
		for j, column := range t.columns {
			row[j] = f.Format(column.Values[i])
		}
		out[i] = row
	}
	return out
}
