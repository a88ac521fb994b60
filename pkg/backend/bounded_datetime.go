package backend

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/relvacode/iso8601"
	"github.com/spf13/cast"
	"golang.org/x/exp/rand"

	"github.com/goliatone/go-mockgen/pkg/distribution"
)

// Registry names of the datetime backend. BoundedDatetime is kept as an alias
// for specification documents written against the earlier name.
const (
	BoundedNumericalDatetimeName = "BoundedNumericalDatetime"
	BoundedDatetimeName          = "BoundedDatetime"
)

var datetimeAliases = map[string]string{
	"lower_bound": "min_datetime",
	"start":       "min_datetime",
	"upper_bound": "max_datetime",
	"end":         "max_datetime",
}

type datetimeOptions struct {
	MinDatetime  any            `mapstructure:"min_datetime" validate:"required"`
	MaxDatetime  any            `mapstructure:"max_datetime" validate:"required"`
	Layout       string         `mapstructure:"layout"`
	Distribution string         `mapstructure:"distribution" validate:"required"`
	Clip         bool           `mapstructure:"clip"`
	Params       map[string]any `mapstructure:",remain"`
}

// BoundedDatetime samples timestamps between a start and an end instant. The
// scalar draw and its bound transform are delegated to a BoundedNumerical over
// unix seconds; values are returned as time.Time in UTC with whole-second
// precision.
type BoundedDatetime struct {
	name    string
	seconds *BoundedNumerical
	start   time.Time
	end     time.Time
}

var _ Backend = (*BoundedDatetime)(nil)

// NewBoundedDatetime constructs the backend. Bounds are read from
// min_datetime / max_datetime (aliases lower_bound / upper_bound and
// start / end). String bounds are parsed with layout when given, otherwise as
// ISO 8601; numeric bounds are unix seconds.
func NewBoundedDatetime(cfg Config) (*BoundedDatetime, error) {
	return newBoundedDatetime(BoundedNumericalDatetimeName, cfg)
}

func newBoundedDatetime(name string, cfg Config) (*BoundedDatetime, error) {
	cfg, err := withAliases(name, cfg, datetimeAliases)
	if err != nil {
		return nil, err
	}
	opts := datetimeOptions{Distribution: distribution.Uniform}
	if err := decodeOptions(name, cfg, &opts); err != nil {
		return nil, err
	}

	start, err := parseInstant(opts.MinDatetime, opts.Layout)
	if err != nil {
		return nil, configErrorf(name, "min_datetime: %v", err)
	}
	end, err := parseInstant(opts.MaxDatetime, opts.Layout)
	if err != nil {
		return nil, configErrorf(name, "max_datetime: %v", err)
	}

	if !start.Before(end) {
		return nil, configErrorf(name, "min_datetime %s must be before max_datetime %s",
			start.Format(time.RFC3339Nano), end.Format(time.RFC3339Nano))
	}
	lower := start.Unix()
	if start.Nanosecond() > 0 {
		lower++
	}
	upper := end.Unix()
	if lower >= upper {
		return nil, configErrorf(name, "no whole second window between min_datetime %s and max_datetime %s",
			start.Format(time.RFC3339Nano), end.Format(time.RFC3339Nano))
	}

	seconds, err := newBoundedNumerical(name, numericalOptions{
		Distribution: opts.Distribution,
		LowerBound:   float64(lower),
		UpperBound:   float64(upper),
		CoerceToInt:  true,
		Clip:         opts.Clip,
		Params:       opts.Params,
	})
	if err != nil {
		return nil, err
	}

	return &BoundedDatetime{
		name:    name,
		seconds: seconds,
		start:   start.UTC(),
		end:     end.UTC(),
	}, nil
}

// Bounds returns the configured start and end instants.
func (b *BoundedDatetime) Bounds() (time.Time, time.Time) {
	return b.start, b.end
}

// Sample implements Backend.
func (b *BoundedDatetime) Sample(src rand.Source, n int) ([]any, error) {
	values, err := b.seconds.SampleFloats(src, n)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = time.Unix(int64(v), 0).UTC()
	}
	return out, nil
}

func (b *BoundedDatetime) String() string {
	return fmt.Sprintf("%s with distribution %q between %s and %s", b.name, b.seconds.Distribution().Family(),
		b.start.Format(time.RFC3339), b.end.Format(time.RFC3339))
}

func parseInstant(value any, layout string) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return time.Time{}, errors.New("value is nil")
		}
		return *v, nil
	case string:
		raw := strings.TrimSpace(v)
		if layout != "" {
			return time.Parse(layout, raw)
		}
		if t, err := iso8601.ParseString(raw); err == nil {
			return t, nil
		}
		return cast.ToTimeE(raw)
	default:
		return cast.ToTimeE(v)
	}
}
