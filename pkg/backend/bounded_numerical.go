package backend

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/goliatone/go-mockgen/pkg/distribution"
)

// BoundedNumericalName is the registry name of the numeric backend.
const BoundedNumericalName = "BoundedNumerical"

type numericalOptions struct {
	Distribution string         `mapstructure:"distribution" validate:"required"`
	LowerBound   float64        `mapstructure:"lower_bound"`
	UpperBound   float64        `mapstructure:"upper_bound" validate:"gtfield=LowerBound"`
	CoerceToInt  bool           `mapstructure:"coerce_to_int"`
	Clip         bool           `mapstructure:"clip"`
	Params       map[string]any `mapstructure:",remain"`
}

func defaultNumericalOptions() numericalOptions {
	return numericalOptions{
		Distribution: distribution.Uniform,
		LowerBound:   0,
		UpperBound:   1,
	}
}

// BoundedNumerical samples a continuous family scaled onto
// [lower_bound, upper_bound]. With coerce_to_int the values are rounded to
// the nearest integer and returned as int64, otherwise as float64.
//
// Heavy tailed families are scaled so the bounds match their 0.0001 and
// 0.9999 quantiles; rare draws beyond the bounds are kept unless clip is set.
type BoundedNumerical struct {
	name        string
	dist        *distribution.Bounded
	coerceToInt bool
}

var _ Backend = (*BoundedNumerical)(nil)

// NewBoundedNumerical constructs the backend from its options:
// distribution (default "uniform"), lower_bound (0), upper_bound (1),
// coerce_to_int (false), clip (false). Any other key is passed to the family
// as a shape parameter, e.g. df for chi2.
func NewBoundedNumerical(cfg Config) (*BoundedNumerical, error) {
	opts := defaultNumericalOptions()
	if err := decodeOptions(BoundedNumericalName, cfg, &opts); err != nil {
		return nil, err
	}
	return newBoundedNumerical(BoundedNumericalName, opts)
}

func newBoundedNumerical(name string, opts numericalOptions) (*BoundedNumerical, error) {
	params, err := shapeParams(name, opts.Params)
	if err != nil {
		return nil, err
	}
	dist, err := distribution.NewBounded(distribution.BoundedOptions{
		Family: opts.Distribution,
		Params: params,
		Lower:  opts.LowerBound,
		Upper:  opts.UpperBound,
		Clip:   opts.Clip,
	})
	if err != nil {
		return nil, configError(name, err)
	}
	return &BoundedNumerical{
		name:        name,
		dist:        dist,
		coerceToInt: opts.CoerceToInt,
	}, nil
}

// Distribution exposes the resolved bound transform.
func (b *BoundedNumerical) Distribution() *distribution.Bounded {
	return b.dist
}

// CoerceToInt reports whether samples are rounded to integers.
func (b *BoundedNumerical) CoerceToInt() bool {
	return b.coerceToInt
}

// SampleFloats draws n values as float64, rounded when coerce_to_int is set.
func (b *BoundedNumerical) SampleFloats(src rand.Source, n int) ([]float64, error) {
	if err := checkSize(b.name, n); err != nil {
		return nil, err
	}
	values, err := b.dist.Sample(src, n)
	if err != nil {
		return nil, samplingError(b.name, err)
	}
	if b.coerceToInt {
		for i, v := range values {
			values[i] = math.Round(v)
		}
	}
	return values, nil
}

// Sample implements Backend.
func (b *BoundedNumerical) Sample(src rand.Source, n int) ([]any, error) {
	values, err := b.SampleFloats(src, n)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(values))
	for i, v := range values {
		if b.coerceToInt {
			out[i] = int64(v)
			continue
		}
		out[i] = v
	}
	return out, nil
}

func (b *BoundedNumerical) String() string {
	lower, upper := b.dist.Bounds()
	return fmt.Sprintf("%s with distribution %q and value range [%v, %v]", b.name, b.dist.Family(), lower, upper)
}
