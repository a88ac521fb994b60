package distribution

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// Tail quantiles used to approximate infinite support. Together they keep
// 0.9998 of the mass of a two-tailed family inside the mapped range.
const (
	LowerTail = 0.0001
	UpperTail = 0.9999
)

// Bounded samples a family and maps the draws onto [Lower, Upper].
type Bounded struct {
	family Family
	params Params
	lower  float64
	upper  float64
	clip   bool

	// sampling range of the family, before the location/scale transform
	spanLo float64
	spanHi float64
	// shapeErr is surfaced at sampling time
	shapeErr error
}

// BoundedOptions configures NewBounded.
type BoundedOptions struct {
	Family string
	Params Params
	Lower  float64
	Upper  float64
	// Clip clamps transformed draws into [Lower, Upper]. Families with finite
	// support on both ends are always clamped since only rounding noise can
	// escape their exact mapping.
	Clip bool
}

// NewBounded resolves the family and computes the bound transform. Unknown
// families, unknown or missing parameters and inverted bounds fail here.
// Parameters outside the family's domain are reported by Sample.
func NewBounded(opts BoundedOptions) (*Bounded, error) {
	name := opts.Family
	if name == "" {
		name = Uniform
	}
	family, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	if math.IsNaN(opts.Lower) || math.IsNaN(opts.Upper) || math.IsInf(opts.Lower, 0) || math.IsInf(opts.Upper, 0) {
		return nil, errors.New("distribution: bounds must be finite")
	}
	if opts.Lower >= opts.Upper {
		return nil, fmt.Errorf("distribution: lower bound %v must be less than upper bound %v", opts.Lower, opts.Upper)
	}

	params, err := family.resolve(opts.Params)
	if err != nil {
		return nil, err
	}

	b := &Bounded{
		family: family,
		params: params,
		lower:  opts.Lower,
		upper:  opts.Upper,
		clip:   opts.Clip || family.TwoSided(params),
	}

	if err := family.validate(params); err != nil {
		b.shapeErr = err
		return b, nil
	}
	b.spanLo, b.spanHi = span(family, params)
	if width := b.spanHi - b.spanLo; !(width > 0) || math.IsInf(width, 0) {
		b.shapeErr = fmt.Errorf("%w: degenerate support [%v, %v] for family %q", ErrInvalidShape, b.spanLo, b.spanHi, family.Name)
	}
	return b, nil
}

func span(family Family, params Params) (float64, float64) {
	lo, hi := family.support(params)
	if math.IsInf(lo, -1) || math.IsInf(hi, 1) {
		dist := family.instantiate(params, nil)
		if math.IsInf(lo, -1) {
			lo = dist.Quantile(LowerTail)
		}
		if math.IsInf(hi, 1) {
			hi = dist.Quantile(UpperTail)
		}
	}
	return lo, hi
}

// Family returns the resolved family name.
func (b *Bounded) Family() string {
	return b.family.Name
}

// Params returns a copy of the resolved shape parameters, defaults included.
func (b *Bounded) Params() Params {
	out := make(Params, len(b.params))
	for k, v := range b.params {
		out[k] = v
	}
	return out
}

// Bounds returns the configured output range.
func (b *Bounded) Bounds() (float64, float64) {
	return b.lower, b.upper
}

// Span returns the family range mapped onto the bounds.
func (b *Bounded) Span() (float64, float64) {
	return b.spanLo, b.spanHi
}

// Clipped reports whether transformed draws are clamped into the bounds.
func (b *Bounded) Clipped() bool {
	return b.clip
}

// Transform applies the location/scale mapping to a raw draw.
func (b *Bounded) Transform(x float64) float64 {
	v := b.lower + (x-b.spanLo)/(b.spanHi-b.spanLo)*(b.upper-b.lower)
	if b.clip {
		v = math.Max(b.lower, math.Min(b.upper, v))
	}
	return v
}

// Sample draws n transformed values from src. It never returns a partial
// result.
func (b *Bounded) Sample(src rand.Source, n int) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("distribution: sample size must not be negative, got %d", n)
	}
	if b.shapeErr != nil {
		return nil, b.shapeErr
	}
	if src == nil {
		return nil, errors.New("distribution: random source is required")
	}

	dist := b.family.instantiate(b.params, src)
	out := make([]float64, n)
	for i := range out {
		x := dist.Rand()
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%w: family %q produced %v", ErrNonFinite, b.family.Name, x)
		}
		out[i] = b.Transform(x)
	}
	return out, nil
}

func (b *Bounded) String() string {
	return fmt.Sprintf("%s on [%v, %v]", b.family.Name, b.lower, b.upper)
}
