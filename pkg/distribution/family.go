package distribution

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"golang.org/x/exp/rand"
)

var (
	// ErrUnknownFamily is returned when a family name has not been registered.
	ErrUnknownFamily = errors.New("distribution: unknown family")
	// ErrUnknownParameter is returned for shape parameters a family does not accept.
	ErrUnknownParameter = errors.New("distribution: unknown parameter")
	// ErrMissingParameter is returned when a required shape parameter is absent.
	ErrMissingParameter = errors.New("distribution: missing parameter")
	// ErrInvalidShape is returned when a family rejects its shape parameters.
	ErrInvalidShape = errors.New("distribution: invalid shape parameters")
	// ErrNonFinite is returned when a draw produced NaN or an infinity.
	ErrNonFinite = errors.New("distribution: non-finite draw")
)

// Distribution is the subset of the distuv API needed for bounded sampling.
type Distribution interface {
	Rand() float64
	Quantile(p float64) float64
}

// Params holds named shape parameters, e.g. {"df": 10}.
type Params map[string]float64

// Parameter declares a shape parameter accepted by a family.
type Parameter struct {
	Name     string
	Default  float64
	Required bool
	// Check rejects out-of-domain values. Nil accepts anything finite.
	Check func(float64) bool
}

// Family describes a parametrised distribution.
type Family struct {
	Name   string
	Params []Parameter
	// Support returns the (possibly infinite) support of the standard form.
	Support func(Params) (lo, hi float64)
	// Build instantiates the distribution drawing from src.
	Build func(Params, rand.Source) Distribution
}

// TwoSided reports whether the family has finite support on both ends for
// the supplied parameters.
func (f Family) TwoSided(p Params) bool {
	lo, hi := f.Support(p)
	return !math.IsInf(lo, 0) && !math.IsInf(hi, 0)
}

// resolve fills defaults, rejects unknown names and reports missing values.
// Domain checks are reported separately through validate.
func (f Family) resolve(raw Params) (Params, error) {
	known := make(map[string]Parameter, len(f.Params)+2)
	for _, param := range f.Params {
		known[param.Name] = param
	}
	for _, param := range affineParams {
		known[param.Name] = param
	}

	for name := range raw {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("%w: %q for family %q", ErrUnknownParameter, name, f.Name)
		}
	}

	out := make(Params, len(known))
	for name, param := range known {
		value, ok := raw[name]
		if !ok {
			if param.Required {
				return nil, fmt.Errorf("%w: %q for family %q", ErrMissingParameter, name, f.Name)
			}
			value = param.Default
		}
		out[name] = value
	}
	return out, nil
}

func (f Family) validate(p Params) error {
	check := func(param Parameter) error {
		value := p[param.Name]
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("%w: %s=%v for family %q", ErrInvalidShape, param.Name, value, f.Name)
		}
		if param.Check != nil && !param.Check(value) {
			return fmt.Errorf("%w: %s=%v for family %q", ErrInvalidShape, param.Name, value, f.Name)
		}
		return nil
	}
	for _, param := range f.Params {
		if err := check(param); err != nil {
			return err
		}
	}
	for _, param := range affineParams {
		if err := check(param); err != nil {
			return err
		}
	}
	return nil
}

// loc and scale are accepted by every family, as in scipy.
var affineParams = []Parameter{
	{Name: "loc", Default: 0},
	{Name: "scale", Default: 1, Check: positive},
}

type affine struct {
	Distribution
	loc   float64
	scale float64
}

func (a affine) Rand() float64 {
	return a.loc + a.scale*a.Distribution.Rand()
}

func (a affine) Quantile(p float64) float64 {
	return a.loc + a.scale*a.Distribution.Quantile(p)
}

func (f Family) instantiate(p Params, src rand.Source) Distribution {
	dist := f.Build(p, src)
	if p["loc"] == 0 && p["scale"] == 1 {
		return dist
	}
	return affine{Distribution: dist, loc: p["loc"], scale: p["scale"]}
}

func (f Family) support(p Params) (float64, float64) {
	lo, hi := f.Support(p)
	return p["loc"] + p["scale"]*lo, p["loc"] + p["scale"]*hi
}

var (
	familiesMu sync.RWMutex
	families   = make(map[string]Family)
)

// Register adds or replaces a family under its normalised name.
func Register(family Family) error {
	name := normalizeName(family.Name)
	if name == "" {
		return errors.New("distribution: family name is required")
	}
	if family.Support == nil || family.Build == nil {
		return fmt.Errorf("distribution: family %q requires Support and Build", name)
	}
	family.Name = name

	familiesMu.Lock()
	defer familiesMu.Unlock()
	families[name] = family
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func MustRegister(family Family) {
	if err := Register(family); err != nil {
		panic(err)
	}
}

// Lookup returns the family registered under name.
func Lookup(name string) (Family, error) {
	key := normalizeName(name)

	familiesMu.RLock()
	defer familiesMu.RUnlock()

	family, ok := families[key]
	if !ok {
		return Family{}, fmt.Errorf("%w: %q", ErrUnknownFamily, name)
	}
	return family, nil
}

// Families returns the sorted list of registered family names.
func Families() []string {
	familiesMu.RLock()
	defer familiesMu.RUnlock()

	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func positive(v float64) bool {
	return v > 0
}
