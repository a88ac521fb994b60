package distribution

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Built-in family names. They follow scipy.stats so existing specification
// documents can be reused unchanged.
const (
	Uniform     = "uniform"
	Normal      = "norm"
	ChiSquared  = "chi2"
	F           = "f"
	Laplace     = "laplace"
	Exponential = "expon"
	Gamma       = "gamma"
	Beta        = "beta"
	StudentsT   = "t"
	LogNormal   = "lognorm"
	Weibull     = "weibull_min"
	Triangular  = "triang"
)

func init() {
	for _, family := range builtins() {
		MustRegister(family)
	}
}

func fixed(lo, hi float64) func(Params) (float64, float64) {
	return func(Params) (float64, float64) { return lo, hi }
}

var (
	realLine = fixed(math.Inf(-1), math.Inf(1))
	halfLine = fixed(0, math.Inf(1))
	unit     = fixed(0, 1)
)

func builtins() []Family {
	return []Family{
		{
			Name:    Uniform,
			Support: unit,
			Build: func(_ Params, src rand.Source) Distribution {
				return distuv.Uniform{Min: 0, Max: 1, Src: src}
			},
		},
		{
			Name:    Normal,
			Support: realLine,
			Build: func(_ Params, src rand.Source) Distribution {
				return distuv.Normal{Mu: 0, Sigma: 1, Src: src}
			},
		},
		{
			Name:    ChiSquared,
			Params:  []Parameter{{Name: "df", Required: true, Check: positive}},
			Support: halfLine,
			Build: func(p Params, src rand.Source) Distribution {
				return distuv.ChiSquared{K: p["df"], Src: src}
			},
		},
		{
			Name: F,
			Params: []Parameter{
				{Name: "dfn", Required: true, Check: positive},
				{Name: "dfd", Required: true, Check: positive},
			},
			Support: halfLine,
			Build: func(p Params, src rand.Source) Distribution {
				return distuv.F{D1: p["dfn"], D2: p["dfd"], Src: src}
			},
		},
		{
			Name:    Laplace,
			Support: realLine,
			Build: func(_ Params, src rand.Source) Distribution {
				return distuv.Laplace{Mu: 0, Scale: 1, Src: src}
			},
		},
		{
			Name:    Exponential,
			Support: halfLine,
			Build: func(_ Params, src rand.Source) Distribution {
				return distuv.Exponential{Rate: 1, Src: src}
			},
		},
		{
			Name:    Gamma,
			Params:  []Parameter{{Name: "a", Required: true, Check: positive}},
			Support: halfLine,
			Build: func(p Params, src rand.Source) Distribution {
				return distuv.Gamma{Alpha: p["a"], Beta: 1, Src: src}
			},
		},
		{
			Name: Beta,
			Params: []Parameter{
				{Name: "a", Required: true, Check: positive},
				{Name: "b", Required: true, Check: positive},
			},
			Support: unit,
			Build: func(p Params, src rand.Source) Distribution {
				return distuv.Beta{Alpha: p["a"], Beta: p["b"], Src: src}
			},
		},
		{
			Name:    StudentsT,
			Params:  []Parameter{{Name: "df", Required: true, Check: positive}},
			Support: realLine,
			Build: func(p Params, src rand.Source) Distribution {
				return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: p["df"], Src: src}
			},
		},
		{
			Name:    LogNormal,
			Params:  []Parameter{{Name: "s", Required: true, Check: positive}},
			Support: halfLine,
			Build: func(p Params, src rand.Source) Distribution {
				return distuv.LogNormal{Mu: 0, Sigma: p["s"], Src: src}
			},
		},
		{
			Name:    Weibull,
			Params:  []Parameter{{Name: "c", Required: true, Check: positive}},
			Support: halfLine,
			Build: func(p Params, src rand.Source) Distribution {
				return distuv.Weibull{K: p["c"], Lambda: 1, Src: src}
			},
		},
		{
			Name: Triangular,
			Params: []Parameter{{Name: "c", Required: true, Check: func(v float64) bool {
				return v >= 0 && v <= 1
			}}},
			Support: unit,
			Build: func(p Params, src rand.Source) Distribution {
				return distuv.NewTriangle(0, 1, p["c"], src)
			},
		},
	}
}
