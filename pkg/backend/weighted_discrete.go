package backend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/keboola/go-utils/pkg/orderedmap"
	"github.com/spf13/cast"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// WeightedDiscreteName is the registry name of the categorical backend.
const WeightedDiscreteName = "WeightedDiscrete"

// Category is a label with its relative sampling weight.
type Category struct {
	Label  any
	Weight float64
}

type weightedOptions struct {
	FrequencyDist any `mapstructure:"frequency_dist"`
	Population    any `mapstructure:"population"`
}

// WeightedDiscrete samples labels independently, with replacement, with
// probability weight / total weight. Zero-weight labels are never drawn.
type WeightedDiscrete struct {
	categories []Category
	weights    []float64
}

var _ Backend = (*WeightedDiscrete)(nil)

// NewWeightedDiscrete constructs the backend from frequency_dist (alias
// population). The value is either a mapping of label to weight or a list of
// labels, each weighing 1. Ordered mappings keep their order, plain maps are
// sorted by label so sampling stays reproducible.
func NewWeightedDiscrete(cfg Config) (*WeightedDiscrete, error) {
	var opts weightedOptions
	if err := decodeOptions(WeightedDiscreteName, cfg, &opts); err != nil {
		return nil, err
	}

	raw := opts.FrequencyDist
	switch {
	case opts.FrequencyDist != nil && opts.Population != nil:
		return nil, configErrorf(WeightedDiscreteName, "options %q and %q are mutually exclusive", "frequency_dist", "population")
	case opts.Population != nil:
		raw = opts.Population
	case raw == nil:
		return nil, configErrorf(WeightedDiscreteName, "frequency_dist is required")
	}

	categories, err := parseCategories(raw)
	if err != nil {
		return nil, configError(WeightedDiscreteName, err)
	}
	return NewWeightedDiscreteFromCategories(categories)
}

// NewWeightedDiscreteFromCategories builds the backend from an explicit
// category list, preserving its order.
func NewWeightedDiscreteFromCategories(categories []Category) (*WeightedDiscrete, error) {
	if len(categories) == 0 {
		return nil, configErrorf(WeightedDiscreteName, "at least one category is required")
	}

	out := make([]Category, len(categories))
	weights := make([]float64, len(categories))
	total := 0.0
	for i, category := range categories {
		w := category.Weight
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, configErrorf(WeightedDiscreteName, "weight of %v must be finite", category.Label)
		}
		if w < 0 {
			return nil, configErrorf(WeightedDiscreteName, "weight of %v must not be negative, got %v", category.Label, w)
		}
		out[i] = category
		weights[i] = w
		total += w
	}
	if !(total > 0) {
		return nil, configErrorf(WeightedDiscreteName, "weights must sum to a positive number")
	}

	return &WeightedDiscrete{categories: out, weights: weights}, nil
}

// Categories returns a copy of the category set.
func (w *WeightedDiscrete) Categories() []Category {
	return append([]Category(nil), w.categories...)
}

// Sample implements Backend.
func (w *WeightedDiscrete) Sample(src rand.Source, n int) ([]any, error) {
	if err := checkSize(WeightedDiscreteName, n); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, samplingError(WeightedDiscreteName, errNilSource)
	}
	out := make([]any, n)
	if n == 0 {
		return out, nil
	}

	picker := distuv.NewCategorical(w.weights, src)
	for i := range out {
		out[i] = w.categories[int(picker.Rand())].Label
	}
	return out, nil
}

func (w *WeightedDiscrete) String() string {
	parts := make([]string, len(w.categories))
	for i, c := range w.categories {
		parts[i] = fmt.Sprintf("%v: %v", c.Label, c.Weight)
	}
	return fmt.Sprintf("%s with sampling distribution {%s}", WeightedDiscreteName, strings.Join(parts, ", "))
}

// labeledMapping is an ordered mapping that remembers the typed form of its
// keys, as spec.LabeledMap does for `1: 5`.
type labeledMapping interface {
	Keys() []string
	Get(key string) (any, bool)
	Label(key string) any
}

func parseCategories(raw any) ([]Category, error) {
	switch v := raw.(type) {
	case []Category:
		return v, nil
	case labeledMapping:
		out := make([]Category, 0, len(v.Keys()))
		for _, key := range v.Keys() {
			value, _ := v.Get(key)
			category, err := newCategory(v.Label(key), value)
			if err != nil {
				return nil, err
			}
			out = append(out, category)
		}
		return out, nil
	case *orderedmap.OrderedMap:
		out := make([]Category, 0, len(v.Keys()))
		for _, key := range v.Keys() {
			value, _ := v.Get(key)
			category, err := newCategory(key, value)
			if err != nil {
				return nil, err
			}
			out = append(out, category)
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]Category, 0, len(keys))
		for _, key := range keys {
			category, err := newCategory(key, v[key])
			if err != nil {
				return nil, err
			}
			out = append(out, category)
		}
		return out, nil
	case map[any]any:
		keys := make([]any, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
		})
		out := make([]Category, 0, len(keys))
		for _, key := range keys {
			category, err := newCategory(key, v[key])
			if err != nil {
				return nil, err
			}
			out = append(out, category)
		}
		return out, nil
	case []any:
		out := make([]Category, len(v))
		for i, label := range v {
			out[i] = Category{Label: label, Weight: 1}
		}
		return out, nil
	case []string:
		out := make([]Category, len(v))
		for i, label := range v {
			out[i] = Category{Label: label, Weight: 1}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("frequency_dist must be a mapping of label to weight or a list of labels, got %T", raw)
	}
}

func newCategory(label, weight any) (Category, error) {
	switch weight.(type) {
	case bool, string, nil:
		return Category{}, fmt.Errorf("weight of %v must be a number, got %T", label, weight)
	}
	w, err := cast.ToFloat64E(weight)
	if err != nil {
		return Category{}, fmt.Errorf("weight of %v must be a number, got %T", label, weight)
	}
	return Category{Label: label, Weight: w}, nil
}
