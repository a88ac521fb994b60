package backend_test

import (
	"strings"
	"testing"
	"time"

	"github.com/keboola/go-utils/pkg/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/goliatone/go-mockgen/pkg/backend"
	"github.com/goliatone/go-mockgen/pkg/spec"
)

func construct(t *testing.T, name string, cfg backend.Config) backend.Backend {
	t.Helper()
	b, err := backend.NewRegistry().Construct(name, cfg)
	require.NoError(t, err)
	return b
}

func TestCoreBackends_SampleReturnsExactlyN(t *testing.T) {
	cases := map[string]backend.Config{
		backend.BoundedNumericalName: {"lower_bound": 1, "upper_bound": 10},
		backend.BoundedNumericalDatetimeName: {
			"min_datetime": "2020-01-01",
			"max_datetime": "2021-12-22",
		},
		backend.BoundedDatetimeName: {
			"min_datetime": "2020-01-01T00:00:00Z",
			"max_datetime": "2020-01-02T00:00:00Z",
		},
		backend.WeightedDiscreteName: {"frequency_dist": map[string]any{"A": 1, "B": 2}},
		backend.LoremIpsumTextName:   {},
	}

	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			b := construct(t, name, cfg)
			for _, n := range []int{0, 1, 17, 500} {
				values, err := b.Sample(rand.NewSource(uint64(n)), n)
				require.NoError(t, err)
				assert.Len(t, values, n)
				assert.NotNil(t, values)
			}
			_, err := b.Sample(rand.NewSource(1), -1)
			assert.ErrorIs(t, err, backend.ErrSampling)
		})
	}
}

func TestBoundedNumerical_CoerceToInt(t *testing.T) {
	ints := construct(t, backend.BoundedNumericalName, backend.Config{
		"lower_bound":   18,
		"upper_bound":   99,
		"coerce_to_int": true,
	})
	values, err := ints.Sample(rand.NewSource(11), 2000)
	require.NoError(t, err)
	for _, v := range values {
		n, ok := v.(int64)
		require.True(t, ok, "expected int64, got %T", v)
		assert.GreaterOrEqual(t, n, int64(18))
		assert.LessOrEqual(t, n, int64(99))
	}

	floats := construct(t, backend.BoundedNumericalName, backend.Config{"lower_bound": 18, "upper_bound": 99})
	values, err = floats.Sample(rand.NewSource(11), 2000)
	require.NoError(t, err)
	for _, v := range values {
		_, ok := v.(float64)
		require.True(t, ok, "expected float64, got %T", v)
	}
}

func TestBoundedNumerical_StringFlagsAreCoerced(t *testing.T) {
	b, err := backend.NewBoundedNumerical(backend.Config{
		"lower_bound":   "0",
		"upper_bound":   "100",
		"coerce_to_int": "true",
	})
	require.NoError(t, err)
	assert.True(t, b.CoerceToInt())
}

func TestBoundedNumerical_NormMostlyWithinBounds(t *testing.T) {
	b := construct(t, backend.BoundedNumericalName, backend.Config{
		"distribution": "norm",
		"lower_bound":  18,
		"upper_bound":  99,
	})
	values, err := b.Sample(rand.NewSource(2024), 10000)
	require.NoError(t, err)

	inside := 0
	for _, v := range values {
		f := v.(float64)
		if f >= 18 && f <= 99 {
			inside++
		}
	}
	assert.GreaterOrEqual(t, inside, 9900)
}

func TestBoundedNumerical_ShapeParameters(t *testing.T) {
	b, err := backend.NewBoundedNumerical(backend.Config{
		"distribution": "chi2",
		"lower_bound":  10000,
		"upper_bound":  200000,
		"df":           10,
	})
	require.NoError(t, err)
	assert.Equal(t, "chi2", b.Distribution().Family())
	assert.Equal(t, 10.0, b.Distribution().Params()["df"])
}

func TestBoundedNumerical_ConfigurationErrors(t *testing.T) {
	cases := map[string]backend.Config{
		"inverted bounds":      {"lower_bound": 1, "upper_bound": 0},
		"equal bounds":         {"lower_bound": 1, "upper_bound": 1},
		"unknown family":       {"distribution": "zeta"},
		"missing df":           {"distribution": "chi2"},
		"non numeric param":    {"distribution": "chi2", "df": "ten"},
		"non numeric bound":    {"lower_bound": "low"},
		"unknown shape option": {"distribution": "norm", "df": 3},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := backend.NewBoundedNumerical(cfg)
			require.ErrorIs(t, err, backend.ErrConfiguration)
		})
	}
}

func TestBoundedNumerical_RejectedShapeIsSamplingError(t *testing.T) {
	b, err := backend.NewBoundedNumerical(backend.Config{"distribution": "chi2", "df": 0})
	require.NoError(t, err)

	_, err = b.Sample(rand.NewSource(1), 10)
	require.ErrorIs(t, err, backend.ErrSampling)
}

func TestBoundedDatetime_UniformWithinBounds(t *testing.T) {
	b, err := backend.NewBoundedDatetime(backend.Config{
		"start": "2020-12-20T00:00:00Z",
		"end":   "2020-12-25T00:00:00Z",
	})
	require.NoError(t, err)

	start, end := b.Bounds()
	values, err := b.Sample(rand.NewSource(8), 1000)
	require.NoError(t, err)
	for _, v := range values {
		ts, ok := v.(time.Time)
		require.True(t, ok, "expected time.Time, got %T", v)
		assert.False(t, ts.Before(start), "%s before %s", ts, start)
		assert.False(t, ts.After(end), "%s after %s", ts, end)
	}
}

func TestBoundedDatetime_Layout(t *testing.T) {
	b, err := backend.NewBoundedDatetime(backend.Config{
		"min_datetime": "December 01, 2010",
		"max_datetime": "December 31, 2012",
		"layout":       "January 02, 2006",
	})
	require.NoError(t, err)

	start, end := b.Bounds()
	assert.Equal(t, time.Date(2010, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2012, 12, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestBoundedDatetime_AcceptsTimeValues(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	b, err := backend.NewBoundedDatetime(backend.Config{
		"lower_bound": from,
		"upper_bound": from.Add(time.Hour),
	})
	require.NoError(t, err)
	start, _ := b.Bounds()
	assert.Equal(t, from, start)
}

func TestBoundedDatetime_ConfigurationErrors(t *testing.T) {
	cases := map[string]backend.Config{
		"inverted":      {"min_datetime": "2022-01-01", "max_datetime": "2021-01-01"},
		"missing end":   {"min_datetime": "2022-01-01"},
		"bad layout":    {"min_datetime": "2022-01-01", "max_datetime": "2023-01-01", "layout": "January 02, 2006"},
		"alias clash":   {"min_datetime": "2022-01-01", "start": "2022-01-01", "max_datetime": "2023-01-01"},
		"unparseable":   {"min_datetime": "yesterday", "max_datetime": "2023-01-01"},
		"unknown shape": {"min_datetime": "2022-01-01", "max_datetime": "2023-01-01", "df": 4},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := backend.NewBoundedDatetime(cfg)
			require.ErrorIs(t, err, backend.ErrConfiguration)
		})
	}
}

func TestBoundedDatetime_SubsecondBounds(t *testing.T) {
	b, err := backend.NewBoundedDatetime(backend.Config{
		"min_datetime": "2020-01-01T00:00:00.5Z",
		"max_datetime": "2020-01-01T00:00:03.9Z",
	})
	require.NoError(t, err)
	start, end := b.Bounds()

	values, err := b.Sample(rand.NewSource(8), 200)
	require.NoError(t, err)
	for _, v := range values {
		ts := v.(time.Time)
		assert.False(t, ts.Before(start), "%v before %v", ts, start)
		assert.False(t, ts.After(end), "%v after %v", ts, end)
	}

	_, err = backend.NewBoundedDatetime(backend.Config{
		"min_datetime": "2020-01-01T00:00:00.5Z",
		"max_datetime": "2020-01-01T00:00:01.9Z",
	})
	require.ErrorIs(t, err, backend.ErrConfiguration)
	assert.Contains(t, err.Error(), "no whole second window")
	assert.NotContains(t, err.Error(), "must be before")

	_, err = backend.NewBoundedDatetime(backend.Config{
		"min_datetime": "2020-01-01T00:00:01.9Z",
		"max_datetime": "2020-01-01T00:00:00.5Z",
	})
	require.ErrorIs(t, err, backend.ErrConfiguration)
	assert.Contains(t, err.Error(), "min_datetime 2020-01-01T00:00:01.9Z must be before max_datetime 2020-01-01T00:00:00.5Z")
}

func TestWeightedDiscrete_FrequencyRatio(t *testing.T) {
	b := construct(t, backend.WeightedDiscreteName, backend.Config{
		"frequency_dist": orderedmap.FromPairs([]orderedmap.Pair{
			{Key: "A", Value: 5},
			{Key: "B", Value: 1},
		}),
	})

	values, err := b.Sample(rand.NewSource(77), 10000)
	require.NoError(t, err)

	counts := map[any]int{}
	for _, v := range values {
		counts[v]++
	}
	require.Len(t, counts, 2)
	ratio := float64(counts["A"]) / float64(counts["B"])
	assert.InDelta(t, 5.0, ratio, 0.5)
}

func TestWeightedDiscrete_ZeroWeightsNeverSampled(t *testing.T) {
	b := construct(t, backend.WeightedDiscreteName, backend.Config{
		"population": map[string]any{"keep": 1, "drop": 0},
	})
	values, err := b.Sample(rand.NewSource(3), 5000)
	require.NoError(t, err)
	for _, v := range values {
		require.Equal(t, "keep", v)
	}
}

func TestWeightedDiscrete_ListPopulation(t *testing.T) {
	b, err := backend.NewWeightedDiscrete(backend.Config{"population": []any{"A", "B", "C"}})
	require.NoError(t, err)
	assert.Equal(t, []backend.Category{
		{Label: "A", Weight: 1},
		{Label: "B", Weight: 1},
		{Label: "C", Weight: 1},
	}, b.Categories())

	values, err := b.Sample(rand.NewSource(5), 1000)
	require.NoError(t, err)
	for _, v := range values {
		assert.Contains(t, []any{"A", "B", "C"}, v)
	}
}

func TestWeightedDiscrete_OrderedMappingKeepsOrder(t *testing.T) {
	b, err := backend.NewWeightedDiscrete(backend.Config{
		"frequency_dist": orderedmap.FromPairs([]orderedmap.Pair{
			{Key: "Thing_A", Value: 0.1},
			{Key: "Thing_B", Value: 0.2},
			{Key: "Last_Thing", Value: 0.3},
		}),
	})
	require.NoError(t, err)
	assert.Equal(t, []backend.Category{
		{Label: "Thing_A", Weight: 0.1},
		{Label: "Thing_B", Weight: 0.2},
		{Label: "Last_Thing", Weight: 0.3},
	}, b.Categories())
}

func TestWeightedDiscrete_TypedLabels(t *testing.T) {
	mapped, err := backend.NewWeightedDiscrete(backend.Config{
		"frequency_dist": spec.NewLabeledMap(orderedmap.FromPairs([]orderedmap.Pair{
			{Key: "1", Value: 5},
			{Key: "2", Value: 1},
			{Key: "other", Value: 1},
		}), map[string]any{"1": 1, "2": 2}),
	})
	require.NoError(t, err)
	assert.Equal(t, []backend.Category{
		{Label: 1, Weight: 5},
		{Label: 2, Weight: 1},
		{Label: "other", Weight: 1},
	}, mapped.Categories())

	listed, err := backend.NewWeightedDiscrete(backend.Config{"population": []any{1, 2}})
	require.NoError(t, err)

	for name, b := range map[string]*backend.WeightedDiscrete{"mapping": mapped, "list": listed} {
		values, err := b.Sample(rand.NewSource(4), 300)
		require.NoError(t, err, name)
		for _, v := range values {
			if _, isString := v.(string); isString {
				assert.Equal(t, "other", v, name)
				continue
			}
			assert.IsType(t, 0, v, name)
		}
	}
}

func TestWeightedDiscrete_NilSourceIsSamplingError(t *testing.T) {
	b, err := backend.NewWeightedDiscrete(backend.Config{"population": []any{"A"}})
	require.NoError(t, err)
	_, err = b.Sample(nil, 3)
	require.ErrorIs(t, err, backend.ErrSampling)
}

func TestWeightedDiscrete_ConfigurationErrors(t *testing.T) {
	cases := map[string]backend.Config{
		"missing":         {},
		"negative weight": {"frequency_dist": map[string]any{"Bad": -1, "B": 2}},
		"string weight":   {"frequency_dist": map[string]any{"Bad": "yolo", "B": 2}},
		"all zero":        {"frequency_dist": map[string]any{"A": 0, "B": 0}},
		"empty":           {"frequency_dist": []any{}},
		"scalar":          {"frequency_dist": 12},
		"both keys":       {"frequency_dist": []any{"A"}, "population": []any{"B"}},
		"unknown option":  {"frequency_dist": []any{"A"}, "replace": false},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := backend.NewWeightedDiscrete(cfg)
			require.ErrorIs(t, err, backend.ErrConfiguration)
		})
	}
}

func TestLoremIpsumText_WordCountsWithinBounds(t *testing.T) {
	b, err := backend.NewLoremIpsumText(backend.Config{"lower_bound": 10, "upper_bound": 30})
	require.NoError(t, err)

	corpus := map[string]struct{}{}
	for _, word := range backend.LoremIpsumCorpus() {
		corpus[word] = struct{}{}
	}

	values, err := b.Sample(rand.NewSource(12), 300)
	require.NoError(t, err)
	for _, v := range values {
		text, ok := v.(string)
		require.True(t, ok, "expected string, got %T", v)
		words := strings.Fields(text)
		assert.GreaterOrEqual(t, len(words), 10)
		assert.LessOrEqual(t, len(words), 30)
		for _, word := range words {
			_, known := corpus[word]
			assert.True(t, known, "word %q not in corpus", word)
		}
	}
}

func TestLoremIpsumText_CharacterUnit(t *testing.T) {
	b, err := backend.NewLoremIpsumText(backend.Config{
		"lower_bound": 40,
		"upper_bound": 60,
		"unit":        "characters",
	})
	require.NoError(t, err)

	values, err := b.Sample(rand.NewSource(4), 200)
	require.NoError(t, err)
	for _, v := range values {
		n := len(v.(string))
		assert.GreaterOrEqual(t, n, 40)
		assert.LessOrEqual(t, n, 60)
	}
}

func TestLoremIpsumText_BlankProbability(t *testing.T) {
	b, err := backend.NewLoremIpsumText(backend.Config{"blank_probability": 1})
	require.NoError(t, err)

	values, err := b.Sample(rand.NewSource(4), 50)
	require.NoError(t, err)
	for _, v := range values {
		assert.Equal(t, "", v)
	}
}

func TestLoremIpsumText_ConfigurationErrors(t *testing.T) {
	cases := map[string]backend.Config{
		"blank probability": {"blank_probability": 1.5},
		"unit":              {"unit": "sentences"},
		"negative length":   {"lower_bound": -5},
		"inverted":          {"lower_bound": 50, "upper_bound": 10},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := backend.NewLoremIpsumText(cfg)
			require.ErrorIs(t, err, backend.ErrConfiguration)
		})
	}
}

func TestLoremIpsumCorpus_UniqueWords(t *testing.T) {
	words := backend.LoremIpsumCorpus()
	assert.Greater(t, len(words), 100)

	seen := map[string]bool{}
	for _, word := range words {
		assert.False(t, seen[word], "duplicate word %q", word)
		seen[word] = true
		assert.Equal(t, strings.ToLower(word), word)
	}
}
