package backend

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/exp/rand"

	"github.com/goliatone/go-mockgen/pkg/distribution"
)

// LoremIpsumTextName is the registry name of the filler text backend.
const LoremIpsumTextName = "LoremIpsumText"

// Length units understood by LoremIpsumText.
const (
	UnitWords      = "words"
	UnitCharacters = "characters"
)

type loremOptions struct {
	Distribution     string         `mapstructure:"distribution" validate:"required"`
	LowerBound       float64        `mapstructure:"lower_bound" validate:"gte=0"`
	UpperBound       float64        `mapstructure:"upper_bound" validate:"gtfield=LowerBound"`
	BlankProbability float64        `mapstructure:"blank_probability" validate:"gte=0,lte=1"`
	Unit             string         `mapstructure:"unit" validate:"oneof=words characters"`
	Params           map[string]any `mapstructure:",remain"`
}

// LoremIpsumText generates filler strings whose lengths are sampled from a
// bounded numeric distribution. Lengths count words by default; with
// unit: characters they count characters and the text is cropped, possibly
// mid word. Lengths are rounded and clamped into the bounds.
type LoremIpsumText struct {
	lengths          *BoundedNumerical
	blankProbability float64
	unit             string
	corpus           []string
}

var _ Backend = (*LoremIpsumText)(nil)

// NewLoremIpsumText constructs the backend from its options: distribution
// (default "uniform"), lower_bound (5), upper_bound (100), unit ("words"),
// blank_probability (0) plus any shape parameters of the length family.
func NewLoremIpsumText(cfg Config) (*LoremIpsumText, error) {
	opts := loremOptions{
		Distribution: distribution.Uniform,
		LowerBound:   5,
		UpperBound:   100,
		Unit:         UnitWords,
	}
	if err := decodeOptions(LoremIpsumTextName, cfg, &opts); err != nil {
		return nil, err
	}

	lengths, err := newBoundedNumerical(LoremIpsumTextName, numericalOptions{
		Distribution: opts.Distribution,
		LowerBound:   opts.LowerBound,
		UpperBound:   opts.UpperBound,
		CoerceToInt:  true,
		Clip:         true,
		Params:       opts.Params,
	})
	if err != nil {
		return nil, err
	}

	return &LoremIpsumText{
		lengths:          lengths,
		blankProbability: opts.BlankProbability,
		unit:             opts.Unit,
		corpus:           loremIpsumCorpus,
	}, nil
}

// Sample implements Backend.
func (l *LoremIpsumText) Sample(src rand.Source, n int) ([]any, error) {
	lengths, err := l.lengths.SampleFloats(src, n)
	if err != nil {
		return nil, err
	}

	rng := rand.New(src)
	out := make([]any, len(lengths))
	for i, length := range lengths {
		if l.blankProbability > 0 && rng.Float64() < l.blankProbability {
			out[i] = ""
			continue
		}
		out[i] = l.text(rng, int(length))
	}
	return out, nil
}

func (l *LoremIpsumText) text(rng *rand.Rand, length int) string {
	if length <= 0 {
		return ""
	}
	if l.unit == UnitWords {
		return strings.Join(l.pick(rng, length), " ")
	}

	// Roughly twice the words needed for the average word length, never fewer
	// than five.
	count := int(math.Max(math.Ceil(float64(length)/7*2), 5))
	text := strings.Join(l.pick(rng, count), " ")
	for len(text) < length {
		text += " " + strings.Join(l.pick(rng, count), " ")
	}
	return text[:length]
}

func (l *LoremIpsumText) pick(rng *rand.Rand, count int) []string {
	words := make([]string, count)
	for i := range words {
		words[i] = l.corpus[rng.Intn(len(l.corpus))]
	}
	return words
}

func (l *LoremIpsumText) String() string {
	lower, upper := l.lengths.Distribution().Bounds()
	return fmt.Sprintf("%s with %s lengths in [%v, %v] drawn from %q", LoremIpsumTextName, l.unit, lower, upper, l.lengths.Distribution().Family())
}
