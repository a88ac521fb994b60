package backend

import (
	_ "embed"
	"strings"
	"unicode"
)

//go:embed resources/loremipsum.txt
var loremIpsumText string

// loremIpsumCorpus holds the unique filler words in first-seen order, lower
// cased and stripped of punctuation.
var loremIpsumCorpus = buildCorpus(loremIpsumText)

func buildCorpus(text string) []string {
	seen := make(map[string]struct{})
	var words []string
	for _, field := range strings.Fields(text) {
		word := strings.ToLower(strings.TrimFunc(field, unicode.IsPunct))
		if word == "" {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	return words
}

// LoremIpsumCorpus returns a copy of the filler word corpus.
func LoremIpsumCorpus() []string {
	return append([]string(nil), loremIpsumCorpus...)
}
