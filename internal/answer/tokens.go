package answer

import (
	"regexp"
	"strings"
)

// wordPattern matches contiguous alphanumeric/underscore runs.
var wordPattern = regexp.MustCompile(`\w+`)

// tokenize splits text into a set of lowercase word tokens.
// Case, punctuation, ordering and duplicates are all irrelevant to the
// relevance scorer, so set semantics are intentional.
func tokenize(text string) map[string]struct{} {
	words := wordPattern.FindAllString(text, -1)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

// jaccard computes the Jaccard similarity between two token sets:
// |intersection| / |union|. Defined as 0.0 when either set is empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
