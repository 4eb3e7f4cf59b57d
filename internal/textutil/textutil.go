// Package textutil provides the small text heuristics shared by delegation
// scoring, memory retrieval and flow adaptation: tokenization, keyword
// overlap and set helpers. All functions are pure and allocation-light.
package textutil

import "strings"

// Tokenize lowercases s and splits it into alphanumeric word tokens.
// Punctuation is treated as a separator; tokens shorter than two runes are
// dropped to keep stop-noise out of overlap scores.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// TokenSet returns the tokens of s as a membership set.
func TokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range Tokenize(s) {
		set[t] = struct{}{}
	}
	return set
}

// Overlap returns the fraction of b's tokens that also occur in a, in [0,1].
// An empty b yields 0.
func Overlap(a, b string) float64 {
	bTokens := Tokenize(b)
	if len(bTokens) == 0 {
		return 0
	}
	aSet := TokenSet(a)
	matched := 0
	for _, t := range bTokens {
		if _, ok := aSet[t]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(bTokens))
}

// ContainsFold reports whether substr occurs in s ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// CountAny counts how many of the given terms occur in s (case insensitive).
func CountAny(s string, terms []string) int {
	lower := strings.ToLower(s)
	n := 0
	for _, t := range terms {
		if strings.Contains(lower, strings.ToLower(t)) {
			n++
		}
	}
	return n
}
