package textutil

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns the character-level similarity of two strings in [0, 1].
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

// CloseMatches returns up to n candidates whose similarity to word is at
// least cutoff, best first.
func CloseMatches(word string, candidates []string, n int, cutoff float64) []string {
	type scored struct {
		value string
		ratio float64
	}
	var hits []scored
	for _, c := range candidates {
		if r := Ratio(word, c); r >= cutoff {
			hits = append(hits, scored{c, r})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].ratio > hits[j].ratio })
	if len(hits) > n {
		hits = hits[:n]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.value
	}
	return out
}

// MatchOption resolves free user input against a list of display options:
// casefold equality, then normalized equality, then substring containment in
// either direction, then a close match at cutoff 0.60. Returns "" when
// nothing matches.
func MatchOption(input string, options []string) string {
	if input == "" || len(options) == 0 {
		return ""
	}
	for _, opt := range options {
		if strings.EqualFold(opt, input) {
			return opt
		}
	}
	normIn := Normalize(input)
	for _, opt := range options {
		if normIn == Normalize(opt) {
			return opt
		}
	}
	for _, opt := range options {
		normOpt := Normalize(opt)
		if normOpt == "" {
			continue
		}
		if strings.Contains(normOpt, normIn) || strings.Contains(normIn, normOpt) {
			return opt
		}
	}
	if close := CloseMatches(input, options, 1, 0.60); len(close) > 0 {
		return close[0]
	}
	return ""
}
