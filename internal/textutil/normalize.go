// Package textutil provides the text normalization and fuzzy matching
// primitives shared by every resolver. No component compares raw strings:
// everything goes through Normalize first.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonWordRe    = regexp.MustCompile(`[^\w\s]`)
	multiSpaceRe = regexp.MustCompile(`\s+`)
)

// Normalize strips accents, replaces punctuation with spaces, collapses
// whitespace and lowercases. Idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if r > unicode.MaxASCII {
			continue
		}
		b.WriteRune(r)
	}
	cleaned := nonWordRe.ReplaceAllString(b.String(), " ")
	cleaned = multiSpaceRe.ReplaceAllString(cleaned, " ")
	return strings.ToLower(strings.TrimSpace(cleaned))
}

// Tokens splits a normalized string into tokens longer than minLen that are
// not in the stop set.
func Tokens(normalized string, minLen int, stop map[string]bool) []string {
	var out []string
	for _, t := range strings.Fields(normalized) {
		if len(t) <= minLen {
			continue
		}
		if stop != nil && stop[t] {
			continue
		}
		out = append(out, t)
	}
	return out
}

var wordRe = regexp.MustCompile(`\w+`)

// Words extracts the word tokens of a normalized string.
func Words(normalized string) []string {
	return wordRe.FindAllString(normalized, -1)
}

// HasWord reports whether any part of s contains word characters.
func HasWord(s string) bool {
	return wordRe.MatchString(s)
}

// ContainsWord reports whether word appears as a standalone token of s.
func ContainsWord(s, word string) bool {
	for _, t := range Words(s) {
		if t == word {
			return true
		}
	}
	return false
}
