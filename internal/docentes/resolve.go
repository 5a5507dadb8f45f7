package docentes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quixabot/quixabot/internal/textutil"
)

// ResolveBest maps a free-text name to the most likely directory entry:
// exact key, then substring either way, then a key containing every token
// of the input, then a close fuzzy match. Returns false when nothing clears
// the bar.
func (ix *Index) ResolveBest(name string) (Entry, bool) {
	if ix == nil || len(ix.keys) == 0 {
		return Entry{}, false
	}
	normalized := textutil.Normalize(name)
	if normalized == "" {
		return Entry{}, false
	}

	if e, ok := ix.entries[normalized]; ok {
		return e, true
	}
	for _, key := range ix.keys {
		if strings.Contains(key, normalized) || strings.Contains(normalized, key) {
			return ix.entries[key], true
		}
	}
	tokens := strings.Fields(normalized)
	if len(tokens) > 0 {
		for _, key := range ix.keys {
			all := true
			for _, tok := range tokens {
				if !strings.Contains(key, tok) {
					all = false
					break
				}
			}
			if all {
				return ix.entries[key], true
			}
		}
	}
	if close := textutil.CloseMatches(normalized, ix.keys, 1, 0.75); len(close) > 0 {
		return ix.entries[close[0]], true
	}
	return Entry{}, false
}

// SuggestLimit is how many alternatives Suggest returns at most.
const SuggestLimit = 5

// Suggest ranks directory entries loosely related to name, for the "did you
// mean" block appended to failed lookups. Substring of the whole name scores
// 3, each matched token 1.5, and entries with no token hits fall back to the
// whole-string ratio when it reaches 0.5.
func (ix *Index) Suggest(name string, limit int) []Entry {
	if ix == nil || len(ix.keys) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = SuggestLimit
	}
	normalized := textutil.Normalize(name)
	tokens := textutil.Tokens(normalized, 2, nil)

	type scored struct {
		score float64
		entry Entry
	}
	var ranked []scored
	for _, entry := range ix.Entries() {
		base := textutil.Normalize(entry.Nome)
		score := 0.0
		if normalized != "" && strings.Contains(base, normalized) {
			score += 3.0
		}
		for _, tok := range tokens {
			if strings.Contains(base, tok) {
				score += 1.5
			}
		}
		if score == 0 && len(tokens) > 0 {
			if r := textutil.Ratio(normalized, base); r >= 0.5 {
				score += r
			}
		}
		if score > 0 {
			ranked = append(ranked, scored{score, entry})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]Entry, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, s.entry)
	}
	return out
}

// FormatSuggestions renders a suggestion list for appending to a reply.
// Empty input yields an empty string.
func FormatSuggestions(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}
	lines := []string{"Sugestões de docentes:"}
	for _, e := range entries {
		nome := e.Nome
		if nome == "" {
			nome = "Sem nome"
		}
		line := "- " + nome
		if e.URL != "" {
			line = fmt.Sprintf("%s: %s", line, e.URL)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
