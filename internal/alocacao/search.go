package alocacao

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quixabot/quixabot/internal/docparse"
	"github.com/quixabot/quixabot/internal/textutil"
)

// MaxMatches caps how many rows a person lookup collects.
const MaxMatches = 6

// Match is one allocation row with the confidence of the name hit.
type Match struct {
	Row   docparse.Row
	Score int
}

// nameStop drops honorifics and particles from search tokens.
var nameStop = map[string]bool{
	"de": true, "da": true, "do": true, "dos": true, "das": true,
	"prof": true, "profa": true, "dr": true, "dra": true,
}

// scoreRow rates how strongly a row mentions the searched name. The checks
// run in a fixed order and the first hit wins, so a literal substring hit
// reports 80 even when the all-tokens check would have reported 100.
func scoreRow(rowText, name string, tokens []string) int {
	if strings.Contains(rowText, name) {
		return 80
	}
	if len(tokens) > 0 {
		all := true
		for _, tok := range tokens {
			if !strings.Contains(rowText, tok) {
				all = false
				break
			}
		}
		if all {
			return 100
		}

		rowWords := textutil.Words(rowText)
		fuzzy := true
		for _, tok := range tokens {
			hit := false
			for _, w := range rowWords {
				if tok == w || textutil.Ratio(tok, w) >= 0.70 {
					hit = true
					break
				}
			}
			if !hit {
				fuzzy = false
				break
			}
		}
		if fuzzy {
			return 90
		}

		if len(tokens) == 1 && strings.Contains(rowText, tokens[0]) {
			return 50
		}
	}
	if r := textutil.Ratio(name, rowText); r > 0.65 {
		return int(75 + r*25)
	}
	return 0
}

// FindPerson scans rows in document order for mentions of name, filtered by
// the schedule, stopping after MaxMatches hits. The collected matches come
// back sorted by descending score.
func FindPerson(rows []docparse.Row, name string, sched Schedule) []Match {
	norm := textutil.Normalize(name)
	if norm == "" {
		return nil
	}
	tokens := textutil.Tokens(norm, 2, nameStop)

	var matches []Match
	for _, row := range rows {
		if !rowMatchesSchedule(row, sched) {
			continue
		}
		score := scoreRow(textutil.Normalize(row.Text()), norm, tokens)
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{Row: row, Score: score})
		if len(matches) >= MaxMatches {
			break
		}
	}
	sortMatches(matches)
	return matches
}

// sortMatches orders by descending score, stable so document order breaks
// ties.
func sortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
}

// GroupByDay buckets matches by weekday, week order first and rows with no
// recognizable day under DayBucketUnscheduled at the end. Only non-empty
// buckets appear; order inside a bucket follows the input.
func GroupByDay(matches []Match) ([]string, map[string][]Match) {
	buckets := make(map[string][]Match)
	for _, m := range matches {
		day := extractDay(m.Row)
		if day == "" {
			day = DayBucketUnscheduled
		}
		buckets[day] = append(buckets[day], m)
	}
	var order []string
	for _, tag := range weekdayTags {
		if len(buckets[tag]) > 0 {
			order = append(order, tag)
		}
	}
	if len(buckets[DayBucketUnscheduled]) > 0 {
		order = append(order, DayBucketUnscheduled)
	}
	return order, buckets
}

var roomKeys = []string{"Bloco", "Bloco/Sala", "Bloco / Sala", "Sala", "Sala/Lab", "Sala / Laboratório"}
var timeKeys = []string{"Horário", "Horario", "Turno", "Dia/Horário"}

// FormatRow renders a row for a chat answer: context and day first, then
// room and time fields, the professor, and whatever labelled details remain.
// Rows with only synthesized column headers fall back to the first column as
// the course name, or to the raw row text.
func FormatRow(row docparse.Row) string {
	known := map[string]bool{docparse.KeyContext: true, docparse.KeyRowText: true, docparse.KeyDay: true, "Professor": true}

	var parts []string
	if ctx := row[docparse.KeyContext]; ctx != "" {
		parts = append(parts, "Contexto: "+ctx)
	}
	if dia := row[docparse.KeyDay]; dia != "" {
		parts = append(parts, "Dia: "+dia)
	}
	for _, k := range roomKeys {
		known[k] = true
		if row[k] != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", k, row[k]))
		}
	}
	for _, k := range timeKeys {
		known[k] = true
		if row[k] != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", k, row[k]))
		}
	}
	if row["Professor"] != "" {
		parts = append(parts, "Professor: "+row["Professor"])
	}

	var details []string
	for _, k := range rowKeysSorted(row) {
		if known[k] || row[k] == "" || strings.HasPrefix(k, "Coluna ") {
			continue
		}
		details = append(details, fmt.Sprintf("%s: %s", k, row[k]))
	}
	if len(details) > 0 {
		parts = append(parts, details...)
	} else if row["Coluna 1"] != "" {
		parts = append(parts, "Disciplina: "+row["Coluna 1"])
	} else {
		parts = append(parts, row[docparse.KeyRowText])
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// rowKeysSorted returns the row's keys in a stable order; maps keep no
// header order, so lexicographic is the deterministic choice.
func rowKeysSorted(row docparse.Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ExtractProfessor pulls the most likely professor name out of a matched
// row: a field whose header mentions professor or docente, else the longest
// cell that looks like a multi-word name.
func ExtractProfessor(row docparse.Row) string {
	for _, k := range rowKeysSorted(row) {
		norm := textutil.Normalize(k)
		if strings.Contains(norm, "professor") || strings.Contains(norm, "docente") {
			if v := strings.TrimSpace(row[k]); v != "" {
				return v
			}
		}
	}
	best := ""
	for _, k := range rowKeysSorted(row) {
		if k == docparse.KeyRowText || k == docparse.KeyContext {
			continue
		}
		v := strings.TrimSpace(row[k])
		if len(strings.Fields(v)) < 2 {
			continue
		}
		if strings.ContainsAny(v, "0123456789") {
			continue
		}
		if len(v) > len(best) {
			best = v
		}
	}
	return best
}
