// Package alocacao loads the room allocation document and resolves
// free-text person + schedule queries against its rows.
package alocacao

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/quixabot/quixabot/internal/docparse"
	"github.com/quixabot/quixabot/internal/textutil"
)

// Weekdays in canonical tag form, week order. time.Weekday starts on Sunday;
// index this slice with (weekday+6)%7 to get Monday-first ordering.
var weekdayTags = []string{"segunda", "terca", "quarta", "quinta", "sexta", "sabado", "domingo"}

// DayBucketUnscheduled collects matched rows with no recognizable day.
const DayBucketUnscheduled = "sem_data"

// Schedule is a parsed schedule expression: a structured day/week/time filter.
type Schedule struct {
	Week     bool
	Days     []string
	Time     string // zero-padded "HH:MM", empty when absent
	AllTimes bool
	Raw      string
}

var allTimeTokens = []string{
	"dia todo", "dia inteiro",
	"turno todo", "turno inteiro", "turno completo",
	"todos os horarios", "todos horarios", "todos os turnos",
	"horario integral",
}

var weekdayAliases = map[string]string{
	"segunda": "segunda", "segunda feira": "segunda",
	"terca": "terca", "terca feira": "terca",
	"quarta": "quarta", "quarta feira": "quarta",
	"quinta": "quinta", "quinta feira": "quinta",
	"sexta": "sexta", "sexta feira": "sexta",
	"sabado":  "sabado",
	"domingo": "domingo",
}

var timeTokenRe = regexp.MustCompile(`(\d{1,2}[:hH]?\d{0,2})`)

// tagForDate maps a calendar date to its weekday tag.
func tagForDate(d time.Time) string {
	return weekdayTags[(int(d.Weekday())+6)%7]
}

// ParseScheduleExpr turns user free text like "terça 10h", "amanhã de manhã"
// or "semana inteira" into a Schedule. The text is normalized first, so
// accents and punctuation never matter.
func ParseScheduleExpr(text string, now time.Time) Schedule {
	s := Schedule{}
	if text == "" {
		return s
	}
	norm := textutil.Normalize(text)
	s.Raw = norm

	if strings.Contains(norm, "semana") {
		s.Week = true
	}
	for _, token := range allTimeTokens {
		if strings.Contains(norm, token) {
			s.AllTimes = true
			break
		}
	}

	if strings.Contains(norm, "hoje") {
		s.Days = []string{tagForDate(now)}
	}
	if strings.Contains(norm, "amanha") {
		s.Days = []string{tagForDate(now.AddDate(0, 0, 1))}
	}

	var found []string
	for _, tag := range weekdayTags {
		for alias, canonical := range weekdayAliases {
			if canonical != tag {
				continue
			}
			if strings.Contains(norm, alias) {
				found = append(found, tag)
				break
			}
		}
	}
	if len(found) > 0 {
		s.Days = found
	}

	if m := timeTokenRe.FindStringSubmatch(text); m != nil {
		if t, ok := normalizeTimeToken(m[1]); ok {
			s.Time = t
		}
	}
	return s
}

// normalizeTimeToken converts "8", "8h", "8h30", "08:30" to "HH:MM".
func normalizeTimeToken(raw string) (string, bool) {
	t := strings.NewReplacer("h", ":", "H", ":").Replace(raw)
	if !strings.Contains(t, ":") {
		hh, err := strconv.Atoi(t)
		if err != nil {
			return "", false
		}
		return fmt.Sprintf("%02d:00", hh), true
	}
	parts := strings.SplitN(t, ":", 2)
	hh, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", false
	}
	mm := 0
	if parts[1] != "" {
		if mm, err = strconv.Atoi(parts[1]); err != nil {
			return "", false
		}
	}
	return fmt.Sprintf("%02d:%02d", hh, mm), true
}

// rowMatchesSchedule applies the day/time filter to a row. A week-wide
// query skips filtering entirely: grouping happens downstream, and combined
// "semana"+weekday input keeps its historical (week-wins) reading.
func rowMatchesSchedule(row docparse.Row, s Schedule) bool {
	if s.Week {
		return true
	}
	text := textutil.Normalize(row.Text())

	if len(s.Days) > 0 {
		dayField := textutil.Normalize(row[docparse.KeyDay])
		matched := false
		for _, d := range s.Days {
			if strings.Contains(dayField, d) || strings.Contains(text, d) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if s.Time != "" {
		// Normalization strips colons, so verbatim time checks run against
		// the raw text.
		raw := strings.ToLower(row.Text())
		hour, _ := strconv.Atoi(strings.SplitN(s.Time, ":", 2)[0])
		bare := strconv.Itoa(hour)
		// The hour form is zero-padded so "8h" never matches inside "18h".
		padded := fmt.Sprintf("%02dh", hour)
		switch {
		case strings.Contains(raw, s.Time):
		case textutil.ContainsWord(text, bare):
		case strings.Contains(raw, padded):
		default:
			return false
		}
	}
	return true
}

// extractDay finds the weekday tag of a row, checking day/time-labelled
// fields first and the free text second.
func extractDay(row docparse.Row) string {
	for key, value := range row {
		lower := textutil.Normalize(key)
		if !strings.Contains(lower, "dia") && !strings.Contains(lower, "horario") {
			continue
		}
		norm := textutil.Normalize(value)
		for _, tag := range weekdayTags {
			if strings.Contains(norm, tag) {
				return tag
			}
		}
	}
	text := textutil.Normalize(row.Text())
	for _, tag := range weekdayTags {
		if strings.Contains(text, tag) {
			return tag
		}
	}
	return ""
}
