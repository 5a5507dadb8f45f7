// Package cardapio fetches and formats the university restaurant menu.
package cardapio

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var accentFolder = strings.NewReplacer(
	"ã", "a", "á", "a", "â", "a",
	"é", "e", "í", "i", "ó", "o", "ú", "u",
)

var (
	isoDateRe     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	numericDateRe = regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})(?:[/.-](\d{2,4}))?$`)
	dayNumberRe   = regexp.MustCompile(`\d{1,2}`)
	yearRe        = regexp.MustCompile(`\b(\d{4})\b`)
)

var monthNames = []struct {
	name  string
	month time.Month
}{
	{"janeiro", time.January}, {"fevereiro", time.February}, {"marco", time.March},
	{"abril", time.April}, {"maio", time.May}, {"junho", time.June},
	{"julho", time.July}, {"agosto", time.August}, {"setembro", time.September},
	{"outubro", time.October}, {"novembro", time.November}, {"dezembro", time.December},
}

var weekdayNames = []struct {
	name string
	day  time.Weekday
}{
	{"segunda", time.Monday}, {"terca", time.Tuesday}, {"quarta", time.Wednesday},
	{"quinta", time.Thursday}, {"sexta", time.Friday}, {"sabado", time.Saturday},
	{"domingo", time.Sunday},
}

// ResolveDate turns a natural-language date expression into an ISO date.
// Accepted inputs: hoje/amanhã/depois de amanhã/ontem, YYYY-MM-DD,
// DD/MM[/YYYY], "1 de dezembro" style month names and weekday names with an
// optional "próxima" qualifier. Empty input resolves to today.
func ResolveDate(text string, today time.Time) (string, error) {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	iso := func(d time.Time) string { return d.Format("2006-01-02") }

	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return iso(today), nil
	}

	text = strings.ReplaceAll(text, "depois de amanhã", "depois_de_amanha")
	text = strings.ReplaceAll(text, "depois de amanha", "depois_de_amanha")
	text = accentFolder.Replace(text)

	relative := []struct {
		key   string
		delta int
	}{
		{"hoje", 0}, {"amanha", 1}, {"depois_de_amanha", 2}, {"ontem", -1},
	}
	for _, r := range relative {
		if strings.Contains(text, r.key) {
			return iso(today.AddDate(0, 0, r.delta)), nil
		}
	}

	// time-of-day hints never change the date
	for _, tok := range []string{"de manha", "manha", "de tarde", "tarde", "a noite", "noite"} {
		text = strings.ReplaceAll(text, tok, "")
	}
	text = strings.TrimSpace(text)

	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return iso(time.Date(year, time.Month(month), day, 0, 0, 0, 0, today.Location())), nil
	}

	if m := numericDateRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year := today.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		} else if time.Month(month) < today.Month()-6 {
			// a month far in the past without a year means next year
			year++
		}
		return iso(time.Date(year, time.Month(month), day, 0, 0, 0, 0, today.Location())), nil
	}

	for _, mn := range monthNames {
		if !strings.Contains(text, mn.name) {
			continue
		}
		num := dayNumberRe.FindString(text)
		if num == "" {
			continue
		}
		day, _ := strconv.Atoi(num)
		year := today.Year()
		if ym := yearRe.FindStringSubmatch(text); ym != nil {
			year, _ = strconv.Atoi(ym[1])
		}
		return iso(time.Date(year, mn.month, day, 0, 0, 0, 0, today.Location())), nil
	}

	next := strings.Contains(text, "proxima") || strings.Contains(text, "proximo")
	for _, wd := range weekdayNames {
		if strings.Contains(text, wd.name) {
			return iso(nextWeekday(today, wd.day, !next)), nil
		}
	}

	return "", fmt.Errorf("não consegui interpretar a data %q. Informe DD/MM/AAAA ou termos como 'hoje'", text)
}

// nextWeekday finds the next occurrence of target on or after start.
// With includeToday false a same-day hit moves a full week ahead.
func nextWeekday(start time.Time, target time.Weekday, includeToday bool) time.Time {
	ahead := (int(target) - int(start.Weekday()) + 7) % 7
	if ahead == 0 && !includeToday {
		ahead = 7
	}
	return start.AddDate(0, 0, ahead)
}
