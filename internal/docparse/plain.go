package docparse

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/quixabot/quixabot/internal/textutil"
)

var (
	horMarkerRe = regexp.MustCompile(`\bhor(?:\.|ario)?\b`)
	delimiterRe = regexp.MustCompile(`\||\t|\s{2,}`)
)

// ParsePlainText is the fallback for documents without tables (e.g. the txt
// export of the doc). It looks for a timetable header line and applies
// per-day explosion to the lines below it; without one, every
// delimiter-splittable line becomes a generic "Coluna N" row.
func ParsePlainText(doc *goquery.Document) []Row {
	return parsePlainLines(documentLines(doc))
}

func documentLines(doc *goquery.Document) []string {
	text := nodeText(doc.Selection, "\n")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func parsePlainLines(lines []string) []Row {
	headerIdx := -1
	for idx, line := range lines {
		norm := textutil.Normalize(line)
		if !horMarkerRe.MatchString(norm) {
			continue
		}
		if strings.Contains(norm, "segunda") || strings.Contains(norm, "terca") || strings.Contains(norm, "quarta") {
			headerIdx = idx
			break
		}
	}

	if headerIdx >= 0 {
		cols := splitDelimited(lines[headerIdx])
		var rows []Row
		for _, line := range lines[headerIdx+1:] {
			parts := splitDelimited(line)
			if len(parts) < 2 {
				continue
			}
			timeRange := parts[0]
			limit := len(cols)
			if len(parts) < limit {
				limit = len(parts)
			}
			for i := 1; i < limit; i++ {
				cellText := parts[i]
				if cellText == "" {
					continue
				}
				row := Row{
					KeyContext: "",
					KeyRowText: cellText,
					KeyTime:    timeRange,
					KeyDay:     cols[i],
				}
				for pidx, part := range splitSubColumns(cellText) {
					row[columnLabel(pidx+1)] = part
				}
				rows = append(rows, row)
			}
		}
		return rows
	}

	var rows []Row
	for _, line := range lines {
		parts := splitDelimited(line)
		if len(parts) < 2 {
			continue
		}
		if !anyHasWord(parts) {
			continue
		}
		row := Row{KeyRowText: strings.Join(parts, " | ")}
		for idx, part := range parts {
			row[columnLabel(idx+1)] = part
		}
		rows = append(rows, row)
	}
	return rows
}

func splitDelimited(line string) []string {
	var out []string
	for _, p := range delimiterRe.Split(line, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func anyHasWord(parts []string) bool {
	for _, p := range parts {
		if textutil.HasWord(p) {
			return true
		}
	}
	return false
}
