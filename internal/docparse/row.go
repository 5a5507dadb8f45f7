// Package docparse converts loosely structured HTML tables and plain text
// blocks from the allocation document into structured rows.
package docparse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/quixabot/quixabot/internal/textutil"
)

// Well-known row keys. Column labels are not stable across rows; RowText is
// the only guaranteed field.
const (
	KeyRowText = "_row_text"
	KeyContext = "context"
	KeyDay     = "Dia"
	KeyTime    = "Horário"
)

// Row is one record extracted from the document: column label to cell text,
// with a mandatory free-text fallback under KeyRowText.
type Row map[string]string

// Text returns the free-text fallback of the row.
func (r Row) Text() string { return r[KeyRowText] }

// Field returns the first non-empty value among the given keys.
func (r Row) Field(keys ...string) string {
	for _, k := range keys {
		if v := r[k]; v != "" {
			return v
		}
	}
	return ""
}

var subColumnRe = regexp.MustCompile(`\n+|\x{00A0}\s*|\s{2,}`)

// splitSubColumns breaks a timetable cell into its stacked parts
// (newline, NBSP or run of spaces separated).
func splitSubColumns(cell string) []string {
	var out []string
	for _, p := range subColumnRe.Split(cell, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// columnLabel synthesizes a header for unnamed columns (1-based).
func columnLabel(idx int) string { return fmt.Sprintf("Coluna %d", idx) }

// isTimetableHeader reports whether the first header marks a weekly
// timetable (normalizes to something containing "hor").
func isTimetableHeader(first string) bool {
	norm := textutil.Normalize(first)
	return strings.Contains(norm, "hor")
}
