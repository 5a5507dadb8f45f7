package docparse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ParseDocument walks every table in the document in order, carrying the two
// nearest preceding headings/paragraphs as row context, and concatenates the
// parsed rows of each table.
func ParseDocument(doc *goquery.Document) []Row {
	var rows []Row
	var recent []string // trailing window of heading/paragraph texts

	doc.Find("h1, h2, h3, h4, p, table").Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) == "table" {
			rows = append(rows, ParseTable(sel, contextFrom(recent))...)
			return
		}
		if text := nodeText(sel, " "); text != "" {
			recent = append(recent, text)
			if len(recent) > 2 {
				recent = recent[len(recent)-2:]
			}
		}
	})
	return rows
}

// contextFrom joins the lookback window oldest-first.
func contextFrom(recent []string) string {
	return strings.Join(recent, " | ")
}

// ParseTable reads the first row as headers (blank headers become "Coluna N")
// and emits one Row per data row — except for weekly timetables, where each
// non-empty day cell explodes into its own Row carrying the time range and
// the day column header.
func ParseTable(table *goquery.Selection, context string) []Row {
	var rows []Row
	trs := table.Find("tr")
	if trs.Length() == 0 {
		return rows
	}

	var headers []string
	trs.First().Find("th, td").Each(func(i int, cell *goquery.Selection) {
		text := nodeText(cell, " ")
		if text == "" {
			text = columnLabel(i + 1)
		}
		headers = append(headers, text)
	})

	timetable := len(headers) > 0 && isTimetableHeader(headers[0])

	trs.Slice(1, trs.Length()).Each(func(_ int, tr *goquery.Selection) {
		var values []string
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			values = append(values, nodeText(cell, "\n"))
		})
		if !anyNonEmpty(values) {
			return
		}

		if timetable && len(values) >= 2 {
			timeRange := values[0]
			limit := len(headers)
			if len(values) < limit {
				limit = len(values)
			}
			for idx := 1; idx < limit; idx++ {
				cellText := values[idx]
				if cellText == "" {
					continue
				}
				row := Row{
					KeyContext: context,
					KeyRowText: cellText,
					KeyTime:    timeRange,
					KeyDay:     headers[idx],
				}
				for pidx, part := range splitSubColumns(cellText) {
					row[columnLabel(pidx+1)] = part
				}
				rows = append(rows, row)
			}
			return
		}

		row := Row{KeyContext: context, KeyRowText: strings.Join(values, " | ")}
		for idx, header := range headers {
			if idx < len(values) {
				row[header] = values[idx]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	})
	return rows
}

// nodeText extracts the text content of a selection, joining the trimmed
// text nodes with sep (the equivalent of BeautifulSoup's get_text(sep)).
func nodeText(sel *goquery.Selection, sep string) string {
	var parts []string
	for _, n := range sel.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, sep)
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

func anyNonEmpty(values []string) bool {
	for _, v := range values {
		if v != "" {
			return true
		}
	}
	return false
}
