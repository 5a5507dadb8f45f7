package feriados

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/PuerkitoBio/goquery"

	"github.com/quixabot/quixabot/internal/fetch"
)

// Lookup fetches the university calendar and the municipal holiday listing.
type Lookup struct {
	client       *fetch.Client
	calendarURL  string // per-year calendar, year appended
	municipalURL string // municipal holidays, year (and month) appended
	timeout      time.Duration
}

// NewLookup builds a holiday Lookup over the two source URLs.
func NewLookup(client *fetch.Client, calendarURL, municipalURL string) *Lookup {
	return &Lookup{
		client:       client,
		calendarURL:  strings.TrimSuffix(calendarURL, "/"),
		municipalURL: strings.TrimSuffix(municipalURL, "/"),
		timeout:      20 * time.Second,
	}
}

// Search assembles the holiday report for a year, optionally narrowed to a
// month or to the week of a day. With checkWeek set and no day given, the
// focus moves to the upcoming Monday.
func (l *Lookup) Search(ctx context.Context, year, month, day int, checkWeek bool, now time.Time) string {
	if checkWeek && day == 0 {
		ahead := 7 - int(now.Weekday()-time.Monday+7)%7
		next := now.AddDate(0, 0, ahead)
		year, month, day = next.Year(), int(next.Month()), next.Day()
	}

	var focus string
	switch {
	case checkWeek && day != 0:
		focus = fmt.Sprintf("Semana do dia %d/%d/%d", day, month, year)
	case month != 0:
		focus = fmt.Sprintf("Mês %d/%d", month, year)
	default:
		focus = fmt.Sprintf("Ano Completo %d", year)
	}

	res := []string{fmt.Sprintf("--- INFO FERIADOS (Foco: %s) ---", focus)}

	calendarURL := fmt.Sprintf("%s/%d", l.calendarURL, year)
	if doc, err := l.fetchStripped(ctx, calendarURL, "script", "style"); err != nil {
		res = append(res, fmt.Sprintf("Erro ao ler UFC (rede): %v", err))
	} else {
		res = append(res, fmt.Sprintf("CALENDÁRIO UFC (%d):\n%s", year, docText(doc)))
	}

	municipalURL := fmt.Sprintf("%s/%d", l.municipalURL, year)
	if month != 0 {
		municipalURL = fmt.Sprintf("%s/%d", municipalURL, month)
	}
	if doc, err := l.fetchStripped(ctx, municipalURL, "script", "style", "iframe"); err != nil {
		res = append(res, fmt.Sprintf("Erro ao ler Feriados Municipais (rede): %v", err))
	} else {
		res = append(res, fmt.Sprintf("FERIADOS MUNICIPAIS (%s):\n%s", focus, docText(doc)))
	}

	return strings.Join(res, "\n")
}

func (l *Lookup) fetchStripped(ctx context.Context, url string, tags ...string) (*goquery.Document, error) {
	res, err := l.client.Get(ctx, url, l.timeout)
	if err != nil {
		return nil, err
	}
	fetch.StripTags(res.Doc, tags...)
	return res.Doc, nil
}

// docText extracts the page text, one line per text node.
func docText(doc *goquery.Document) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range doc.Selection.Nodes {
		walk(node)
	}
	return strings.Join(parts, "\n")
}
