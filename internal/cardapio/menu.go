package cardapio

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/quixabot/quixabot/internal/fetch"
	"github.com/quixabot/quixabot/internal/textutil"
)

// sectionLabels maps normalized meal headers to their display form.
var sectionLabels = map[string]string{
	"desjejum": "Desjejum",
	"almoco":   "Almoço",
	"jantar":   "Jantar",
}

// sectionOrder fixes the meal ordering in formatted output.
var sectionOrder = []string{"Desjejum", "Almoço", "Jantar"}

// Section is one meal of the day: categories in page order, each with its
// item list.
type Section struct {
	Categories []string
	Items      map[string][]string
}

// Menu loads the restaurant menu page for a given day.
type Menu struct {
	client  *fetch.Client
	baseURL string
	timeout time.Duration
	log     *slog.Logger
}

// NewMenu builds a Menu over the restaurant base URL; the ISO date is
// appended per request.
func NewMenu(client *fetch.Client, baseURL string, log *slog.Logger) *Menu {
	return &Menu{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: 20 * time.Second,
		log:     log.With("component", "cardapio"),
	}
}

// FetchDay returns the formatted menu for an ISO date. Parse failures fall
// back to a trimmed text dump of the page so the answer is never empty.
func (m *Menu) FetchDay(ctx context.Context, dateISO string) (string, error) {
	url := m.baseURL + "/" + dateISO
	m.log.Info("fetching menu", "url", url)

	res, err := m.client.Get(ctx, url, m.timeout)
	if err != nil {
		return "", fmt.Errorf("buscar cardápio: %w", err)
	}
	fetch.StripTags(res.Doc, "script", "style", "nav")

	content := res.Doc.Find("#content-section").First()
	if content.Length() == 0 {
		content = res.Doc.Find("body").First()
	}
	if content.Length() == 0 {
		return fmt.Sprintf("--- CARDÁPIO (%s) ---\nConteúdo não encontrado.", dateISO), nil
	}

	sections := ExtractSections(contentLines(content))
	if len(sections) > 0 {
		return FormatSections(dateISO, sections), nil
	}

	text := strings.TrimSpace(strings.Join(contentLines(content), "\n"))
	if runes := []rune(text); len(runes) > 3000 {
		text = string(runes[:3000])
	}
	return fmt.Sprintf("--- CARDÁPIO (%s) ---\n%s", dateISO, text), nil
}

// contentLines flattens the selection into trimmed non-empty text lines,
// one per text node, so adjacent elements never glue together.
func contentLines(sel *goquery.Selection) []string {
	var lines []string
	add := func(chunk string) {
		for _, line := range strings.Split(chunk, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				lines = append(lines, line)
			}
		}
	}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			add(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range sel.Nodes {
		walk(node)
	}
	return lines
}

// ExtractSections groups menu lines under their meal headers. Inside a
// section, "Categoria\tvalor", "Categoria: valor" and double-space splits
// open a category; bare lines append to the open category or to "Itens".
// Categories that end up empty render as "Não informado".
func ExtractSections(lines []string) map[string]*Section {
	sections := make(map[string]*Section)
	var current *Section
	currentCategory := ""

	for _, line := range lines {
		if label, ok := sectionLabels[textutil.Normalize(line)]; ok {
			if _, exists := sections[label]; !exists {
				sections[label] = &Section{Items: make(map[string][]string)}
			}
			current = sections[label]
			currentCategory = ""
			continue
		}
		if current == nil {
			continue
		}

		category, value := splitCategory(line)
		if category != "" {
			currentCategory = category
			if _, ok := current.Items[category]; !ok {
				current.Categories = append(current.Categories, category)
				current.Items[category] = nil
			}
			if value != "" {
				current.Items[category] = append(current.Items[category], value)
			}
			continue
		}

		if currentCategory != "" {
			current.Items[currentCategory] = append(current.Items[currentCategory], line)
		} else {
			if _, ok := current.Items["Itens"]; !ok {
				current.Categories = append(current.Categories, "Itens")
			}
			current.Items["Itens"] = append(current.Items["Itens"], line)
		}
	}

	for _, s := range sections {
		for _, cat := range s.Categories {
			if len(s.Items[cat]) == 0 {
				s.Items[cat] = []string{"Não informado"}
			}
		}
	}
	return sections
}

// splitCategory breaks "Categoria<sep>valor" lines on tab, colon or a
// double space, in that order.
func splitCategory(line string) (string, string) {
	for _, sep := range []string{"\t", ":", "  "} {
		if i := strings.Index(line, sep); i >= 0 {
			return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+len(sep):])
		}
	}
	return "", ""
}

// FormatSections renders the menu in the fixed meal order, first item of a
// category prefixed with its name, continuation items tab-indented.
func FormatSections(dateISO string, sections map[string]*Section) string {
	lines := []string{fmt.Sprintf("--- CARDÁPIO (%s) ---", dateISO)}
	for _, name := range sectionOrder {
		s, ok := sections[name]
		if !ok {
			continue
		}
		lines = append(lines, name)
		for _, cat := range s.Categories {
			for i, value := range s.Items[cat] {
				if i == 0 {
					lines = append(lines, cat+"\t"+value)
				} else {
					lines = append(lines, "\t"+value)
				}
			}
		}
	}
	return strings.Join(lines, "\n")
}
