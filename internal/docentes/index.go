// Package docentes builds a searchable index of the faculty directory and
// resolves free-text names to directory entries and profile pages.
package docentes

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/sync/singleflight"

	"github.com/quixabot/quixabot/internal/fetch"
	"github.com/quixabot/quixabot/internal/textutil"
)

// DefaultTTL is how long the faculty index stays fresh.
const DefaultTTL = 12 * time.Hour

// Entry is one person in the directory.
type Entry struct {
	Nome string `json:"nome"`
	URL  string `json:"url"`
}

// Index maps lookup keys (full normalized name, adjacent name bigrams and
// the last name) to entries. Insertion order is kept so substring resolution
// stays deterministic across loads.
type Index struct {
	entries map[string]Entry
	keys    []string
}

// Len reports how many lookup keys the index holds.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.keys)
}

// Keys returns the lookup keys in insertion order.
func (ix *Index) Keys() []string {
	if ix == nil {
		return nil
	}
	out := make([]string, len(ix.keys))
	copy(out, ix.keys)
	return out
}

// Entries returns the unique entries in first-seen order.
func (ix *Index) Entries() []Entry {
	if ix == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []Entry
	for _, key := range ix.keys {
		e := ix.entries[key]
		id := e.URL
		if id == "" {
			id = e.Nome
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, e)
	}
	return out
}

// add writes a key unless an earlier heading already claimed it. When two
// professors share a last name the first one in the page wins that key,
// which mirrors how the directory itself orders people.
func (ix *Index) add(key string, e Entry) {
	if key == "" {
		return
	}
	if _, ok := ix.entries[key]; ok {
		return
	}
	ix.entries[key] = e
	ix.keys = append(ix.keys, key)
}

var nameParticles = map[string]bool{"de": true, "do": true, "da": true, "dos": true, "das": true}

var nonPersonTerms = []string{
	"radio", "rádio", "campus", "area", "área", "aluno", "alunos",
	"cursos", "servicos", "serviços", "eventos", "docentes", "docente",
	"perfil", "contato", "sobre", "noticias", "notícias", "home",
	"inicio", "início", "programa",
}

var nameTokenRe = regexp.MustCompile(`[A-Za-zÀ-ÖØ-öø-ÿ']+`)

// isProbablePersonName filters directory headings down to ones that look
// like people: no navigation words, no URLs or e-mails, and at least two
// meaningful tokens (a single token of three letters or more also passes,
// for mononym listings).
func isProbablePersonName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, term := range nonPersonTerms {
		if strings.Contains(lower, term) {
			return false
		}
	}
	if strings.Contains(name, "@") || strings.Contains(name, "http") || strings.Contains(name, ".br") {
		return false
	}
	tokens := nameTokenRe.FindAllString(name, -1)
	if len(tokens) == 0 {
		return false
	}
	if len(tokens) == 1 {
		return len(tokens[0]) >= 3
	}
	long := 0
	for _, t := range tokens {
		if len(t) >= 2 {
			long++
		}
	}
	if long < 2 {
		return false
	}
	stop := map[string]bool{"de": true, "do": true, "da": true, "dos": true, "das": true, "e": true, "a": true, "o": true}
	meaningful := 0
	for _, t := range tokens {
		if !stop[strings.ToLower(t)] {
			meaningful++
		}
	}
	return meaningful >= 2
}

// Directory loads and caches the faculty index.
type Directory struct {
	client  *fetch.Client
	url     string
	baseURL string
	ttl     time.Duration
	timeout time.Duration
	log     *slog.Logger

	mu        sync.RWMutex
	index     *Index
	timestamp time.Time
	group     singleflight.Group
}

// NewDirectory builds a Directory over the faculty listing at url. Relative
// profile links resolve against baseURL.
func NewDirectory(client *fetch.Client, url, baseURL string, ttl time.Duration, log *slog.Logger) *Directory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Directory{
		client:  client,
		url:     url,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		ttl:     ttl,
		timeout: 20 * time.Second,
		log:     log.With("component", "docentes"),
	}
}

// Load returns the current index, refreshing it after the TTL. A failed
// refresh serves the stale index rather than nothing.
func (d *Directory) Load(ctx context.Context) *Index {
	d.mu.RLock()
	ix, ts := d.index, d.timestamp
	d.mu.RUnlock()
	if ix != nil && time.Since(ts) < d.ttl {
		return ix
	}

	v, _, _ := d.group.Do("index", func() (interface{}, error) {
		d.mu.RLock()
		cur, curTS := d.index, d.timestamp
		d.mu.RUnlock()
		if cur != nil && time.Since(curTS) < d.ttl {
			return cur, nil
		}

		res, err := d.client.Get(ctx, d.url, d.timeout)
		if err != nil {
			d.log.Warn("faculty listing fetch failed, serving stale index", "error", err)
			return cur, nil
		}
		fetch.StripTags(res.Doc, "script", "style", "iframe")
		fresh := BuildIndex(res.Doc, d.baseURL)
		d.log.Info("faculty index rebuilt", "keys", fresh.Len())

		d.mu.Lock()
		d.index = fresh
		d.timestamp = time.Now()
		d.mu.Unlock()
		return fresh, nil
	})
	ix, _ = v.(*Index)
	return ix
}

// Invalidate drops the cached index so the next Load refetches.
func (d *Directory) Invalidate() {
	d.mu.Lock()
	d.index = nil
	d.mu.Unlock()
}

// BuildIndex extracts people from the directory page. Headings inside the
// main article are candidates; each one needs a profile link, found inside
// the heading, or as the next link whose text mentions "perfil", or as the
// next link whose href contains "/docente/".
func BuildIndex(doc *goquery.Document, baseURL string) *Index {
	ix := &Index{entries: make(map[string]Entry)}

	root := doc.Find("article").First()
	if root.Length() == 0 {
		root = doc.Selection
	}

	root.Find("h1, h2, h3").Each(func(_ int, heading *goquery.Selection) {
		name := strings.TrimSpace(heading.Text())
		if name == "" || !isProbablePersonName(name) {
			return
		}

		href := headingLink(heading)
		if href == "" {
			return
		}
		if strings.HasPrefix(href, "/") {
			href = baseURL + href
		}
		if !strings.Contains(href, "/docente/") {
			return
		}

		entry := Entry{Nome: name, URL: href}
		key := textutil.Normalize(name)
		ix.add(key, entry)

		tokens := strings.Fields(key)
		for i := 0; i+1 < len(tokens); i++ {
			if len(tokens[i]) < 2 || len(tokens[i+1]) < 2 {
				continue
			}
			ix.add(tokens[i]+" "+tokens[i+1], entry)
		}
		if len(tokens) > 1 {
			last := tokens[len(tokens)-1]
			if len(last) >= 2 && !nameParticles[last] {
				ix.add(last, entry)
			}
		}
	})
	return ix
}

// headingLink finds the profile link for a heading: an anchor inside the
// heading wins, then the following anchors are scanned twice, first for
// "perfil" link text and then for a "/docente/" href.
func headingLink(heading *goquery.Selection) string {
	if a := heading.Find("a[href]").First(); a.Length() > 0 {
		href, _ := a.Attr("href")
		return strings.TrimSpace(href)
	}
	if len(heading.Nodes) == 0 {
		return ""
	}
	links := anchorsAfter(heading.Nodes[0])
	for _, a := range links {
		text := textutil.Normalize(anchorText(a))
		if strings.Contains(text, "perfil") {
			return strings.TrimSpace(attr(a, "href"))
		}
	}
	for _, a := range links {
		href := strings.TrimSpace(attr(a, "href"))
		if strings.Contains(href, "/docente/") {
			return href
		}
	}
	return ""
}

// anchorsAfter collects every a[href] that follows node in document order.
func anchorsAfter(node *html.Node) []*html.Node {
	var out []*html.Node
	for n := nextNode(node, true); n != nil; n = nextNode(n, false) {
		if n.Type == html.ElementNode && n.Data == "a" && attr(n, "href") != "" {
			out = append(out, n)
		}
	}
	return out
}

// nextNode advances through the document: next sibling when skipChildren,
// otherwise first child, climbing to an ancestor's sibling at the end of a
// subtree.
func nextNode(n *html.Node, skipChildren bool) *html.Node {
	if !skipChildren && n.FirstChild != nil {
		return n.FirstChild
	}
	for n != nil {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func anchorText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
