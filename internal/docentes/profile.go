package docentes

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/quixabot/quixabot/internal/fetch"
)

// Profile is the public data scraped off a faculty profile page.
type Profile struct {
	Nome   string   `json:"nome"`
	URL    string   `json:"url"`
	Emails []string `json:"emails"`
	Lattes string   `json:"lattes,omitempty"`
	Sigaa  string   `json:"sigaa,omitempty"`
	Bio    string   `json:"bio,omitempty"`
}

const bioMaxLen = 800

var emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// Fetch scrapes the profile page of entry. A fetch failure still returns
// the name and URL so the caller has something to show.
func (d *Directory) Fetch(ctx context.Context, entry Entry) *Profile {
	p := &Profile{Nome: entry.Nome, URL: entry.URL}
	res, err := d.client.Get(ctx, entry.URL, d.timeout)
	if err != nil {
		d.log.Warn("profile fetch failed", "url", entry.URL, "error", err)
		return p
	}
	fetch.StripTags(res.Doc, "script", "style", "iframe")
	parseProfile(res.Doc, p)
	return p
}

func parseProfile(doc *goquery.Document, p *Profile) {
	root := doc.Find("article").First()
	if root.Length() == 0 {
		root = doc.Selection
	}
	content := root.Find(".entry-content").First()
	if content.Length() == 0 {
		content = root
	}

	addEmail := func(email string) {
		email = strings.TrimSpace(email)
		if email == "" {
			return
		}
		for _, seen := range p.Emails {
			if seen == email {
				return
			}
		}
		p.Emails = append(p.Emails, email)
	}

	content.Find("a[href^='mailto:']").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		email := strings.TrimPrefix(href, "mailto:")
		if i := strings.IndexByte(email, '?'); i >= 0 {
			email = email[:i]
		}
		addEmail(email)
	})

	// Cloudflare obfuscates addresses behind data-cfemail attributes or
	// /cdn-cgi/l/email-protection fragments.
	content.Find("[data-cfemail]").Each(func(_ int, s *goquery.Selection) {
		encoded, _ := s.Attr("data-cfemail")
		if decoded, ok := DecodeCFEmail(encoded); ok {
			addEmail(decoded)
		}
	})
	content.Find("a[href*='/cdn-cgi/l/email-protection']").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if i := strings.LastIndexByte(href, '#'); i >= 0 {
			if decoded, ok := DecodeCFEmail(href[i+1:]); ok {
				addEmail(decoded)
			}
		}
	})

	// Some profiles carry the address as bare text only.
	for _, m := range emailRe.FindAllString(content.Text(), -1) {
		addEmail(m)
	}

	content.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if p.Lattes == "" && strings.Contains(href, "lattes.cnpq.br") {
			p.Lattes = href
		}
		if p.Sigaa == "" && strings.Contains(href, "si3.ufc.br") {
			p.Sigaa = href
		}
	})

	var paragraphs []string
	content.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
		return len(paragraphs) < 2
	})
	bio := strings.Join(paragraphs, " ")
	if runes := []rune(bio); len(runes) > bioMaxLen {
		bio = string(runes[:bioMaxLen])
	}
	p.Bio = bio
}

// DecodeCFEmail reverses the Cloudflare e-mail obfuscation: the first hex
// byte is the XOR key for the rest.
func DecodeCFEmail(encoded string) (string, bool) {
	if len(encoded) < 4 || len(encoded)%2 != 0 {
		return "", false
	}
	key, err := strconv.ParseUint(encoded[:2], 16, 8)
	if err != nil {
		return "", false
	}
	var b strings.Builder
	for i := 2; i < len(encoded); i += 2 {
		v, err := strconv.ParseUint(encoded[i:i+2], 16, 8)
		if err != nil {
			return "", false
		}
		b.WriteByte(byte(v) ^ byte(key))
	}
	return b.String(), true
}
