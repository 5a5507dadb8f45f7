// Package fetch wraps outbound HTTP access to the scraped sites. All
// scrapers go through a shared Client so the user agent, timeouts and the
// outbound rate limit are applied uniformly.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Client fetches and parses HTML documents.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

// NewClient creates a fetch client. rps bounds outbound requests per second;
// zero disables the limiter.
func NewClient(rps float64) *Client {
	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	}
	return &Client{
		httpClient: &http.Client{},
		limiter:    limiter,
		userAgent:  defaultUserAgent,
	}
}

// Result is a fetched document plus the final URL after redirects.
type Result struct {
	Doc      *goquery.Document
	FinalURL string
}

// Get downloads url with the given timeout and parses the body as HTML.
// Non-2xx statuses are errors.
func (c *Client) Get(ctx context.Context, url string, timeout time.Duration) (*Result, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return &Result{Doc: doc, FinalURL: finalURL}, nil
}

// Status performs a quick availability probe and reports whether the site
// answered 200 within the timeout.
func (c *Client) Status(ctx context.Context, url string, timeout time.Duration) bool {
	res, err := c.getStatus(ctx, url, timeout)
	if err != nil {
		slog.Warn("Status probe failed", "url", url, "error", err)
		return false
	}
	return res == http.StatusOK
}

func (c *Client) getStatus(ctx context.Context, url string, timeout time.Duration) (int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, err
		}
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// StripTags removes the given elements from the document before text
// extraction (script/style/iframe noise).
func StripTags(doc *goquery.Document, tags ...string) {
	if len(tags) == 0 {
		return
	}
	doc.Find(strings.Join(tags, ", ")).Remove()
}
