package evsearch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Fetcher retrieves a page and extracts title/description/publish-date/site
// name. Adapted from internal/fetch.Client (timeout + bounded
// retry) fused with internal/extract.go's html-walking helpers, narrowed to
// the metadata fields a caller cares about rather than full readable-text
// extraction.
type Fetcher struct {
	HTTPClient        *http.Client
	UserAgent         string
	PerRequestTimeout time.Duration
	MaxAttempts       int
	Robots            *RobotsGuard
}

// NewFetcher returns a Fetcher with a dedicated HTTP client (default
// transport, 10s client timeout), a 10s per-request timeout, up to two
// attempts, and robots.txt enforcement, matching the HTTP-call timeout policy.
func NewFetcher() *Fetcher {
	return &Fetcher{
		HTTPClient:        newHighThroughputHTTPClient(),
		UserAgent:         "truce-adjudicator/1.0",
		PerRequestTimeout: 10 * time.Second,
		MaxAttempts:       2,
		Robots:            &RobotsGuard{UserAgent: "truce-adjudicator"},
	}
}

func newHighThroughputHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

// Fetch retrieves url and extracts PageContent. Transport failures and
// non-2xx statuses are returned as an error; FetchPage (the caller) converts
// those into the sentinel fallback object.
func (f *Fetcher) Fetch(ctx context.Context, url string) (PageContent, error) {
	if f.Robots != nil && !f.Robots.Allowed(ctx, url) {
		return PageContent{}, fmt.Errorf("evsearch: disallowed by robots.txt: %s", url)
	}
	attempts := f.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		pc, err := f.tryOnce(ctx, url)
		if err == nil {
			return pc, nil
		}
		lastErr = err
	}
	return PageContent{}, lastErr
}

func (f *Fetcher) tryOnce(ctx context.Context, url string) (PageContent, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.PerRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return PageContent{}, err
	}
	req.Header.Set("User-Agent", f.UserAgent)

	hc := f.HTTPClient
	if hc == nil {
		hc = newHighThroughputHTTPClient()
	}
	resp, err := hc.Do(req)
	if err != nil {
		return PageContent{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return PageContent{}, fmt.Errorf("evsearch: fetch status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return PageContent{}, err
	}
	return extractMetadata(body), nil
}

// extractMetadata parses HTML and pulls out title, a description (meta
// description, falling back to the first paragraph >= 50 chars), a
// publication-date candidate, and a site-name meta tag.
func extractMetadata(body []byte) PageContent {
	node, err := html.Parse(bytes.NewReader(body))
	if err != nil || node == nil {
		return PageContent{}
	}

	var pc PageContent
	var firstLongParagraph string
	var metaDescription string
	var siteName string
	var publishedRaw string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "title":
				if n.FirstChild != nil && pc.Title == "" {
					pc.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				name := attr(n, "name")
				property := attr(n, "property")
				content := strings.TrimSpace(attr(n, "content"))
				if content == "" {
					break
				}
				switch strings.ToLower(name) {
				case "description":
					if metaDescription == "" {
						metaDescription = content
					}
				case "author":
					if siteName == "" {
						siteName = content
					}
				}
				switch strings.ToLower(property) {
				case "og:site_name":
					siteName = content
				case "og:description":
					if metaDescription == "" {
						metaDescription = content
					}
				case "article:published_time", "og:published_time":
					if publishedRaw == "" {
						publishedRaw = content
					}
				}
				if publishedRaw == "" && (strings.EqualFold(name, "date") || strings.EqualFold(name, "publish-date") || strings.EqualFold(name, "article:published_time")) {
					publishedRaw = content
				}
			case "p":
				text := textOf(n)
				if firstLongParagraph == "" && len(text) >= 50 {
					firstLongParagraph = text
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	pc.Publisher = siteName
	if pc.Publisher == "" {
		pc.Publisher = SentinelPublisher
	}
	pc.Snippet = metaDescription
	if pc.Snippet == "" {
		pc.Snippet = firstLongParagraph
	}
	if pc.Snippet == "" {
		pc.Snippet = SentinelSnippet
	}
	if publishedRaw != "" {
		if t, ok := parsePublishedAt(publishedRaw); ok {
			pc.PublishedAt = &t
		}
	}
	return pc
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func parsePublishedAt(raw string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
