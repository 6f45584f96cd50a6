package evsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// BraveGrounding implements Provider against Brave's web search grounding
// endpoint (or an MCP proxy in front of it), mirroring the
// SearxNG provider shape but grounded on the reference
// BraveGroundingAPI: a domain_map translates hostnames into human-readable
// publisher names when the API doesn't supply one.
type BraveGrounding struct {
	BaseURL    string // defaults to the public Brave endpoint if empty
	APIKey     string
	HTTPClient *http.Client
	UserAgent  string
	DomainMap  map[string]string
}

const defaultBraveBaseURL = "https://api.search.brave.com/res/v1/web/search"

func (b *BraveGrounding) Name() string { return "brave" }

func (b *BraveGrounding) Search(ctx context.Context, query string, limit int) ([]RawSource, error) {
	if b.APIKey == "" {
		return nil, fmt.Errorf("evsearch: brave api key not configured")
	}
	if limit <= 0 {
		limit = 10
	}
	base := b.BaseURL
	if base == "" {
		base = defaultBraveBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("count", fmt.Sprintf("%d", limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Subscription-Token", b.APIKey)
	req.Header.Set("Accept", "application/json")
	if b.UserAgent != "" {
		req.Header.Set("User-Agent", b.UserAgent)
	}

	hc := b.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("evsearch: brave status %d", resp.StatusCode)
	}

	var braveResp braveSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&braveResp); err != nil {
		return nil, err
	}

	out := make([]RawSource, 0, len(braveResp.Web.Results))
	for _, r := range braveResp.Web.Results {
		if r.URL == "" || r.Title == "" {
			continue
		}
		domain := hostOf(r.URL)
		out = append(out, RawSource{
			Title:     strings.TrimSpace(r.Title),
			URL:       strings.TrimSpace(r.URL),
			Snippet:   strings.TrimSpace(r.Description),
			Publisher: b.publisherFor(domain),
			Domain:    domain,
		})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// publisherFor looks up a friendly name for domain in DomainMap, falling
// back to the bare domain when no mapping exists.
func (b *BraveGrounding) publisherFor(domain string) string {
	if b.DomainMap != nil {
		if name, ok := b.DomainMap[domain]; ok {
			return name
		}
	}
	return domain
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

type braveSearchResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// DefaultDomainMap mirrors the reference publisher-friendly
// names for the government/news sites referenced by the agentic researcher's
// targeted_source_search turn.
func DefaultDomainMap() map[string]string {
	return map[string]string{
		"statcan.gc.ca": "Statistics Canada",
		"canada.ca":     "Government of Canada",
		"cbc.ca":        "CBC News",
		"reuters.com":   "Reuters",
	}
}
