// Package evsearch is the Search/Fetch Toolset: search_web, fetch_page, and
// deduplicate_sources, plus the leaky-bucket rate limiting shared by callers.
package evsearch

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RawSource is one hit returned by a Provider, tagged with the strategy that
// produced it.
type RawSource struct {
	Title       string
	URL         string
	Snippet     string
	Publisher   string
	Domain      string
	PublishedAt *time.Time
	Strategy    string
}

// HydratedSource is a RawSource enriched with dedup/identity fields by
// DeduplicateSources.
type HydratedSource struct {
	RawSource
	NormalizedURL string
	ContentHash   string
	RetrievedAt   time.Time
}

// PageContent is what FetchPage extracts from a URL.
type PageContent struct {
	Title       string
	Snippet     string
	Publisher   string
	PublishedAt *time.Time
}

// Sentinel values returned by FetchPage on any failure, matching the
// fail-gracefully policy for C1.
const (
	SentinelPublisher = "Unknown"
	SentinelSnippet   = "Content available at source."
)

// Provider is a search backend. Implementations return an error for any
// failure (missing configuration, transport error, non-2xx status, unreadable
// fixture); Toolset.SearchWeb absorbs it, turning it into an empty result plus
// an emitted api_error event.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]RawSource, error)
	Name() string
}

// EventSink lets the toolset emit non-fatal progress events without a hard
// dependency on the session package (avoids an import cycle: session does
// not need to know about evsearch).
type EventSink interface {
	Emit(stage, message string, details map[string]any)
}

// noopSink discards events; used when a caller has no session bus wired up.
type noopSink struct{}

func (noopSink) Emit(string, string, map[string]any) {}

// Toolset bundles a search Provider and an HTTP fetcher behind the rate
// configured rate limits (2 rps search, 3 rps fetch by
// default).
type Toolset struct {
	Provider    Provider
	Fetcher     *Fetcher
	Events      EventSink
	SearchLimit *rate.Limiter
	FetchLimit  *rate.Limiter
}

// NewToolset builds a Toolset with default leaky-bucket limiters. Pass a nil
// EventSink to discard progress events.
func NewToolset(p Provider, f *Fetcher, events EventSink) *Toolset {
	if events == nil {
		events = noopSink{}
	}
	return &Toolset{
		Provider:    p,
		Fetcher:     f,
		Events:      events,
		SearchLimit: rate.NewLimiter(rate.Limit(2), 2),
		FetchLimit:  rate.NewLimiter(rate.Limit(3), 3),
	}
}

// SearchWeb issues a tagged query against the configured Provider. Any
// transport/configuration error is swallowed: it yields an empty list and a
// non-fatal "api_error" event.
func (t *Toolset) SearchWeb(ctx context.Context, query string, limit int, strategyTag string) []RawSource {
	if t.Provider == nil {
		t.Events.Emit("api_error", "no search provider configured", map[string]any{"strategy": strategyTag})
		return nil
	}
	if err := t.SearchLimit.Wait(ctx); err != nil {
		return nil
	}
	results, err := t.Provider.Search(ctx, query, limit)
	if err != nil {
		t.Events.Emit("api_error", "search provider failed: "+err.Error(), map[string]any{"strategy": strategyTag, "provider": t.Provider.Name()})
		return nil
	}
	out := make([]RawSource, 0, len(results))
	for _, r := range results {
		r.Strategy = strategyTag
		out = append(out, r)
	}
	return out
}

// FetchPage fetches and extracts page content for url, returning the
// sentinel fallback on any failure rather than propagating an error.
func (t *Toolset) FetchPage(ctx context.Context, url string) PageContent {
	if t.Fetcher == nil {
		return PageContent{Publisher: SentinelPublisher, Snippet: SentinelSnippet}
	}
	if t.FetchLimit != nil {
		if err := t.FetchLimit.Wait(ctx); err != nil {
			return PageContent{Publisher: SentinelPublisher, Snippet: SentinelSnippet}
		}
	}
	pc, err := t.Fetcher.Fetch(ctx, url)
	if err != nil {
		return PageContent{Publisher: SentinelPublisher, Snippet: SentinelSnippet}
	}
	return pc
}
