// Package explorer implements the Explorer Agent (C2): multi-strategy
// search, content-hydration for the direct strategy, deduplication,
// time-window filtering, and domain-diversity enforcement.
//
// Grounded on original_source/mcp/explorer.py's ExplorerAgent.gather_sources.
package explorer

import (
	"context"
	"math"

	"github.com/truceio/adjudicator/internal/claim"
	"github.com/truceio/adjudicator/internal/evsearch"
)

const (
	defaultTargetCount = 20
	defaultDomainShare = 0.25
	otherStrategyCap   = 10
)

// Source is a fully-hydrated, filtered, diversity-enforced search hit ready
// to become Evidence.
type Source = evsearch.HydratedSource

// Agent runs gather_sources against a Toolset.
type Agent struct {
	Toolset      *evsearch.Toolset
	TargetCount  int
	DomainShare  float64
}

// New returns an Agent with the default tuning (target 20, share 0.25).
func New(t *evsearch.Toolset) *Agent {
	return &Agent{Toolset: t, TargetCount: defaultTargetCount, DomainShare: defaultDomainShare}
}

type strategy struct {
	tag   string
	query func(claimText string) string
	cap   int
}

func (a *Agent) strategies(targetCount int) []strategy {
	return []strategy{
		{tag: "direct", query: func(c string) string { return c }, cap: targetCount},
		{tag: "academic", query: func(c string) string { return "research study analysis " + c }, cap: otherStrategyCap},
		{tag: "government", query: func(c string) string { return "government official statistics " + c }, cap: otherStrategyCap},
		{tag: "news", query: func(c string) string { return "news report investigation " + c }, cap: otherStrategyCap},
	}
}

// GatherSources runs the four strategies in order, hydrates the direct
// strategy's hits by fetching each page, deduplicates, filters by time
// window, and enforces domain diversity up to TargetCount results.
func (a *Agent) GatherSources(ctx context.Context, claimText string, window *claim.TimeWindow) []Source {
	targetCount := a.TargetCount
	if targetCount <= 0 {
		targetCount = defaultTargetCount
	}
	share := a.DomainShare
	if share <= 0 {
		share = defaultDomainShare
	}

	var raw []evsearch.RawSource
	for _, s := range a.strategies(targetCount) {
		hits := a.Toolset.SearchWeb(ctx, s.query(claimText), s.cap, s.tag)
		if s.tag == "direct" {
			hits = a.hydrateDirect(ctx, hits)
		}
		raw = append(raw, hits...)
	}

	hydrated := evsearch.DeduplicateSources(raw)

	if window != nil {
		hydrated = filterByWindow(hydrated, *window)
	}

	maxPerDomain := int(math.Max(1, math.Floor(float64(targetCount)*share)))
	return enforceDomainDiversity(hydrated, targetCount, maxPerDomain)
}

// hydrateDirect calls FetchPage on each direct-strategy hit and merges
// non-sentinel fields over the search result.
func (a *Agent) hydrateDirect(ctx context.Context, hits []evsearch.RawSource) []evsearch.RawSource {
	out := make([]evsearch.RawSource, 0, len(hits))
	for _, h := range hits {
		pc := a.Toolset.FetchPage(ctx, h.URL)
		if pc.Snippet != "" && pc.Snippet != evsearch.SentinelSnippet {
			h.Snippet = pc.Snippet
		}
		if pc.Publisher != "" && pc.Publisher != evsearch.SentinelPublisher {
			h.Publisher = pc.Publisher
		}
		if pc.Title != "" {
			h.Title = pc.Title
		}
		if pc.PublishedAt != nil {
			h.PublishedAt = pc.PublishedAt
		}
		out = append(out, h)
	}
	return out
}

func filterByWindow(hydrated []Source, window claim.TimeWindow) []Source {
	out := make([]Source, 0, len(hydrated))
	for _, h := range hydrated {
		if window.Contains(h.PublishedAt) {
			out = append(out, h)
		}
	}
	return out
}

// enforceDomainDiversity iterates in list order (preserving strategy/rank
// order), emitting a source only while its domain is under maxPerDomain,
// stopping once targetCount sources have been selected.
func enforceDomainDiversity(hydrated []Source, targetCount, maxPerDomain int) []Source {
	counts := make(map[string]int)
	out := make([]Source, 0, targetCount)
	for _, h := range hydrated {
		if len(out) >= targetCount {
			break
		}
		if counts[h.Domain] >= maxPerDomain {
			continue
		}
		counts[h.Domain]++
		out = append(out, h)
	}
	return out
}
