package evsearch

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/time/rate"
)

type fakeProvider struct {
	results []RawSource
	err     error
	calls   int
}

func (f *fakeProvider) Search(_ context.Context, _ string, limit int) ([]RawSource, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.results) {
		return f.results[:limit], nil
	}
	return f.results, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func unthrottled(t *Toolset) {
	t.SearchLimit = rate.NewLimiter(rate.Inf, 1)
}

func TestSearchWebTagsStrategy(t *testing.T) {
	p := &fakeProvider{results: []RawSource{{URL: "https://a.example/1"}}}
	ts := NewToolset(p, nil, nil)
	unthrottled(ts)

	out := ts.SearchWeb(context.Background(), "query", 5, "academic")
	if len(out) != 1 || out[0].Strategy != "academic" {
		t.Fatalf("got %+v, want one result tagged academic", out)
	}
}

func TestSearchWebNoProviderReturnsEmpty(t *testing.T) {
	ts := NewToolset(nil, nil, nil)
	unthrottled(ts)
	out := ts.SearchWeb(context.Background(), "q", 5, "direct")
	if out != nil {
		t.Fatalf("expected nil for unconfigured provider, got %+v", out)
	}
}

func TestSearchWebSwallowsProviderError(t *testing.T) {
	p := &fakeProvider{err: errors.New("boom")}
	ts := NewToolset(p, nil, nil)
	unthrottled(ts)
	out := ts.SearchWeb(context.Background(), "q", 5, "direct")
	if out != nil {
		t.Fatalf("expected nil on provider error, got %+v", out)
	}
}

func TestFetchPageNilFetcherReturnsSentinel(t *testing.T) {
	ts := NewToolset(nil, nil, nil)
	pc := ts.FetchPage(context.Background(), "https://example.com")
	if pc.Publisher != SentinelPublisher || pc.Snippet != SentinelSnippet {
		t.Fatalf("got %+v, want sentinel values", pc)
	}
}

func TestNewToolsetDefaultsFetchLimit(t *testing.T) {
	ts := NewToolset(nil, nil, nil)
	if ts.FetchLimit == nil {
		t.Fatal("expected a default FetchLimit limiter")
	}
	if got := ts.FetchLimit.Limit(); got != rate.Limit(3) {
		t.Fatalf("FetchLimit rate = %v, want 3", got)
	}
	if got := ts.FetchLimit.Burst(); got != 3 {
		t.Fatalf("FetchLimit burst = %d, want 3", got)
	}
}

func TestFetchPageHonorsFetchLimitContext(t *testing.T) {
	ts := NewToolset(nil, &Fetcher{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pc := ts.FetchPage(ctx, "https://example.com")
	if pc.Publisher != SentinelPublisher || pc.Snippet != SentinelSnippet {
		t.Fatalf("got %+v, want sentinel values once the limiter wait is cancelled", pc)
	}
}
