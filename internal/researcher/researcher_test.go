package researcher

import (
	"context"
	"fmt"
	"testing"

	"github.com/truceio/adjudicator/internal/claim"
	"github.com/truceio/adjudicator/internal/evsearch"
	"golang.org/x/time/rate"
)

type fakeProvider struct {
	calls   int
	perCall func(call int, query string, limit int) []evsearch.RawSource
}

func (f *fakeProvider) Search(_ context.Context, query string, limit int) ([]evsearch.RawSource, error) {
	f.calls++
	if f.perCall == nil {
		return nil, nil
	}
	return f.perCall(f.calls, query, limit), nil
}

func (f *fakeProvider) Name() string { return "fake" }

func newTestToolset(p evsearch.Provider) *evsearch.Toolset {
	ts := evsearch.NewToolset(p, nil, nil)
	ts.SearchLimit = rate.NewLimiter(rate.Inf, 1)
	return ts
}

func TestConductResearchStopsEarlyWhenSufficient(t *testing.T) {
	p := &fakeProvider{perCall: func(call int, query string, limit int) []evsearch.RawSource {
		out := make([]evsearch.RawSource, 0, limit)
		for i := 0; i < limit; i++ {
			out = append(out, evsearch.RawSource{
				URL:    fmt.Sprintf("https://domain%d-%d.example/%d", call, i, i),
				Domain: fmt.Sprintf("domain%d-%d.example", call, i),
			})
		}
		return out
	}}
	r := New("agent-a", newTestToolset(p))
	evidence := r.ConductResearch(context.Background(), testClaim(), nil)
	if len(evidence) < 8 {
		t.Fatalf("expected at least 8 pieces of evidence once sufficiency is reached, got %d", len(evidence))
	}
	// turn 0 alone (broad_search, limit 10) should already satisfy the
	// totalSources>=8 && uniqueDomains>=4 threshold, stopping after one turn.
	if p.calls != 1 {
		t.Fatalf("calls = %d, want research to stop after the first turn", p.calls)
	}
}

func TestConductResearchRunsAllTurnsWhenInsufficient(t *testing.T) {
	p := &fakeProvider{} // always returns nothing
	r := New("agent-a", newTestToolset(p))
	r.MaxTurns = 3
	evidence := r.ConductResearch(context.Background(), testClaim(), nil)
	if len(evidence) != 0 {
		t.Fatalf("expected no evidence from an empty provider, got %d", len(evidence))
	}
	// turn 0 (broad_search): 1 call, turn 1 (perspective_search): len(perspectives)
	// calls, turn 2 (targeted_source_search): len(TargetedSites) calls.
	wantCalls := 1 + len(perspectives) + len(r.TargetedSites)
	if p.calls != wantCalls {
		t.Fatalf("calls = %d, want %d across %d turns", p.calls, wantCalls, r.MaxTurns)
	}
}

func TestConductResearchTagsProvenance(t *testing.T) {
	p := &fakeProvider{perCall: func(call int, query string, limit int) []evsearch.RawSource {
		if call > 1 {
			return nil
		}
		return []evsearch.RawSource{{URL: "https://a.example/x", Domain: "a.example"}}
	}}
	r := New("agent-b", newTestToolset(p))
	r.MaxTurns = 1
	evidence := r.ConductResearch(context.Background(), testClaim(), nil)
	if len(evidence) != 1 {
		t.Fatalf("len(evidence) = %d, want 1", len(evidence))
	}
	if evidence[0].Provenance != "agent-b_research" {
		t.Fatalf("Provenance = %q", evidence[0].Provenance)
	}
}

func testClaim() *claim.Claim {
	c, err := claim.New("Violent crime in Canada is rising sharply this year.", "crime", nil)
	if err != nil {
		panic(err)
	}
	return c
}

