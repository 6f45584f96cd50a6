// Package evidencepool implements the Shared Evidence Pool (C4): a
// thread-safe accumulator for Evidence gathered by parallel researchers.
//
// Grounded on original_source/panel/agentic_research.py's SharedEvidencePool.
package evidencepool

import (
	"sync"

	"github.com/truceio/adjudicator/internal/claim"
)

// Pool holds Evidence contributed by concurrent researchers, deduplicated
// strictly by normalized-URL hash. Content-hash dedup is deferred to
// Claim-merge time.
type Pool struct {
	mu       sync.Mutex
	evidence []claim.Evidence
	seenURLs map[string]struct{}
}

// New returns an empty Pool.
func New() *Pool {
	return &Pool{seenURLs: make(map[string]struct{})}
}

// AddEvidence appends items contributed by agentName, skipping any whose
// normalized URL was already seen, and returns the count accepted.
func (p *Pool) AddEvidence(items []claim.Evidence, agentName string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	accepted := 0
	for _, e := range items {
		key := e.NormalizedURL
		if key == "" {
			key = e.URL
		}
		if _, dup := p.seenURLs[key]; dup {
			continue
		}
		p.seenURLs[key] = struct{}{}
		p.evidence = append(p.evidence, e)
		accepted++
	}
	return accepted
}

// Contents returns a snapshot copy of the pool's Evidence in
// researcher-completion/insertion order.
func (p *Pool) Contents() []claim.Evidence {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]claim.Evidence, len(p.evidence))
	copy(out, p.evidence)
	return out
}

// Len reports the current number of distinct Evidence items held.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.evidence)
}
