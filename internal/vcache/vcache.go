// Package vcache is the Verification Cache (C8): deterministic SHA-256
// cache-key construction plus an in-memory bounded store.
//
// Key construction is grounded on original_source/verification.py's
// build_cache_key/compute_sources_hash/normalize_claim_text, reproduced
// exactly; storage uses an LRU rather than an unbounded map since the design
// only prescribes get/put/reset semantics, which an LRU satisfies directly.
package vcache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/truceio/adjudicator/internal/claim"
)

const defaultCapacity = 1024

// Cache stores VerificationRecords keyed by the deterministic digest from
// BuildCacheKey.
type Cache struct {
	store *lru.Cache[string, claim.VerificationRecord]
}

// New returns a Cache with capacity slots (defaultCapacity if capacity <= 0).
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	store, _ := lru.New[string, claim.VerificationRecord](capacity)
	return &Cache{store: store}
}

// Get returns a deep copy of the stored record, or false if absent.
func (c *Cache) Get(key string) (claim.VerificationRecord, bool) {
	rec, ok := c.store.Get(key)
	if !ok {
		return claim.VerificationRecord{}, false
	}
	return deepCopy(rec), true
}

// Put replaces any prior entry at key.
func (c *Cache) Put(key string, rec claim.VerificationRecord) {
	c.store.Add(key, deepCopy(rec))
}

// Reset clears all entries; used by tests.
func (c *Cache) Reset() {
	c.store.Purge()
}

func deepCopy(rec claim.VerificationRecord) claim.VerificationRecord {
	out := rec
	out.Providers = append([]string(nil), rec.Providers...)
	if rec.EvidenceIDs != nil {
		out.EvidenceIDs = append([]uuid.UUID(nil), rec.EvidenceIDs...)
	}
	if rec.TimeWindow.Start != nil {
		start := *rec.TimeWindow.Start
		out.TimeWindow.Start = &start
	}
	if rec.TimeWindow.End != nil {
		end := *rec.TimeWindow.End
		out.TimeWindow.End = &end
	}
	return out
}

// BuildCacheKey reproduces the exact key construction used by the cache.
func BuildCacheKey(claimText string, window claim.TimeWindow, providers []string, evidence []claim.Evidence) string {
	normalizedText := strings.ToLower(collapseWhitespace(claimText))
	windowToken := windowToken(window)
	providersToken := providersToken(providers)
	sourcesHash := ComputeSourcesHash(evidence)

	joined := strings.Join([]string{normalizedText, windowToken, providersToken, sourcesHash}, "|")
	return sha256Hex(joined)
}

func windowToken(w claim.TimeWindow) string {
	start := "null"
	if w.Start != nil {
		start = w.Start.UTC().Format("2006-01-02T15:04:05Z")
	}
	end := "null"
	if w.End != nil {
		end = w.End.UTC().Format("2006-01-02T15:04:05Z")
	}
	return start + "|" + end
}

func providersToken(providers []string) string {
	sorted := append([]string(nil), providers...)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}

// ComputeSourcesHash is SHA-256 over the "|"-joined tuples (id, url,
// publisher, snippet, published_at?.iso) for each Evidence, sorted by id;
// "no-sources" if evidence is empty.
func ComputeSourcesHash(evidence []claim.Evidence) string {
	if len(evidence) == 0 {
		return "no-sources"
	}
	sorted := append([]claim.Evidence(nil), evidence...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID.String() < sorted[j].ID.String() })

	var b strings.Builder
	for i, e := range sorted {
		if i > 0 {
			b.WriteByte('|')
		}
		published := ""
		if e.PublishedAt != nil {
			published = e.PublishedAt.UTC().Format("2006-01-02T15:04:05Z")
		}
		b.WriteString(strings.Join([]string{e.ID.String(), e.URL, e.Publisher, e.Snippet, published}, "|"))
	}
	return sha256Hex(b.String())
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
