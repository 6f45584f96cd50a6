package evsearch

import (
	"time"

	"github.com/truceio/adjudicator/internal/urlnorm"
)

// DeduplicateSources populates NormalizedURL/ContentHash/RetrievedAt on each
// raw source and drops subsequent occurrences of a normalized URL already
// seen earlier in the batch (first-seen wins, preserving rank order).
func DeduplicateSources(raw []RawSource) []HydratedSource {
	seen := make(map[string]struct{}, len(raw))
	now := time.Now().UTC()
	out := make([]HydratedSource, 0, len(raw))
	for _, r := range raw {
		if r.URL == "" {
			continue
		}
		norm, err := urlnorm.Normalize(r.URL)
		if err != nil {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		if r.Domain == "" {
			r.Domain = urlnorm.Domain(r.URL)
		}
		out = append(out, HydratedSource{
			RawSource:     r,
			NormalizedURL: norm,
			ContentHash:   urlnorm.ContentHash(r.Title, r.Snippet),
			RetrievedAt:   now,
		})
	}
	return out
}
