// Package urlnorm normalizes URLs for deduplication and computes the
// content-hash used to spot near-duplicate Evidence across search strategies.
//
// Split out of internal/aggregate: that package's
// MergeAndNormalize strips tracking params for a cross-query merge, which is
// a narrower job than the canonical form this package produces for
// Evidence.NormalizedURL.
package urlnorm

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Normalize returns the canonical form of raw: lowercased scheme and host,
// path with any trailing slash removed (a bare host and a root path both
// collapse to "/"), query parameters sorted and re-encoded, fragment
// dropped. Idempotent: Normalize(Normalize(u)) == Normalize(u).
func Normalize(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	if u.Path == "" {
		u.Path = "/"
	} else if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
		if u.Path == "" {
			u.Path = "/"
		}
	}
	if u.RawQuery != "" {
		q := u.Query()
		keys := make([]string, 0, len(q))
		for k := range q {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sorted := make(url.Values, len(q))
		for _, k := range keys {
			vals := q[k]
			sort.Strings(vals)
			sorted[k] = vals
		}
		u.RawQuery = sorted.Encode()
	}
	return u.String(), nil
}

// Domain extracts the lowercased host from raw, ignoring parse errors by
// returning the empty string.
func Domain(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// ContentHash computes the SHA-256 hex digest of the lowercased, trimmed
// concatenation of title and snippet, with no separator between them.
func ContentHash(title, snippet string) string {
	norm := strings.ToLower(strings.TrimSpace(title)) + strings.ToLower(strings.TrimSpace(snippet))
	sum := sha256.Sum256([]byte(norm))
	return hex.EncodeToString(sum[:])
}
