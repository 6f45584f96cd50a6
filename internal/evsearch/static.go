package evsearch

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
)

// Static loads search results from a local JSON file, for offline testing
// and dry-run use. The file is an array of {title,url,snippet,publisher,domain}.
//
// Adapted from internal/search.FileProvider: the token-matching
// query filter is kept, generalized to the RawSource shape used here.
type Static struct {
	Path string
}

func (s *Static) Name() string { return "static" }

func (s *Static) Search(_ context.Context, query string, limit int) ([]RawSource, error) {
	if strings.TrimSpace(s.Path) == "" {
		return nil, errors.New("evsearch: static provider path is empty")
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	var raw []RawSource
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]RawSource, 0, len(raw))
	for _, r := range raw {
		if r.URL == "" || r.Title == "" {
			continue
		}
		if q == "" || strings.Contains(strings.ToLower(r.Title), q) ||
			strings.Contains(strings.ToLower(r.Snippet), q) || matchesByTokens(q, r.Title+"\n"+r.Snippet) {
			out = append(out, r)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// matchesByTokens performs a loose token match: at least two query tokens of
// length >= 3 must appear in text. Keeps the static provider usable for
// natural-language claim text rather than exact title substrings.
func matchesByTokens(query, text string) bool {
	if query == "" {
		return true
	}
	text = strings.ToLower(text)
	tokens := strings.Fields(query)
	hits := 0
	for _, t := range tokens {
		if len(t) < 3 {
			continue
		}
		if strings.Contains(text, t) {
			hits++
			if hits >= 2 {
				return true
			}
		}
	}
	return false
}
