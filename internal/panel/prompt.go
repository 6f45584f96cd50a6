package panel

import (
	"sort"
	"time"

	"github.com/truceio/adjudicator/internal/claim"
)

const promptSchema = "truce.panel.v1"

// BuildNormalizedPrompt constructs the wire payload sent to every adapter:
// evidence sorted by published_at ascending, with unpublished (nil) items
// last.
func BuildNormalizedPrompt(c *claim.Claim, window claim.TimeWindow) claim.NormalizedPrompt {
	evidence := make([]claim.Evidence, 0, len(c.Evidence))
	for _, e := range c.Evidence {
		if window.Contains(e.PublishedAt) {
			evidence = append(evidence, e)
		}
	}
	sort.SliceStable(evidence, func(i, j int) bool {
		a, b := evidence[i].PublishedAt, evidence[j].PublishedAt
		if a == nil && b == nil {
			return false
		}
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})

	promptEvidence := make([]claim.PromptEvidence, 0, len(evidence))
	for _, e := range evidence {
		promptEvidence = append(promptEvidence, claim.PromptEvidence{
			ID:          e.ID,
			Publisher:   e.Publisher,
			Snippet:     e.Snippet,
			URL:         e.URL,
			PublishedAt: e.PublishedAt,
		})
	}

	return claim.NormalizedPrompt{
		Schema: promptSchema,
		Claim: claim.PromptClaim{
			ID:       c.ID,
			Text:     c.Text,
			Topic:    c.Topic,
			Entities: c.Entities,
		},
		TimeWindow:    claim.PromptTimeWindow{Start: window.Start, End: window.End},
		Evidence:      promptEvidence,
		EvidenceCount: len(promptEvidence),
		GeneratedAt:   time.Now().UTC(),
	}
}
