package llmprovider

import (
	"strings"

	"github.com/google/uuid"
	"github.com/truceio/adjudicator/internal/claim"
)

// direction is the inferred lexical lean of a claim or its evidence.
type direction int

const (
	directionUnknown direction = iota
	directionUp
	directionDown
)

var upCues = []string{"rise", "rising", "rose", "increase", "increasing", "increased", "up", "grew", "growing", "higher", "surge"}
var downCues = []string{"fall", "falling", "fell", "decrease", "decreasing", "decreased", "down", "declined", "declining", "lower", "drop", "dropped"}

func inferClaimDirection(text string) direction {
	lower := strings.ToLower(text)
	up, down := containsAny(lower, upCues), containsAny(lower, downCues)
	switch {
	case up && !down:
		return directionUp
	case down && !up:
		return directionDown
	default:
		return directionUnknown
	}
}

func inferEvidenceDirection(snippets []string) direction {
	upCount, downCount := 0, 0
	for _, s := range snippets {
		lower := strings.ToLower(s)
		for _, cue := range upCues {
			if strings.Contains(lower, cue) {
				upCount++
			}
		}
		for _, cue := range downCues {
			if strings.Contains(lower, cue) {
				downCount++
			}
		}
	}
	switch {
	case upCount > downCount:
		return directionUp
	case downCount > upCount:
		return directionDown
	default:
		return directionUnknown
	}
}

func containsAny(text string, cues []string) bool {
	for _, c := range cues {
		if strings.Contains(text, c) {
			return true
		}
	}
	return false
}

// GenerateStubPayload builds a deterministic stub payload: it
// attaches up to 3 evidence IDs to both arguments and derives an
// approval/refusal lean from provider base tendency plus inferred
// directional alignment between claim and evidence.
func GenerateStubPayload(providerID, model string, prompt claim.NormalizedPrompt, evidenceLookup map[string]uuid.UUID, providerBase float64) claim.PanelModelVerdict {
	ids := make([]uuid.UUID, 0, 3)
	snippets := make([]string, 0, len(prompt.Evidence))
	for i, e := range prompt.Evidence {
		snippets = append(snippets, e.Snippet)
		if i < 3 {
			ids = append(ids, e.ID)
		}
	}

	claimDir := inferClaimDirection(prompt.Claim.Text)
	evidenceDir := inferEvidenceDirection(snippets)

	anchor := providerBase
	switch {
	case claimDir != directionUnknown && evidenceDir != directionUnknown:
		if claimDir == evidenceDir {
			anchor = 0.8
		} else {
			anchor = 0.2
		}
	case claimDir != directionUnknown:
		if claimDir == directionUp {
			anchor = 0.2
		} else {
			anchor = 0.8
		}
	}

	approvalConfidence := clamp(0.7*anchor+0.3*providerBase, 0.05, 0.95)
	refusalConfidence := 1 - approvalConfidence

	approvalText := padArgument(stubApprovalText(prompt.Claim.Text))
	refusalText := padArgument(stubRefusalText(prompt.Claim.Text))

	return claim.PanelModelVerdict{
		ProviderID: providerID,
		Model:      model,
		Approval: claim.ArgumentWithEvidence{
			Argument:    approvalText,
			EvidenceIDs: ids,
			Confidence:  approvalConfidence,
		},
		Refusal: claim.ArgumentWithEvidence{
			Argument:    refusalText,
			EvidenceIDs: ids,
			Confidence:  refusalConfidence,
		},
		Failed: false,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func stubApprovalText(claimText string) string {
	return "The gathered evidence offers partial corroboration for the claim: \"" + claimText + "\". " +
		"This fallback assessment was produced without a successful provider response."
}

func stubRefusalText(claimText string) string {
	return "The gathered evidence does not conclusively establish the claim: \"" + claimText + "\". " +
		"This fallback assessment was produced without a successful provider response."
}

// ProviderBase tendencies, used when direction cannot be inferred at all.
const (
	BaseOpenAI    = 0.55
	BaseXAI       = 0.50
	BaseGemini    = 0.52
	BaseAnthropic = 0.48
)
