// Package verdict is the Aggregator & Reconciler (C7): normalizes per-model
// approval/refusal confidences, averages across successful models, derives
// a discrete verdict, and reconciles complementary claims.
//
// This is a REDESIGN relative to original_source/panel/run_panel.py's old
// single-verdict majority-vote aggregate_panel, which codifies a
// dual-confidence-normalization design instead, which is what this package
// implements; the original is consulted only for the idea of a pure
// function over a verdict list, not for its aggregation math.
package verdict

import (
	"math"
	"strings"

	"github.com/truceio/adjudicator/internal/claim"
)

// AggregatePanel implements the aggregation steps in order.
func AggregatePanel(verdicts []claim.PanelModelVerdict) claim.PanelSummary {
	var normalizedApprovals, normalizedRefusals []float64

	for _, v := range verdicts {
		if v.Failed {
			continue
		}
		a, r := v.Approval.Confidence, v.Refusal.Confidence
		sum := a + r
		var aPrime, rPrime float64
		if sum == 0 {
			aPrime, rPrime = 0.5, 0.5
		} else {
			aPrime, rPrime = a/sum, r/sum
		}
		normalizedApprovals = append(normalizedApprovals, aPrime)
		normalizedRefusals = append(normalizedRefusals, rPrime)
	}

	count := len(normalizedApprovals)
	if count == 0 {
		return claim.PanelSummary{SupportConfidence: 0, RefuteConfidence: 0, ModelCount: 0, Verdict: claim.VerdictUnknown}
	}

	support := round4(mean(normalizedApprovals))
	refute := round4(mean(normalizedRefusals))

	return claim.PanelSummary{
		SupportConfidence: support,
		RefuteConfidence:  refute,
		ModelCount:        count,
		Verdict:           deriveVerdict(support, refute),
	}
}

func deriveVerdict(support, refute float64) claim.PanelVerdict {
	delta := math.Abs(support - refute)
	switch {
	case support == refute:
		return claim.VerdictMixed
	case delta >= 0.30:
		if support > refute {
			return claim.VerdictTrue
		}
		return claim.VerdictFalse
	case delta >= 0.10:
		return claim.VerdictMixed
	default:
		return claim.VerdictUnknown
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// ClaimForReconciliation is the minimal view Reconcile needs of a second
// claim under evaluation: its neutralized text (for token-overlap), its
// inferred direction, and its own summary.
type ClaimForReconciliation struct {
	NeutralizedText string
	Direction       string // "" | "up" | "down"
	Summary         claim.PanelSummary
}

// Reconcile implements complementary-claim reconciliation: if a and
// b are complementary (token overlap + opposite direction) and both
// currently carry support > 0.6, the weaker-support one is inverted
// (support<->refute, verdict flipped TRUE<->FALSE, MIXED/UNKNOWN unchanged).
// Returns the possibly-modified pair (a, b); at most one of the two is
// altered.
func Reconcile(a, b ClaimForReconciliation) (ClaimForReconciliation, ClaimForReconciliation) {
	if !areComplementary(a, b) {
		return a, b
	}
	if a.Summary.SupportConfidence <= 0.6 || b.Summary.SupportConfidence <= 0.6 {
		return a, b
	}
	if a.Summary.SupportConfidence < b.Summary.SupportConfidence {
		a.Summary = invert(a.Summary)
		return a, b
	}
	if b.Summary.SupportConfidence < a.Summary.SupportConfidence {
		b.Summary = invert(b.Summary)
		return a, b
	}
	return a, b
}

func invert(s claim.PanelSummary) claim.PanelSummary {
	s.SupportConfidence, s.RefuteConfidence = s.RefuteConfidence, s.SupportConfidence
	switch s.Verdict {
	case claim.VerdictTrue:
		s.Verdict = claim.VerdictFalse
	case claim.VerdictFalse:
		s.Verdict = claim.VerdictTrue
	}
	return s
}

func areComplementary(a, b ClaimForReconciliation) bool {
	if a.Direction == "" || b.Direction == "" || a.Direction == b.Direction {
		return false
	}
	ta := tokenSet(a.NeutralizedText)
	tb := tokenSet(b.NeutralizedText)
	overlap := intersectionSize(ta, tb)
	minLen := len(ta)
	if len(tb) < minLen {
		minLen = len(tb)
	}
	threshold := math.Max(2, 0.6*float64(minLen))
	return float64(overlap) >= threshold
}

func tokenSet(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		out[tok] = struct{}{}
	}
	return out
}

func intersectionSize(a, b map[string]struct{}) int {
	count := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			count++
		}
	}
	return count
}
