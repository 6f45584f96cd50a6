package verdict

import (
	"testing"

	"github.com/truceio/adjudicator/internal/claim"
)

func mv(approval, refusal float64) claim.PanelModelVerdict {
	return claim.PanelModelVerdict{
		Approval: claim.ArgumentWithEvidence{Confidence: approval},
		Refusal:  claim.ArgumentWithEvidence{Confidence: refusal},
	}
}

func TestAggregatePanelStrongSupportIsTrue(t *testing.T) {
	summary := AggregatePanel([]claim.PanelModelVerdict{mv(0.9, 0.1), mv(0.85, 0.15), mv(0.8, 0.2)})
	if summary.Verdict != claim.VerdictTrue {
		t.Fatalf("Verdict = %v, want TRUE", summary.Verdict)
	}
	if summary.ModelCount != 3 {
		t.Fatalf("ModelCount = %d, want 3", summary.ModelCount)
	}
}

func TestAggregatePanelStrongRefuteIsFalse(t *testing.T) {
	summary := AggregatePanel([]claim.PanelModelVerdict{mv(0.1, 0.9), mv(0.2, 0.8)})
	if summary.Verdict != claim.VerdictFalse {
		t.Fatalf("Verdict = %v, want FALSE", summary.Verdict)
	}
}

func TestAggregatePanelCloseSplitIsMixedOrUnknown(t *testing.T) {
	summary := AggregatePanel([]claim.PanelModelVerdict{mv(0.55, 0.45), mv(0.5, 0.5)})
	if summary.Verdict != claim.VerdictMixed && summary.Verdict != claim.VerdictUnknown {
		t.Fatalf("Verdict = %v, want MIXED or UNKNOWN for a near-even split", summary.Verdict)
	}
}

func TestAggregatePanelSkipsFailedVerdicts(t *testing.T) {
	verdicts := []claim.PanelModelVerdict{mv(0.9, 0.1), {Failed: true}}
	summary := AggregatePanel(verdicts)
	if summary.ModelCount != 1 {
		t.Fatalf("ModelCount = %d, want 1 (failed verdict excluded)", summary.ModelCount)
	}
}

func TestAggregatePanelAllFailedIsUnknown(t *testing.T) {
	summary := AggregatePanel([]claim.PanelModelVerdict{{Failed: true}, {Failed: true}})
	if summary.Verdict != claim.VerdictUnknown || summary.ModelCount != 0 {
		t.Fatalf("got %+v, want ModelCount=0 Verdict=UNKNOWN", summary)
	}
}

func TestAggregatePanelZeroConfidenceSplitsEvenly(t *testing.T) {
	summary := AggregatePanel([]claim.PanelModelVerdict{mv(0, 0)})
	if summary.SupportConfidence != 0.5 || summary.RefuteConfidence != 0.5 {
		t.Fatalf("zero/zero confidence should normalize to 0.5/0.5, got %+v", summary)
	}
}

func TestReconcileInvertsWeakerComplementaryClaim(t *testing.T) {
	a := ClaimForReconciliation{
		NeutralizedText: "crime rate increased significantly across the region",
		Direction:       "up",
		Summary:         claim.PanelSummary{SupportConfidence: 0.9, RefuteConfidence: 0.1, Verdict: claim.VerdictTrue},
	}
	b := ClaimForReconciliation{
		NeutralizedText: "crime rate increased significantly across the region",
		Direction:       "down",
		Summary:         claim.PanelSummary{SupportConfidence: 0.7, RefuteConfidence: 0.3, Verdict: claim.VerdictTrue},
	}
	gotA, gotB := Reconcile(a, b)
	if gotA.Summary.Verdict != claim.VerdictTrue {
		t.Fatalf("stronger claim a should remain unchanged, got %v", gotA.Summary.Verdict)
	}
	if gotB.Summary.Verdict != claim.VerdictFalse {
		t.Fatalf("weaker complementary claim b should be inverted to FALSE, got %v", gotB.Summary.Verdict)
	}
	if gotB.Summary.SupportConfidence != 0.3 || gotB.Summary.RefuteConfidence != 0.7 {
		t.Fatalf("b's confidences should be swapped, got %+v", gotB.Summary)
	}
}

func TestReconcileLeavesNonComplementaryClaimsUnchanged(t *testing.T) {
	a := ClaimForReconciliation{
		NeutralizedText: "crime rate increased",
		Direction:       "up",
		Summary:         claim.PanelSummary{SupportConfidence: 0.9, Verdict: claim.VerdictTrue},
	}
	b := ClaimForReconciliation{
		NeutralizedText: "unrelated topic entirely about weather",
		Direction:       "down",
		Summary:         claim.PanelSummary{SupportConfidence: 0.9, Verdict: claim.VerdictTrue},
	}
	gotA, gotB := Reconcile(a, b)
	if gotA.Summary.Verdict != claim.VerdictTrue || gotB.Summary.Verdict != claim.VerdictTrue {
		t.Fatal("non-overlapping claims should not be reconciled")
	}
}

func TestReconcileLeavesLowConfidencePairUnchanged(t *testing.T) {
	a := ClaimForReconciliation{
		NeutralizedText: "crime rate increased significantly across the region",
		Direction:       "up",
		Summary:         claim.PanelSummary{SupportConfidence: 0.5, Verdict: claim.VerdictMixed},
	}
	b := ClaimForReconciliation{
		NeutralizedText: "crime rate increased significantly across the region",
		Direction:       "down",
		Summary:         claim.PanelSummary{SupportConfidence: 0.5, Verdict: claim.VerdictMixed},
	}
	gotA, gotB := Reconcile(a, b)
	if gotA.Summary.Verdict != claim.VerdictMixed || gotB.Summary.Verdict != claim.VerdictMixed {
		t.Fatal("pairs below the 0.6 support threshold should not be reconciled")
	}
}
