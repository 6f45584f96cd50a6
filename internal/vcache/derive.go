package vcache

import "github.com/truceio/adjudicator/internal/claim"

// DeriveVerdict computes a VerificationRecord's verdict from a Claim's most
// recent ModelAssessments by majority: SUPPORTS if supports >
// refutes; REFUTES if refutes > supports; MIXED if tied and > 0; UNCERTAIN
// otherwise.
func DeriveVerdict(assessments []claim.PanelModelVerdict) claim.DerivedVerdict {
	supports, refutes := 0, 0
	for _, a := range assessments {
		if a.Failed {
			continue
		}
		if a.Approval.Confidence > a.Refusal.Confidence {
			supports++
		} else if a.Refusal.Confidence > a.Approval.Confidence {
			refutes++
		}
	}
	switch {
	case supports > refutes:
		return claim.DerivedSupports
	case refutes > supports:
		return claim.DerivedRefutes
	case supports == refutes && supports > 0:
		return claim.DerivedMixed
	default:
		return claim.DerivedUncertain
	}
}
