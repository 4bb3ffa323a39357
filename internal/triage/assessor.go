package triage

import (
	"context"

	"github.com/spec-kit/payment-ops/internal/domain"
)

// Assessor produces deterministic compliance risk assessments for payments
// escalated to the compliance specialist.
type Assessor struct {
	policy Policy
	lookup CustomerLookup
}

// NewAssessor builds an assessor over a customer lookup collaborator.
func NewAssessor(policy Policy, lookup CustomerLookup) *Assessor {
	return &Assessor{policy: policy.Normalize(), lookup: lookup}
}

// Assess scores the payment and maps the score to a risk level. A failed or
// missing cross-border lookup is treated as not cross-border; the default is
// deliberately left as-is pending a policy decision.
func (a *Assessor) Assess(ctx context.Context, record domain.PaymentRecord) (domain.ComplianceAssessment, error) {
	crossBorder := false
	if a.lookup != nil && record.CustomerRef != "" {
		flag, err := a.lookup.CrossBorderFlag(ctx, record.CustomerRef)
		if err != nil {
			return domain.ComplianceAssessment{}, &CollaboratorError{
				PaymentID:    record.ID,
				Collaborator: "customer lookup",
				Err:          err,
			}
		}
		crossBorder = flag
	}

	score := 0
	if record.AmountCents >= a.policy.HighValueCents {
		score += 2
	}
	if record.AmountCents >= a.policy.ElevatedCents {
		score++
	}
	if crossBorder {
		score += 2
	}
	if record.Reason == domain.ReasonComplianceHold {
		score++
	}

	assessment := domain.ComplianceAssessment{PaymentID: record.ID}
	switch {
	case score >= 4:
		assessment.Risk = domain.RiskHigh
		assessment.Recommendations = []string{
			"manual review required",
			"enhanced due diligence",
		}
	case score >= 2:
		assessment.Risk = domain.RiskMedium
		assessment.Recommendations = []string{"enhanced monitoring"}
	default:
		assessment.Risk = domain.RiskLow
	}
	return assessment, nil
}
