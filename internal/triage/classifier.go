package triage

import (
	"fmt"
	"time"

	"github.com/spec-kit/payment-ops/internal/domain"
)

// Classifier maps a payment record to a triage decision. It is a pure,
// total function: unrecognized reason codes are escalated, never rejected.
type Classifier struct {
	policy Policy
	now    func() time.Time
}

// NewClassifier builds a classifier with the given policy.
func NewClassifier(policy Policy) *Classifier {
	return &Classifier{policy: policy.Normalize(), now: time.Now}
}

// Classify applies the triage rules in precedence order, first match wins.
// It never mutates the record or touches the repository; write-backs are the
// coordinator's job.
func (c *Classifier) Classify(record domain.PaymentRecord) domain.TriageDecision {
	decision := domain.TriageDecision{PaymentID: record.ID}

	switch record.Reason {
	case domain.ReasonComplianceHold:
		decision.Outcome = domain.OutcomeEscalate
		decision.Target = domain.SpecialistCompliance
		decision.Rationale = "compliance hold requires specialist review"

	case domain.ReasonInsufficientFunds:
		decision.Outcome = domain.OutcomeEscalate
		decision.Target = domain.SpecialistCustomerService
		decision.Rationale = "insufficient funds; customer must be notified of the shortfall"

	case domain.ReasonTechnicalFailure:
		age := c.now().Sub(record.LastAttempt)
		if age < c.policy.RetryWindow && record.RetryCount == 0 {
			decision.Outcome = domain.OutcomeRetry
			decision.Target = domain.SpecialistNone
			decision.Rationale = fmt.Sprintf("fresh technical failure (%s old, no prior retries); eligible for automatic retry", age.Round(time.Minute))
			break
		}
		decision.Outcome = domain.OutcomeEscalate
		decision.Target = domain.SpecialistCustomerService
		decision.Rationale = "technical failure outside the automatic retry window"

	case domain.ReasonCardDeclined:
		if record.RetryCount < c.policy.RetryLimit {
			decision.Outcome = domain.OutcomeCustomerAction
			decision.Target = domain.SpecialistCustomerService
			decision.Rationale = "card declined; customer needs to update payment method"
			break
		}
		decision.Outcome = domain.OutcomeNoAction
		decision.Target = domain.SpecialistNone
		decision.Rationale = fmt.Sprintf("card declined %d times; retry limit %d reached", record.RetryCount, c.policy.RetryLimit)

	default:
		decision.Outcome = domain.OutcomeEscalate
		decision.Target = domain.SpecialistCustomerService
		decision.Rationale = fmt.Sprintf("unhandled reason code %q; escalating for manual triage", record.Reason)
	}

	return decision
}
