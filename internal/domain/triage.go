package domain

// TriageOutcome enumerates the action decided for a failed payment.
type TriageOutcome string

const (
	OutcomeRetry          TriageOutcome = "RETRY"
	OutcomeEscalate       TriageOutcome = "ESCALATE"
	OutcomeCustomerAction TriageOutcome = "CUSTOMER_ACTION"
	OutcomeNoAction       TriageOutcome = "NO_ACTION"
)

// Specialist enumerates fixed downstream roles a payment can be handed to.
type Specialist string

const (
	SpecialistNone            Specialist = "NONE"
	SpecialistCompliance      Specialist = "COMPLIANCE"
	SpecialistCustomerService Specialist = "CUSTOMER_SERVICE"
)

// TriageDecision is the classification result for one payment in one run.
// Created once per payment per run and never mutated afterwards.
type TriageDecision struct {
	PaymentID string
	Outcome   TriageOutcome
	Target    Specialist
	Rationale string
}

// RequiresNotification reports whether the decision routes the payment to
// the customer notifier phase.
func (d TriageDecision) RequiresNotification() bool {
	return d.Outcome == OutcomeEscalate || d.Outcome == OutcomeCustomerAction
}
