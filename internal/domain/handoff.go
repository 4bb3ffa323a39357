package domain

import "time"

// WorkflowPhase identifies which pipeline phase produced a handoff.
type WorkflowPhase string

const (
	PhaseClassification WorkflowPhase = "CLASSIFICATION"
	PhaseCompliance     WorkflowPhase = "COMPLIANCE"
	PhaseNotification   WorkflowPhase = "NOTIFICATION"
)

// HandoffEvent is one append-only audit trail entry recording the transfer
// of responsibility for a payment to a specialist.
type HandoffEvent struct {
	Seq       int
	Phase     WorkflowPhase
	Target    Specialist
	PaymentID string
	Timestamp time.Time
}
