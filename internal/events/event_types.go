package events

import (
	"time"

	"github.com/spec-kit/payment-ops/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRunCompleted     EventType = "run_completed"
	EventPaymentRetried   EventType = "payment_retried"
	EventPaymentEscalated EventType = "payment_escalated"
	EventCaseOpened       EventType = "case_opened"
	EventCustomerNotified EventType = "customer_notified"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RunID     string      `json:"run_id"`
	PaymentID string      `json:"payment_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RunCompletedPayload payload.
type RunCompletedPayload struct {
	TotalPayments int                          `json:"total_payments"`
	OutcomeCounts map[domain.TriageOutcome]int `json:"outcome_counts"`
	HandoffCounts map[domain.Specialist]int    `json:"handoff_counts"`
	CasesOpened   int                          `json:"cases_opened"`
	Notifications int                          `json:"notifications"`
	Errors        int                          `json:"errors"`
}

// PaymentRetriedPayload payload.
type PaymentRetriedPayload struct {
	Rationale string `json:"rationale"`
}

// PaymentEscalatedPayload payload.
type PaymentEscalatedPayload struct {
	Target    domain.Specialist `json:"target"`
	Rationale string            `json:"rationale"`
}

// CaseOpenedPayload payload.
type CaseOpenedPayload struct {
	CaseID string           `json:"case_id"`
	Risk   domain.RiskLevel `json:"risk"`
}

// CustomerNotifiedPayload payload.
type CustomerNotifiedPayload struct {
	CustomerRef       string                     `json:"customer_ref"`
	Channel           domain.NotificationChannel `json:"channel"`
	Tier              domain.CustomerTier        `json:"tier"`
	Message           string                     `json:"message"`
	FollowUpScheduled bool                       `json:"follow_up_scheduled"`
}
