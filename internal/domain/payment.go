package domain

import "time"

// PaymentStatus enumerates payment lifecycle states.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRetried   PaymentStatus = "RETRIED"
	PaymentStatusEscalated PaymentStatus = "ESCALATED"
	PaymentStatusResolved  PaymentStatus = "RESOLVED"
)

// FailureReason enumerates why a payment attempt failed.
type FailureReason string

const (
	ReasonInsufficientFunds FailureReason = "INSUFFICIENT_FUNDS"
	ReasonTechnicalFailure  FailureReason = "TECHNICAL_FAILURE"
	ReasonComplianceHold    FailureReason = "COMPLIANCE_HOLD"
	ReasonCardDeclined      FailureReason = "CARD_DECLINED"
	ReasonUnknown           FailureReason = "UNKNOWN"
)

// PaymentRecord is an immutable snapshot of a payment as read from the
// repository at triage time. Mutations happen only through repository
// writes, never by editing the snapshot.
type PaymentRecord struct {
	ID          string
	AmountCents int64
	Status      PaymentStatus
	Reason      FailureReason
	RetryCount  int
	LastAttempt time.Time
	CustomerRef string
	Description string
	CreatedAt   time.Time
}
