package domain

import "time"

// RiskLevel enumerates compliance risk buckets.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// ComplianceAssessment is the deterministic risk result for a payment whose
// triage decision targets the compliance specialist.
type ComplianceAssessment struct {
	PaymentID       string
	Risk            RiskLevel
	Recommendations []string
	CaseOpened      bool
	CaseID          string
}

// ComplianceCase is a persisted review case opened for a HIGH risk payment.
type ComplianceCase struct {
	ID        string
	PaymentID string
	Risk      RiskLevel
	OpenedAt  time.Time
}
