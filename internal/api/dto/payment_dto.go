package dto

import (
	"time"

	"github.com/spec-kit/payment-ops/internal/domain"
)

// PaymentResponse is the API representation of a payment record.
type PaymentResponse struct {
	ID          string    `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason"`
	RetryCount  int       `json:"retry_count"`
	LastAttempt time.Time `json:"last_attempt"`
	CustomerRef string    `json:"customer_ref"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewPaymentResponse converts a domain record.
func NewPaymentResponse(record domain.PaymentRecord) PaymentResponse {
	return PaymentResponse{
		ID:          record.ID,
		AmountCents: record.AmountCents,
		Status:      string(record.Status),
		Reason:      string(record.Reason),
		RetryCount:  record.RetryCount,
		LastAttempt: record.LastAttempt,
		CustomerRef: record.CustomerRef,
		Description: record.Description,
		CreatedAt:   record.CreatedAt,
	}
}

// NewPaymentResponses converts a slice of records.
func NewPaymentResponses(records []domain.PaymentRecord) []PaymentResponse {
	result := make([]PaymentResponse, 0, len(records))
	for _, record := range records {
		result = append(result, NewPaymentResponse(record))
	}
	return result
}

// CaseResponse is the API representation of a compliance case.
type CaseResponse struct {
	ID        string    `json:"id"`
	PaymentID string    `json:"payment_id"`
	Risk      string    `json:"risk"`
	OpenedAt  time.Time `json:"opened_at"`
}

// NewCaseResponses converts compliance cases.
func NewCaseResponses(reviewCases []domain.ComplianceCase) []CaseResponse {
	result := make([]CaseResponse, 0, len(reviewCases))
	for _, reviewCase := range reviewCases {
		result = append(result, CaseResponse{
			ID:        reviewCase.ID,
			PaymentID: reviewCase.PaymentID,
			Risk:      string(reviewCase.Risk),
			OpenedAt:  reviewCase.OpenedAt,
		})
	}
	return result
}
