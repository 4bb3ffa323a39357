package dto

import (
	"time"

	"github.com/spec-kit/payment-ops/internal/domain"
)

// DecisionResponse is the API representation of a triage decision.
type DecisionResponse struct {
	PaymentID string `json:"payment_id"`
	Outcome   string `json:"outcome"`
	Target    string `json:"target"`
	Rationale string `json:"rationale"`
}

// AssessmentResponse is the API representation of a compliance assessment.
type AssessmentResponse struct {
	PaymentID       string   `json:"payment_id"`
	Risk            string   `json:"risk"`
	Recommendations []string `json:"recommendations"`
	CaseOpened      bool     `json:"case_opened"`
	CaseID          string   `json:"case_id,omitempty"`
}

// NotificationResponse is the API representation of a customer notification.
type NotificationResponse struct {
	PaymentID         string `json:"payment_id"`
	CustomerRef       string `json:"customer_ref"`
	Channel           string `json:"channel"`
	Tier              string `json:"tier"`
	Message           string `json:"message"`
	FollowUpScheduled bool   `json:"follow_up_scheduled"`
}

// HandoffResponse is the API representation of one handoff trail entry.
type HandoffResponse struct {
	Seq       int       `json:"seq"`
	Phase     string    `json:"phase"`
	Target    string    `json:"target"`
	PaymentID string    `json:"payment_id"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordErrorResponse is the API representation of a per-record failure.
type RecordErrorResponse struct {
	PaymentID string `json:"payment_id"`
	Phase     string `json:"phase"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// RunResponse is the API representation of a finished triage run.
type RunResponse struct {
	RunID         string                 `json:"run_id"`
	StartedAt     time.Time              `json:"started_at"`
	FinishedAt    time.Time              `json:"finished_at"`
	TotalPayments int                    `json:"total_payments"`
	OutcomeCounts map[string]int         `json:"outcome_counts"`
	HandoffCounts map[string]int         `json:"handoff_counts"`
	CasesOpened   int                    `json:"cases_opened"`
	Decisions     []DecisionResponse     `json:"decisions"`
	Assessments   []AssessmentResponse   `json:"assessments"`
	Notifications []NotificationResponse `json:"notifications"`
	Handoffs      []HandoffResponse      `json:"handoffs"`
	Errors        []RecordErrorResponse  `json:"errors"`
}

// NewRunResponse converts a run summary.
func NewRunResponse(summary domain.WorkflowRunSummary) RunResponse {
	response := RunResponse{
		RunID:         summary.RunID,
		StartedAt:     summary.StartedAt,
		FinishedAt:    summary.FinishedAt,
		TotalPayments: summary.TotalPayments,
		OutcomeCounts: make(map[string]int, len(summary.OutcomeCounts)),
		HandoffCounts: make(map[string]int, len(summary.HandoffCounts)),
		CasesOpened:   summary.CasesOpened,
		Decisions:     make([]DecisionResponse, 0, len(summary.Decisions)),
		Assessments:   make([]AssessmentResponse, 0, len(summary.Assessments)),
		Notifications: make([]NotificationResponse, 0, len(summary.Notifications)),
		Handoffs:      NewHandoffResponses(summary.Handoffs),
		Errors:        make([]RecordErrorResponse, 0, len(summary.Errors)),
	}

	for outcome, count := range summary.OutcomeCounts {
		response.OutcomeCounts[string(outcome)] = count
	}
	for target, count := range summary.HandoffCounts {
		response.HandoffCounts[string(target)] = count
	}
	for _, decision := range summary.Decisions {
		response.Decisions = append(response.Decisions, DecisionResponse{
			PaymentID: decision.PaymentID,
			Outcome:   string(decision.Outcome),
			Target:    string(decision.Target),
			Rationale: decision.Rationale,
		})
	}
	for _, assessment := range summary.Assessments {
		response.Assessments = append(response.Assessments, AssessmentResponse{
			PaymentID:       assessment.PaymentID,
			Risk:            string(assessment.Risk),
			Recommendations: assessment.Recommendations,
			CaseOpened:      assessment.CaseOpened,
			CaseID:          assessment.CaseID,
		})
	}
	for _, notification := range summary.Notifications {
		response.Notifications = append(response.Notifications, NotificationResponse{
			PaymentID:         notification.PaymentID,
			CustomerRef:       notification.CustomerRef,
			Channel:           string(notification.Channel),
			Tier:              string(notification.Tier),
			Message:           notification.Message,
			FollowUpScheduled: notification.FollowUpScheduled,
		})
	}
	for _, recordErr := range summary.Errors {
		response.Errors = append(response.Errors, RecordErrorResponse{
			PaymentID: recordErr.PaymentID,
			Phase:     string(recordErr.Phase),
			Code:      recordErr.Code,
			Message:   recordErr.Message,
		})
	}
	return response
}

// NewRunResponses converts a slice of summaries.
func NewRunResponses(summaries []domain.WorkflowRunSummary) []RunResponse {
	result := make([]RunResponse, 0, len(summaries))
	for _, summary := range summaries {
		result = append(result, NewRunResponse(summary))
	}
	return result
}

// NewHandoffResponses converts handoff events.
func NewHandoffResponses(events []domain.HandoffEvent) []HandoffResponse {
	result := make([]HandoffResponse, 0, len(events))
	for _, event := range events {
		result = append(result, HandoffResponse{
			Seq:       event.Seq,
			Phase:     string(event.Phase),
			Target:    string(event.Target),
			PaymentID: event.PaymentID,
			Timestamp: event.Timestamp,
		})
	}
	return result
}
