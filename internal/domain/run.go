package domain

import "time"

// RecordError captures a single record's failure within a run. Failures
// never abort the batch; they are accounted for here.
type RecordError struct {
	PaymentID string
	Phase     WorkflowPhase
	Code      string
	Message   string
}

// WorkflowRunSummary aggregates one triage run. Counts are computed once at
// run end from the full decision set and recorded events; the summary is
// immutable after finalization.
type WorkflowRunSummary struct {
	RunID         string
	StartedAt     time.Time
	FinishedAt    time.Time
	TotalPayments int
	OutcomeCounts map[TriageOutcome]int
	HandoffCounts map[Specialist]int
	CasesOpened   int
	Notifications []NotificationRecord
	Decisions     []TriageDecision
	Assessments   []ComplianceAssessment
	Handoffs      []HandoffEvent
	Errors        []RecordError
}
