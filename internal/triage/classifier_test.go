package triage

import (
	"testing"
	"time"

	"github.com/spec-kit/payment-ops/internal/domain"
)

func TestClassifyPrecedenceRules(t *testing.T) {
	now := time.Date(2025, 6, 29, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name        string
		record      domain.PaymentRecord
		wantOutcome domain.TriageOutcome
		wantTarget  domain.Specialist
	}{
		{
			name: "compliance hold escalates to compliance",
			record: domain.PaymentRecord{
				ID: "PAY-1", Reason: domain.ReasonComplianceHold,
				AmountCents: 750000, CustomerRef: "CUST-1",
			},
			wantOutcome: domain.OutcomeEscalate,
			wantTarget:  domain.SpecialistCompliance,
		},
		{
			name: "insufficient funds escalates to customer service",
			record: domain.PaymentRecord{
				ID: "PAY-2", Reason: domain.ReasonInsufficientFunds,
				AmountCents: 150000, CustomerRef: "CUST-2",
			},
			wantOutcome: domain.OutcomeEscalate,
			wantTarget:  domain.SpecialistCustomerService,
		},
		{
			name: "fresh technical failure retries",
			record: domain.PaymentRecord{
				ID: "PAY-3", Reason: domain.ReasonTechnicalFailure,
				RetryCount: 0, LastAttempt: now.Add(-2 * time.Hour), CustomerRef: "CUST-3",
			},
			wantOutcome: domain.OutcomeRetry,
			wantTarget:  domain.SpecialistNone,
		},
		{
			name: "stale technical failure escalates",
			record: domain.PaymentRecord{
				ID: "PAY-4", Reason: domain.ReasonTechnicalFailure,
				RetryCount: 0, LastAttempt: now.Add(-30 * time.Hour), CustomerRef: "CUST-4",
			},
			wantOutcome: domain.OutcomeEscalate,
			wantTarget:  domain.SpecialistCustomerService,
		},
		{
			name: "retried technical failure escalates even when fresh",
			record: domain.PaymentRecord{
				ID: "PAY-5", Reason: domain.ReasonTechnicalFailure,
				RetryCount: 1, LastAttempt: now.Add(-1 * time.Hour), CustomerRef: "CUST-5",
			},
			wantOutcome: domain.OutcomeEscalate,
			wantTarget:  domain.SpecialistCustomerService,
		},
		{
			name: "card declined under limit needs customer action",
			record: domain.PaymentRecord{
				ID: "PAY-6", Reason: domain.ReasonCardDeclined,
				RetryCount: 0, CustomerRef: "CUST-6",
			},
			wantOutcome: domain.OutcomeCustomerAction,
			wantTarget:  domain.SpecialistCustomerService,
		},
		{
			name: "card declined at limit is closed out regardless of amount",
			record: domain.PaymentRecord{
				ID: "PAY-7", Reason: domain.ReasonCardDeclined,
				RetryCount: 1, AmountCents: 9_000_000, CustomerRef: "CUST-7",
			},
			wantOutcome: domain.OutcomeNoAction,
			wantTarget:  domain.SpecialistNone,
		},
		{
			name: "unknown reason escalates to customer service",
			record: domain.PaymentRecord{
				ID: "PAY-8", Reason: domain.ReasonUnknown, CustomerRef: "CUST-8",
			},
			wantOutcome: domain.OutcomeEscalate,
			wantTarget:  domain.SpecialistCustomerService,
		},
		{
			name: "unrecognized reason code escalates to customer service",
			record: domain.PaymentRecord{
				ID: "PAY-9", Reason: domain.FailureReason("GATEWAY_TIMEOUT"), CustomerRef: "CUST-9",
			},
			wantOutcome: domain.OutcomeEscalate,
			wantTarget:  domain.SpecialistCustomerService,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			classifier := NewClassifier(Policy{})
			classifier.now = func() time.Time { return now }

			decision := classifier.Classify(tc.record)
			if decision.PaymentID != tc.record.ID {
				t.Fatalf("payment id = %q, want %q", decision.PaymentID, tc.record.ID)
			}
			if decision.Outcome != tc.wantOutcome {
				t.Errorf("outcome = %s, want %s", decision.Outcome, tc.wantOutcome)
			}
			if decision.Target != tc.wantTarget {
				t.Errorf("target = %s, want %s", decision.Target, tc.wantTarget)
			}
			if decision.Rationale == "" {
				t.Error("rationale must not be empty")
			}
		})
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 29, 12, 0, 0, 0, time.UTC)
	classifier := NewClassifier(Policy{})
	classifier.now = func() time.Time { return now }

	record := domain.PaymentRecord{
		ID: "PAY-10", Reason: domain.ReasonTechnicalFailure,
		RetryCount: 0, LastAttempt: now.Add(-2 * time.Hour), CustomerRef: "CUST-10",
	}

	first := classifier.Classify(record)
	second := classifier.Classify(record)
	if first != second {
		t.Fatalf("repeated classification differs: %+v vs %+v", first, second)
	}
	if first.Outcome != domain.OutcomeRetry {
		t.Fatalf("outcome = %s, want RETRY", first.Outcome)
	}
}

func TestClassifyRespectsConfiguredRetryLimit(t *testing.T) {
	classifier := NewClassifier(Policy{RetryLimit: 3})

	record := domain.PaymentRecord{
		ID: "PAY-11", Reason: domain.ReasonCardDeclined, RetryCount: 2, CustomerRef: "CUST-11",
	}
	decision := classifier.Classify(record)
	if decision.Outcome != domain.OutcomeCustomerAction {
		t.Fatalf("outcome = %s, want CUSTOMER_ACTION under raised limit", decision.Outcome)
	}

	record.RetryCount = 3
	decision = classifier.Classify(record)
	if decision.Outcome != domain.OutcomeNoAction {
		t.Fatalf("outcome = %s, want NO_ACTION at raised limit", decision.Outcome)
	}
}
