package triage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spec-kit/payment-ops/internal/domain"
)

func TestNotifyDerivesTierAndChannel(t *testing.T) {
	lookup := &fakeLookup{
		tiers:    map[string]domain.CustomerTier{"CUST-1": domain.TierBusiness},
		channels: map[string]domain.NotificationChannel{"CUST-1": domain.ChannelPhone},
	}
	notifier := NewNotifier(lookup)

	record := domain.PaymentRecord{ID: "PAY-1", Reason: domain.ReasonInsufficientFunds, CustomerRef: "CUST-1"}
	decision := domain.TriageDecision{
		PaymentID: "PAY-1",
		Outcome:   domain.OutcomeEscalate,
		Target:    domain.SpecialistCustomerService,
		Rationale: "insufficient funds",
	}

	notification, err := notifier.Notify(context.Background(), record, decision, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notification.Tier != domain.TierBusiness {
		t.Errorf("tier = %s, want BUSINESS", notification.Tier)
	}
	if notification.Channel != domain.ChannelPhone {
		t.Errorf("channel = %s, want PHONE", notification.Channel)
	}
	if notification.FollowUpScheduled {
		t.Error("business tier without high risk should not schedule follow-up")
	}
	if !strings.Contains(notification.Message, "INSUFFICIENT_FUNDS") {
		t.Errorf("message should mention the reason code, got %q", notification.Message)
	}
}

func TestNotifyFallsBackToEmailAndStandard(t *testing.T) {
	notifier := NewNotifier(&fakeLookup{})

	record := domain.PaymentRecord{ID: "PAY-2", Reason: domain.ReasonCardDeclined, CustomerRef: "CUST-UNSEEN"}
	decision := domain.TriageDecision{
		PaymentID: "PAY-2",
		Outcome:   domain.OutcomeCustomerAction,
		Target:    domain.SpecialistCustomerService,
		Rationale: "card declined",
	}

	notification, err := notifier.Notify(context.Background(), record, decision, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notification.Tier != domain.TierStandard {
		t.Errorf("tier = %s, want STANDARD fallback", notification.Tier)
	}
	if notification.Channel != domain.ChannelEmail {
		t.Errorf("channel = %s, want EMAIL fallback", notification.Channel)
	}
	if !strings.Contains(notification.Message, "update your payment method") {
		t.Errorf("customer-action message should carry the next step, got %q", notification.Message)
	}
}

func TestNotifySchedulesFollowUp(t *testing.T) {
	cases := []struct {
		name       string
		tier       domain.CustomerTier
		assessment *domain.ComplianceAssessment
		want       bool
	}{
		{name: "vip tier", tier: domain.TierVIP, want: true},
		{
			name:       "high compliance risk",
			tier:       domain.TierStandard,
			assessment: &domain.ComplianceAssessment{PaymentID: "PAY-3", Risk: domain.RiskHigh},
			want:       true,
		},
		{
			name:       "standard tier medium risk",
			tier:       domain.TierStandard,
			assessment: &domain.ComplianceAssessment{PaymentID: "PAY-3", Risk: domain.RiskMedium},
			want:       false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lookup := &fakeLookup{tiers: map[string]domain.CustomerTier{"CUST-3": tc.tier}}
			notifier := NewNotifier(lookup)

			record := domain.PaymentRecord{ID: "PAY-3", Reason: domain.ReasonComplianceHold, CustomerRef: "CUST-3"}
			decision := domain.TriageDecision{
				PaymentID: "PAY-3",
				Outcome:   domain.OutcomeEscalate,
				Target:    domain.SpecialistCompliance,
				Rationale: "compliance hold",
			}

			notification, err := notifier.Notify(context.Background(), record, decision, tc.assessment)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if notification.FollowUpScheduled != tc.want {
				t.Errorf("follow-up = %v, want %v", notification.FollowUpScheduled, tc.want)
			}
		})
	}
}

func TestNotifyLookupFailureSurfacesCollaboratorError(t *testing.T) {
	lookup := &fakeLookup{failFor: map[string]error{"CUST-4": errors.New("lookup down")}}
	notifier := NewNotifier(lookup)

	record := domain.PaymentRecord{ID: "PAY-4", Reason: domain.ReasonUnknown, CustomerRef: "CUST-4"}
	decision := domain.TriageDecision{
		PaymentID: "PAY-4",
		Outcome:   domain.OutcomeEscalate,
		Target:    domain.SpecialistCustomerService,
	}

	_, err := notifier.Notify(context.Background(), record, decision, nil)
	var collaborator *CollaboratorError
	if !errors.As(err, &collaborator) {
		t.Fatalf("error = %v, want CollaboratorError", err)
	}
}
