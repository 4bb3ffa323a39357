package triage

import (
	"context"
	"fmt"

	"github.com/spec-kit/payment-ops/internal/domain"
)

// Notifier composes customer communications for payments whose triage
// outcome requires customer contact.
type Notifier struct {
	lookup CustomerLookup
}

// NewNotifier builds a notifier over a customer lookup collaborator.
func NewNotifier(lookup CustomerLookup) *Notifier {
	return &Notifier{lookup: lookup}
}

// Notify derives the notification tier and channel for the customer and
// renders the message. The assessment argument is nil unless the payment
// went through the compliance phase; HIGH risk forces a scheduled follow-up,
// as does VIP tier.
func (n *Notifier) Notify(ctx context.Context, record domain.PaymentRecord, decision domain.TriageDecision, assessment *domain.ComplianceAssessment) (domain.NotificationRecord, error) {
	tier := domain.TierStandard
	channel := domain.ChannelEmail

	if n.lookup != nil && record.CustomerRef != "" {
		t, err := n.lookup.TierOf(ctx, record.CustomerRef)
		if err != nil {
			return domain.NotificationRecord{}, &CollaboratorError{
				PaymentID:    record.ID,
				Collaborator: "customer lookup",
				Err:          err,
			}
		}
		if t != "" {
			tier = t
		}

		ch, err := n.lookup.PreferredChannel(ctx, record.CustomerRef)
		if err != nil {
			return domain.NotificationRecord{}, &CollaboratorError{
				PaymentID:    record.ID,
				Collaborator: "customer lookup",
				Err:          err,
			}
		}
		if ch != "" {
			channel = ch
		}
	}

	notification := domain.NotificationRecord{
		PaymentID:   record.ID,
		CustomerRef: record.CustomerRef,
		Channel:     channel,
		Tier:        tier,
		Message:     renderMessage(record, decision),
	}
	if tier == domain.TierVIP {
		notification.FollowUpScheduled = true
	}
	if assessment != nil && assessment.Risk == domain.RiskHigh {
		notification.FollowUpScheduled = true
	}
	return notification, nil
}

func renderMessage(record domain.PaymentRecord, decision domain.TriageDecision) string {
	nextStep := nextStepFor(decision)
	return fmt.Sprintf("Payment %s failed (%s). %s Next step: %s.",
		record.ID, record.Reason, decision.Rationale, nextStep)
}

func nextStepFor(decision domain.TriageDecision) string {
	switch decision.Outcome {
	case domain.OutcomeCustomerAction:
		return "please update your payment method"
	case domain.OutcomeEscalate:
		if decision.Target == domain.SpecialistCompliance {
			return "our compliance team is reviewing the transaction"
		}
		return "our support team will contact you"
	default:
		return "no action required"
	}
}
