package triage

import (
	"sync"
	"time"

	"github.com/spec-kit/payment-ops/internal/domain"
)

// Trail is the append-only handoff log for one run. Appends from parallel
// per-record tasks are serialized; sequence numbers reflect completion
// order. The coordinator owns the trail for the run's lifetime and hands
// out copies only.
type Trail struct {
	mu      sync.Mutex
	nextSeq int
	events  []domain.HandoffEvent
	now     func() time.Time
}

// NewTrail creates an empty trail.
func NewTrail() *Trail {
	return &Trail{nextSeq: 1, now: time.Now}
}

// Append records a handoff and returns the assigned event.
func (t *Trail) Append(phase domain.WorkflowPhase, target domain.Specialist, paymentID string) domain.HandoffEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	event := domain.HandoffEvent{
		Seq:       t.nextSeq,
		Phase:     phase,
		Target:    target,
		PaymentID: paymentID,
		Timestamp: t.now(),
	}
	t.nextSeq++
	t.events = append(t.events, event)
	return event
}

// Events returns a copy of the full ordered sequence.
func (t *Trail) Events() []domain.HandoffEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.HandoffEvent, len(t.events))
	copy(out, t.events)
	return out
}

// ByPayment returns the events recorded for one payment, in order.
func (t *Trail) ByPayment(paymentID string) []domain.HandoffEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []domain.HandoffEvent
	for _, event := range t.events {
		if event.PaymentID == paymentID {
			out = append(out, event)
		}
	}
	return out
}

// ByPhase returns the events recorded during one phase, in order.
func (t *Trail) ByPhase(phase domain.WorkflowPhase) []domain.HandoffEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []domain.HandoffEvent
	for _, event := range t.events {
		if event.Phase == phase {
			out = append(out, event)
		}
	}
	return out
}

// Len reports the number of recorded events.
func (t *Trail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.events)
}
