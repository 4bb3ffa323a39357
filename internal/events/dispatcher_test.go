package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherInvokesSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var seen []string
	dispatcher.Subscribe(EventCaseOpened, func(_ context.Context, event Event) error {
		seen = append(seen, event.PaymentID)
		return nil
	})
	dispatcher.Subscribe(EventCaseOpened, func(_ context.Context, _ Event) error {
		return errors.New("handler failure")
	})
	dispatcher.Subscribe(EventCaseOpened, func(_ context.Context, event Event) error {
		seen = append(seen, event.PaymentID+"-second")
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventCaseOpened, PaymentID: "PAY-1"})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("handlers invoked = %d, want 2 (failure must not stop the chain)", len(seen))
	}
}

func TestDispatcherIgnoresUnrelatedEvents(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	called := false
	dispatcher.Subscribe(EventPaymentRetried, func(_ context.Context, _ Event) error {
		called = true
		return nil
	})

	_ = dispatcher.Publish(context.Background(), Event{Type: EventRunCompleted})
	if called {
		t.Fatal("handler ran for an event type it never subscribed to")
	}
}
