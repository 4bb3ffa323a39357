package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/payment-ops/internal/domain"
	"github.com/spec-kit/payment-ops/internal/events"
	"github.com/spec-kit/payment-ops/internal/observability"
	"github.com/spec-kit/payment-ops/internal/repository"
	"github.com/spec-kit/payment-ops/internal/triage"
)

// RunArchive persists finished runs. Matches the run repository; narrowed
// here so tests can supply fakes.
type RunArchive interface {
	SaveRun(ctx context.Context, summary *domain.WorkflowRunSummary) error
	GetRun(ctx context.Context, runID string) (*domain.WorkflowRunSummary, error)
	ListRuns(ctx context.Context, limit, offset int) ([]domain.WorkflowRunSummary, error)
	ListHandoffs(ctx context.Context, runID string) ([]domain.HandoffEvent, error)
	ListHandoffsByPayment(ctx context.Context, paymentID string) ([]domain.HandoffEvent, error)
}

// TriageService drives triage runs over the pending payment backlog and
// archives their results.
type TriageService struct {
	coordinator *triage.Coordinator
	payments    repository.PaymentRepository
	runs        RunArchive
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
	batchLimit  int
}

// TriageDependencies bundles collaborators for the triage service.
type TriageDependencies struct {
	Coordinator *triage.Coordinator
	PaymentRepo repository.PaymentRepository
	RunRepo     RunArchive
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
	BatchLimit  int
}

// NewTriageService constructs the service.
func NewTriageService(deps TriageDependencies) *TriageService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	batchLimit := deps.BatchLimit
	if batchLimit <= 0 {
		batchLimit = 50
	}
	return &TriageService{
		coordinator: deps.Coordinator,
		payments:    deps.PaymentRepo,
		runs:        deps.RunRepo,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      logger,
		batchLimit:  batchLimit,
	}
}

// RunOnce fetches the pending backlog, executes a full triage run, archives
// the summary, publishes the resulting events, and records metrics. An
// archive failure is logged but does not discard the completed run.
func (s *TriageService) RunOnce(ctx context.Context) (*domain.WorkflowRunSummary, error) {
	records, err := s.payments.FetchPending(ctx, s.batchLimit)
	if err != nil {
		return nil, err
	}

	summary := s.coordinator.Run(ctx, records)

	if s.runs != nil {
		if err := s.runs.SaveRun(ctx, &summary); err != nil {
			s.logger.Error("failed to archive run",
				zap.String("run_id", summary.RunID),
				zap.Error(err))
		}
	}

	s.publishRunEvents(ctx, summary)

	if s.metrics != nil {
		s.metrics.RecordRun(summary)
	}
	return &summary, nil
}

// GetRun loads an archived run summary.
func (s *TriageService) GetRun(ctx context.Context, runID string) (*domain.WorkflowRunSummary, error) {
	return s.runs.GetRun(ctx, runID)
}

// ListRuns lists archived run summaries, newest first.
func (s *TriageService) ListRuns(ctx context.Context, limit, offset int) ([]domain.WorkflowRunSummary, error) {
	return s.runs.ListRuns(ctx, limit, offset)
}

// ListHandoffs returns the handoff trail of one archived run.
func (s *TriageService) ListHandoffs(ctx context.Context, runID string) ([]domain.HandoffEvent, error) {
	return s.runs.ListHandoffs(ctx, runID)
}

// ListHandoffsByPayment returns the cross-run handoff history of a payment.
func (s *TriageService) ListHandoffsByPayment(ctx context.Context, paymentID string) ([]domain.HandoffEvent, error) {
	return s.runs.ListHandoffsByPayment(ctx, paymentID)
}

func (s *TriageService) publishRunEvents(ctx context.Context, summary domain.WorkflowRunSummary) {
	if s.dispatcher == nil {
		return
	}

	for _, decision := range summary.Decisions {
		switch decision.Outcome {
		case domain.OutcomeRetry:
			s.publish(ctx, events.EventPaymentRetried, summary.RunID, decision.PaymentID,
				events.PaymentRetriedPayload{Rationale: decision.Rationale})
		case domain.OutcomeEscalate:
			s.publish(ctx, events.EventPaymentEscalated, summary.RunID, decision.PaymentID,
				events.PaymentEscalatedPayload{Target: decision.Target, Rationale: decision.Rationale})
		}
	}

	for _, assessment := range summary.Assessments {
		if !assessment.CaseOpened {
			continue
		}
		s.publish(ctx, events.EventCaseOpened, summary.RunID, assessment.PaymentID,
			events.CaseOpenedPayload{CaseID: assessment.CaseID, Risk: assessment.Risk})
	}

	for _, notification := range summary.Notifications {
		s.publish(ctx, events.EventCustomerNotified, summary.RunID, notification.PaymentID,
			events.CustomerNotifiedPayload{
				CustomerRef:       notification.CustomerRef,
				Channel:           notification.Channel,
				Tier:              notification.Tier,
				Message:           notification.Message,
				FollowUpScheduled: notification.FollowUpScheduled,
			})
	}

	s.publish(ctx, events.EventRunCompleted, summary.RunID, "",
		events.RunCompletedPayload{
			TotalPayments: summary.TotalPayments,
			OutcomeCounts: summary.OutcomeCounts,
			HandoffCounts: summary.HandoffCounts,
			CasesOpened:   summary.CasesOpened,
			Notifications: len(summary.Notifications),
			Errors:        len(summary.Errors),
		})
}

func (s *TriageService) publish(ctx context.Context, eventType events.EventType, runID, paymentID string, payload interface{}) {
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		RunID:     runID,
		PaymentID: paymentID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}
