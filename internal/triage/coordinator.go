package triage

import (
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/payment-ops/internal/domain"
)

var paymentIDPattern = regexp.MustCompile(`^PAY-[0-9]+$`)

// Coordinator drives the fixed three-phase triage pipeline: classify every
// record, assess the compliance subset, notify the actioned subset. Phases
// are hard barriers; within a phase, records are processed by a bounded
// worker pool.
type Coordinator struct {
	policy     Policy
	classifier *Classifier
	assessor   *Assessor
	notifier   *Notifier
	payments   PaymentRepository
	cases      CaseStore
	logger     *zap.Logger
	now        func() time.Time
}

// Dependencies bundles the collaborators for the coordinator.
type Dependencies struct {
	Payments  PaymentRepository
	Customers CustomerLookup
	Cases     CaseStore
	Logger    *zap.Logger
}

// NewCoordinator constructs the workflow coordinator.
func NewCoordinator(policy Policy, deps Dependencies) *Coordinator {
	policy = policy.Normalize()
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		policy:     policy,
		classifier: NewClassifier(policy),
		assessor:   NewAssessor(policy, deps.Customers),
		notifier:   NewNotifier(deps.Customers),
		payments:   deps.Payments,
		cases:      deps.Cases,
		logger:     logger,
		now:        time.Now,
	}
}

// runState accumulates per-record results during a run. Writes from worker
// goroutines are serialized through mu; no lock is held across collaborator
// calls.
type runState struct {
	mu            sync.Mutex
	decisions     map[string]domain.TriageDecision
	assessments   map[string]domain.ComplianceAssessment
	notifications []domain.NotificationRecord
	errs          []domain.RecordError
	casesOpened   map[string]bool
	order         []string
}

func (s *runState) setDecision(d domain.TriageDecision) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions[d.PaymentID] = d
	s.order = append(s.order, d.PaymentID)
}

func (s *runState) setAssessment(a domain.ComplianceAssessment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessments[a.PaymentID] = a
}

func (s *runState) addNotification(n domain.NotificationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
}

func (s *runState) addError(paymentID string, phase domain.WorkflowPhase, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, recordError(paymentID, phase, err))
}

// markCaseOpen reports whether the payment's case may be opened now,
// guaranteeing at-most-once invocation per payment per run.
func (s *runState) markCaseOpen(paymentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.casesOpened[paymentID] {
		return false
	}
	s.casesOpened[paymentID] = true
	return true
}

// Run executes one triage run over the given records and returns the
// aggregated summary. Errors never unwind past Run; every failure is
// accounted per record in the summary.
func (c *Coordinator) Run(ctx context.Context, records []domain.PaymentRecord) domain.WorkflowRunSummary {
	trail := NewTrail()
	state := &runState{
		decisions:   make(map[string]domain.TriageDecision, len(records)),
		assessments: make(map[string]domain.ComplianceAssessment),
		casesOpened: make(map[string]bool),
	}
	startedAt := c.now()
	runID := uuid.NewString()

	c.logger.Info("triage run started",
		zap.String("run_id", runID),
		zap.Int("records", len(records)))

	valid := c.validate(records, state)

	c.forEach(ctx, len(valid), func(i int) {
		c.classifyOne(ctx, valid[i], state, trail)
	})

	escalated := c.complianceSubset(valid, state)
	c.forEach(ctx, len(escalated), func(i int) {
		c.assessOne(ctx, escalated[i], state, trail)
	})

	actioned := c.notificationSubset(valid, state)
	c.forEach(ctx, len(actioned), func(i int) {
		c.notifyOne(ctx, actioned[i], state, trail)
	})

	summary := c.finalize(runID, startedAt, records, state, trail)
	c.logger.Info("triage run finished",
		zap.String("run_id", runID),
		zap.Int("handoffs", len(summary.Handoffs)),
		zap.Int("errors", len(summary.Errors)))
	return summary
}

// validate rejects malformed records up front so later phases only see
// well-formed input. Invalid records are excluded from all phases.
func (c *Coordinator) validate(records []domain.PaymentRecord, state *runState) []domain.PaymentRecord {
	valid := make([]domain.PaymentRecord, 0, len(records))
	for _, record := range records {
		switch {
		case !paymentIDPattern.MatchString(record.ID):
			state.addError(record.ID, domain.PhaseClassification, &ValidationError{
				PaymentID: record.ID,
				Field:     "payment id",
				Message:   "must match PAY-<digits>",
			})
		case record.CustomerRef == "":
			state.addError(record.ID, domain.PhaseClassification, &ValidationError{
				PaymentID: record.ID,
				Field:     "customer reference",
				Message:   "required",
			})
		case record.RetryCount < 0:
			state.addError(record.ID, domain.PhaseClassification, &InvariantError{
				PaymentID: record.ID,
				Message:   "negative retry counter",
			})
		default:
			valid = append(valid, record)
		}
	}
	return valid
}

// classifyOne runs Phase 1 for a single record: pure classification, trail
// append for handoffs, and the repository write-back the decision implies.
func (c *Coordinator) classifyOne(ctx context.Context, record domain.PaymentRecord, state *runState, trail *Trail) {
	decision := c.classifier.Classify(record)
	state.setDecision(decision)

	if decision.RequiresNotification() {
		trail.Append(domain.PhaseClassification, decision.Target, record.ID)
	}

	var err error
	switch decision.Outcome {
	case domain.OutcomeRetry:
		err = c.withRetry(ctx, func() error {
			return c.payments.MarkRetried(ctx, record.ID)
		})
	case domain.OutcomeEscalate:
		err = c.withRetry(ctx, func() error {
			return c.payments.MarkEscalated(ctx, record.ID, decision.Target)
		})
	}
	if err != nil {
		state.addError(record.ID, domain.PhaseClassification, &CollaboratorError{
			PaymentID:    record.ID,
			Collaborator: "payment repository",
			Err:          err,
		})
	}
}

// assessOne runs Phase 2 for a record whose decision targets compliance.
func (c *Coordinator) assessOne(ctx context.Context, record domain.PaymentRecord, state *runState, trail *Trail) {
	var assessment domain.ComplianceAssessment
	err := c.withRetry(ctx, func() error {
		var assessErr error
		assessment, assessErr = c.assessor.Assess(ctx, record)
		return assessErr
	})
	if err != nil {
		state.addError(record.ID, domain.PhaseCompliance, err)
		return
	}

	if assessment.Risk == domain.RiskHigh && state.markCaseOpen(record.ID) {
		var caseID string
		err = c.withRetry(ctx, func() error {
			var openErr error
			caseID, openErr = c.cases.OpenCase(ctx, record.ID, assessment.Risk)
			return openErr
		})
		if err != nil {
			state.addError(record.ID, domain.PhaseCompliance, &CollaboratorError{
				PaymentID:    record.ID,
				Collaborator: "case store",
				Err:          err,
			})
		} else {
			assessment.CaseOpened = true
			assessment.CaseID = caseID
			trail.Append(domain.PhaseCompliance, domain.SpecialistCompliance, record.ID)
		}
	}
	state.setAssessment(assessment)
}

// notifyOne runs Phase 3 for a record whose decision requires customer
// contact, using the Phase-2 assessment when one exists.
func (c *Coordinator) notifyOne(ctx context.Context, record domain.PaymentRecord, state *runState, trail *Trail) {
	var assessment *domain.ComplianceAssessment
	state.mu.Lock()
	if a, ok := state.assessments[record.ID]; ok {
		assessment = &a
	}
	decision := state.decisions[record.ID]
	state.mu.Unlock()

	var notification domain.NotificationRecord
	err := c.withRetry(ctx, func() error {
		var notifyErr error
		notification, notifyErr = c.notifier.Notify(ctx, record, decision, assessment)
		return notifyErr
	})
	if err != nil {
		state.addError(record.ID, domain.PhaseNotification, err)
		return
	}
	state.addNotification(notification)
	trail.Append(domain.PhaseNotification, domain.SpecialistCustomerService, record.ID)
}

func (c *Coordinator) complianceSubset(records []domain.PaymentRecord, state *runState) []domain.PaymentRecord {
	state.mu.Lock()
	defer state.mu.Unlock()
	var subset []domain.PaymentRecord
	for _, record := range records {
		if d, ok := state.decisions[record.ID]; ok && d.Target == domain.SpecialistCompliance {
			subset = append(subset, record)
		}
	}
	return subset
}

func (c *Coordinator) notificationSubset(records []domain.PaymentRecord, state *runState) []domain.PaymentRecord {
	state.mu.Lock()
	defer state.mu.Unlock()
	var subset []domain.PaymentRecord
	for _, record := range records {
		if d, ok := state.decisions[record.ID]; ok && d.RequiresNotification() {
			subset = append(subset, record)
		}
	}
	return subset
}

// forEach fans items out to a bounded worker pool and waits for the phase
// barrier. Cancellation stops launching new tasks; started tasks finish so
// the summary never contains torn pairs.
func (c *Coordinator) forEach(ctx context.Context, n int, fn func(i int)) {
	sem := make(chan struct{}, c.policy.WorkerCount)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		// Checked before the select: with semaphore capacity free both
		// cases would be ready and the runtime picks one at random.
		if ctx.Err() != nil {
			wg.Wait()
			return
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(i)
		}(i)
	}
	wg.Wait()
}

// withRetry invokes a collaborator call, retrying exactly once after a fixed
// backoff. This is error recovery for flaky collaborators, distinct from a
// RETRY triage decision.
func (c *Coordinator) withRetry(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return err
	case <-time.After(c.policy.CollaboratorBackoff):
	}
	return fn()
}

// finalize computes the summary once, at run end, from the full decision set
// plus recorded events.
func (c *Coordinator) finalize(runID string, startedAt time.Time, records []domain.PaymentRecord, state *runState, trail *Trail) domain.WorkflowRunSummary {
	state.mu.Lock()
	defer state.mu.Unlock()

	summary := domain.WorkflowRunSummary{
		RunID:         runID,
		StartedAt:     startedAt,
		FinishedAt:    c.now(),
		TotalPayments: len(records),
		OutcomeCounts: make(map[domain.TriageOutcome]int),
		HandoffCounts: make(map[domain.Specialist]int),
		Notifications: append([]domain.NotificationRecord(nil), state.notifications...),
		Errors:        append([]domain.RecordError(nil), state.errs...),
		Handoffs:      trail.Events(),
	}

	for _, id := range state.order {
		decision := state.decisions[id]
		summary.Decisions = append(summary.Decisions, decision)
		summary.OutcomeCounts[decision.Outcome]++
		if decision.Target != domain.SpecialistNone {
			summary.HandoffCounts[decision.Target]++
		}
	}
	for _, id := range state.order {
		if assessment, ok := state.assessments[id]; ok {
			summary.Assessments = append(summary.Assessments, assessment)
			if assessment.CaseOpened {
				summary.CasesOpened++
			}
		}
	}
	return summary
}
