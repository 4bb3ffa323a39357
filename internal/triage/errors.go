package triage

import (
	"errors"
	"fmt"

	"github.com/spec-kit/payment-ops/internal/domain"
)

// Per-record error codes surfaced in WorkflowRunSummary.Errors.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeCollaborator = "COLLABORATOR_UNAVAILABLE"
	CodeInvariant    = "INVARIANT_VIOLATION"
)

// ValidationError rejects a single malformed record. The record is excluded
// from all later phases.
type ValidationError struct {
	PaymentID string
	Field     string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("payment %s: invalid %s: %s", e.PaymentID, e.Field, e.Message)
}

// CollaboratorError marks a repository/lookup/case-store call that failed
// after its single retry.
type CollaboratorError struct {
	PaymentID    string
	Collaborator string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("payment %s: %s unavailable: %v", e.PaymentID, e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// InvariantError marks a record whose data violates a core invariant, such
// as a negative retry counter. Fatal to the record, never to the run.
type InvariantError struct {
	PaymentID string
	Message   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("payment %s: invariant violated: %s", e.PaymentID, e.Message)
}

// recordError converts a core error into its summary entry.
func recordError(paymentID string, phase domain.WorkflowPhase, err error) domain.RecordError {
	entry := domain.RecordError{
		PaymentID: paymentID,
		Phase:     phase,
		Code:      codeOf(err),
		Message:   err.Error(),
	}
	return entry
}

func codeOf(err error) string {
	var (
		validation   *ValidationError
		collaborator *CollaboratorError
		invariant    *InvariantError
	)
	switch {
	case errors.As(err, &validation):
		return CodeValidation
	case errors.As(err, &invariant):
		return CodeInvariant
	case errors.As(err, &collaborator):
		return CodeCollaborator
	default:
		return CodeCollaborator
	}
}
