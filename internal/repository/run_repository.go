package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/payment-ops/internal/domain"
)

// RunRepository archives finished triage runs together with their handoff
// trail. The full summary is stored as a JSON document; the handoff events
// additionally land in their own table so they can be queried per payment.
type RunRepository interface {
	SaveRun(ctx context.Context, summary *domain.WorkflowRunSummary) error
	GetRun(ctx context.Context, runID string) (*domain.WorkflowRunSummary, error)
	ListRuns(ctx context.Context, limit, offset int) ([]domain.WorkflowRunSummary, error)
	ListHandoffs(ctx context.Context, runID string) ([]domain.HandoffEvent, error)
	ListHandoffsByPayment(ctx context.Context, paymentID string) ([]domain.HandoffEvent, error)
}

type runRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository instantiates repository.
func NewRunRepository(pool *pgxpool.Pool) RunRepository {
	return &runRepository{pool: pool}
}

func (r *runRepository) SaveRun(ctx context.Context, summary *domain.WorkflowRunSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode run summary: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insertRun = `
        INSERT INTO workflow_runs (id, started_at, finished_at, total_payments, cases_opened, notification_count, error_count, summary)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	if _, err := tx.Exec(ctx, insertRun,
		summary.RunID,
		summary.StartedAt,
		summary.FinishedAt,
		summary.TotalPayments,
		summary.CasesOpened,
		len(summary.Notifications),
		len(summary.Errors),
		payload,
	); err != nil {
		return err
	}

	const insertHandoff = `
        INSERT INTO handoff_events (run_id, seq, phase, target, payment_id, occurred_at)
        VALUES ($1,$2,$3,$4,$5,$6)`
	for _, event := range summary.Handoffs {
		if _, err := tx.Exec(ctx, insertHandoff,
			summary.RunID,
			event.Seq,
			event.Phase,
			event.Target,
			event.PaymentID,
			event.Timestamp,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *runRepository) GetRun(ctx context.Context, runID string) (*domain.WorkflowRunSummary, error) {
	const query = `SELECT summary FROM workflow_runs WHERE id=$1`
	var payload []byte
	if err := r.pool.QueryRow(ctx, query, runID).Scan(&payload); err != nil {
		return nil, err
	}
	var summary domain.WorkflowRunSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, fmt.Errorf("decode run summary: %w", err)
	}
	return &summary, nil
}

func (r *runRepository) ListRuns(ctx context.Context, limit, offset int) ([]domain.WorkflowRunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT summary FROM workflow_runs
        ORDER BY started_at DESC
        LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.WorkflowRunSummary
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var summary domain.WorkflowRunSummary
		if err := json.Unmarshal(payload, &summary); err != nil {
			return nil, fmt.Errorf("decode run summary: %w", err)
		}
		result = append(result, summary)
	}
	return result, rows.Err()
}

func (r *runRepository) ListHandoffs(ctx context.Context, runID string) ([]domain.HandoffEvent, error) {
	const query = `
        SELECT seq, phase, target, payment_id, occurred_at
        FROM handoff_events WHERE run_id=$1
        ORDER BY seq ASC`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHandoffs(rows)
}

func (r *runRepository) ListHandoffsByPayment(ctx context.Context, paymentID string) ([]domain.HandoffEvent, error) {
	const query = `
        SELECT seq, phase, target, payment_id, occurred_at
        FROM handoff_events WHERE payment_id=$1
        ORDER BY occurred_at ASC, seq ASC`
	rows, err := r.pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHandoffs(rows)
}

func scanHandoffs(rows pgx.Rows) ([]domain.HandoffEvent, error) {
	var result []domain.HandoffEvent
	for rows.Next() {
		var event domain.HandoffEvent
		if err := rows.Scan(
			&event.Seq,
			&event.Phase,
			&event.Target,
			&event.PaymentID,
			&event.Timestamp,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}
