package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/payment-ops/internal/domain"
)

// PaymentFilter captures operator search parameters.
type PaymentFilter struct {
	Status      *domain.PaymentStatus
	Reason      *domain.FailureReason
	CustomerRef *string
	Limit       int
	Offset      int
}

// PaymentRepository encapsulates payment persistence. It is a superset of
// what the triage pipeline needs; the pipeline consumes it through its own
// narrower interface.
type PaymentRepository interface {
	FetchPending(ctx context.Context, limit int) ([]domain.PaymentRecord, error)
	GetByID(ctx context.Context, id string) (*domain.PaymentRecord, error)
	ListWithFilter(ctx context.Context, filter PaymentFilter) ([]domain.PaymentRecord, error)
	MarkRetried(ctx context.Context, paymentID string) error
	MarkEscalated(ctx context.Context, paymentID string, target domain.Specialist) error
}

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository instantiates repository.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

const paymentColumns = `id, amount_cents, status, reason, retry_count, last_attempt_at, customer_ref, description, created_at`

func (r *paymentRepository) FetchPending(ctx context.Context, limit int) ([]domain.PaymentRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
        SELECT %s FROM payments
        WHERE status IN ('PENDING','FAILED')
        ORDER BY created_at ASC
        LIMIT $1`, paymentColumns)
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.PaymentRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE id=$1`, paymentColumns)
	var record domain.PaymentRecord
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&record.ID,
		&record.AmountCents,
		&record.Status,
		&record.Reason,
		&record.RetryCount,
		&record.LastAttempt,
		&record.CustomerRef,
		&record.Description,
		&record.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *paymentRepository) ListWithFilter(ctx context.Context, filter PaymentFilter) ([]domain.PaymentRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Reason != nil {
		args = append(args, *filter.Reason)
		clauses = append(clauses, fmt.Sprintf("reason=$%d", len(args)))
	}
	if filter.CustomerRef != nil {
		args = append(args, *filter.CustomerRef)
		clauses = append(clauses, fmt.Sprintf("customer_ref=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM payments WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		paymentColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (r *paymentRepository) MarkRetried(ctx context.Context, paymentID string) error {
	const query = `
        UPDATE payments
        SET status='RETRIED', retry_count=retry_count+1, last_attempt_at=NOW(), updated_at=NOW()
        WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, paymentID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *paymentRepository) MarkEscalated(ctx context.Context, paymentID string, target domain.Specialist) error {
	const query = `
        UPDATE payments
        SET status='ESCALATED', escalated_to=$2, updated_at=NOW()
        WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, paymentID, target)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanPayments(rows pgx.Rows) ([]domain.PaymentRecord, error) {
	var result []domain.PaymentRecord
	for rows.Next() {
		var record domain.PaymentRecord
		if err := rows.Scan(
			&record.ID,
			&record.AmountCents,
			&record.Status,
			&record.Reason,
			&record.RetryCount,
			&record.LastAttempt,
			&record.CustomerRef,
			&record.Description,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
