package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/payment-ops/internal/domain"
)

// CaseRepository persists compliance review cases. OpenCase satisfies the
// triage pipeline's case store contract.
type CaseRepository interface {
	OpenCase(ctx context.Context, paymentID string, risk domain.RiskLevel) (string, error)
	GetByID(ctx context.Context, id string) (*domain.ComplianceCase, error)
	ListByPayment(ctx context.Context, paymentID string) ([]domain.ComplianceCase, error)
}

type caseRepository struct {
	pool *pgxpool.Pool
}

// NewCaseRepository instantiates repository.
func NewCaseRepository(pool *pgxpool.Pool) CaseRepository {
	return &caseRepository{pool: pool}
}

func (r *caseRepository) OpenCase(ctx context.Context, paymentID string, risk domain.RiskLevel) (string, error) {
	id := uuid.NewString()
	const query = `
        INSERT INTO compliance_cases (id, payment_id, risk, opened_at)
        VALUES ($1,$2,$3,NOW())`
	if _, err := r.pool.Exec(ctx, query, id, paymentID, risk); err != nil {
		return "", err
	}
	return id, nil
}

func (r *caseRepository) GetByID(ctx context.Context, id string) (*domain.ComplianceCase, error) {
	const query = `
        SELECT id, payment_id, risk, opened_at
        FROM compliance_cases WHERE id=$1`
	var reviewCase domain.ComplianceCase
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&reviewCase.ID,
		&reviewCase.PaymentID,
		&reviewCase.Risk,
		&reviewCase.OpenedAt,
	); err != nil {
		return nil, err
	}
	return &reviewCase, nil
}

func (r *caseRepository) ListByPayment(ctx context.Context, paymentID string) ([]domain.ComplianceCase, error) {
	const query = `
        SELECT id, payment_id, risk, opened_at
        FROM compliance_cases WHERE payment_id=$1
        ORDER BY opened_at DESC`
	rows, err := r.pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCases(rows)
}

func scanCases(rows pgx.Rows) ([]domain.ComplianceCase, error) {
	var result []domain.ComplianceCase
	for rows.Next() {
		var reviewCase domain.ComplianceCase
		if err := rows.Scan(
			&reviewCase.ID,
			&reviewCase.PaymentID,
			&reviewCase.Risk,
			&reviewCase.OpenedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, reviewCase)
	}
	return result, rows.Err()
}
