package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/payment-ops/internal/domain"
)

// OperatorRepository encapsulates operator account persistence.
type OperatorRepository interface {
	Create(ctx context.Context, operator *domain.Operator) error
	GetByID(ctx context.Context, id string) (*domain.Operator, error)
	GetByName(ctx context.Context, name string) (*domain.Operator, error)
}

type operatorRepository struct {
	pool *pgxpool.Pool
}

// NewOperatorRepository instantiates repository.
func NewOperatorRepository(pool *pgxpool.Pool) OperatorRepository {
	return &operatorRepository{pool: pool}
}

func (r *operatorRepository) Create(ctx context.Context, operator *domain.Operator) error {
	const query = `
        INSERT INTO operators (id, name, password_hash, role)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		operator.ID,
		operator.Name,
		operator.PasswordHash,
		operator.Role,
	).Scan(&operator.CreatedAt)
}

func (r *operatorRepository) GetByID(ctx context.Context, id string) (*domain.Operator, error) {
	const query = `
        SELECT id, name, password_hash, role, created_at
        FROM operators WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *operatorRepository) GetByName(ctx context.Context, name string) (*domain.Operator, error) {
	const query = `
        SELECT id, name, password_hash, role, created_at
        FROM operators WHERE name=$1`
	return r.fetchSingle(ctx, query, name)
}

func (r *operatorRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Operator, error) {
	var operator domain.Operator
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&operator.ID,
		&operator.Name,
		&operator.PasswordHash,
		&operator.Role,
		&operator.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &operator, nil
}
