package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/payment-ops/internal/domain"
)

// CustomerRepository resolves customer attributes for compliance scoring
// and notification routing.
type CustomerRepository interface {
	GetByRef(ctx context.Context, ref string) (*domain.Customer, error)
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository instantiates repository.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

func (r *customerRepository) GetByRef(ctx context.Context, ref string) (*domain.Customer, error) {
	const query = `
        SELECT ref, tier, cross_border, preferred_channel
        FROM customers WHERE ref=$1`
	var customer domain.Customer
	if err := r.pool.QueryRow(ctx, query, ref).Scan(
		&customer.Ref,
		&customer.Tier,
		&customer.CrossBorder,
		&customer.PreferredChannel,
	); err != nil {
		return nil, err
	}
	return &customer, nil
}
