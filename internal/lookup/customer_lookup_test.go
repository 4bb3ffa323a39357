package lookup

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/payment-ops/internal/domain"
)

type fakeCustomerRepo struct {
	customers map[string]domain.Customer
	err       error
	calls     int
}

func (f *fakeCustomerRepo) GetByRef(_ context.Context, ref string) (*domain.Customer, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	customer, ok := f.customers[ref]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &customer, nil
}

func TestLookupResolvesKnownCustomer(t *testing.T) {
	repo := &fakeCustomerRepo{customers: map[string]domain.Customer{
		"CUST-VIP-001": {
			Ref:              "CUST-VIP-001",
			Tier:             domain.TierVIP,
			CrossBorder:      true,
			PreferredChannel: domain.ChannelPhone,
		},
	}}
	lookup := NewCustomerLookup(repo, nil, 0, nil)

	tier, err := lookup.TierOf(context.Background(), "CUST-VIP-001")
	if err != nil {
		t.Fatalf("TierOf: %v", err)
	}
	if tier != domain.TierVIP {
		t.Errorf("tier = %q, want VIP", tier)
	}

	crossBorder, err := lookup.CrossBorderFlag(context.Background(), "CUST-VIP-001")
	if err != nil {
		t.Fatalf("CrossBorderFlag: %v", err)
	}
	if !crossBorder {
		t.Error("cross-border flag lost")
	}

	channel, err := lookup.PreferredChannel(context.Background(), "CUST-VIP-001")
	if err != nil {
		t.Fatalf("PreferredChannel: %v", err)
	}
	if channel != domain.ChannelPhone {
		t.Errorf("channel = %q, want PHONE", channel)
	}
}

func TestLookupDefaultsForMissingCustomer(t *testing.T) {
	lookup := NewCustomerLookup(&fakeCustomerRepo{}, nil, 0, nil)

	tier, err := lookup.TierOf(context.Background(), "CUST-UNKNOWN")
	if err != nil {
		t.Fatalf("TierOf: %v", err)
	}
	if tier != domain.TierStandard {
		t.Errorf("tier = %q, want STANDARD for missing customer", tier)
	}

	crossBorder, err := lookup.CrossBorderFlag(context.Background(), "CUST-UNKNOWN")
	if err != nil {
		t.Fatalf("CrossBorderFlag: %v", err)
	}
	if crossBorder {
		t.Error("missing customer must not be flagged cross-border")
	}

	channel, err := lookup.PreferredChannel(context.Background(), "CUST-UNKNOWN")
	if err != nil {
		t.Fatalf("PreferredChannel: %v", err)
	}
	if channel != domain.ChannelEmail {
		t.Errorf("channel = %q, want EMAIL for missing customer", channel)
	}
}

func TestLookupPropagatesRepositoryFailure(t *testing.T) {
	repo := &fakeCustomerRepo{err: errors.New("db down")}
	lookup := NewCustomerLookup(repo, nil, 0, nil)

	if _, err := lookup.TierOf(context.Background(), "CUST-1"); err == nil {
		t.Fatal("expected error when repository fails")
	}
}
