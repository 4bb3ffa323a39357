package triage

import (
	"context"

	"github.com/spec-kit/payment-ops/internal/domain"
)

// PaymentRepository supplies payment records and accepts status write-backs.
// Failures of any call surface as per-record errors, never as a crash.
type PaymentRepository interface {
	FetchPending(ctx context.Context, limit int) ([]domain.PaymentRecord, error)
	MarkRetried(ctx context.Context, paymentID string) error
	MarkEscalated(ctx context.Context, paymentID string, target domain.Specialist) error
}

// CustomerLookup resolves customer attributes. Missing customers resolve to
// STANDARD tier, no cross-border flag, and the EMAIL channel.
type CustomerLookup interface {
	TierOf(ctx context.Context, customerRef string) (domain.CustomerTier, error)
	CrossBorderFlag(ctx context.Context, customerRef string) (bool, error)
	PreferredChannel(ctx context.Context, customerRef string) (domain.NotificationChannel, error)
}

// CaseStore opens compliance review cases. The coordinator guarantees
// at-most-once invocation per payment per run; the store itself need not
// deduplicate.
type CaseStore interface {
	OpenCase(ctx context.Context, paymentID string, risk domain.RiskLevel) (string, error)
}
