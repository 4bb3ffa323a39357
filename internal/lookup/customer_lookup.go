package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/payment-ops/internal/domain"
	"github.com/spec-kit/payment-ops/internal/repository"
)

// CustomerLookup resolves customer attributes for the triage pipeline,
// caching resolved records in Redis. Customers that do not exist resolve to
// STANDARD tier, no cross-border flag, and the EMAIL channel; only a failed
// lookup call is an error.
type CustomerLookup struct {
	customers repository.CustomerRepository
	cache     *redis.Client
	ttl       time.Duration
	logger    *zap.Logger
}

// NewCustomerLookup constructs a cached lookup. The cache client may be nil,
// in which case every resolve hits the repository.
func NewCustomerLookup(customers repository.CustomerRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *CustomerLookup {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CustomerLookup{customers: customers, cache: cache, ttl: ttl, logger: logger}
}

func cacheKey(ref string) string {
	return "customer:" + ref
}

func (l *CustomerLookup) resolve(ctx context.Context, ref string) (*domain.Customer, error) {
	if l.cache != nil {
		raw, err := l.cache.Get(ctx, cacheKey(ref)).Bytes()
		if err == nil {
			var customer domain.Customer
			if unmarshalErr := json.Unmarshal(raw, &customer); unmarshalErr == nil {
				return &customer, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			l.logger.Warn("customer cache read failed", zap.String("ref", ref), zap.Error(err))
		}
	}

	customer, err := l.customers.GetByRef(ctx, ref)
	if errors.Is(err, pgx.ErrNoRows) {
		customer = &domain.Customer{
			Ref:              ref,
			Tier:             domain.TierStandard,
			CrossBorder:      false,
			PreferredChannel: domain.ChannelEmail,
		}
	} else if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if raw, err := json.Marshal(customer); err == nil {
			if err := l.cache.Set(ctx, cacheKey(ref), raw, l.ttl).Err(); err != nil {
				l.logger.Warn("customer cache write failed", zap.String("ref", ref), zap.Error(err))
			}
		}
	}
	return customer, nil
}

// TierOf returns the customer's service tier.
func (l *CustomerLookup) TierOf(ctx context.Context, customerRef string) (domain.CustomerTier, error) {
	customer, err := l.resolve(ctx, customerRef)
	if err != nil {
		return "", err
	}
	return customer.Tier, nil
}

// CrossBorderFlag reports whether the customer transacts cross-border.
func (l *CustomerLookup) CrossBorderFlag(ctx context.Context, customerRef string) (bool, error) {
	customer, err := l.resolve(ctx, customerRef)
	if err != nil {
		return false, err
	}
	return customer.CrossBorder, nil
}

// PreferredChannel returns the customer's preferred contact channel.
func (l *CustomerLookup) PreferredChannel(ctx context.Context, customerRef string) (domain.NotificationChannel, error) {
	customer, err := l.resolve(ctx, customerRef)
	if err != nil {
		return "", err
	}
	return customer.PreferredChannel, nil
}
