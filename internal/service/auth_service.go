package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/payment-ops/internal/auth"
	"github.com/spec-kit/payment-ops/internal/config"
	"github.com/spec-kit/payment-ops/internal/domain"
	"github.com/spec-kit/payment-ops/internal/repository"
)

// AuthService coordinates operator login and bootstrap.
type AuthService struct {
	operators  repository.OperatorRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, operators repository.OperatorRepository) *AuthService {
	return &AuthService{
		operators:  operators,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// Login authenticates an operator by name and password.
func (s *AuthService) Login(ctx context.Context, name, password string) (*domain.Operator, string, time.Time, error) {
	operator, err := s.operators.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, errors.New("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(operator.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errors.New("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(operator.ID, operator.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return operator, token, exp, nil
}

// EnsureBootstrapAdmin creates the initial admin account when none exists.
// A blank secret disables bootstrap entirely.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, name, secret string) error {
	if secret == "" {
		return nil
	}
	_, err := s.operators.GetByName(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(secret, s.bcryptCost)
	if err != nil {
		return err
	}
	operator := &domain.Operator{
		ID:           uuid.NewString(),
		Name:         name,
		PasswordHash: hash,
		Role:         domain.OperatorRoleAdmin,
	}
	return s.operators.Create(ctx, operator)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
