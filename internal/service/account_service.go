package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
)

// AccountService covers account administration outside the auth flows.
type AccountService struct {
	accounts repository.AccountRepository
	logger   *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(accounts repository.AccountRepository, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{accounts: accounts, logger: logger}
}

// GetByID fetches an account with credentials stripped.
func (s *AccountService) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	sanitized := account.Sanitized()
	return &sanitized, nil
}

// ChangeRole reassigns an account's role.
func (s *AccountService) ChangeRole(ctx context.Context, accountID string, role domain.Role) (*domain.Account, error) {
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidRole, role)
	}

	account, err := s.accounts.UpdateRole(ctx, accountID, role)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("role changed",
		zap.String("account_id", accountID),
		zap.String("role", string(role)))
	sanitized := account.Sanitized()
	return &sanitized, nil
}

// ErrInvalidRole marks a role outside the known set.
var ErrInvalidRole = errors.New("invalid role")
