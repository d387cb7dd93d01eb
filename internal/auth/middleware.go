package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

const principalKey = "auth_principal"

// Middleware authenticates bearer tokens and loads the caller's account
// for downstream handlers.
type Middleware struct {
	tokens   *TokenManager
	accounts repository.AccountRepository
}

// NewMiddleware constructs the access gate.
func NewMiddleware(tokens *TokenManager, accounts repository.AccountRepository) *Middleware {
	return &Middleware{tokens: tokens, accounts: accounts}
}

// Authenticate enforces a valid bearer token. Every failure mode --
// missing header, malformed token, bad signature, expired, unknown
// account -- collapses into the same unauthorized response so callers
// learn nothing about which check failed. On success the account,
// re-fetched from the store with the password hash stripped, is
// attached to the request context.
func (m *Middleware) Authenticate(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized()
	}

	claims, err := m.tokens.Validate(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized()
	}

	account, err := m.accounts.FindByID(c.Context(), claims.AccountID)
	if err != nil {
		return apperrors.NewUnauthorized()
	}
	// Tokens cannot be revoked, but a banned or deactivated account is
	// refused here on the re-fetch.
	if account.Status == domain.StatusBanned || account.Status == domain.StatusInactive {
		return apperrors.NewUnauthorized()
	}

	sanitized := account.Sanitized()
	c.Locals(principalKey, &sanitized)
	return c.Next()
}

// AccountFromContext returns the account placed by Authenticate.
func AccountFromContext(c *fiber.Ctx) (*domain.Account, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	account, ok := val.(*domain.Account)
	return account, ok
}
