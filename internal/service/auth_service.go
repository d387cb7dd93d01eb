package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/mail"
	"github.com/spec-kit/complaint-service/internal/otp"
	"github.com/spec-kit/complaint-service/internal/repository"
)

// Failure modes surfaced by the lifecycle manager. Handlers map these
// to the wire envelope; anything else is an internal error.
var (
	ErrAlreadyExists         = errors.New("account already exists")
	ErrAccountNotFound       = errors.New("account not found")
	ErrInvalidOTP            = errors.New("invalid otp")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInactiveAccount       = errors.New("invalid credentials or inactive account")
	ErrPasswordMismatch      = errors.New("passwords do not match")
	ErrDeliveryFailed        = errors.New("failed to send email")
	ErrInvalidFederatedToken = errors.New("invalid federated token")
)

// AuthService drives the account lifecycle: registration with
// OTP-gated activation, password and federated login, and OTP-gated
// password reset. Account state lives in the account store; the only
// state owned here is the injected OTP ledger.
type AuthService struct {
	accounts   repository.AccountRepository
	ledger     otp.Ledger
	federated  auth.FederatedVerifier
	mailer     mail.Dispatcher
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies bundles collaborator requirements for the service.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	Ledger      otp.Ledger
	Federated   auth.FederatedVerifier
	Mailer      mail.Dispatcher
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts:   deps.AccountRepo,
		ledger:     deps.Ledger,
		federated:  deps.Federated,
		mailer:     deps.Mailer,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// RegisterInput describes a local registration request.
type RegisterInput struct {
	FirstName  string
	LastName   string
	MiddleName *string
	Email      string
	Password   string
}

// Register creates a pending account and emails a verification code.
// The account row is written only after the email is confirmed sent, so
// a delivery failure never strands a pending account the user cannot
// verify.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) error {
	if _, err := s.accounts.FindByEmail(ctx, input.Email); err == nil {
		return ErrAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return err
	}

	code, err := s.ledger.Issue(ctx, input.Email)
	if err != nil {
		return err
	}

	msg := mail.Message{
		To:      input.Email,
		Subject: "Verify Your Email",
		Text:    fmt.Sprintf("Your OTP for email verification is %s.", code),
		HTML:    fmt.Sprintf("<p>Your OTP for email verification is <strong>%s</strong>.</p>", code),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("verification email dispatch failed", zap.String("email", input.Email), zap.Error(err))
		return ErrDeliveryFailed
	}

	account := &domain.Account{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		MiddleName:   input.MiddleName,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		Status:       domain.StatusPending,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyExists
		}
		return err
	}

	s.logger.Info("account registered", zap.String("account_id", account.ID))
	return nil
}

// VerifyOTP consumes the code and activates the pending account.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*domain.Account, error) {
	if err := s.ledger.Verify(ctx, email, code); err != nil {
		switch {
		case errors.Is(err, otp.ErrNotFound), errors.Is(err, otp.ErrExpired), errors.Is(err, otp.ErrMismatch):
			return nil, ErrInvalidOTP
		default:
			return nil, err
		}
	}

	account, err := s.accounts.UpdateStatusByEmail(ctx, email, domain.StatusActive)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventAccountActivated, account.ID, nil, nil)
	return account, nil
}

// Login authenticates a local account. A missing account and a
// non-active one produce the same outcome so callers cannot enumerate
// registered emails.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, string, time.Time, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", time.Time{}, ErrInactiveAccount
	}
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if account.Status != domain.StatusActive {
		return nil, "", time.Time{}, ErrInactiveAccount
	}

	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokenMgr.Issue(account.ID, account.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return account, token, expiresAt, nil
}

// LoginWithGoogle verifies the provider assertion and signs in the
// matching account, provisioning an active customer account on first
// sight.
func (s *AuthService) LoginWithGoogle(ctx context.Context, rawToken string) (*domain.Account, string, time.Time, error) {
	if s.federated == nil {
		return nil, "", time.Time{}, ErrInvalidFederatedToken
	}

	profile, err := s.federated.Verify(ctx, rawToken)
	if err != nil {
		s.logger.Warn("federated token rejected", zap.Error(err))
		return nil, "", time.Time{}, ErrInvalidFederatedToken
	}

	account, err := s.accounts.FindByEmail(ctx, profile.Email)
	if errors.Is(err, repository.ErrNotFound) {
		first, last := splitDisplayName(profile.Name)
		account = &domain.Account{
			FirstName: first,
			LastName:  last,
			Email:     profile.Email,
			Role:      domain.RoleCustomer,
			Status:    domain.StatusActive,
			Picture:   optionalString(profile.Picture),
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return nil, "", time.Time{}, err
		}
		s.logger.Info("account provisioned from federated login", zap.String("account_id", account.ID))
	} else if err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.tokenMgr.Issue(account.ID, account.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return account, token, expiresAt, nil
}

// ForgotPassword issues a reset code to a known account. Unlike login,
// this deliberately reveals whether the email is registered, matching
// the documented contract.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if _, err := s.accounts.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	code, err := s.ledger.Issue(ctx, email)
	if err != nil {
		return err
	}

	msg := mail.Message{
		To:      email,
		Subject: "Reset Your Password",
		Text:    fmt.Sprintf("Your OTP for password reset is %s.", code),
		HTML:    fmt.Sprintf("<p>Your OTP for password reset is <strong>%s</strong>.</p>", code),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("reset email dispatch failed", zap.String("email", email), zap.Error(err))
		return ErrDeliveryFailed
	}
	return nil
}

// ResetPassword rotates the password hash after OTP proof. The hash
// uses the same scheme as registration, so subsequent logins verify.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}

	if err := s.ledger.Verify(ctx, email, code); err != nil {
		switch {
		case errors.Is(err, otp.ErrNotFound), errors.Is(err, otp.ErrExpired), errors.Is(err, otp.ErrMismatch):
			return ErrInvalidOTP
		default:
			return err
		}
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}

	if _, err := s.accounts.UpdatePasswordByEmail(ctx, email, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	return nil
}

// TokenManager exposes the issuer for the access gate.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, typ events.EventType, subjectID string, actorID *string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      typ,
		SubjectID: subjectID,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func splitDisplayName(name string) (string, string) {
	first, last, found := strings.Cut(strings.TrimSpace(name), " ")
	if !found {
		return first, ""
	}
	return first, last
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
