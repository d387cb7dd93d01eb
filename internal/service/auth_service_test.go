package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/otp"
)

var otpPattern = regexp.MustCompile(`\d{6}`)

type fakeVerifier struct {
	profile *auth.FederatedProfile
	err     error
}

func (v *fakeVerifier) Verify(context.Context, string) (*auth.FederatedProfile, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.profile, nil
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
		},
	}
}

type authFixture struct {
	svc      *AuthService
	accounts *fakeAccountRepo
	mailer   *fakeMailer
	verifier *fakeVerifier
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	accounts := newFakeAccountRepo()
	mailer := &fakeMailer{}
	verifier := &fakeVerifier{}
	svc := NewAuthService(testConfig(), AuthDependencies{
		AccountRepo: accounts,
		Ledger:      otp.NewMemoryLedger(5 * time.Minute),
		Federated:   verifier,
		Mailer:      mailer,
		Dispatcher:  events.NewInMemoryDispatcher(),
		Logger:      zap.NewNop(),
	})
	return &authFixture{svc: svc, accounts: accounts, mailer: mailer, verifier: verifier}
}

func (f *authFixture) register(t *testing.T, email, password string) string {
	t.Helper()
	err := f.svc.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  password,
	})
	require.NoError(t, err)

	msg, ok := f.mailer.last()
	require.True(t, ok)
	code := otpPattern.FindString(msg.Text)
	require.NotEmpty(t, code)
	return code
}

func TestRegisterVerifyLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	code := f.register(t, "ada@example.com", "hunter22")

	stored, err := f.accounts.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, stored.Status)
	require.Equal(t, domain.RoleCustomer, stored.Role)
	require.NotEqual(t, "hunter22", stored.PasswordHash)

	account, err := f.svc.VerifyOTP(ctx, "ada@example.com", code)
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, account.Status)

	logged, token, expiresAt, err := f.svc.Login(ctx, "ada@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.True(t, expiresAt.After(time.Now()))
	require.Equal(t, account.ID, logged.ID)

	claims, err := f.svc.TokenManager().Validate(token)
	require.NoError(t, err)
	require.Equal(t, account.ID, claims.AccountID)
	require.Equal(t, domain.RoleCustomer, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada@example.com", "hunter22")

	err := f.svc.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "other",
	})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestRegisterDeliveryFailureLeavesNoAccount(t *testing.T) {
	f := newAuthFixture(t)
	f.mailer.fail = true

	err := f.svc.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "hunter22",
	})
	require.ErrorIs(t, err, ErrDeliveryFailed)

	_, err = f.accounts.FindByEmail(context.Background(), "ada@example.com")
	require.Error(t, err)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	f := newAuthFixture(t)
	code := f.register(t, "ada@example.com", "hunter22")

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	_, err := f.svc.VerifyOTP(context.Background(), "ada@example.com", wrong)
	require.ErrorIs(t, err, ErrInvalidOTP)

	// The right code still works afterwards; a failed attempt does not
	// consume it.
	_, err = f.svc.VerifyOTP(context.Background(), "ada@example.com", code)
	require.NoError(t, err)
}

func TestVerifyOTPSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	code := f.register(t, "ada@example.com", "hunter22")

	_, err := f.svc.VerifyOTP(context.Background(), "ada@example.com", code)
	require.NoError(t, err)

	_, err = f.svc.VerifyOTP(context.Background(), "ada@example.com", code)
	require.ErrorIs(t, err, ErrInvalidOTP)
}

func TestLoginPendingAccount(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ada@example.com", "hunter22")

	_, _, _, err := f.svc.Login(context.Background(), "ada@example.com", "hunter22")
	require.ErrorIs(t, err, ErrInactiveAccount)
}

func TestLoginUnknownEmailIndistinguishableFromInactive(t *testing.T) {
	f := newAuthFixture(t)

	_, _, _, err := f.svc.Login(context.Background(), "ghost@example.com", "whatever")
	require.ErrorIs(t, err, ErrInactiveAccount)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	code := f.register(t, "ada@example.com", "hunter22")
	_, err := f.svc.VerifyOTP(context.Background(), "ada@example.com", code)
	require.NoError(t, err)

	_, _, _, err = f.svc.Login(context.Background(), "ada@example.com", "nope")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestForgotResetPasswordFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	code := f.register(t, "ada@example.com", "hunter22")
	_, err := f.svc.VerifyOTP(ctx, "ada@example.com", code)
	require.NoError(t, err)

	require.NoError(t, f.svc.ForgotPassword(ctx, "ada@example.com"))
	msg, ok := f.mailer.last()
	require.True(t, ok)
	require.Equal(t, "Reset Your Password", msg.Subject)
	resetCode := otpPattern.FindString(msg.Text)
	require.NotEmpty(t, resetCode)

	err = f.svc.ResetPassword(ctx, "ada@example.com", resetCode, "newpass", "different")
	require.ErrorIs(t, err, ErrPasswordMismatch)

	err = f.svc.ResetPassword(ctx, "ada@example.com", resetCode, "newpass", "newpass")
	require.NoError(t, err)

	_, _, _, err = f.svc.Login(ctx, "ada@example.com", "hunter22")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, token, _, err := f.svc.Login(ctx, "ada@example.com", "newpass")
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)
	err := f.svc.ForgotPassword(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestGoogleLoginProvisionsActiveCustomer(t *testing.T) {
	f := newAuthFixture(t)
	f.verifier.profile = &auth.FederatedProfile{
		Email:   "grace@example.com",
		Name:    "Grace Hopper",
		Picture: "https://example.com/grace.png",
	}

	account, token, _, err := f.svc.LoginWithGoogle(context.Background(), "provider-token")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, domain.StatusActive, account.Status)
	require.Equal(t, domain.RoleCustomer, account.Role)
	require.Equal(t, "Grace", account.FirstName)
	require.Equal(t, "Hopper", account.LastName)

	// A second federated login reuses the provisioned account.
	again, _, _, err := f.svc.LoginWithGoogle(context.Background(), "provider-token")
	require.NoError(t, err)
	require.Equal(t, account.ID, again.ID)
}

func TestGoogleLoginRejectedToken(t *testing.T) {
	f := newAuthFixture(t)
	f.verifier.err = errors.New("signature check failed")

	_, _, _, err := f.svc.LoginWithGoogle(context.Background(), "bad-token")
	require.ErrorIs(t, err, ErrInvalidFederatedToken)
}
