package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/pkg/util"
)

// AuthHandler exposes the registration, login and password-reset
// endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

func missingFields(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return util.NewValidationError("Missing required fields: " + strings.Join(missing, ", "))
}

// Register handles POST /api/auth/register. A duplicate email responds
// with HTTP 200 and failure code 22, matching the published contract.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Invalid request body")
	}
	if err := missingFields(
		"firstName", req.FirstName,
		"lastName", req.LastName,
		"email", req.Email,
		"password", req.Password,
	); err != nil {
		return err
	}

	err := h.auth.Register(c.Context(), service.RegisterInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MiddleName: req.MiddleName,
		Email:      req.Email,
		Password:   req.Password,
	})
	switch {
	case errors.Is(err, service.ErrAlreadyExists):
		return util.NewDomainError(http.StatusOK, "User already exists")
	case errors.Is(err, service.ErrDeliveryFailed):
		return util.NewDomainError(http.StatusInternalServerError, "Failed to send verification email")
	case err != nil:
		return util.NewInternalError(err)
	}

	return c.Status(http.StatusAccepted).JSON(
		envelope("Registration successful, verification email sent", nil))
}

// VerifyOTP handles POST /api/auth/verify-otp.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Invalid request body")
	}
	if err := missingFields("email", req.Email, "otp", req.OTP); err != nil {
		return err
	}

	account, err := h.auth.VerifyOTP(c.Context(), req.Email, req.OTP)
	switch {
	case errors.Is(err, service.ErrInvalidOTP):
		return util.NewDomainError(http.StatusBadRequest, "Invalid or expired OTP")
	case errors.Is(err, service.ErrAccountNotFound):
		return util.NewDomainError(http.StatusBadRequest, "No pending registration for this email")
	case err != nil:
		return util.NewInternalError(err)
	}

	sanitized := account.Sanitized()
	return c.JSON(envelope("OTP verified successfully, user activated",
		dto.NewAccountResponse(&sanitized)))
}

// Login handles POST /api/auth/login. An unknown email and a non-active
// account share one outcome, delivered with HTTP 202 and failure code
// 22 per the published contract.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Invalid request body")
	}
	if err := missingFields("email", req.Email, "password", req.Password); err != nil {
		return err
	}

	account, token, _, err := h.auth.Login(c.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInactiveAccount):
		return util.NewDomainError(http.StatusAccepted, "Invalid credentials or inactive user")
	case errors.Is(err, service.ErrInvalidCredentials):
		return util.NewDomainError(http.StatusUnauthorized, "Invalid credentials")
	case err != nil:
		return util.NewInternalError(err)
	}

	sanitized := account.Sanitized()
	return c.JSON(tokenEnvelope("Login successful",
		dto.NewAccountResponse(&sanitized), token))
}

// LoginWithGoogle handles POST /api/auth/google.
func (h *AuthHandler) LoginWithGoogle(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Invalid request body")
	}
	if err := missingFields("token", req.IDToken); err != nil {
		return err
	}

	account, token, _, err := h.auth.LoginWithGoogle(c.Context(), req.IDToken)
	switch {
	case errors.Is(err, service.ErrInvalidFederatedToken):
		return util.NewDomainError(http.StatusUnauthorized, "Google authentication failed")
	case err != nil:
		return util.NewInternalError(err)
	}

	sanitized := account.Sanitized()
	return c.JSON(tokenEnvelope("Login successful",
		dto.NewAccountResponse(&sanitized), token))
}

// ForgotPassword handles POST /api/auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Invalid request body")
	}
	if err := missingFields("email", req.Email); err != nil {
		return err
	}

	err := h.auth.ForgotPassword(c.Context(), req.Email)
	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		return util.NewNotFound("User")
	case errors.Is(err, service.ErrDeliveryFailed):
		return util.NewDomainError(http.StatusInternalServerError, "Failed to send reset email")
	case err != nil:
		return util.NewInternalError(err)
	}

	return c.JSON(envelope("OTP sent for password reset", nil))
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("Invalid request body")
	}
	if err := missingFields(
		"email", req.Email,
		"otp", req.OTP,
		"password", req.Password,
		"confirmPassword", req.ConfirmPassword,
	); err != nil {
		return err
	}

	err := h.auth.ResetPassword(c.Context(), req.Email, req.OTP, req.Password, req.ConfirmPassword)
	switch {
	case errors.Is(err, service.ErrPasswordMismatch):
		return util.NewValidationError("Passwords do not match")
	case errors.Is(err, service.ErrInvalidOTP):
		return util.NewDomainError(http.StatusBadRequest, "Invalid or expired OTP")
	case errors.Is(err, service.ErrAccountNotFound):
		return util.NewNotFound("User")
	case err != nil:
		return util.NewInternalError(err)
	}

	return c.JSON(envelope("Password reset successful", nil))
}
