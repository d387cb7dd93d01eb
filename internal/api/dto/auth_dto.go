package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	MiddleName *string `json:"middleName"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
}

// VerifyOTPRequest payload for account activation.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// LoginRequest payload for password login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleLoginRequest carries the provider-issued identity token.
type GoogleLoginRequest struct {
	IDToken string `json:"token"`
}

// ForgotPasswordRequest payload.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest payload for OTP-gated password rotation.
type ResetPasswordRequest struct {
	Email           string `json:"email"`
	OTP             string `json:"otp"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// AccountResponse is the sanitized account view.
type AccountResponse struct {
	ID         string        `json:"id"`
	FirstName  string        `json:"firstName"`
	LastName   string        `json:"lastName"`
	MiddleName *string       `json:"middleName,omitempty"`
	Email      string        `json:"email"`
	Role       domain.Role   `json:"role"`
	Status     domain.Status `json:"status"`
	Phone      *string       `json:"phone,omitempty"`
	Picture    *string       `json:"picture,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// NewAccountResponse maps a domain account to its response form.
func NewAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:         account.ID,
		FirstName:  account.FirstName,
		LastName:   account.LastName,
		MiddleName: account.MiddleName,
		Email:      account.Email,
		Role:       account.Role,
		Status:     account.Status,
		Phone:      account.Phone,
		Picture:    account.Picture,
		CreatedAt:  account.CreatedAt,
		UpdatedAt:  account.UpdatedAt,
	}
}
