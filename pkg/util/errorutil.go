package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Envelope response codes carried on every response body.
const (
	CodeSuccess = "00"
	CodeFailure = "22"
)

// DomainError pairs an HTTP status with the message rendered into the
// wire envelope. The HTTP status and the envelope code vary
// independently: some error outcomes ship with success-shaped HTTP
// statuses as part of the documented contract.
type DomainError struct {
	HTTPStatus int
	Message    string
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs an error with an explicit HTTP status.
func NewDomainError(status int, message string) *DomainError {
	return &DomainError{HTTPStatus: status, Message: message}
}

// NewValidationError flags missing or malformed request fields.
func NewValidationError(message string) error {
	return NewDomainError(http.StatusBadRequest, message)
}

// NewUnauthorized is the single unauthenticated outcome. All token
// failures map here so the response never reveals which check failed.
func NewUnauthorized() error {
	return NewDomainError(http.StatusUnauthorized, "Not authorized")
}

// NewForbidden rejects an authenticated caller outside the allow-set.
func NewForbidden() error {
	return NewDomainError(http.StatusForbidden, "Forbidden")
}

// NewNotFound reports a missing resource.
func NewNotFound(resource string) error {
	return NewDomainError(http.StatusNotFound, fmt.Sprintf("%s not found", resource))
}

// NewInternalError wraps an unexpected failure without leaking it.
func NewInternalError(err error) error {
	return &DomainError{
		HTTPStatus: http.StatusInternalServerError,
		Message:    "Internal server error",
		Err:        err,
	}
}

// ToDomainError converts any error into a DomainError for rendering.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return NewDomainError(fiberErr.Code, fiberErr.Message)
	}
	return &DomainError{
		HTTPStatus: http.StatusInternalServerError,
		Message:    "Internal server error",
		Err:        err,
	}
}
