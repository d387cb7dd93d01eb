package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// Verification failure reasons.
var (
	ErrNotFound = errors.New("otp: no code issued for identifier")
	ErrExpired  = errors.New("otp: code expired")
	ErrMismatch = errors.New("otp: code mismatch")
)

// DefaultWindow is how long an issued code stays verifiable.
const DefaultWindow = 5 * time.Minute

// Ledger issues and verifies short-lived one-time passcodes keyed by an
// identifier, usually an email address. At most one live code exists
// per identifier; issuing again overwrites the previous one. A
// successful Verify consumes the code so it cannot be replayed.
type Ledger interface {
	Issue(ctx context.Context, identifier string) (string, error)
	Verify(ctx context.Context, identifier, candidate string) error
}

// generateCode returns a random 6-digit numeric code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("otp: generate code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
