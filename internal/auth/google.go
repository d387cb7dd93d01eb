package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
)

const (
	googleIssuer           = "https://accounts.google.com"
	federatedVerifyTimeout = 5 * time.Second
)

// FederatedProfile is the verified identity returned by an external
// provider. It is never persisted as-is.
type FederatedProfile struct {
	Email   string
	Name    string
	Picture string
}

// FederatedVerifier validates an identity assertion issued by an
// external provider and returns the verified profile.
type FederatedVerifier interface {
	Verify(ctx context.Context, rawToken string) (*FederatedProfile, error)
}

// GoogleVerifier checks Google ID tokens against Google's published
// signing keys and the configured OAuth client ID (audience).
type GoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewGoogleVerifier runs OIDC discovery against the Google issuer,
// which fetches and caches its key set endpoint.
func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("google provider discovery: %w", err)
	}
	return &GoogleVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// Verify validates signature, issuer, audience and expiry, then
// extracts the profile claims. Key refreshes may hit the network, so
// the call is bounded by a timeout.
func (g *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*FederatedProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, federatedVerifyTimeout)
	defer cancel()

	idToken, err := g.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("verify google token: %w", err)
	}

	var claims struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode google claims: %w", err)
	}

	return &FederatedProfile{
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}
