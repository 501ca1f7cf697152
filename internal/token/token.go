// Package token issues and verifies the signed session tokens backing
// cookie-based authentication: a short-lived access token and a longer-lived
// refresh token, each signed with its own secret.
package token

import (
	"time"

	"inkwell/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind selects which of the two token families to mint or verify.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

const (
	issuer   = "inkwell-api"
	audience = "inkwell-client"
)

// Identity is the payload carried by every session token.
type Identity struct {
	Email string `json:"email"`
	Names string `json:"names"`
}

type sessionClaims struct {
	Names string `json:"names"`
	jwt.RegisteredClaims
}

// Service mints and verifies session tokens. The clock is injectable so
// expiry behavior can be tested without sleeping.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewService returns a Service using the given per-kind secrets and lifetimes.
func NewService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// AccessTTL returns the access-token lifetime, which is also the access
// cookie's max age.
func (s *Service) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL returns the refresh-token lifetime, which is also the refresh
// cookie's max age. One value governs both the claim and the cookie.
func (s *Service) RefreshTTL() time.Duration { return s.refreshTTL }

// IssueAccess mints a new access token for the given identity.
func (s *Service) IssueAccess(email, names string) (string, error) {
	return s.issue(email, names, s.accessSecret, s.accessTTL)
}

// IssueRefresh mints a new refresh token for the given identity.
func (s *Service) IssueRefresh(email, names string) (string, error) {
	return s.issue(email, names, s.refreshSecret, s.refreshTTL)
}

func (s *Service) issue(email, names string, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims := sessionClaims{
		Names: names,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return signed, nil
}

// Verify checks signature, expiry, issuer, and audience of the given token
// against the secret for kind. Any failure yields an invalid-token error;
// verification is never retried.
func (s *Service) Verify(tokenString string, kind Kind) (Identity, error) {
	secret := s.accessSecret
	if kind == KindRefresh {
		secret = s.refreshSecret
	}

	var claims sessionClaims
	tok, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tok.Valid {
		return Identity{}, models.NewInvalidTokenError()
	}

	return Identity{Email: claims.Subject, Names: claims.Names}, nil
}
