// Package auth issues and validates the bearer tokens kotoba-engine
// accepts on persistence routes.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kotoba-app/kotoba-engine/pkg/apperrors"
)

// userNamespace is the UUIDv5 namespace for deriving stable user IDs from
// verified email addresses. Changing it orphans every stored entry.
var userNamespace = uuid.MustParse("8f1a2c34-0b5d-4e6f-9a7b-1c2d3e4f5a6b")

// UserIDFromEmail derives the deterministic user ID for a verified email.
func UserIDFromEmail(email string) uuid.UUID {
	return uuid.NewSHA1(userNamespace, []byte(email))
}

// Claims are the JWT claims this service issues after a successful OAuth
// exchange and expects back on authenticated requests.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service. ttl of zero defaults to 24h.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the user identified by the verified email.
func (s *TokenService) Issue(email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   UserIDFromEmail(email).String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    "kotoba-engine",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies the signature and expiry and returns the claims.
// Any defect maps to apperrors.ErrUnauthorized.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, apperrors.ErrUnauthorized
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("%w: malformed subject", apperrors.ErrUnauthorized)
	}
	return claims, nil
}

// UserID returns the user ID encoded in the claims subject.
func (c *Claims) UserID() uuid.UUID {
	id, _ := uuid.Parse(c.Subject)
	return id
}
