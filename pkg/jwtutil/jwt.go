package jwtutil

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ServiceClaims identifies this service to the upstream product and order services
type ServiceClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ServiceRole is the role claim carried by service tokens
const ServiceRole = "service"

// TokenIssuer signs short-lived HS256 service tokens
type TokenIssuer struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
	now        func() time.Time
}

// NewTokenIssuer creates an issuer. It returns nil when signingKey is empty,
// which callers treat as service tokens being disabled.
func NewTokenIssuer(signingKey, issuer string, ttl time.Duration) *TokenIssuer {
	if signingKey == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TokenIssuer{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
		now:        time.Now,
	}
}

// GenerateToken creates a signed service token
func (i *TokenIssuer) GenerateToken() (string, error) {
	if i == nil {
		return "", errors.New("service token issuer not configured")
	}

	now := i.now()
	claims := ServiceClaims{
		Role: ServiceRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.signingKey)
}
