// Package jwtauth issues and validates the bearer tokens that carry caller
// identity: the subject is the account, and an admin claim marks privileged
// origins.
package jwtauth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"namegate/internal/platform/middleware"
	domerrors "namegate/pkg/domain-errors"
)

// Claims are the JWT claims for namegate access tokens.
type Claims struct {
	Account string `json:"account"`
	Admin   bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// Service handles JWT creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
}

// NewService creates a token service with an HMAC signing key.
func NewService(signingKey, issuer, audience string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// GenerateToken issues a signed token for an account. Admin marks the token
// as a privileged-administrator origin.
func (s *Service) GenerateToken(account string, admin bool, expiresIn time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Account: account,
		Admin:   admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// ValidateToken parses and verifies a token, returning the caller identity
// for the middleware.
func (s *Service) ValidateToken(tokenString string) (*middleware.Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domerrors.New(domerrors.CodeUnauthorized, "token expired")
		}
		return nil, domerrors.Wrap(err, domerrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, domerrors.New(domerrors.CodeUnauthorized, "invalid token claims")
	}
	account := claims.Account
	if account == "" {
		account = claims.Subject
	}
	return &middleware.Claims{Account: account, Admin: claims.Admin}, nil
}
