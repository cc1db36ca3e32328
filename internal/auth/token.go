// Package auth issues and verifies the bearer tokens used by the portal.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = time.Hour

var (
	// ErrNoToken reports a missing credential; callers map it to 401.
	ErrNoToken = errors.New("no token supplied")
	// ErrInvalidToken reports a malformed, expired, or badly signed
	// credential; callers map it to 403.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the identity payload embedded in every issued token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service signs and verifies access tokens with a process-wide HMAC secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService constructs a token Service. An empty secret is rejected at
// construction rather than at first use.
func NewService(secret string) (*Service, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret is required")
	}

	return &Service{
		secret: []byte(secret),
		ttl:    TokenTTL,
		now:    time.Now,
	}, nil
}

// Issue signs a token embedding the email with the service TTL. Whether the
// email belongs to a registered user is the caller's concern.
func (s *Service) Issue(email string) (string, error) {
	if s == nil {
		return "", errors.New("token service is not initialized")
	}
	if strings.TrimSpace(email) == "" {
		return "", errors.New("email is required")
	}

	now := s.now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a token, returning the embedded claims.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	if s == nil {
		return nil, errors.New("token service is not initialized")
	}
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrNoToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
