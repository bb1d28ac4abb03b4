package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lmoretti/referral-api/internal/models"
)

// Claims defines the session token claims structure. The subject is the
// authenticated user's email.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and validates signed, time-bound session tokens.
// Validation is pure computation against the shared secret, so any process
// holding the same secret can validate any issued token; nothing is stored
// server-side and tokens end only by expiry.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenService creates a TokenService with the given signing secret and
// token lifetime.
func NewTokenService(secret []byte, lifetime time.Duration) *TokenService {
	return &TokenService{secret: secret, lifetime: lifetime}
}

// Issue creates a signed token for the subject, expiring at now + lifetime.
func (s *TokenService) Issue(subject string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses and verifies a token string and returns its subject.
// Failures map onto three kinds: models.ErrTokenExpired for a genuine token
// past its lifetime, models.ErrTokenInvalid for signature or structural
// failures, and models.ErrInvalidCredentials for a well-formed token missing
// its subject claim.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", models.ErrTokenExpired
		}
		return "", models.ErrTokenInvalid
	}
	if !token.Valid {
		return "", models.ErrTokenInvalid
	}
	if claims.Subject == "" {
		return "", models.ErrInvalidCredentials
	}
	return claims.Subject, nil
}
