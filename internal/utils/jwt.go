package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is the fixed lifetime of an admin session token. Tokens are
// reissued wholesale at login; there is no refresh or revocation.
const SessionTTL = 24 * time.Hour

// ErrInvalidSessionToken is returned for every validation failure. Callers
// must not distinguish expired from tampered tokens.
var ErrInvalidSessionToken = errors.New("INVALID_SESSION_TOKEN")

// SessionClaims are the claims carried by an admin session token.
type SessionClaims struct {
	UserID   int    `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateJWT mints a signed session token for the given identity with the
// fixed session TTL.
func GenerateJWT(secret []byte, id int, username, email, role string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID:   id,
		Username: username,
		Email:    email,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateJWT verifies signature and expiry and returns the decoded claims.
// Any failure collapses to ErrInvalidSessionToken.
func ValidateJWT(secret []byte, token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSessionToken
	}
	return claims, nil
}
