package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// SessionClaims represents the claims in a session JWT. The subject is the
// verified email of the logged-in user.
type SessionClaims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Session is what the authentication guard exposes to request handlers after
// a bearer token passes validation. RawToken is the token string exactly as
// received; review records persist it verbatim.
type Session struct {
	Email     string
	Name      string
	RawToken  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager signs and validates session tokens with a process-wide secret.
type TokenManager struct {
	secretKey []byte
	method    jwt.SigningMethod
	ttl       time.Duration
}

// NewTokenManager creates a TokenManager. Only HMAC algorithms are accepted:
// sessions are signed and verified by the same process with a shared secret.
func NewTokenManager(secretKey, algorithm string, ttl time.Duration) (*TokenManager, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC method", algorithm)
	}
	return &TokenManager{
		secretKey: []byte(secretKey),
		method:    method,
		ttl:       ttl,
	}, nil
}

// Generate creates a new session token for a verified identity.
func (tm *TokenManager) Generate(email, name string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
	}

	token := jwt.NewWithClaims(tm.method, claims)
	return token.SignedString(tm.secretKey)
}

// Validate verifies a session token and returns its claims. The subject
// claim is mandatory; a token without one is invalid.
func (tm *TokenManager) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != tm.method.Alg() {
			return nil, ErrInvalidToken
		}
		return tm.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
