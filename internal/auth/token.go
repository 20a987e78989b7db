package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "duality"

// ErrInvalidToken is returned for any token that fails parsing, signature
// verification, or claim validation.
var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims are the claims carried by a web session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	AccountID int64  `json:"account_id"`
	Username  string `json:"username"`
}

// TokenIssuer mints and verifies HS256 session tokens for web-origin
// callers.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer with the given signing secret and
// token lifetime.
//
// Precondition: secret must be non-empty; ttl must be > 0.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue mints a signed session token for the account.
//
// Postcondition: the returned token verifies with Verify until it expires.
func (t *TokenIssuer) Issue(accountID int64, username string) (string, error) {
	now := t.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		AccountID: accountID,
		Username:  username,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token, returning its claims.
// Expired, tampered, or foreign-issuer tokens all return ErrInvalidToken.
func (t *TokenIssuer) Verify(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(tok *jwt.Token) (any, error) {
			if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
			}
			return t.secret, nil
		},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
