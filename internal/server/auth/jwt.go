// Package auth issues and verifies the signed session tokens used by the
// MiniDrive HTTP API.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/minidrive/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: standard registered claims plus the identity
// of the signed-in user.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Identity is what a verified token asserts.
type Identity struct {
	UserID   string
	Username string
}

// TokenManager signs and verifies HS256 tokens with a single server secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager returns a manager issuing tokens valid for ttl.
func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: secret, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

// Issue signs a token for the given identity. The token expires ttl after now.
func (m *TokenManager) Issue(userID, username string) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID:   userID,
		Username: username,
	})

	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks signature, algorithm and expiry. It returns
// common.ErrTokenExpired for a well-signed but expired token and
// common.ErrTokenInvalid for everything else.
func (m *TokenManager) Verify(tokenString string) (Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, common.ErrTokenExpired
		}
		return Identity{}, common.ErrTokenInvalid
	}

	if !token.Valid || claims.UserID == "" {
		return Identity{}, common.ErrTokenInvalid
	}

	return Identity{UserID: claims.UserID, Username: claims.Username}, nil
}
