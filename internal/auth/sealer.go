package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidSession is returned for a cookie that cannot be opened.
	ErrInvalidSession = errors.New("invalid session")
)

// Claims wraps the remote API token in the session cookie.
type Claims struct {
	Token string `json:"tok"`
	jwt.RegisteredClaims
}

// Sealer signs API tokens into cookie values and opens them again.
type Sealer struct {
	secret      []byte
	expireHours int
}

// NewSealer creates a sealer.
func NewSealer(secret string, expireHours int) *Sealer {
	return &Sealer{
		secret:      []byte(secret),
		expireHours: expireHours,
	}
}

// Seal returns the signed cookie value for token.
func (s *Sealer) Seal(token string) (string, error) {
	now := time.Now()
	claims := Claims{
		Token: token,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Open verifies a cookie value and returns the API token inside.
func (s *Sealer) Open(sealed string) (string, error) {
	parsed, err := jwt.ParseWithClaims(sealed, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return s.secret, nil
	})
	if err != nil {
		return "", ErrInvalidSession
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Token == "" {
		return "", ErrInvalidSession
	}
	return claims.Token, nil
}
