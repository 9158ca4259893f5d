// Package auth holds the session token codec, the role hierarchy with the
// ownership policy, and password hashing.
package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/newsroom/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed token payload: registered claims plus the identity.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Identity is the authenticated {username, role} pair a token carries.
type Identity struct {
	Username string
	Role     Role
}

// TokenCodec issues and verifies HS256 session tokens with a fixed TTL.
// It keeps no server-side state.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCodec(secretKey string, validityDuration time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secretKey), ttl: validityDuration, now: time.Now}
}

// Issue signs a token for username/role that expires after the codec TTL.
func (c *TokenCodec) Issue(username string, role Role) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Username: username,
		Role:     role,
	})

	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// Every failure is reported as common.ErrInvalidToken.
func (c *TokenCodec) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.Username == "" || !claims.Role.IsValid() {
		return nil, common.ErrInvalidToken
	}

	return &Identity{Username: claims.Username, Role: claims.Role}, nil
}
