// Package auth issues and decodes the bearer tokens carried in the x-auth-token header.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenLifespan is used when the codec is built with a zero lifespan.
const DefaultTokenLifespan = 100 * time.Hour

var (
	// ErrMalformedToken means the token could not be parsed at all.
	ErrMalformedToken = errors.New("malformed token")
	// ErrInvalidToken covers bad signatures, tampering, expiry and missing identity.
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the authenticated account a request acts for.
type Identity struct {
	ID string `json:"id"`
}

type claims struct {
	User Identity `json:"user"`
	jwt.RegisteredClaims
}

type TokenCodec struct {
	secret   []byte
	lifespan time.Duration
	now      func() time.Time
}

func NewTokenCodec(secret string, lifespan time.Duration) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	if lifespan <= 0 {
		lifespan = DefaultTokenLifespan
	}
	return &TokenCodec{secret: []byte(secret), lifespan: lifespan, now: time.Now}, nil
}

// Issue signs a token embedding id that expires after the codec lifespan.
func (c *TokenCodec) Issue(id Identity) (string, error) {
	now := c.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		User: id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifespan)),
		},
	})

	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Decode verifies raw and returns the identity embedded at issuance.
// Errors wrap ErrMalformedToken or ErrInvalidToken.
func (c *TokenCodec) Decode(raw string) (Identity, error) {
	cl := &claims{}
	tok, err := jwt.ParseWithClaims(raw, cl, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return Identity{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid || cl.User.ID == "" {
		return Identity{}, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	return cl.User, nil
}
