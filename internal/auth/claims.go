package auth

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// Claims are the fields sprintboard puts in its tokens. The subject is the
// user id.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	gojwt.RegisteredClaims
}

// ParseClaims decodes a token without checking its signature. The client
// uses it for whoami and to spot an expired session before calling the API;
// the server remains the only judge of validity.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := gojwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return claims, nil
}

// Expired reports whether the token carries an expiry at or before now.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Time)
}

// Issue signs an HS256 token for user.
func Issue(secret []byte, user domain.User, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(secret)
}

// ErrInvalidToken is returned by Verify for any unusable token.
var ErrInvalidToken = errors.New("invalid or expired token")

// Verify checks the signature and expiry of an HS256 token.
func Verify(secret []byte, token string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	parser := gojwt.NewParser(
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithTimeFunc(func() time.Time { return now }),
		gojwt.WithExpirationRequired(),
	)
	_, err := parser.ParseWithClaims(token, claims, func(*gojwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}
