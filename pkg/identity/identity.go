// Package identity delegates authentication to an external identity-token
// verifier. The application never sees credentials; it only validates the
// opaque bearer token delivered in the "token" cookie.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity claim returned by a successful verification.
type Claims struct {
	UserID string
	Email  string
}

// Verifier validates an opaque bearer token and returns the identity claim,
// or an error when the token is invalid or expired.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies HS256-signed identity tokens.
type JWTVerifier struct {
	Secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{Secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, tokenStr string) (*Claims, error) {
	claims := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return &Claims{UserID: claims.Subject, Email: claims.Email}, nil
}

// GenerateToken mints a token the verifier accepts. Used by the seed command
// and tests; production tokens come from the external identity provider.
func (v *JWTVerifier) GenerateToken(userID, email string, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := &tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(v.Secret)
	return s, exp, err
}

var _ Verifier = (*JWTVerifier)(nil)
