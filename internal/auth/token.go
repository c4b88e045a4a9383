package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification failures. All three mean "unauthenticated" to the
// caller; they are distinguished so the gate and tests can tell a
// garbage token from a tampered or stale one.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)

// TokenService issues and verifies HS256-signed bearer tokens. The
// secret and TTL are fixed at construction; the service holds no other
// state, so a single instance is safe for unlimited concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService returns a TokenService signing with the given secret.
// ttl is the absolute lifetime of issued tokens.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// TTL reports the configured token lifetime.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue creates a signed token for subject with exp = now + TTL.
// The subject is the user's email; the claims follow the usual
// sub/iat/exp layout.
func (s *TokenService) Issue(subject string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify parses raw and returns the embedded subject. Signature
// integrity is checked before expiry, and expiry is checked strictly
// against the supplied now, not the issuance time.
func (s *TokenService) Verify(raw string, now time.Time) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	tok, err := parser.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrTokenSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		default:
			return "", ErrTokenMalformed
		}
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenMalformed
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrTokenMalformed
	}
	return sub, nil
}
