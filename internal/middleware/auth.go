package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/topic-feed-service/internal/auth"
	"github.com/iliyamo/topic-feed-service/internal/model"
)

// identityKey is the echo context key the bound identity lives under.
const identityKey = "identity"

// authPrefix marks the routes where a bad or expired token is tolerated
// and the request simply proceeds as anonymous. Without this carve-out
// a client holding a stale token from a previous session could never
// log in again.
const authPrefix = "/api/auth"

// Identity is the request-scoped authenticated identity bound by
// Authenticate after a token verifies and its subject resolves to a
// concrete user record.
type Identity struct {
	UserID   uint64
	Email    string
	Username string
}

// SubjectResolver maps a token subject to a stored user. The subject is
// normally the email the token was issued for; username is accepted as
// a fallback so tokens issued against either identifier resolve.
type SubjectResolver interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// Authenticate returns the per-request authentication gate. A request
// moves from unauthenticated to exactly one of two terminal states:
// authenticated (identity bound into the context) or rejected (401,
// chain stopped). Requests without a bearer credential stay anonymous
// and continue; per-route RequireAuth decides whether that is allowed.
func Authenticate(tokens *auth.TokenService, users SubjectResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				// Missing header or wrong scheme: anonymous, not rejected.
				return next(c)
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			subject, err := tokens.Verify(raw, time.Now().UTC())
			if err != nil {
				return rejectOrSkip(c, next)
			}

			user, err := resolveSubject(c.Request().Context(), users, subject)
			if err != nil {
				return rejectOrSkip(c, next)
			}

			c.Set(identityKey, Identity{
				UserID:   user.ID,
				Email:    user.Email,
				Username: user.Username,
			})
			return next(c)
		}
	}
}

// RequireAuth rejects requests that reached the handler without a bound
// identity. It must run after Authenticate.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := CurrentIdentity(c); !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return next(c)
	}
}

// CurrentIdentity returns the identity bound by Authenticate, if any.
func CurrentIdentity(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}

// rejectOrSkip implements the auth-endpoint carve-out: token failures on
// the auth routes degrade to anonymous, everywhere else the pipeline
// stops with 401 and downstream handlers never execute.
func rejectOrSkip(c echo.Context, next echo.HandlerFunc) error {
	if strings.HasPrefix(c.Request().URL.Path, authPrefix) {
		return next(c)
	}
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
}

func resolveSubject(ctx context.Context, users SubjectResolver, subject string) (model.User, error) {
	u, err := users.GetByEmail(ctx, subject)
	if err == nil {
		return u, nil
	}
	return users.GetByUsername(ctx, subject)
}
