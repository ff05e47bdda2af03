package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nightflow/nightflow-core/internal/core/domain"
)

// SessionVerifier validates a bearer token against the identity backend,
// including the revocation list.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Session, error)
}

// RoleSource resolves the role for a verified session.
type RoleSource interface {
	Resolve(ctx context.Context, sess *domain.Session) domain.Role
}

// Auth validates the bearer token, resolves the caller's role, and injects
// both into context.
func Auth(verifier SessionVerifier, roles RoleSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			ctx := c.Request().Context()
			sess, err := verifier.Verify(ctx, parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("user_id", sess.UserID)
			c.Set("email", sess.Email)
			c.Set("role", string(roles.Resolve(ctx, sess)))

			return next(c)
		}
	}
}
