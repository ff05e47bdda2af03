package middleware

import (
	"net"

	"github.com/labstack/echo/v4"

	"github.com/nightflow/nightflow-core/internal/core/domain"
)

// Tenant derives the tenant slug from the request host and injects it into
// context. Every request gets a tenant; hosts without a customer subdomain
// resolve to the admin sentinel.
func Tenant() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			host := c.Request().Host
			if h, _, err := net.SplitHostPort(host); err == nil {
				host = h
			}
			c.Set("tenant", domain.ResolveTenant(host))
			return next(c)
		}
	}
}
