package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nightflow/nightflow-core/internal/core/domain"
)

// ctxRole extracts the resolved role injected by the Auth middleware and
// performs a fast-fail check before any service call: a valid role proves the
// middleware ran.
func ctxRole(c echo.Context) (domain.Role, error) {
	raw, _ := c.Get("role").(string)
	role, ok := domain.ParseRole(raw)
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return role, nil
}

// ctxTenant extracts the tenant slug injected by the Tenant middleware.
func ctxTenant(c echo.Context) string {
	tenant, _ := c.Get("tenant").(string)
	if tenant == "" {
		return domain.TenantAdmin
	}
	return tenant
}
