package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nightflow/nightflow-core/internal/core/domain"
)

// ThemeResolver maps a tenant slug to its display theme.
type ThemeResolver interface {
	Resolve(ctx context.Context, tenant string) domain.Theme
}

// ReferralCapturer records referral codes carried on landing URLs.
type ReferralCapturer interface {
	Capture(ctx context.Context, rawURL string) (string, error)
	Stored(ctx context.Context) string
}

// BootstrapHandler serves the unauthenticated client bootstrap: which tenant
// the host resolves to, the tenant's branding, and any referral attribution
// carried on the landing URL.
type BootstrapHandler struct {
	themes    ThemeResolver
	referrals ReferralCapturer
}

func NewBootstrapHandler(themes ThemeResolver, referrals ReferralCapturer) *BootstrapHandler {
	return &BootstrapHandler{themes: themes, referrals: referrals}
}

type bootstrapResponse struct {
	Tenant       string       `json:"tenant"`
	Theme        domain.Theme `json:"theme"`
	ReferralCode string       `json:"referral_code,omitempty"`
}

// Bootstrap resolves tenant, branding, and referral attribution in one call.
// The landing_url query parameter carries the URL the client loaded from; a
// ref parameter on it is captured before the stored code is reported.
//
// @Summary      Client bootstrap
// @Tags         bootstrap
// @Produce      json
// @Param        landing_url  query     string  false  "URL the client loaded from"
// @Success      200          {object}  bootstrapResponse
// @Router       /bootstrap [get]
func (h *BootstrapHandler) Bootstrap(c echo.Context) error {
	ctx := c.Request().Context()
	tenant := ctxTenant(c)

	if landing := c.QueryParam("landing_url"); landing != "" {
		// Capture failures are cosmetic; the stored lookup below degrades too.
		_, _ = h.referrals.Capture(ctx, landing)
	}

	return c.JSON(http.StatusOK, bootstrapResponse{
		Tenant:       tenant,
		Theme:        h.themes.Resolve(ctx, tenant),
		ReferralCode: h.referrals.Stored(ctx),
	})
}
