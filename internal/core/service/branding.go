package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nightflow/nightflow-core/internal/core/domain"
	"github.com/nightflow/nightflow-core/internal/core/ports"
)

// BrandingResolver maps a tenant slug to its display theme. Branding is
// cosmetic: failures log and fall through to the default theme, never
// blocking render.
type BrandingResolver struct {
	profiles ports.ProfileRepository
	log      zerolog.Logger
}

func NewBrandingResolver(profiles ports.ProfileRepository, log zerolog.Logger) *BrandingResolver {
	return &BrandingResolver{profiles: profiles, log: log}
}

// Resolve returns the theme for the tenant. The admin sentinel tenant always
// gets the default theme without a lookup.
func (b *BrandingResolver) Resolve(ctx context.Context, tenant string) domain.Theme {
	if tenant == domain.TenantAdmin {
		return domain.DefaultTheme()
	}

	profile, err := b.profiles.FindByTenant(ctx, tenant)
	if err != nil {
		b.log.Debug().Err(err).Str("tenant", tenant).Msg("no branding record, using default theme")
		return domain.DefaultTheme()
	}
	if profile.PrimaryColor == "" {
		return domain.DefaultTheme()
	}
	return domain.Theme{AccentColor: profile.PrimaryColor}
}
