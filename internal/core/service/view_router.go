package service

import "github.com/nightflow/nightflow-core/internal/core/domain"

// allowedTabs is the static role → tab availability table. Selecting a tab
// outside the role's set is structurally impossible: Route falls back to the
// role's default screen instead of rendering restricted content.
var allowedTabs = map[domain.Role][]domain.Tab{
	domain.RoleAdmin: {
		domain.TabDashboard, domain.TabEntrance, domain.TabPromoters,
		domain.TabChat, domain.TabFinance, domain.TabPartners,
	},
	domain.RoleStaff:    {domain.TabEntrance},
	domain.RolePromoter: {domain.TabPromoters},
}

// defaultScreens maps each role to the screen rendered when its selected tab
// is disallowed or unknown.
var defaultScreens = map[domain.Role]domain.Screen{
	domain.RoleAdmin:    domain.ScreenDashboard,
	domain.RoleStaff:    domain.ScreenEntrance,
	domain.RolePromoter: domain.ScreenPromoterMobile,
}

// AllowedTabs returns the tabs the role may select, in display order.
func AllowedTabs(role domain.Role) []domain.Tab {
	return append([]domain.Tab(nil), allowedTabs[role]...)
}

// TabAllowed reports whether the role may select the tab.
func TabAllowed(role domain.Role, tab domain.Tab) bool {
	for _, t := range allowedTabs[role] {
		if t == tab {
			return true
		}
	}
	return false
}

// Route is the pure (role, tab) → screen function. Promoters bypass the tab
// system entirely and always get the dedicated single-screen mobile view.
func Route(role domain.Role, tab domain.Tab) domain.Screen {
	if role == domain.RolePromoter {
		return domain.ScreenPromoterMobile
	}
	if !TabAllowed(role, tab) {
		return defaultScreens[role]
	}
	return domain.Screen(tab)
}

// InitialTab is the tab force-selected immediately after role resolution:
// staff land on the entrance, promoters on the promoter view, admins keep the
// dashboard.
func InitialTab(role domain.Role) domain.Tab {
	switch role {
	case domain.RoleStaff:
		return domain.TabEntrance
	case domain.RolePromoter:
		return domain.TabPromoters
	default:
		return domain.TabDashboard
	}
}
