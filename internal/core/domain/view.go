package domain

import "errors"

// Tab is a selectable navigation tab.
type Tab string

const (
	TabDashboard Tab = "dashboard"
	TabEntrance  Tab = "entrance"
	TabPromoters Tab = "promoters"
	TabChat      Tab = "chat"
	TabFinance   Tab = "finance"
	TabPartners  Tab = "partners"
)

// Screen is what actually gets rendered for a (role, tab) pair. It differs
// from Tab because restricted tabs resolve to the role's default screen and
// promoters get a dedicated single-screen view.
type Screen string

const (
	ScreenDashboard      Screen = "dashboard"
	ScreenEntrance       Screen = "entrance"
	ScreenPromoters      Screen = "promoters"
	ScreenChat           Screen = "chat"
	ScreenFinance        Screen = "finance"
	ScreenPartners       Screen = "partners"
	ScreenPromoterMobile Screen = "promoter_mobile"
)

var ErrTabForbidden = errors.New("tab not allowed for role")

// ParseTab validates an externally supplied tab string.
func ParseTab(s string) (Tab, bool) {
	switch Tab(s) {
	case TabDashboard, TabEntrance, TabPromoters, TabChat, TabFinance, TabPartners:
		return Tab(s), true
	}
	return "", false
}
