package domain

// defaultAccent is the NightFlow signature accent used when a tenant has no
// branding record.
const defaultAccent = "#39FF14"

// Theme is the tenant-scoped display branding. It is an explicit value passed
// to whoever renders, never process-wide mutable style state.
type Theme struct {
	AccentColor string `json:"accent_color"`
}

// DefaultTheme returns the process-wide default branding.
func DefaultTheme() Theme {
	return Theme{AccentColor: defaultAccent}
}
