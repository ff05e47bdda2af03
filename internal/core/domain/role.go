package domain

// Role is the access tier of an authenticated session.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RolePromoter Role = "promoter"
)

// ParseRole validates an externally supplied role string against the closed
// role set. The backend profile field is untrusted input; anything outside
// the set reports ok=false and callers fall back to the email heuristic.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleStaff, RolePromoter:
		return Role(s), true
	}
	return "", false
}
