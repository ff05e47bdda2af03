package domain

import "strings"

// TenantAdmin is the reserved tenant returned for hostnames without a
// customer subdomain (bare domains, localhost, dev hosts).
const TenantAdmin = "admin"

// ResolveTenant derives the tenant slug from a hostname. Hostnames with more
// than two dot-separated labels yield the first label; everything else yields
// TenantAdmin. Total: every hostname maps to a defined tenant.
func ResolveTenant(hostname string) string {
	parts := strings.Split(hostname, ".")
	if len(parts) > 2 {
		return parts[0]
	}
	return TenantAdmin
}
