package ports

import (
	"context"

	"github.com/nightflow/nightflow-core/internal/core/domain"
)

// Profile is the backend profile record consulted for role resolution and
// tenant branding. Both fields are optional on the wire; Role is an untrusted
// string validated by the caller.
type Profile struct {
	Role         string
	PrimaryColor string
}

// ProfileRepository looks up profile records. Missing records surface as
// domain.ErrProfileNotFound.
type ProfileRepository interface {
	// FindByUserID retrieves the profile keyed by an authenticated user id.
	FindByUserID(ctx context.Context, userID string) (*Profile, error)
	// FindByTenant retrieves the branding profile keyed by tenant slug.
	FindByTenant(ctx context.Context, tenant string) (*Profile, error)
}

// SaleRepository persists and aggregates the tenant's sales ledger.
type SaleRepository interface {
	// SumAmounts returns the sum of all sale amounts for the tenant.
	SumAmounts(ctx context.Context, tenantID string) (float64, error)
	Insert(ctx context.Context, sale *domain.Sale) error
	// ListByReferral returns sales whose description carries the given
	// referral tag, newest first.
	ListByReferral(ctx context.Context, tenantID, refCode string) ([]*domain.Sale, error)
	// ListByTenant returns the tenant's full ledger, newest first.
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.Sale, error)
}

// ReservationRepository persists guest-list reservations.
type ReservationRepository interface {
	// CountCheckedIn returns the number of reservations already checked in.
	CountCheckedIn(ctx context.Context, tenantID string) (int, error)
	List(ctx context.Context, tenantID string) ([]*domain.Reservation, error)
	FindByID(ctx context.Context, tenantID, id string) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id string, status domain.ReservationStatus) error
}

// ReferralStore is the durable client-side key/value slot holding the last
// seen referral code. Save overwrites, never merges. Load returns "" when no
// code has been captured.
type ReferralStore interface {
	Save(ctx context.Context, code string) error
	Load(ctx context.Context) (string, error)
}
