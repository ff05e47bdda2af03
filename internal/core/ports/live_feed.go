package ports

import (
	"context"

	"github.com/nightflow/nightflow-core/internal/core/domain"
)

// SaleEvent is one inserted sale delivered by the live feed.
type SaleEvent struct {
	ID       string
	TenantID string
	Amount   float64
	Type     domain.SaleType
}

// ReservationChange is one reservation update delivered by the live feed as
// an (old, new) pair so consumers can detect edge transitions.
type ReservationChange struct {
	Old domain.Reservation
	New domain.Reservation
}

// Subscription is an owned live-feed channel. Stop releases the underlying
// stream and is safe to call more than once; after Stop returns no further
// callbacks fire.
type Subscription interface {
	Stop()
}

// LiveFeed is the backend change stream, filtered per tenant. Callbacks are
// invoked from the feed's own goroutine; consumers serialize their own state.
type LiveFeed interface {
	SubscribeSales(ctx context.Context, tenantID string, fn func(SaleEvent)) (Subscription, error)
	SubscribeReservations(ctx context.Context, tenantID string, fn func(ReservationChange)) (Subscription, error)
}
