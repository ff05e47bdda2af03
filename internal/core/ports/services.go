package ports

import (
	"context"

	"github.com/nightflow/nightflow-core/internal/core/domain"
)

// MetricsService owns the canonical metrics snapshot.
type MetricsService interface {
	// Reconcile replaces revenue and checkins with authoritative aggregates.
	// Stale responses from earlier reconcile calls never overwrite newer ones.
	Reconcile(ctx context.Context) error
	// CommitSale inserts a sale tagged with the stored referral code. It never
	// mutates the snapshot; the live feed is the single mutation channel.
	CommitSale(ctx context.Context, amount float64, saleType domain.SaleType) error
	// Start establishes the live-feed subscriptions for the aggregator's
	// tenant. Stop releases them; both are idempotent.
	Start(ctx context.Context) error
	Stop()
	Snapshot() domain.MetricsSnapshot
}

// ChatService is the upsell chat session consumed by the transport layer.
type ChatService interface {
	Send(ctx context.Context, text string) (*domain.ChatMessage, error)
	ConfirmSuggestion(ctx context.Context, s domain.UpsellSuggestion) (*domain.ChatMessage, error)
	Messages() []domain.ChatMessage
}

// EntranceService backs the door check-in screen.
type EntranceService interface {
	List(ctx context.Context, search string) ([]*domain.Reservation, error)
	// Lookup resolves a decoded QR string to a reservation.
	Lookup(ctx context.Context, decoded string) (*domain.Reservation, error)
	CheckIn(ctx context.Context, reservationID string) error
}

// PromoterStats is the referral performance rollup for one promoter code.
type PromoterStats struct {
	Sales       int     `json:"sales"`
	GrossAmount float64 `json:"gross_amount"`
	Commission  float64 `json:"commission"`
	ShareLink   string  `json:"share_link"`
}

// PromoterService backs the promoter mobile view.
type PromoterService interface {
	Stats(ctx context.Context, refCode string) (*PromoterStats, error)
}

// FinanceSummary is the ledger rollup shown on the finance screen.
type FinanceSummary struct {
	GrossRevenue   float64 `json:"gross_revenue"`
	PlatformFees   float64 `json:"platform_fees"`
	PartnerPayouts float64 `json:"partner_payouts"`
	NetRevenue     float64 `json:"net_revenue"`
	Transactions   int     `json:"transactions"`
}

// FinanceService computes ledger rollups.
type FinanceService interface {
	Summary(ctx context.Context) (*FinanceSummary, error)
}
