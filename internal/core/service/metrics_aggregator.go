package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nightflow/nightflow-core/internal/pkg/metrics"
	"github.com/nightflow/nightflow-core/internal/core/domain"
	"github.com/nightflow/nightflow-core/internal/core/ports"
)

// MetricsAggregator owns the one MetricsSnapshot for a tenant. All mutation
// flows through it: a full reconciliation against backend aggregates, plus
// incremental deltas from the live change feed. CommitSale deliberately does
// NOT touch the snapshot — the committed sale comes back as a feed event, so
// the feed stays the single source of truth and confirmed sales are never
// counted twice.
type MetricsAggregator struct {
	sales        ports.SaleRepository
	reservations ports.ReservationRepository
	feed         ports.LiveFeed
	referrals    *ReferralTracker
	notifier     ports.Notifier
	tenantID     string
	log          zerolog.Logger

	mu         sync.Mutex
	snap       domain.MetricsSnapshot
	issuedSeq  uint64 // last reconcile request issued
	appliedSeq uint64 // reconcile request whose results are currently applied
	saleSub    ports.Subscription
	resSub     ports.Subscription
}

func NewMetricsAggregator(
	sales ports.SaleRepository,
	reservations ports.ReservationRepository,
	feed ports.LiveFeed,
	referrals *ReferralTracker,
	notifier ports.Notifier,
	tenantID string,
	initial domain.MetricsSnapshot,
	log zerolog.Logger,
) *MetricsAggregator {
	initial.Occupancy = domain.ClampOccupancy(initial.Occupancy)
	return &MetricsAggregator{
		sales:        sales,
		reservations: reservations,
		feed:         feed,
		referrals:    referrals,
		notifier:     notifier,
		tenantID:     tenantID,
		snap:         initial,
		log:          log,
	}
}

// Snapshot returns a point-in-time copy. Readers never see a half-applied
// mutation and never write back.
func (a *MetricsAggregator) Snapshot() domain.MetricsSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap
}

// Reconcile replaces revenue and checkins with the authoritative aggregates.
// Requests carry a monotonically increasing sequence; a response older than
// the last applied one is dropped, so last-issued wins even when responses
// return out of order. Both queries must succeed before either field is
// written — a failed reconciliation leaves the snapshot untouched.
func (a *MetricsAggregator) Reconcile(ctx context.Context) error {
	a.mu.Lock()
	a.issuedSeq++
	seq := a.issuedSeq
	a.mu.Unlock()

	revenue, err := a.sales.SumAmounts(ctx, a.tenantID)
	if err != nil {
		metrics.ReconciliationsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("reconcile: sum sales: %w", err)
	}
	checkins, err := a.reservations.CountCheckedIn(ctx, a.tenantID)
	if err != nil {
		metrics.ReconciliationsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("reconcile: count checkins: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if seq < a.appliedSeq {
		// A newer reconciliation already landed; this response is stale.
		metrics.ReconciliationsTotal.WithLabelValues("stale").Inc()
		a.log.Debug().Uint64("seq", seq).Uint64("applied", a.appliedSeq).Msg("stale reconciliation dropped")
		return nil
	}
	a.appliedSeq = seq
	a.snap.Revenue = revenue
	a.snap.Checkins = checkins
	metrics.ReconciliationsTotal.WithLabelValues("applied").Inc()
	a.log.Info().Float64("revenue", revenue).Int("checkins", checkins).Msg("metrics reconciled")
	return nil
}

// HandleSaleInserted applies one inserted-sale event: revenue grows by the
// sale amount and one ticket becomes pending. Events are applied as
// delivered; the change stream delivers each insert once per open cursor and
// no id-based dedup is layered on top.
func (a *MetricsAggregator) HandleSaleInserted(ev ports.SaleEvent) {
	a.mu.Lock()
	a.snap.Revenue += ev.Amount
	a.snap.PendingTickets++
	a.mu.Unlock()

	metrics.FeedEventsTotal.WithLabelValues("sale_inserted").Inc()
	a.notifier.Notify(fmt.Sprintf("New sale detected: %.2f via %s", ev.Amount, ev.Type))
}

// HandleReservationUpdated counts a check-in iff the update is the transition
// into CHECKED_IN. Updates to an already-checked-in record are ignored.
func (a *MetricsAggregator) HandleReservationUpdated(ch ports.ReservationChange) {
	metrics.FeedEventsTotal.WithLabelValues("reservation_updated").Inc()
	if !ch.New.Status.BecameCheckedIn(ch.Old.Status) {
		return
	}

	a.mu.Lock()
	a.snap.Checkins++
	a.mu.Unlock()
	a.notifier.Notify(fmt.Sprintf("Check-in confirmed: %s", ch.New.CustomerName))
}

// CommitSale inserts a sale into the backend ledger, tagging the description
// with the stored referral code when one exists. The local snapshot is left
// alone on purpose: the insert echoes back through HandleSaleInserted, and an
// optimistic bump here would double-count every confirmed sale.
func (a *MetricsAggregator) CommitSale(ctx context.Context, amount float64, saleType domain.SaleType) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}

	description := "Direct sale"
	if saleType == domain.SaleTypeUpsell {
		description = "Upsell order"
	}
	if ref := a.referrals.Stored(ctx); ref != "" {
		description = fmt.Sprintf("%s [ref:%s]", description, ref)
	}

	sale := &domain.Sale{
		ID:          uuid.NewString(),
		TenantID:    a.tenantID,
		Amount:      amount,
		Type:        saleType,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := a.sales.Insert(ctx, sale); err != nil {
		metrics.SalesCommittedTotal.WithLabelValues(string(saleType), "error").Inc()
		a.notifier.Notify("Sale could not be recorded: " + err.Error())
		return fmt.Errorf("commit sale: %w", err)
	}

	metrics.SalesCommittedTotal.WithLabelValues(string(saleType), "ok").Inc()
	a.log.Info().Str("sale_id", sale.ID).Float64("amount", amount).Str("type", string(saleType)).Msg("sale committed")
	a.notifier.Notify("Sale recorded")
	return nil
}

// Start establishes the tenant's live-feed subscriptions. Exactly one pair is
// live at a time; a second Start while running is a no-op. On partial failure
// the already-established subscription is released before returning.
func (a *MetricsAggregator) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.saleSub != nil || a.resSub != nil {
		a.mu.Unlock()
		return nil
	}
	a.mu.Unlock()

	saleSub, err := a.feed.SubscribeSales(ctx, a.tenantID, a.HandleSaleInserted)
	if err != nil {
		return fmt.Errorf("subscribe sales: %w", err)
	}
	resSub, err := a.feed.SubscribeReservations(ctx, a.tenantID, a.HandleReservationUpdated)
	if err != nil {
		saleSub.Stop()
		return fmt.Errorf("subscribe reservations: %w", err)
	}

	a.mu.Lock()
	a.saleSub = saleSub
	a.resSub = resSub
	a.mu.Unlock()
	a.log.Info().Str("tenant_id", a.tenantID).Msg("live feed subscriptions established")
	return nil
}

// Stop releases both subscriptions. Idempotent; always called on session end
// so no subscription scoped to a previous user survives a logout/login cycle.
func (a *MetricsAggregator) Stop() {
	a.mu.Lock()
	saleSub, resSub := a.saleSub, a.resSub
	a.saleSub, a.resSub = nil, nil
	a.mu.Unlock()

	if saleSub != nil {
		saleSub.Stop()
	}
	if resSub != nil {
		resSub.Stop()
	}
}
