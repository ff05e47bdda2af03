package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nightflow/nightflow-core/internal/core/domain"
	"github.com/nightflow/nightflow-core/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubSaleRepo struct {
	mu        sync.Mutex
	sum       float64
	sumErr    error
	firstGate chan struct{} // when non-nil, the first SumAmounts call parks here
	firstSum  float64       // value that first call returns once released
	sumCalls  int
	insErr    error
	inserted  []*domain.Sale
}

func (r *stubSaleRepo) SumAmounts(_ context.Context, _ string) (float64, error) {
	r.mu.Lock()
	r.sumCalls++
	first := r.sumCalls == 1 && r.firstGate != nil
	r.mu.Unlock()

	if first {
		<-r.firstGate
		return r.firstSum, nil
	}
	if r.sumErr != nil {
		return 0, r.sumErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sum, nil
}

func (r *stubSaleRepo) Insert(_ context.Context, s *domain.Sale) error {
	if r.insErr != nil {
		return r.insErr
	}
	r.mu.Lock()
	r.inserted = append(r.inserted, s)
	r.mu.Unlock()
	return nil
}

func (r *stubSaleRepo) ListByReferral(_ context.Context, _, ref string) ([]*domain.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Sale
	for _, s := range r.inserted {
		if strings.Contains(s.Description, "[ref:"+ref+"]") {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) ListByTenant(_ context.Context, _ string) ([]*domain.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Sale(nil), r.inserted...), nil
}

type stubReservationRepo struct {
	mu         sync.Mutex
	checkedIn  int
	countQueue []int // when non-empty, successive CountCheckedIn calls pop from here
	countErr   error
	list       []*domain.Reservation
	updateErr  error
	updated    []string
}

func (r *stubReservationRepo) CountCheckedIn(_ context.Context, _ string) (int, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.countQueue) > 0 {
		v := r.countQueue[0]
		r.countQueue = r.countQueue[1:]
		return v, nil
	}
	return r.checkedIn, nil
}

func (r *stubReservationRepo) List(_ context.Context, _ string) ([]*domain.Reservation, error) {
	return r.list, nil
}

func (r *stubReservationRepo) FindByID(_ context.Context, _, id string) (*domain.Reservation, error) {
	for _, res := range r.list {
		if res.ID == id {
			return res, nil
		}
	}
	return nil, domain.ErrReservationNotFound
}

func (r *stubReservationRepo) UpdateStatus(_ context.Context, id string, _ domain.ReservationStatus) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updated = append(r.updated, id)
	return nil
}

type stubSubscription struct{ stops int }

func (s *stubSubscription) Stop() { s.stops++ }

type stubFeed struct {
	saleErr error
	resErr  error
	saleSub stubSubscription
	resSub  stubSubscription
	saleFn  func(ports.SaleEvent)
	resFn   func(ports.ReservationChange)
}

func (f *stubFeed) SubscribeSales(_ context.Context, _ string, fn func(ports.SaleEvent)) (ports.Subscription, error) {
	if f.saleErr != nil {
		return nil, f.saleErr
	}
	f.saleFn = fn
	return &f.saleSub, nil
}

func (f *stubFeed) SubscribeReservations(_ context.Context, _ string, fn func(ports.ReservationChange)) (ports.Subscription, error) {
	if f.resErr != nil {
		return nil, f.resErr
	}
	f.resFn = fn
	return &f.resSub, nil
}

type stubReferralStore struct {
	code    string
	saveErr error
	loadErr error
}

func (s *stubReferralStore) Save(_ context.Context, code string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.code = code
	return nil
}

func (s *stubReferralStore) Load(_ context.Context) (string, error) {
	if s.loadErr != nil {
		return "", s.loadErr
	}
	return s.code, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(msg string) {
	n.mu.Lock()
	n.messages = append(n.messages, msg)
	n.mu.Unlock()
}

// ---------------------------------------------------------------------------
// Helper
// ---------------------------------------------------------------------------

func newAggregator(sales *stubSaleRepo, res *stubReservationRepo, feed *stubFeed, refs *stubReferralStore) *MetricsAggregator {
	tracker := NewReferralTracker(refs, ports.NopNotifier{}, zerolog.Nop())
	return NewMetricsAggregator(sales, res, feed, tracker, &recordingNotifier{}, "club_1",
		domain.MetricsSnapshot{}, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestReconcile_ReplacesRevenueAndCheckins(t *testing.T) {
	sales := &stubSaleRepo{sum: 1234.50}
	res := &stubReservationRepo{checkedIn: 42}
	agg := newAggregator(sales, res, &stubFeed{}, &stubReferralStore{})

	if err := agg.Reconcile(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := agg.Snapshot()
	if snap.Revenue != 1234.50 {
		t.Errorf("revenue = %v, want 1234.50", snap.Revenue)
	}
	if snap.Checkins != 42 {
		t.Errorf("checkins = %d, want 42", snap.Checkins)
	}
}

func TestReconcile_ErrorLeavesSnapshotUntouched(t *testing.T) {
	sales := &stubSaleRepo{sum: 100}
	res := &stubReservationRepo{checkedIn: 5}
	agg := newAggregator(sales, res, &stubFeed{}, &stubReferralStore{})

	if err := agg.Reconcile(context.Background()); err != nil {
		t.Fatalf("seed reconcile failed: %v", err)
	}

	res.countErr = errors.New("backend down")
	sales.mu.Lock()
	sales.sum = 999
	sales.mu.Unlock()
	if err := agg.Reconcile(context.Background()); err == nil {
		t.Fatalf("expected error")
	}

	snap := agg.Snapshot()
	if snap.Revenue != 100 || snap.Checkins != 5 {
		t.Errorf("snapshot overwritten on failed reconcile: %+v", snap)
	}
}

func TestReconcile_StaleResponseDropped(t *testing.T) {
	gate := make(chan struct{})
	// Request #1 parks inside its aggregate query and will eventually report
	// the older values; request #2 completes first with the newer ones.
	sales := &stubSaleRepo{sum: 222, firstGate: gate, firstSum: 111}
	res := &stubReservationRepo{countQueue: []int{2, 1}}
	agg := newAggregator(sales, res, &stubFeed{}, &stubReferralStore{})

	done1 := make(chan error, 1)
	go func() { done1 <- agg.Reconcile(context.Background()) }()

	// Wait for #1 to reach the query so #2 is issued strictly later.
	for {
		sales.mu.Lock()
		started := sales.sumCalls >= 1
		sales.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if err := agg.Reconcile(context.Background()); err != nil {
		t.Fatalf("reconcile #2 failed: %v", err)
	}

	// Release #1: its response arrives after #2 and must be discarded.
	close(gate)
	if err := <-done1; err != nil {
		t.Fatalf("reconcile #1 failed: %v", err)
	}

	snap := agg.Snapshot()
	if snap.Revenue != 222 || snap.Checkins != 2 {
		t.Errorf("stale reconciliation overwrote newer one: %+v", snap)
	}
}

func TestHandleSaleInserted_AppliesDelta(t *testing.T) {
	agg := newAggregator(&stubSaleRepo{}, &stubReservationRepo{}, &stubFeed{}, &stubReferralStore{})

	agg.HandleSaleInserted(ports.SaleEvent{ID: "s1", Amount: 85, Type: domain.SaleTypeUpsell})

	snap := agg.Snapshot()
	if snap.Revenue != 85 {
		t.Errorf("revenue = %v, want 85", snap.Revenue)
	}
	if snap.PendingTickets != 1 {
		t.Errorf("pendingTickets = %d, want 1", snap.PendingTickets)
	}
}

func TestHandleReservationUpdated_EdgeTriggered(t *testing.T) {
	agg := newAggregator(&stubSaleRepo{}, &stubReservationRepo{}, &stubFeed{}, &stubReferralStore{})

	fresh := ports.ReservationChange{
		Old: domain.Reservation{ID: "r1", Status: domain.ReservationPending},
		New: domain.Reservation{ID: "r1", Status: domain.ReservationCheckedIn, CustomerName: "Ana"},
	}
	agg.HandleReservationUpdated(fresh)
	if got := agg.Snapshot().Checkins; got != 1 {
		t.Fatalf("checkins = %d, want 1", got)
	}

	// Same transition again: record is already checked in, must not count.
	repeat := ports.ReservationChange{
		Old: domain.Reservation{ID: "r1", Status: domain.ReservationCheckedIn},
		New: domain.Reservation{ID: "r1", Status: domain.ReservationCheckedIn},
	}
	agg.HandleReservationUpdated(repeat)
	if got := agg.Snapshot().Checkins; got != 1 {
		t.Errorf("checkins = %d after repeat update, want 1", got)
	}
}

func TestCommitSale_NeverMutatesSnapshot(t *testing.T) {
	sales := &stubSaleRepo{}
	agg := newAggregator(sales, &stubReservationRepo{}, &stubFeed{}, &stubReferralStore{})

	// Live feed mocked to never fire: revenue must stay put.
	if err := agg.CommitSale(context.Background(), 100, domain.SaleTypeUpsell); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if snap := agg.Snapshot(); snap.Revenue != 0 || snap.PendingTickets != 0 {
		t.Fatalf("commit mutated snapshot: %+v", snap)
	}
	if len(sales.inserted) != 1 {
		t.Fatalf("expected 1 inserted sale, got %d", len(sales.inserted))
	}

	// Only the echoed feed event moves the snapshot, by exactly the amount.
	agg.HandleSaleInserted(ports.SaleEvent{ID: sales.inserted[0].ID, Amount: 100, Type: domain.SaleTypeUpsell})
	snap := agg.Snapshot()
	if snap.Revenue != 100 {
		t.Errorf("revenue = %v, want 100", snap.Revenue)
	}
	if snap.PendingTickets != 1 {
		t.Errorf("pendingTickets = %d, want 1", snap.PendingTickets)
	}
}

func TestCommitSale_TagsStoredReferralCode(t *testing.T) {
	sales := &stubSaleRepo{}
	agg := newAggregator(sales, &stubReservationRepo{}, &stubFeed{}, &stubReferralStore{code: "promo7"})

	if err := agg.CommitSale(context.Background(), 250, domain.SaleTypeUpsell); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if !strings.Contains(sales.inserted[0].Description, "promo7") {
		t.Errorf("description %q missing referral tag", sales.inserted[0].Description)
	}
}

func TestCommitSale_RejectsNonPositiveAmount(t *testing.T) {
	sales := &stubSaleRepo{}
	agg := newAggregator(sales, &stubReservationRepo{}, &stubFeed{}, &stubReferralStore{})

	for _, amount := range []float64{0, -10} {
		if err := agg.CommitSale(context.Background(), amount, domain.SaleTypeDirect); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("CommitSale(%v) = %v, want ErrInvalidAmount", amount, err)
		}
	}
	if len(sales.inserted) != 0 {
		t.Errorf("invalid amounts reached the repository")
	}
}

func TestStartStop_SubscriptionLifecycle(t *testing.T) {
	feed := &stubFeed{}
	agg := newAggregator(&stubSaleRepo{}, &stubReservationRepo{}, feed, &stubReferralStore{})

	if err := agg.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	// Second start while running is a no-op.
	if err := agg.Start(context.Background()); err != nil {
		t.Fatalf("second start failed: %v", err)
	}

	agg.Stop()
	agg.Stop() // idempotent
	if feed.saleSub.stops != 1 || feed.resSub.stops != 1 {
		t.Errorf("subscriptions stopped %d/%d times, want 1/1", feed.saleSub.stops, feed.resSub.stops)
	}
}

func TestStart_PartialFailureReleasesFirstSubscription(t *testing.T) {
	feed := &stubFeed{resErr: errors.New("stream unavailable")}
	agg := newAggregator(&stubSaleRepo{}, &stubReservationRepo{}, feed, &stubReferralStore{})

	if err := agg.Start(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if feed.saleSub.stops != 1 {
		t.Errorf("sales subscription not released after partial failure")
	}
}
