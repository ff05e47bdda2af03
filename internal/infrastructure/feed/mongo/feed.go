// Package mongo implements the live feed on MongoDB change streams. Each
// subscription owns one watch cursor and one pump goroutine; stopping the
// subscription closes the cursor and joins the pump.
package mongo

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nightflow/nightflow-core/internal/core/domain"
	"github.com/nightflow/nightflow-core/internal/core/ports"
)

type LiveFeed struct {
	db  *mongo.Database
	log zerolog.Logger
}

func NewLiveFeed(db *mongo.Database, log zerolog.Logger) *LiveFeed {
	return &LiveFeed{db: db, log: log}
}

// subscription wraps one change-stream cursor. Stop is idempotent: the first
// call cancels the watch context and waits for the pump goroutine to drain.
type subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (s *subscription) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

// SubscribeSales watches inserts on the sales collection for one tenant and
// invokes fn for each.
func (f *LiveFeed) SubscribeSales(ctx context.Context, tenantID string, fn func(ports.SaleEvent)) (ports.Subscription, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"operationType":          "insert",
			"fullDocument.tenant_id": tenantID,
		}}},
	}

	watchCtx, cancel := context.WithCancel(ctx)
	stream, err := f.db.Collection("sales").Watch(watchCtx, pipeline)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch sales: %w", err)
	}

	sub := &subscription{cancel: cancel, done: make(chan struct{})}
	go f.pumpSales(watchCtx, stream, fn, sub.done)
	return sub, nil
}

// EnsurePreImages enables changeStreamPreAndPostImages on the reservations
// collection. Without pre-images, update events carry no before-image and are
// dropped by the pump, so check-in transitions would go uncounted until the
// next reconciliation.
func (f *LiveFeed) EnsurePreImages(ctx context.Context) error {
	err := f.db.RunCommand(ctx, bson.D{
		{Key: "collMod", Value: "reservations"},
		{Key: "changeStreamPreAndPostImages", Value: bson.M{"enabled": true}},
	}).Err()
	if err != nil {
		return fmt.Errorf("enable reservation pre-images: %w", err)
	}
	return nil
}

// SubscribeReservations watches updates on the reservations collection for one
// tenant and invokes fn with the (old, new) document pair. The collection must
// have changeStreamPreAndPostImages enabled so the pre-image is available.
func (f *LiveFeed) SubscribeReservations(ctx context.Context, tenantID string, fn func(ports.ReservationChange)) (ports.Subscription, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"operationType":          "update",
			"fullDocument.tenant_id": tenantID,
		}}},
	}
	opts := options.ChangeStream().
		SetFullDocument(options.UpdateLookup).
		SetFullDocumentBeforeChange(options.WhenAvailable)

	watchCtx, cancel := context.WithCancel(ctx)
	stream, err := f.db.Collection("reservations").Watch(watchCtx, pipeline, opts)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch reservations: %w", err)
	}

	sub := &subscription{cancel: cancel, done: make(chan struct{})}
	go f.pumpReservations(watchCtx, stream, fn, sub.done)
	return sub, nil
}

type saleChangeDoc struct {
	FullDocument domain.Sale `bson:"fullDocument"`
}

func (f *LiveFeed) pumpSales(ctx context.Context, stream *mongo.ChangeStream, fn func(ports.SaleEvent), done chan struct{}) {
	defer close(done)
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		var change saleChangeDoc
		if err := stream.Decode(&change); err != nil {
			f.log.Error().Err(err).Msg("decode sale change")
			continue
		}
		sale := change.FullDocument
		fn(ports.SaleEvent{
			ID:       sale.ID,
			TenantID: sale.TenantID,
			Amount:   sale.Amount,
			Type:     sale.Type,
		})
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		f.log.Error().Err(err).Msg("sales change stream terminated")
	}
}

type reservationChangeDoc struct {
	FullDocument             domain.Reservation `bson:"fullDocument"`
	FullDocumentBeforeChange domain.Reservation `bson:"fullDocumentBeforeChange"`
}

// reservationChange converts a decoded event into the (old, new) pair. Events
// without a before-image report ok=false and must not be delivered: a zero Old
// has no status, so every update would look like a fresh check-in transition.
func (d reservationChangeDoc) reservationChange() (ports.ReservationChange, bool) {
	if d.FullDocumentBeforeChange.Status == "" {
		return ports.ReservationChange{}, false
	}
	return ports.ReservationChange{
		Old: d.FullDocumentBeforeChange,
		New: d.FullDocument,
	}, true
}

func (f *LiveFeed) pumpReservations(ctx context.Context, stream *mongo.ChangeStream, fn func(ports.ReservationChange), done chan struct{}) {
	defer close(done)
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		var change reservationChangeDoc
		if err := stream.Decode(&change); err != nil {
			f.log.Error().Err(err).Msg("decode reservation change")
			continue
		}
		ch, ok := change.reservationChange()
		if !ok {
			f.log.Warn().Str("reservation_id", change.FullDocument.ID).
				Msg("reservation update without pre-image, skipping")
			continue
		}
		fn(ch)
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		f.log.Error().Err(err).Msg("reservations change stream terminated")
	}
}
