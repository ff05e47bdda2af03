package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nightflow/nightflow-core/internal/core/domain"
)

const collectionSales = "sales"

type SaleRepository struct {
	col *mongo.Collection
}

func NewSaleRepository(db *mongo.Database) *SaleRepository {
	return &SaleRepository{col: db.Collection(collectionSales)}
}

// SumAmounts aggregates the total of every sale recorded for the tenant.
func (r *SaleRepository) SumAmounts(ctx context.Context, tenantID string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tenant_id": tenantID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount"},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sum sales: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("decode sales total: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// Insert appends a sale to the ledger. The write surfaces on the change
// stream, which is how dashboards learn about it.
func (r *SaleRepository) Insert(ctx context.Context, sale *domain.Sale) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, sale)
	return err
}

// ListByReferral returns the tenant's sales whose description carries the
// given referral tag, newest first.
func (r *SaleRepository) ListByReferral(ctx context.Context, tenantID, refCode string) ([]*domain.Sale, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"tenant_id": tenantID,
		"description": primitive.Regex{
			Pattern: regexp.QuoteMeta(fmt.Sprintf("[ref:%s]", refCode)),
		},
	}
	return r.list(ctx, filter)
}

// ListByTenant returns the tenant's full ledger, newest first.
func (r *SaleRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Sale, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.list(ctx, bson.M{"tenant_id": tenantID})
}

func (r *SaleRepository) list(ctx context.Context, filter bson.M) ([]*domain.Sale, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer cursor.Close(ctx)

	var sales []*domain.Sale
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, fmt.Errorf("decode sales: %w", err)
	}
	return sales, nil
}

// EnsureIndexes creates necessary indexes on the sales collection.
func (r *SaleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
