package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nightflow/nightflow-core/internal/core/domain"
	"github.com/nightflow/nightflow-core/internal/core/ports"
)

const collectionProfiles = "profiles"

type ProfileRepository struct {
	col *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{col: db.Collection(collectionProfiles)}
}

type profileDoc struct {
	UserID       string `bson:"user_id,omitempty"`
	Tenant       string `bson:"tenant,omitempty"`
	Role         string `bson:"role,omitempty"`
	PrimaryColor string `bson:"primary_color,omitempty"`
}

// FindByUserID retrieves the profile record for an authenticated user.
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*ports.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc profileDoc
	err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &ports.Profile{Role: doc.Role, PrimaryColor: doc.PrimaryColor}, nil
}

// FindByTenant retrieves the branding profile for a tenant slug.
func (r *ProfileRepository) FindByTenant(ctx context.Context, tenant string) (*ports.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc profileDoc
	err := r.col.FindOne(ctx, bson.M{"tenant": tenant}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &ports.Profile{Role: doc.Role, PrimaryColor: doc.PrimaryColor}, nil
}

// EnsureIndexes creates necessary indexes on the profiles collection.
func (r *ProfileRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "tenant", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
