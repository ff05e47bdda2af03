package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ReferralStore holds the last captured referral code per client instance.
// Key format: referral:<tenant>:<client_id>. Save overwrites unconditionally
// and the key never expires, so attribution survives long-idle clients.
type ReferralStore struct {
	client   *redis.Client
	tenantID string
	clientID string
}

// NewReferralStore creates a ReferralStore scoped to one tenant and client.
func NewReferralStore(client *redis.Client, tenantID, clientID string) *ReferralStore {
	return &ReferralStore{client: client, tenantID: tenantID, clientID: clientID}
}

// Save records the code, replacing any previously captured one.
func (s *ReferralStore) Save(ctx context.Context, code string) error {
	if err := s.client.Set(ctx, s.key(), code, 0).Err(); err != nil {
		return fmt.Errorf("save referral: %w", err)
	}
	return nil
}

// Load returns the stored code, or "" when none has been captured.
func (s *ReferralStore) Load(ctx context.Context) (string, error) {
	code, err := s.client.Get(ctx, s.key()).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load referral: %w", err)
	}
	return code, nil
}

func (s *ReferralStore) key() string {
	return fmt.Sprintf("referral:%s:%s", s.tenantID, s.clientID)
}
