package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-backend/internal/domain/ledger"
)

const selectionKeyPrefix = "cart:selection:"

// Session stores the cart page selection per user in a Redis set
type Session struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewSession creates a selection store
func NewSession(redisClient *redis.Client, ttl time.Duration) *Session {
	return &Session{redisClient: redisClient, ttl: ttl}
}

func selectionKey(email string) string {
	return selectionKeyPrefix + email
}

// Load returns the stored selection. Malformed members are skipped.
func (s *Session) Load(ctx context.Context, email string) ([]ledger.ItemID, error) {
	members, err := s.redisClient.SMembers(ctx, selectionKey(email)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load selection: %w", err)
	}

	ids := make([]ledger.ItemID, 0, len(members))
	for _, m := range members {
		id, err := ledger.ParseItemID(m)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Save replaces the stored selection
func (s *Session) Save(ctx context.Context, email string, ids []ledger.ItemID) error {
	key := selectionKey(email)
	_, err := s.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(ids) == 0 {
			return nil
		}

		members := make([]interface{}, len(ids))
		for i, id := range ids {
			members[i] = id.String()
		}
		pipe.SAdd(ctx, key, members...)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	return nil
}

// Clear drops the stored selection
func (s *Session) Clear(ctx context.Context, email string) error {
	if err := s.redisClient.Del(ctx, selectionKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to clear selection: %w", err)
	}
	return nil
}
