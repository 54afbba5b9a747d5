package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:"

// RedisCartStore keeps each cart in a hash keyed by product ID, so a POS
// terminal can be restarted without losing the guest's pending selection.
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartStore creates a RedisCartStore. Carts expire ttl after their
// last save; zero keeps them forever.
func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return cartKeyPrefix + sessionID + ":items"
}

// Get loads the session's cart lines in position order.
func (s *RedisCartStore) Get(ctx context.Context, sessionID string) ([]CartItem, error) {
	fields, err := s.client.HGetAll(ctx, cartKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load cart %s: %w", sessionID, err)
	}
	items := make([]CartItem, 0, len(fields))
	for productID, raw := range fields {
		var item CartItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("failed to decode cart %s line %s: %w", sessionID, productID, err)
		}
		item.ProductID = productID
		items = append(items, item)
	}
	sortCartItems(items)
	return items, nil
}

// Save replaces the session's cart atomically.
func (s *RedisCartStore) Save(ctx context.Context, sessionID string, items []CartItem) error {
	key := cartKey(sessionID)
	values := make(map[string]interface{}, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to encode cart %s line %s: %w", sessionID, item.ProductID, err)
		}
		values[item.ProductID] = raw
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) == 0 {
			return nil
		}
		pipe.HSet(ctx, key, values)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save cart %s: %w", sessionID, err)
	}
	return nil
}

// Clear deletes the session's cart.
func (s *RedisCartStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", sessionID, err)
	}
	return nil
}
