package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-storefront/internal/models"
)

const intentKeyPrefix = "checkout:intent:"

// RedisIntentStore keeps at most one pending CheckoutIntent per checkout
// session. Writing always overwrites (last-write-wins, an abandoned cart is
// simply replaced) and entries expire after the configured TTL.
type RedisIntentStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisIntentStore(client *redis.Client, ttl time.Duration) *RedisIntentStore {
	return &RedisIntentStore{Client: client, TTL: ttl}
}

func intentKey(sessionID string) string {
	return intentKeyPrefix + sessionID
}

func (s *RedisIntentStore) SaveIntent(ctx context.Context, sessionID string, intent models.CheckoutIntent) error {
	data, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("failed to marshal intent: %w", err)
	}
	if err := s.Client.Set(ctx, intentKey(sessionID), data, s.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store intent: %w", err)
	}
	return nil
}

// GetIntent returns the pending intent for the session, or
// ErrNoActiveCheckout when the slot is empty or expired.
func (s *RedisIntentStore) GetIntent(ctx context.Context, sessionID string) (*models.CheckoutIntent, error) {
	data, err := s.Client.Get(ctx, intentKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, ErrNoActiveCheckout
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read intent: %w", err)
	}

	var intent models.CheckoutIntent
	if err := json.Unmarshal(data, &intent); err != nil {
		return nil, fmt.Errorf("failed to unmarshal intent: %w", err)
	}
	return &intent, nil
}

func (s *RedisIntentStore) DeleteIntent(ctx context.Context, sessionID string) error {
	return s.Client.Del(ctx, intentKey(sessionID)).Err()
}
