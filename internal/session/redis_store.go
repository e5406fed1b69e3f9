package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/movix/movie-booking/internal/booking"
)

// RedisStore keeps committed orders in Redis so a committed order
// survives a server restart or a page reload for the lifetime of the
// session TTL. Keys are namespaced under a prefix; each write refreshes
// the TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore builds a Redis-backed handoff store. The client must be
// non-nil; callers fall back to a MemoryStore when Redis is unavailable.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "pending-order"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(sessionID string) string { return s.prefix + ":" + sessionID }

// PutOrder serializes the order and writes it with the session TTL.
func (s *RedisStore) PutOrder(ctx context.Context, sessionID string, order *booking.PendingOrder) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(sessionID), payload, s.ttl).Err()
}

// GetOrder reads the committed order; a missing or expired key maps to
// booking.ErrNoPendingOrder.
func (s *RedisStore) GetOrder(ctx context.Context, sessionID string) (*booking.PendingOrder, error) {
	payload, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, booking.ErrNoPendingOrder
		}
		return nil, err
	}
	var order booking.PendingOrder
	if err := json.Unmarshal(payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteOrder removes the key. Deleting a missing key is not an error.
func (s *RedisStore) DeleteOrder(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}
