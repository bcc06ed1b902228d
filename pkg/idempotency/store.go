// Package idempotency provides a redis-backed claim-once primitive, used to
// make payment references single-use and to deduplicate consumed kafka
// messages.
package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// MessageKey identifies a consumed kafka message.
func (s *Store) MessageKey(topic string, partition int, offset int64) string {
	return fmt.Sprintf("idem:msg:%s:%d:%d", topic, partition, offset)
}

// PaymentKey identifies a payment reference presented at checkout.
func (s *Store) PaymentKey(ref string) string {
	return fmt.Sprintf("idem:pay:%s", ref)
}

// Claim marks key as used. It returns true exactly once per key within the
// store's TTL; subsequent calls return false.
func (s *Store) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Release frees a claimed key so it can be claimed again, used when the
// operation the claim protected was rolled back.
func (s *Store) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// Seen reports whether key was already claimed, claiming it as a side effect.
func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := s.Claim(ctx, key)
	if err != nil {
		return false, err
	}
	return !ok, nil
}
