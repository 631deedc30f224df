// Package elevation stores the short-lived step-up flags set by a
// successful OTP check. The store is deliberately a tiny TTL'd
// key-value interface so that handlers and middleware never talk to a
// process-global cache: the Redis implementation is used in
// production, the in-memory one when Redis is unreachable and in tests.
package elevation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a boolean flag store with per-key expiry. Get must treat
// an expired or never-set key as false; a stale "still elevated" read
// past the TTL is not acceptable, a stale "not yet elevated" read is.
type Store interface {
	Set(ctx context.Context, key string, ttl time.Duration) error
	Get(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// Connect dials Redis and returns the backing store for elevation
// flags. An unreachable server degrades to the in-process store so
// the API keeps serving; elevation state then does not survive a
// restart and is not shared across instances, which is acceptable for
// a flag that decays within minutes anyway.
func Connect(opts *redis.Options) Store {
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("elevation: redis unreachable (%v), using in-memory store", err)
		return NewMemoryStore()
	}
	return NewRedisStore(client)
}

// Key builds the flag key for a user. The format is part of the
// operational surface: monitoring tooling inspects these keys by name.
func Key(userID uint64) string {
	return fmt.Sprintf("otp_good_%d", userID)
}

// RedisStore keeps elevation flags in Redis with server-enforced
// expiry (SET ... EX), which makes TTL decay atomic across instances.
type RedisStore struct{ rdb *redis.Client }

func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{rdb: rdb} }

func (s *RedisStore) Set(ctx context.Context, key string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, "1", ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) (bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "1", nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
