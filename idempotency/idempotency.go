// Package idempotency lets a client retry order placement safely. A request
// carrying an Idempotency-Key reserves the key in Redis before the order is
// written. Retries with the same key either replay the stored order id or,
// while the first request is still running, are turned away.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const pending = "pending"

// ErrInFlight is returned when another request holding the same key has not
// finished yet
var ErrInFlight = errors.New("request with this idempotency key is still in progress")

type Store struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{Client: client, TTL: ttl}
}

// Key scopes a client key to the user so two users cannot collide
func (s *Store) Key(userID uint, key string) string {
	return "idempotency:" + strconv.FormatUint(uint64(userID), 10) + ":" + key
}

// Reserve claims key for userID. A zero orderID with a nil error means the
// caller owns the key and must later call Complete or Release. A non-zero
// orderID is the result of an earlier request with the same key.
func (s *Store) Reserve(ctx context.Context, userID uint, key string) (uint, error) {
	k := s.Key(userID, key)
	ok, err := s.Client.SetNX(ctx, k, pending, s.TTL).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if ok {
		return 0, nil
	}

	val, err := s.Client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET, try once more
		return s.Reserve(ctx, userID, key)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if val == pending {
		return 0, ErrInFlight
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt idempotency record %q: %w", val, err)
	}
	return uint(id), nil
}

// Complete stores the order created under key
func (s *Store) Complete(ctx context.Context, userID uint, key string, orderID uint) error {
	return s.Client.Set(ctx, s.Key(userID, key), strconv.FormatUint(uint64(orderID), 10), s.TTL).Err()
}

// Release drops a reservation after a failed request so the client can retry
func (s *Store) Release(ctx context.Context, userID uint, key string) error {
	return s.Client.Del(ctx, s.Key(userID, key)).Err()
}
