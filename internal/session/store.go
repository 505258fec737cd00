// Package session holds the server side of the refresh-token
// lifecycle: one cached record per user, keyed refresh_token:<userId>,
// whose stored token string is the single source of truth for whether
// a refresh token is still usable. Overwriting the record is the
// revocation mechanism; deleting it is forced logout.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Record mirrors the cached session state. Role and SchoolID are kept
// alongside the token so an access token can be reissued on refresh
// without a database read.
type Record struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	SchoolID  *int64    `json:"schoolId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the cache capability the auth core consumes. Get returns
// (nil, nil) when no record exists; Delete of an absent key is not an
// error.
type Store interface {
	Put(ctx context.Context, userID int64, rec Record, ttl time.Duration) error
	Get(ctx context.Context, userID int64) (*Record, error)
	Delete(ctx context.Context, userID int64) error
}

func Key(userID int64) string {
	return fmt.Sprintf("refresh_token:%d", userID)
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, userID int64, rec Record, ttl time.Duration) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, Key(userID), payload, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, userID int64) (*Record, error) {
	payload, err := s.client.Get(ctx, Key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *RedisStore) Delete(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, Key(userID)).Err()
}
