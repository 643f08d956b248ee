package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevokedTokenStore marks JWTs invalid between logout and their natural expiry.
type RevokedTokenStore struct {
	client *redis.Client
}

// NewRevokedTokenStore returns a redis-backed revocation list.
func NewRevokedTokenStore(client *redis.Client) *RevokedTokenStore {
	return &RevokedTokenStore{client: client}
}

func (s *RevokedTokenStore) key(token string) string {
	return fmt.Sprintf("auth:revoked:%s", token)
}

// Revoke stores the token until ttl elapses. Tokens already past expiry are skipped.
func (s *RevokedTokenStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, s.key(token), "1", ttl).Err()
}

// IsRevoked reports whether the token was revoked by a logout.
func (s *RevokedTokenStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	err := s.client.Get(ctx, s.key(token)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
