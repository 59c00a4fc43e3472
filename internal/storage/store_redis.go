// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/wevote/internal/platform/constants"
	"github.com/taibuivan/wevote/internal/safesession"
)

// # Revocation List

// RedisRevoker implements [safesession.Revoker] using Redis keys that expire
// together with the token they name.
type RedisRevoker struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisRevoker creates a Redis-backed revocation list.
func NewRedisRevoker(client *redis.Client) *RedisRevoker {
	return &RedisRevoker{client: client, now: time.Now}
}

func revokedKey(tokenID string) string {
	return constants.RedisPrefixRevokedToken + tokenID
}

/*
Revoke stores tokenID until the token would have expired anyway.

Parameters:
  - context: context.Context
  - tokenID: the token's jti
  - until: the token's expiry

Returns:
  - error: Storage failures
*/
func (repository *RedisRevoker) Revoke(context context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(repository.now())

	// Already expired tokens cannot be replayed
	if ttl <= 0 {
		return nil
	}

	if err := repository.client.Set(context, revokedKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis_revoked_token_set_failed: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID was signed out.
func (repository *RedisRevoker) IsRevoked(context context.Context, tokenID string) (bool, error) {
	count, err := repository.client.Exists(context, revokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_revoked_token_get_failed: %w", err)
	}
	return count > 0, nil
}

var _ safesession.Revoker = (*RedisRevoker)(nil)
