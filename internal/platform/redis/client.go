// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis connects to the Redis instance that holds the token revocation
list.

A signed-out token ID is written with a TTL equal to the token's remaining
lifetime, so the list never needs pruning. Every authenticated request reads
it, which is why it lives here rather than in PostgreSQL.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/wevote/internal/platform/constants"
)

const (
	dialTimeout = 3 * time.Second

	// Revocation lookups sit on the request path; fail fast rather than queue.
	ioTimeout   = 500 * time.Millisecond
	pingTimeout = 2 * time.Second

	poolSize     = 10
	minIdleConns = 2
)

// NewClient parses redisURL, dials, and verifies the connection with a PING.
// The returned client is named after the service so it is identifiable in
// CLIENT LIST.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.ClientName = constants.AppName
	options.PoolSize = poolSize
	options.MinIdleConns = minIdleConns
	options.DialTimeout = dialTimeout
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Ping reports whether Redis answers within pingTimeout. It backs the
// readiness probe.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}
