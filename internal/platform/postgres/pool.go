// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres opens the PostgreSQL pool and runs the serializable
// transactions the storage layer relies on. Queries live in internal/storage.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/wevote/internal/platform/constants"
)

// Pool sizing. Every request touches the database at most a handful of
// times, so a small warm pool covers the expected load.
const (
	maxConns          = 25
	minConns          = 5
	maxConnLifetime   = time.Hour
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = time.Minute
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
)

// NewPool parses dsn, opens the pool and pings it once.
//
// Every connection is tagged with the service name for pg_stat_activity and
// gets a statement_timeout equal to the request deadline, so a query cannot
// outlive the request that issued it.
func NewPool(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = minConns
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	runtime := poolConfig.ConnConfig.RuntimeParams
	runtime["application_name"] = constants.AppName
	runtime["statement_timeout"] = strconv.FormatInt(constants.GlobalRequestTimeout.Milliseconds(), 10)

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_connected",
		slog.String("host", poolConfig.ConnConfig.Host),
		slog.String("database", poolConfig.ConnConfig.Database),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
	)

	return pool, nil
}

// Ping reports whether the pool can reach PostgreSQL within pingTimeout.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}

// # Transactions

// TxRunner runs callbacks inside transactions with bounded retry.
type TxRunner struct {
	// Options is applied to every transaction, e.g. serializable isolation.
	Options pgx.TxOptions
	// Attempts bounds how often one callback runs. Values below 1 mean 1.
	Attempts int
	// Retryable decides whether a failed attempt may be rerun.
	Retryable func(error) bool
}

/*
Run executes fn inside a transaction on pool.

Description: The transaction commits when fn returns nil and rolls back
otherwise. When the attempt fails with an error Retryable accepts, a fresh
transaction reruns fn, up to Attempts times in total.

Parameters:
  - ctx: cancels the whole loop
  - pool: source of connections
  - fn: the work; it must only use the tx it is given

Returns:
  - error: the last attempt's error
*/
func (runner TxRunner) Run(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	attempts := runner.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = pgx.BeginTxFunc(ctx, pool, runner.Options, fn)
		if err == nil {
			return nil
		}
		if runner.Retryable == nil || !runner.Retryable(err) || ctx.Err() != nil {
			return err
		}
	}

	return fmt.Errorf("postgres: transaction failed after %d attempts: %w", attempts, err)
}
