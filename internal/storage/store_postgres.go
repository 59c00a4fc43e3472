// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage (Postgres) implements the session Database and AdminDatabase
on PostgreSQL.

It performs no authorization of its own: every call arrives through the
safesession package, which has already decided the caller may make it.

# Schema Table Mapping
  - wevote.account: identity, statistics and equipped cosmetics.
  - wevote.poll, wevote.submission: polls and one submission per (poll, user).
    Tallies are computed live from submissions.
  - wevote.comment, wevote.reply: poll discussion.
  - wevote.cosmetic, wevote.ownedcosmetic: the cosmetic catalogue and ownership.
  - wevote.suggestion: user-proposed polls.
*/
package storage

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/wevote/internal/platform/dberr"
	"github.com/taibuivan/wevote/internal/platform/postgres"
	"github.com/taibuivan/wevote/internal/safesession"
)

// MaxTxAttempts bounds how often a transaction scope is rerun after a
// serialization failure or an ID collision.
const MaxTxAttempts = 3

// querier is the subset of pgx shared by the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// # Repository Implementation

// PostgresStore implements [safesession.Database] and [safesession.AdminDatabase] using pgx.
type PostgresStore struct {
	pool   *pgxpool.Pool
	db     querier
	runner postgres.TxRunner
	inTx   bool
}

// NewPostgresStore creates the Postgres implementation backed by pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool: pool,
		db:   pool,
		runner: postgres.TxRunner{
			Options:   pgx.TxOptions{IsoLevel: pgx.Serializable},
			Attempts:  MaxTxAttempts,
			Retryable: retryable,
		},
	}
}

// retryable accepts serialization failures and primary-key collisions on
// generated IDs. A collision on any other unique key is a real conflict.
func retryable(err error) bool {
	if dberr.IsRetryable(err) {
		return true
	}
	return dberr.IsUniqueViolation(err) && strings.HasSuffix(dberr.Constraint(err), "_pkey")
}

/*
InTx runs fn inside a serializable transaction.

Description: fn receives a store bound to the transaction. Nested calls reuse
the open transaction. The whole scope reruns up to [MaxTxAttempts] times when
Postgres reports a serialization failure.

Parameters:
  - context: context.Context
  - fn: the work to run atomically

Returns:
  - error: fn's error, or the commit failure
*/
func (repository *PostgresStore) InTx(context context.Context, fn func(tx safesession.Database) error) error {
	if repository.inTx {
		return fn(repository)
	}

	return repository.runner.Run(context, repository.pool, func(tx pgx.Tx) error {
		return fn(&PostgresStore{pool: repository.pool, db: tx, runner: repository.runner, inTx: true})
	})
}

var (
	_ safesession.Database      = (*PostgresStore)(nil)
	_ safesession.AdminDatabase = (*PostgresStore)(nil)
)
