// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the SQL files under data/migrations with
// golang-migrate. The API runs [RunUp] at startup so it never serves traffic
// against an older schema; the storage integration tests also use [RunDown]
// to prove the down files undo everything.
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ErrDirty means a previous run failed halfway. golang-migrate refuses to
// continue until the version is forced by hand.
var ErrDirty = errors.New("migration: database is dirty")

// RunUp applies every pending up migration. An up-to-date schema is not an error.
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	return run(dsn, migrationsPath, logger, func(migrator *migrate.Migrate, from uint) error {
		if err := migrator.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				logger.Info("migration_up_to_date", slog.Uint64("version", uint64(from)))
				return nil
			}
			return fmt.Errorf("migration: up: %w", err)
		}

		to, _, _ := migrator.Version()
		logger.Info("migration_applied", slog.Uint64("from_version", uint64(from)), slog.Uint64("to_version", uint64(to)))
		return nil
	})
}

// RunDown reverts every applied migration.
func RunDown(dsn string, migrationsPath string, logger *slog.Logger) error {
	return run(dsn, migrationsPath, logger, func(migrator *migrate.Migrate, from uint) error {
		if err := migrator.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration: down: %w", err)
		}

		logger.Info("migration_reverted", slog.Uint64("from_version", uint64(from)))
		return nil
	})
}

// run opens a migrator, refuses a dirty database, hands over to step, and
// always closes both ends.
func run(dsn string, migrationsPath string, logger *slog.Logger, step func(*migrate.Migrate, uint) error) (err error) {
	migrator, err := migrate.New("file://"+migrationsPath, toPgx5URL(dsn))
	if err != nil {
		return fmt.Errorf("migration: open: %w", err)
	}
	migrator.Log = &slogBridge{logger: logger}

	defer func() {
		sourceErr, databaseErr := migrator.Close()
		if closeErr := errors.Join(sourceErr, databaseErr); closeErr != nil {
			logger.Warn("migration_close_failed", slog.Any("error", closeErr))
		}
	}()

	version, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: read version: %w", err)
	}
	if dirty {
		return fmt.Errorf("%w at version %d", ErrDirty, version)
	}

	return step(migrator, version)
}

// toPgx5URL rewrites postgres:// and postgresql:// URLs to the pgx5:// scheme
// that the pgx/v5 migrate driver registers. Anything else passes through.
func toPgx5URL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, found := strings.CutPrefix(dsn, scheme); found {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// slogBridge routes golang-migrate's progress lines to the debug log.
type slogBridge struct {
	logger *slog.Logger
}

func (bridge *slogBridge) Printf(format string, args ...any) {
	bridge.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), slog.String("component", "migrate"))
}

func (bridge *slogBridge) Verbose() bool {
	return bridge.logger.Enabled(context.Background(), slog.LevelDebug)
}
