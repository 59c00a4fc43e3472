// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and the
// store error contract of the session layer.
//
// # Classification
//
// PostgreSQL reports failures through SQLSTATE codes. The codes that matter to
// callers are mapped onto the sentinels in safesession; everything else stays
// an opaque storage failure.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/wevote/internal/safesession"
)

// Code returns the SQLSTATE of err, or "" when err did not come from the server.
func Code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// Constraint returns the violated constraint name, if any.
func Constraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// IsUniqueViolation reports a duplicate key.
func IsUniqueViolation(err error) bool {
	return Code(err) == pgerrcode.UniqueViolation
}

// IsForeignKeyViolation reports a reference to a missing row.
func IsForeignKeyViolation(err error) bool {
	return Code(err) == pgerrcode.ForeignKeyViolation
}

// IsRetryable reports failures a serializable transaction should simply rerun.
func IsRetryable(err error) bool {
	switch Code(err) {
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return true
	}
	return false
}

// Wrap inspects a database error and tags it with the matching store sentinel.
//
// # Mapping
//   - [pgx.ErrNoRows], foreign key violation: [safesession.ErrNotFound]
//   - unique violation: [safesession.ErrConflict]
//   - anything else: wrapped unchanged
//
// The action names the failed operation, following the "postgres_<repo>_<op>_failed"
// convention.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Already classified by a deeper layer
	if errors.Is(err, safesession.ErrNotFound) || errors.Is(err, safesession.ErrConflict) {
		return err
	}

	// 2. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) || IsForeignKeyViolation(err) {
		return fmt.Errorf("%s: %w: %w", action, safesession.ErrNotFound, err)
	}

	// 3. Uniqueness mapping
	if IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %w", action, safesession.ErrConflict, err)
	}

	// 4. Unknown query errors stay storage failures
	return fmt.Errorf("%s: %w", action, err)
}
